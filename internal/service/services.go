package service

import (
	"github.com/MKhiriev/go-car-market/internal/config"
	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/internal/media"
	"github.com/MKhiriev/go-car-market/internal/store"
)

type Services struct {
	AuthService AuthService
	CarService  CarService
}

func NewServices(storages *store.Storages, mediaClient media.Client, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService: NewAuthService(storages.UserRepository, cfg.Auth, logger),
		CarService:  NewCarService(storages.CarRepository, mediaClient, logger),
	}
}
