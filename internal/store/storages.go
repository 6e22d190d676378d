package store

import "github.com/MKhiriev/go-car-market/internal/logger"

// Storages bundles all repository implementations behind their interfaces.
type Storages struct {
	UserRepository UserRepository
	CarRepository  CarRepository
}

func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository: NewUserRepository(db, log),
		CarRepository:  NewCarRepository(db, log),
	}
}
