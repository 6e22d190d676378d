package service

//go:generate mockgen -source=interfaces.go -destination=../mock/services_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-car-market/models"
)

type AuthService interface {
	RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, credentials models.Credentials) (models.User, error)
	UserByID(ctx context.Context, userID int64) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// CarService implements the listing lifecycle. Image files referenced by
// the write operations are staged local files; the service hands them to
// the media host and stores the resulting public URLs.
type CarService interface {
	CreateCar(ctx context.Context, owner models.User, input models.CarInput, imageFiles []string) (models.Car, error)
	GetCarByID(ctx context.Context, carID string) (models.Car, error)
	ListCars(ctx context.Context, page int64, limit int64) (models.CarPage, error)
	ListOwnCars(ctx context.Context, owner models.User, page int64, limit int64) (models.CarPage, error)
	UpdateCar(ctx context.Context, owner models.User, carID string, input models.CarInput, imageFiles []string) (models.Car, error)
	DeleteCar(ctx context.Context, owner models.User, carID string) error
}
