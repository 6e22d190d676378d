package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-car-market/models"
)

// UserRepository provides persistence operations for user accounts.
type UserRepository interface {
	// CreateUser persists a new user and returns it with server-assigned
	// fields populated. Returns ErrUserAlreadyExists on a unique violation.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByIdentifier looks a user up by user name or email. Either
	// argument may be empty. Returns ErrNoUserWasFound when no row matches.
	FindUserByIdentifier(ctx context.Context, userName string, email string) (models.User, error)

	// FindUserByID looks a user up by its internal identifier.
	// Returns ErrNoUserWasFound when no row matches.
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
}

// CarRepository provides persistence operations for car listings.
// Read methods resolve the owner projection via a join on the users table.
type CarRepository interface {
	// CreateCar persists a new listing and returns it with server-assigned
	// timestamps. Returns ErrTitleAlreadyExists on a title unique violation.
	CreateCar(ctx context.Context, car models.Car) (models.Car, error)

	// GetCarByID returns a single listing with its owner resolved.
	// Returns ErrCarNotFound when no row matches.
	GetCarByID(ctx context.Context, carID string) (models.Car, error)

	// GetCars returns one page of listings ordered by creation time,
	// oldest first. When ownerID is non-nil the result is restricted
	// to listings created by that user.
	GetCars(ctx context.Context, ownerID *int64, page int64, limit int64) ([]models.Car, error)

	// CountCars returns the total number of listings, restricted to one
	// owner when ownerID is non-nil.
	CountCars(ctx context.Context, ownerID *int64) (int64, error)

	// UpdateCar applies a partial update and returns the resulting listing.
	// Returns ErrCarNotFound when the listing does not exist and
	// ErrTitleAlreadyExists on a title unique violation.
	UpdateCar(ctx context.Context, update models.CarUpdate) (models.Car, error)

	// DeleteCar removes a listing. Returns ErrCarNotFound when no row
	// was deleted.
	DeleteCar(ctx context.Context, carID string) error

	// TitleExists reports whether a listing with the given title exists.
	// A non-empty excludeCarID leaves that listing out of consideration.
	TitleExists(ctx context.Context, title string, excludeCarID string) (bool, error)
}
