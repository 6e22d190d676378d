package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/models"
	"github.com/jackc/pgerrcode"
)

// carRepository is the PostgreSQL-backed implementation of [CarRepository].
// It executes all listing CRUD operations against the "cars" table using
// the embedded [*DB] connection. Read queries join the "users" table to
// resolve the owner projection in a single round trip.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (car_id, owner_id, page, etc.).
type carRepository struct {
	*DB
	logger *logger.Logger
}

// NewCarRepository constructs a [CarRepository] backed by the provided
// database connection and logger.
func NewCarRepository(db *DB, logger *logger.Logger) CarRepository {
	logger.Debug().Msg("creating car repository")
	return &carRepository{
		DB:     db,
		logger: logger,
	}
}

// CreateCar persists a new listing and returns it with server-assigned
// timestamps. The identifier must already be set by the caller.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) on the title index → [ErrTitleAlreadyExists].
//   - Any other driver-level error → wrapped with [ErrExecutingStatement].
//   - INSERT that returns no row → [ErrCarNotSaved].
//   - Scan failure → wrapped with [ErrScanningRow].
func (r *carRepository) CreateCar(ctx context.Context, car models.Car) (models.Car, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertCarQuery(car)
	if err != nil {
		log.Err(err).Str("func", "carRepository.CreateCar").Msg("failed to build insert query")
		return models.Car{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.DB.QueryRowContext(ctx, query, args...)
	if rowErr := row.Err(); rowErr != nil {
		log.Err(rowErr).Str("func", "carRepository.CreateCar").Str("title", car.Title).Msg("failed to insert car")

		switch postgresError(rowErr) {
		case pgerrcode.UniqueViolation:
			return models.Car{}, ErrTitleAlreadyExists
		default:
			return models.Car{}, fmt.Errorf("%w: %w", ErrExecutingStatement, rowErr)
		}
	}

	saved, scanErr := scanCar(row, false)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			// INSERT ... RETURNING produced no row.
			log.Error().Str("func", "carRepository.CreateCar").Str("title", car.Title).Msg("insert returned no row")
			return models.Car{}, ErrCarNotSaved
		}
		log.Err(scanErr).Str("func", "carRepository.CreateCar").Msg("failed to scan inserted car")
		return models.Car{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return saved, nil
}

// GetCarByID returns the listing with the given identifier, owner resolved.
func (r *carRepository) GetCarByID(ctx context.Context, carID string) (models.Car, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectCarByIDQuery(carID)
	if err != nil {
		log.Err(err).Str("func", "carRepository.GetCarByID").Msg("failed to build select query")
		return models.Car{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.DB.QueryRowContext(ctx, query, args...)
	if rowErr := row.Err(); rowErr != nil {
		log.Err(rowErr).Str("func", "carRepository.GetCarByID").Str("car_id", carID).Msg("failed to execute select query")
		return models.Car{}, fmt.Errorf("%w: %w", ErrExecutingQuery, rowErr)
	}

	car, scanErr := scanCar(row, true)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Car{}, ErrCarNotFound
		}
		log.Err(scanErr).Str("func", "carRepository.GetCarByID").Str("car_id", carID).Msg("failed to scan car row")
		return models.Car{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return car, nil
}

// GetCars returns one page of listings in insertion order (created_at,
// car_id ascending), each with its owner resolved. A nil ownerID selects
// across all users.
//
// Returns an empty slice when the page is beyond the last record.
func (r *carRepository) GetCars(ctx context.Context, ownerID *int64, page int64, limit int64) ([]models.Car, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectCarsQuery(ownerID, page, limit)
	if err != nil {
		log.Err(err).Str("func", "carRepository.GetCars").Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := r.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "carRepository.GetCars").
			Int64("page", page).
			Int64("limit", limit).
			Msg("failed to execute query for listing cars")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	cars := make([]models.Car, 0, limit)

	for rows.Next() {
		car, scanErr := scanCar(rows, true)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "carRepository.GetCars").Msg("failed to scan car row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		cars = append(cars, car)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "carRepository.GetCars").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return cars, nil
}

// CountCars returns the number of listings, restricted to one owner when
// ownerID is non-nil.
func (r *carRepository) CountCars(ctx context.Context, ownerID *int64) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountCarsQuery(ownerID)
	if err != nil {
		log.Err(err).Str("func", "carRepository.CountCars").Msg("failed to build count query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var total int64
	if scanErr := r.DB.QueryRowContext(ctx, query, args...).Scan(&total); scanErr != nil {
		log.Err(scanErr).Str("func", "carRepository.CountCars").Msg("failed to count cars")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return total, nil
}

// UpdateCar applies the non-nil fields of update and returns the resulting
// listing. The owner projection is not resolved here; callers needing it
// should follow up with [carRepository.GetCarByID].
func (r *carRepository) UpdateCar(ctx context.Context, update models.CarUpdate) (models.Car, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateCarQuery(update)
	if err != nil {
		log.Err(err).Str("func", "carRepository.UpdateCar").Msg("failed to build update query")
		return models.Car{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.DB.QueryRowContext(ctx, query, args...)
	if rowErr := row.Err(); rowErr != nil {
		log.Err(rowErr).Str("func", "carRepository.UpdateCar").Str("car_id", update.CarID).Msg("failed to execute update statement")

		switch postgresError(rowErr) {
		case pgerrcode.UniqueViolation:
			return models.Car{}, ErrTitleAlreadyExists
		default:
			return models.Car{}, fmt.Errorf("%w: %w", ErrExecutingStatement, rowErr)
		}
	}

	updated, scanErr := scanCar(row, false)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Car{}, ErrCarNotFound
		}
		log.Err(scanErr).Str("func", "carRepository.UpdateCar").Str("car_id", update.CarID).Msg("failed to scan updated car")
		return models.Car{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return updated, nil
}

// DeleteCar removes the listing with the given identifier.
func (r *carRepository) DeleteCar(ctx context.Context, carID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteCarQuery(carID)
	if err != nil {
		log.Err(err).Str("func", "carRepository.DeleteCar").Msg("failed to build delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, execErr := r.DB.ExecContext(ctx, query, args...)
	if execErr != nil {
		log.Err(execErr).Str("func", "carRepository.DeleteCar").Str("car_id", carID).Msg("failed to execute delete statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrCarNotFound
	}

	return nil
}

// TitleExists reports whether another listing already uses the given title.
func (r *carRepository) TitleExists(ctx context.Context, title string, excludeCarID string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildTitleExistsQuery(title, excludeCarID)
	if err != nil {
		log.Err(err).Str("func", "carRepository.TitleExists").Msg("failed to build title lookup query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var one int
	if scanErr := r.DB.QueryRowContext(ctx, query, args...).Scan(&one); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return false, nil
		}
		log.Err(scanErr).Str("func", "carRepository.TitleExists").Str("title", title).Msg("failed to execute title lookup query")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return true, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCar reads one car row. withOwner must match the column set of the
// query that produced the row: true for joined reads, false for
// INSERT/UPDATE RETURNING rows.
func scanCar(row rowScanner, withOwner bool) (models.Car, error) {
	var (
		car    models.Car
		images jsonStrings
		tags   jsonStrings
		owner  models.Owner
	)

	dest := []any{
		&car.CarID, &car.Title, &car.Description, &images, &tags,
		&car.OwnerID, &car.CreatedAt, &car.UpdatedAt,
	}
	if withOwner {
		dest = append(dest, &owner.UserName, &owner.FullName)
	}

	if err := row.Scan(dest...); err != nil {
		return models.Car{}, err
	}

	car.Images = []string(images)
	car.Tags = []string(tags)
	if withOwner {
		car.Owner = &owner
	}

	return car, nil
}
