package store

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-car-market/models"
)

const (
	createUser = `INSERT INTO users (user_name, full_name, email, password_hash)
    VALUES ($1, $2, $3, $4)
    RETURNING user_id, user_name, full_name, email, password_hash, created_at, updated_at;`

	findUserByIdentifier = `SELECT user_id, user_name, full_name, email, password_hash, created_at, updated_at
    FROM users
    WHERE user_name = $1 OR email = $2;`

	findUserByID = `SELECT user_id, user_name, full_name, email, password_hash, created_at, updated_at
    FROM users
    WHERE user_id = $1;`
)

// psql builds queries with PostgreSQL-style $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// carColumns are the cars-table columns selected by every car read query,
// followed by the owner projection columns from the joined users table.
var carColumns = []string{
	"c.car_id", "c.title", "c.description", "c.images", "c.tags",
	"c.owner_id", "c.created_at", "c.updated_at",
	"u.user_name", "u.full_name",
}

// carReturning is the RETURNING clause shared by car INSERT and UPDATE
// statements. No join is available there, so no owner columns.
const carReturning = "RETURNING car_id, title, description, images, tags, owner_id, created_at, updated_at"

func buildInsertCarQuery(car models.Car) (string, []any, error) {
	return psql.
		Insert("cars").
		Columns("car_id", "title", "description", "images", "tags", "owner_id").
		Values(car.CarID, car.Title, car.Description, jsonStrings(car.Images), jsonStrings(car.Tags), car.OwnerID).
		Suffix(carReturning).
		ToSql()
}

func buildSelectCarByIDQuery(carID string) (string, []any, error) {
	return psql.
		Select(carColumns...).
		From("cars c").
		Join("users u ON u.user_id = c.owner_id").
		Where(sq.Eq{"c.car_id": carID}).
		ToSql()
}

// buildSelectCarsQuery builds the paginated listing query. A nil ownerID
// selects across all users; page is 1-based.
func buildSelectCarsQuery(ownerID *int64, page int64, limit int64) (string, []any, error) {
	builder := psql.
		Select(carColumns...).
		From("cars c").
		Join("users u ON u.user_id = c.owner_id").
		OrderBy("c.created_at", "c.car_id").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit))

	if ownerID != nil {
		builder = builder.Where(sq.Eq{"c.owner_id": *ownerID})
	}

	return builder.ToSql()
}

func buildCountCarsQuery(ownerID *int64) (string, []any, error) {
	builder := psql.
		Select("COUNT(*)").
		From("cars")

	if ownerID != nil {
		builder = builder.Where(sq.Eq{"owner_id": *ownerID})
	}

	return builder.ToSql()
}

// buildUpdateCarQuery builds a partial UPDATE from the non-nil fields of
// update. updated_at is always touched.
func buildUpdateCarQuery(update models.CarUpdate) (string, []any, error) {
	builder := psql.
		Update("cars").
		Set("updated_at", sq.Expr("NOW()"))

	if update.Title != nil {
		builder = builder.Set("title", *update.Title)
	}
	if update.Description != nil {
		builder = builder.Set("description", *update.Description)
	}
	if update.Tags != nil {
		builder = builder.Set("tags", jsonStrings(*update.Tags))
	}
	if update.Images != nil {
		builder = builder.Set("images", jsonStrings(*update.Images))
	}

	return builder.
		Where(sq.Eq{"car_id": update.CarID}).
		Suffix(carReturning).
		ToSql()
}

func buildDeleteCarQuery(carID string) (string, []any, error) {
	return psql.
		Delete("cars").
		Where(sq.Eq{"car_id": carID}).
		ToSql()
}

// buildTitleExistsQuery checks title uniqueness. A non-empty excludeCarID
// leaves that listing out, which lets a car keep its own title on update.
func buildTitleExistsQuery(title string, excludeCarID string) (string, []any, error) {
	builder := psql.
		Select("1").
		From("cars").
		Where(sq.Eq{"title": title})

	if excludeCarID != "" {
		builder = builder.Where(sq.NotEq{"car_id": excludeCarID})
	}

	return builder.Limit(1).ToSql()
}
