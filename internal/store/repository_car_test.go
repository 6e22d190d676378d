// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCarID = "0190a6e2-0000-7000-8000-000000000001"

var (
	carReturningColumns = []string{"car_id", "title", "description", "images", "tags", "owner_id", "created_at", "updated_at"}
	carJoinedColumns    = append(append([]string{}, carReturningColumns...), "user_name", "full_name")
)

func newTestCarRepo(t *testing.T) (*carRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	l := logger.NewLogger("test")
	repo := &carRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func testCar() models.Car {
	return models.Car{
		CarID:       testCarID,
		Title:       "Honda Civic 2018",
		Description: "low mileage",
		Images:      []string{"https://media.example.com/a.jpg"},
		Tags:        []string{"sedan", "used"},
		OwnerID:     42,
	}
}

func TestCreateCar_Success(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	car := testCar()
	now := time.Now()

	rows := sqlmock.
		NewRows(carReturningColumns).
		AddRow(car.CarID, car.Title, car.Description, []byte(`["https://media.example.com/a.jpg"]`), []byte(`["sedan","used"]`), car.OwnerID, now, now)

	mock.ExpectQuery("INSERT INTO cars").
		WillReturnRows(rows)

	saved, err := repo.CreateCar(context.Background(), car)
	require.NoError(t, err)

	assert.Equal(t, car.CarID, saved.CarID)
	assert.Equal(t, []string{"https://media.example.com/a.jpg"}, saved.Images)
	assert.Equal(t, []string{"sedan", "used"}, saved.Tags)
	assert.Nil(t, saved.Owner)
}

func TestCreateCar_TitleUniqueViolation(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO cars").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateCar(context.Background(), testCar())
	assert.ErrorIs(t, err, ErrTitleAlreadyExists)
}

func TestCreateCar_NoRowReturned(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO cars").
		WillReturnRows(sqlmock.NewRows(carReturningColumns))

	_, err := repo.CreateCar(context.Background(), testCar())
	assert.ErrorIs(t, err, ErrCarNotSaved)
}

func TestGetCarByID_Success(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	now := time.Now()

	rows := sqlmock.
		NewRows(carJoinedColumns).
		AddRow(testCarID, "Honda Civic 2018", "low mileage", []byte(`["https://media.example.com/a.jpg"]`), []byte(`[]`), 42, now, now, "jdoe", "John Doe")

	mock.ExpectQuery("SELECT (.+) FROM cars c JOIN users u").
		WithArgs(testCarID).
		WillReturnRows(rows)

	car, err := repo.GetCarByID(context.Background(), testCarID)
	require.NoError(t, err)

	assert.Equal(t, int64(42), car.OwnerID)
	require.NotNil(t, car.Owner)
	assert.Equal(t, "jdoe", car.Owner.UserName)
	assert.Equal(t, "John Doe", car.Owner.FullName)
	assert.Empty(t, car.Tags)
}

func TestGetCarByID_NotFound(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM cars c JOIN users u").
		WithArgs(testCarID).
		WillReturnRows(sqlmock.NewRows(carJoinedColumns))

	_, err := repo.GetCarByID(context.Background(), testCarID)
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestGetCars_Success(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	now := time.Now()

	rows := sqlmock.
		NewRows(carJoinedColumns).
		AddRow(testCarID, "Honda Civic 2018", "low mileage", []byte(`["https://media.example.com/a.jpg"]`), []byte(`["sedan"]`), 42, now, now, "jdoe", "John Doe").
		AddRow("0190a6e2-0000-7000-8000-000000000002", "Mazda 3", "", []byte(`["https://media.example.com/b.jpg"]`), []byte(`[]`), 7, now, now, "msmith", "Mary Smith")

	mock.ExpectQuery("SELECT (.+) FROM cars c JOIN users u").
		WillReturnRows(rows)

	cars, err := repo.GetCars(context.Background(), nil, 1, 10)
	require.NoError(t, err)

	require.Len(t, cars, 2)
	assert.Equal(t, "jdoe", cars[0].Owner.UserName)
	assert.Equal(t, "msmith", cars[1].Owner.UserName)
}

func TestGetCars_ByOwner(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	ownerID := int64(42)

	mock.ExpectQuery("SELECT (.+) FROM cars c JOIN users u").
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows(carJoinedColumns))

	cars, err := repo.GetCars(context.Background(), &ownerID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, cars)
}

func TestGetCars_QueryError(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM cars c JOIN users u").
		WillReturnError(errors.New("db down"))

	_, err := repo.GetCars(context.Background(), nil, 1, 10)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestCountCars(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	t.Run("all owners", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM cars`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

		total, err := repo.CountCars(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(17), total)
	})

	t.Run("single owner", func(t *testing.T) {
		ownerID := int64(42)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM cars`).
			WithArgs(ownerID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		total, err := repo.CountCars(context.Background(), &ownerID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}

func TestUpdateCar_Success(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	title := "Honda Civic 2019"
	now := time.Now()

	rows := sqlmock.
		NewRows(carReturningColumns).
		AddRow(testCarID, title, "low mileage", []byte(`["https://media.example.com/a.jpg"]`), []byte(`["sedan"]`), 42, now, now)

	mock.ExpectQuery("UPDATE cars SET").
		WillReturnRows(rows)

	updated, err := repo.UpdateCar(context.Background(), models.CarUpdate{CarID: testCarID, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
}

func TestUpdateCar_NotFound(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	title := "Honda Civic 2019"

	mock.ExpectQuery("UPDATE cars SET").
		WillReturnRows(sqlmock.NewRows(carReturningColumns))

	_, err := repo.UpdateCar(context.Background(), models.CarUpdate{CarID: testCarID, Title: &title})
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestUpdateCar_TitleUniqueViolation(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	title := "Taken title"

	mock.ExpectQuery("UPDATE cars SET").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.UpdateCar(context.Background(), models.CarUpdate{CarID: testCarID, Title: &title})
	assert.ErrorIs(t, err, ErrTitleAlreadyExists)
}

func TestDeleteCar(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM cars").
			WithArgs(testCarID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteCar(context.Background(), testCarID)
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM cars").
			WithArgs(testCarID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteCar(context.Background(), testCarID)
		assert.ErrorIs(t, err, ErrCarNotFound)
	})
}

func TestTitleExists(t *testing.T) {
	repo, mock, db := newTestCarRepo(t)
	defer db.Close()

	t.Run("exists", func(t *testing.T) {
		mock.ExpectQuery("SELECT 1 FROM cars").
			WithArgs("Honda Civic 2018").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		exists, err := repo.TitleExists(context.Background(), "Honda Civic 2018", "")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("does not exist", func(t *testing.T) {
		mock.ExpectQuery("SELECT 1 FROM cars").
			WithArgs("Unknown").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

		exists, err := repo.TitleExists(context.Background(), "Unknown", "")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
