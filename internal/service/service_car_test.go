// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/internal/mock"
	"github.com/MKhiriev/go-car-market/internal/store"
	"github.com/MKhiriev/go-car-market/internal/utils"
	"github.com/MKhiriev/go-car-market/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const carID = "0190a6e2-0000-7000-8000-000000000001"

func newTestCarSvc(t *testing.T, ctrl *gomock.Controller) (CarService, *mock.MockCarRepository, *mock.MockClient) {
	t.Helper()

	mockRepo := mock.NewMockCarRepository(ctrl)
	mockMedia := mock.NewMockClient(ctrl)

	return NewCarService(mockRepo, mockMedia, logger.Nop()), mockRepo, mockMedia
}

func stageFiles(t *testing.T, count int) []string {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, 0, count)
	for i := 0; i < count; i++ {
		p := filepath.Join(dir, fmt.Sprintf("img-%d.jpg", i))
		require.NoError(t, os.WriteFile(p, []byte("bytes"), 0o600))
		paths = append(paths, p)
	}
	return paths
}

func requireAllRemoved(t *testing.T, paths []string) {
	t.Helper()

	for _, p := range paths {
		_, err := os.Stat(p)
		assert.ErrorIs(t, err, os.ErrNotExist, "staged file %s should have been removed", p)
	}
}

func owner() models.User {
	return models.User{UserID: 42, UserName: "jdoe", FullName: "John Doe"}
}

func existingCar() models.Car {
	return models.Car{
		CarID:       carID,
		Title:       "Honda Civic 2018",
		Description: "low mileage",
		Images:      []string{"https://media.example.com/old.jpg"},
		Tags:        []string{"sedan"},
		OwnerID:     42,
	}
}

// ── CreateCar ────────────────────────────────────────────────────────────────

func TestCarService_CreateCar_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockMedia := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	files := stageFiles(t, 2)
	urls := []string{"https://media.example.com/a.jpg", "https://media.example.com/b.jpg"}

	input := models.CarInput{
		Title:       " Honda Civic 2018 ",
		Description: " low mileage ",
		Tags:        "sedan, used, ",
	}

	gomock.InOrder(
		mockRepo.EXPECT().TitleExists(ctx, "Honda Civic 2018", "").Return(false, nil),
		mockMedia.EXPECT().Upload(ctx, files).Return(urls, nil),
		mockRepo.EXPECT().CreateCar(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, car models.Car) (models.Car, error) {
				assert.True(t, utils.IsValidUUID(car.CarID))
				assert.Equal(t, "Honda Civic 2018", car.Title)
				assert.Equal(t, "low mileage", car.Description)
				assert.Equal(t, urls, car.Images)
				assert.Equal(t, []string{"sedan", "used"}, car.Tags)
				assert.Equal(t, int64(42), car.OwnerID)
				return car, nil
			},
		),
	)

	created, err := svc.CreateCar(ctx, owner(), input, files)
	require.NoError(t, err)

	require.NotNil(t, created.Owner)
	assert.Equal(t, "jdoe", created.Owner.UserName)
}

func TestCarService_CreateCar_NoImages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestCarSvc(t, ctrl)

	_, err := svc.CreateCar(context.Background(), owner(), models.CarInput{Title: "Honda", Description: "x"}, nil)
	assert.ErrorIs(t, err, ErrNoImagesProvided)
}

func TestCarService_CreateCar_InvalidInputDiscardsFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestCarSvc(t, ctrl)

	files := stageFiles(t, 2)

	_, err := svc.CreateCar(context.Background(), owner(), models.CarInput{Title: "", Description: "x"}, files)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	requireAllRemoved(t, files)
}

func TestCarService_CreateCar_TitleTakenDiscardsFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	files := stageFiles(t, 1)

	mockRepo.EXPECT().TitleExists(ctx, "Honda Civic 2018", "").Return(true, nil)

	_, err := svc.CreateCar(ctx, owner(), models.CarInput{Title: "Honda Civic 2018", Description: "x"}, files)
	assert.ErrorIs(t, err, store.ErrTitleAlreadyExists)

	requireAllRemoved(t, files)
}

func TestCarService_CreateCar_InsertFailureRemovesUploaded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockMedia := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	files := stageFiles(t, 1)
	urls := []string{"https://media.example.com/a.jpg"}

	gomock.InOrder(
		mockRepo.EXPECT().TitleExists(ctx, "Honda Civic 2018", "").Return(false, nil),
		mockMedia.EXPECT().Upload(ctx, files).Return(urls, nil),
		mockRepo.EXPECT().CreateCar(ctx, gomock.Any()).Return(models.Car{}, errors.New("db down")),
		mockMedia.EXPECT().Remove(ctx, urls).Return(nil),
	)

	_, err := svc.CreateCar(ctx, owner(), models.CarInput{Title: "Honda Civic 2018", Description: "x"}, files)
	assert.Error(t, err)
}

// ── GetCarByID ───────────────────────────────────────────────────────────────

func TestCarService_GetCarByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		_, err := svc.GetCarByID(ctx, "definitely-not-a-uuid")
		assert.ErrorIs(t, err, ErrInvalidCarID)
	})

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().GetCarByID(ctx, carID).Return(existingCar(), nil)

		car, err := svc.GetCarByID(ctx, carID)
		require.NoError(t, err)
		assert.Equal(t, carID, car.CarID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetCarByID(ctx, carID).Return(models.Car{}, store.ErrCarNotFound)

		_, err := svc.GetCarByID(ctx, carID)
		assert.ErrorIs(t, err, store.ErrCarNotFound)
	})
}

// ── ListCars / ListOwnCars ───────────────────────────────────────────────────

func TestCarService_ListCars(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	cars := []models.Car{existingCar()}

	t.Run("totals and page passthrough", func(t *testing.T) {
		mockRepo.EXPECT().GetCars(ctx, nil, int64(2), int64(10)).Return(cars, nil)
		mockRepo.EXPECT().CountCars(ctx, nil).Return(int64(25), nil)

		page, err := svc.ListCars(ctx, 2, 10)
		require.NoError(t, err)

		assert.Equal(t, cars, page.Cars)
		assert.Equal(t, int64(25), page.TotalCars)
		assert.Equal(t, int64(3), page.TotalPages)
		assert.Equal(t, int64(2), page.CurrentPage)
	})

	t.Run("out of range values fall back to defaults", func(t *testing.T) {
		mockRepo.EXPECT().GetCars(ctx, nil, int64(1), int64(10)).Return(nil, nil)
		mockRepo.EXPECT().CountCars(ctx, nil).Return(int64(0), nil)

		page, err := svc.ListCars(ctx, 0, -5)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.CurrentPage)
		assert.Equal(t, int64(0), page.TotalPages)
	})
}

func TestCarService_ListOwnCars_FiltersTotalsByOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	mockRepo.EXPECT().GetCars(ctx, gomock.Any(), int64(1), int64(10)).DoAndReturn(
		func(_ context.Context, ownerID *int64, _, _ int64) ([]models.Car, error) {
			require.NotNil(t, ownerID)
			assert.Equal(t, int64(42), *ownerID)
			return []models.Car{existingCar()}, nil
		},
	)
	mockRepo.EXPECT().CountCars(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, ownerID *int64) (int64, error) {
			require.NotNil(t, ownerID)
			assert.Equal(t, int64(42), *ownerID)
			return 1, nil
		},
	)

	page, err := svc.ListOwnCars(ctx, owner(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCars)
	assert.Equal(t, int64(1), page.TotalPages)
}

// ── UpdateCar ────────────────────────────────────────────────────────────────

func TestCarService_UpdateCar_TitleAndDescription(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	input := models.CarInput{Title: "Honda Civic 2019", Description: "new description"}

	gomock.InOrder(
		mockRepo.EXPECT().GetCarByID(ctx, carID).Return(existingCar(), nil),
		mockRepo.EXPECT().TitleExists(ctx, "Honda Civic 2019", carID).Return(false, nil),
		mockRepo.EXPECT().UpdateCar(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, update models.CarUpdate) (models.Car, error) {
				require.NotNil(t, update.Title)
				assert.Equal(t, "Honda Civic 2019", *update.Title)
				require.NotNil(t, update.Description)
				assert.Nil(t, update.Tags)
				assert.Nil(t, update.Images)

				car := existingCar()
				car.Title = *update.Title
				return car, nil
			},
		),
	)

	updated, err := svc.UpdateCar(ctx, owner(), carID, input, nil)
	require.NoError(t, err)

	assert.Equal(t, "Honda Civic 2019", updated.Title)
	require.NotNil(t, updated.Owner)
	assert.Equal(t, "jdoe", updated.Owner.UserName)
}

func TestCarService_UpdateCar_AppendImages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockMedia := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	files := stageFiles(t, 1)
	newURLs := []string{"https://media.example.com/new.jpg"}

	gomock.InOrder(
		mockRepo.EXPECT().GetCarByID(ctx, carID).Return(existingCar(), nil),
		mockMedia.EXPECT().Upload(ctx, files).Return(newURLs, nil),
		mockRepo.EXPECT().UpdateCar(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, update models.CarUpdate) (models.Car, error) {
				require.NotNil(t, update.Images)
				assert.Equal(t, []string{"https://media.example.com/old.jpg", "https://media.example.com/new.jpg"}, *update.Images)
				return existingCar(), nil
			},
		),
	)

	_, err := svc.UpdateCar(ctx, owner(), carID, models.CarInput{}, files)
	assert.NoError(t, err)
}

func TestCarService_UpdateCar_ReplaceImages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockMedia := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	files := stageFiles(t, 1)
	newURLs := []string{"https://media.example.com/new.jpg"}

	gomock.InOrder(
		mockRepo.EXPECT().GetCarByID(ctx, carID).Return(existingCar(), nil),
		mockMedia.EXPECT().Upload(ctx, files).Return(newURLs, nil),
		mockMedia.EXPECT().Remove(ctx, []string{"https://media.example.com/old.jpg"}).Return(nil),
		mockRepo.EXPECT().UpdateCar(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, update models.CarUpdate) (models.Car, error) {
				require.NotNil(t, update.Images)
				assert.Equal(t, newURLs, *update.Images)
				return existingCar(), nil
			},
		),
	)

	_, err := svc.UpdateCar(ctx, owner(), carID, models.CarInput{ReplaceImages: true}, files)
	assert.NoError(t, err)
}

func TestCarService_UpdateCar_NotOwnerDiscardsFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	files := stageFiles(t, 1)

	mockRepo.EXPECT().GetCarByID(ctx, carID).Return(existingCar(), nil)

	stranger := models.User{UserID: 99, UserName: "intruder"}

	_, err := svc.UpdateCar(ctx, stranger, carID, models.CarInput{Title: "Stolen"}, files)
	assert.ErrorIs(t, err, ErrNotResourceOwner)

	requireAllRemoved(t, files)
}

func TestCarService_UpdateCar_NothingToUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	// an empty form is rejected before the listing is even looked up
	_, err := svc.UpdateCar(ctx, owner(), carID, models.CarInput{}, nil)
	assert.ErrorIs(t, err, ErrNothingToUpdate)
}

func TestCarService_UpdateCar_SameTitleIsNotAChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	// Resubmitting the current title is an idempotent no-op: no uniqueness
	// check, no UPDATE, and the listing comes back unchanged.
	stored := existingCar()
	mockRepo.EXPECT().GetCarByID(ctx, carID).Return(stored, nil)

	updated, err := svc.UpdateCar(ctx, owner(), carID, models.CarInput{Title: "Honda Civic 2018"}, nil)
	require.NoError(t, err)
	assert.Equal(t, stored.Title, updated.Title)
	assert.Equal(t, stored.Description, updated.Description)
	require.NotNil(t, updated.Owner)
	assert.Equal(t, owner().UserName, updated.Owner.UserName)
}

func TestCarService_UpdateCar_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := newTestCarSvc(t, ctrl)

	_, err := svc.UpdateCar(context.Background(), owner(), "nope", models.CarInput{Title: "X"}, nil)
	assert.ErrorIs(t, err, ErrInvalidCarID)
}

// ── DeleteCar ────────────────────────────────────────────────────────────────

func TestCarService_DeleteCar_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockMedia := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockRepo.EXPECT().GetCarByID(ctx, carID).Return(existingCar(), nil),
		mockRepo.EXPECT().DeleteCar(ctx, carID).Return(nil),
		mockMedia.EXPECT().Remove(ctx, []string{"https://media.example.com/old.jpg"}).Return(nil),
	)

	err := svc.DeleteCar(ctx, owner(), carID)
	assert.NoError(t, err)
}

func TestCarService_DeleteCar_MediaFailureIsTolerated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockMedia := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		mockRepo.EXPECT().GetCarByID(ctx, carID).Return(existingCar(), nil),
		mockRepo.EXPECT().DeleteCar(ctx, carID).Return(nil),
		mockMedia.EXPECT().Remove(ctx, gomock.Any()).Return(errors.New("media host down")),
	)

	// the listing is gone, a failed remote cleanup must not fail the call
	err := svc.DeleteCar(ctx, owner(), carID)
	assert.NoError(t, err)
}

func TestCarService_DeleteCar_NotOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	mockRepo.EXPECT().GetCarByID(ctx, carID).Return(existingCar(), nil)

	err := svc.DeleteCar(ctx, models.User{UserID: 99}, carID)
	assert.ErrorIs(t, err, ErrNotResourceOwner)
}

func TestCarService_DeleteCar_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _ := newTestCarSvc(t, ctrl)
	ctx := context.Background()

	mockRepo.EXPECT().GetCarByID(ctx, carID).Return(models.Car{}, store.ErrCarNotFound)

	err := svc.DeleteCar(ctx, owner(), carID)
	assert.ErrorIs(t, err, store.ErrCarNotFound)
}
