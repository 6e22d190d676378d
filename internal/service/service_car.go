// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/internal/media"
	"github.com/MKhiriev/go-car-market/internal/store"
	"github.com/MKhiriev/go-car-market/internal/utils"
	"github.com/MKhiriev/go-car-market/internal/validators"
	"github.com/MKhiriev/go-car-market/models"
)

const (
	defaultPage  int64 = 1
	defaultLimit int64 = 10
)

// carService is the concrete implementation of CarService. It coordinates
// three collaborators: the CarRepository for listing persistence, the media
// client for image hosting, and a validator for input checking.
//
// Staged image files passed into the write operations are always consumed:
// either the media client deletes them after the transfer attempt, or the
// service removes them itself when it bails out before uploading.
type carService struct {
	carRepository store.CarRepository
	mediaClient   media.Client
	validator     validators.Validator
	uuidGenerator *utils.UUIDGenerator
	logger        *logger.Logger
}

// NewCarService constructs a CarService wired to the given repository and
// media client.
func NewCarService(carRepository store.CarRepository, mediaClient media.Client, logger *logger.Logger) CarService {
	return &carService{
		carRepository: carRepository,
		mediaClient:   mediaClient,
		validator:     validators.NewRequestValidator(),
		uuidGenerator: utils.NewUUIDGenerator(),
		logger:        logger,
	}
}

// CreateCar creates a new listing owned by owner.
//
// The title is checked for uniqueness before any image leaves the machine, so
// a doomed request does not upload to the media host. A partial upload is
// tolerated: the listing is created with whichever images went through, as
// long as at least one did.
//
// Returns the created listing (owner resolved) or:
//   - ErrNoImagesProvided when imageFiles is empty.
//   - ErrInvalidDataProvided when the title or description is unusable.
//   - store.ErrTitleAlreadyExists when the title is taken.
//   - media.ErrUploadFailed when not a single image could be uploaded.
func (c *carService) CreateCar(ctx context.Context, owner models.User, input models.CarInput, imageFiles []string) (models.Car, error) {
	log := logger.FromContext(ctx)

	if len(imageFiles) == 0 {
		return models.Car{}, ErrNoImagesProvided
	}

	if err := c.validator.Validate(ctx, input); err != nil {
		c.discardStagedFiles(ctx, imageFiles)
		log.Err(err).Str("title", input.Title).Msg("invalid car data provided")
		return models.Car{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	title := strings.TrimSpace(input.Title)

	taken, err := c.carRepository.TitleExists(ctx, title, "")
	if err != nil {
		c.discardStagedFiles(ctx, imageFiles)
		return models.Car{}, fmt.Errorf("title lookup failed: %w", err)
	}
	if taken {
		c.discardStagedFiles(ctx, imageFiles)
		return models.Car{}, store.ErrTitleAlreadyExists
	}

	imageURLs, err := c.mediaClient.Upload(ctx, imageFiles)
	if err != nil {
		log.Err(err).Int("files", len(imageFiles)).Msg("image upload failed")
		return models.Car{}, fmt.Errorf("image upload failed: %w", err)
	}

	car := models.Car{
		CarID:       c.uuidGenerator.Generate(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Images:      imageURLs,
		Tags:        splitTags(input.Tags),
		OwnerID:     owner.UserID,
	}

	savedCar, err := c.carRepository.CreateCar(ctx, car)
	if err != nil {
		log.Err(err).Str("title", car.Title).Msg("car creation ended with error")

		// the images are already on the media host, try not to orphan them
		if removeErr := c.mediaClient.Remove(ctx, imageURLs); removeErr != nil {
			log.Err(removeErr).Msg("failed to remove uploaded images after aborted car creation")
		}

		return models.Car{}, fmt.Errorf("car creation ended with error: %w", err)
	}

	savedCar.Owner = &models.Owner{UserName: owner.UserName, FullName: owner.FullName}
	return savedCar, nil
}

// GetCarByID returns a single listing, owner resolved.
//
// Returns ErrInvalidCarID when carID is not a well-formed identifier and
// store.ErrCarNotFound when no listing matches.
func (c *carService) GetCarByID(ctx context.Context, carID string) (models.Car, error) {
	if !utils.IsValidUUID(carID) {
		return models.Car{}, ErrInvalidCarID
	}

	car, err := c.carRepository.GetCarByID(ctx, carID)
	if err != nil {
		return models.Car{}, fmt.Errorf("car lookup failed: %w", err)
	}

	return car, nil
}

// ListCars returns one page of all listings, in insertion order, together with
// pagination totals. Out-of-range page and limit values fall back to the
// defaults (page 1, 10 per page).
func (c *carService) ListCars(ctx context.Context, page int64, limit int64) (models.CarPage, error) {
	return c.listCars(ctx, nil, page, limit)
}

// ListOwnCars returns one page of the listings created by owner. Totals are
// computed over that user's listings only.
func (c *carService) ListOwnCars(ctx context.Context, owner models.User, page int64, limit int64) (models.CarPage, error) {
	return c.listCars(ctx, &owner.UserID, page, limit)
}

func (c *carService) listCars(ctx context.Context, ownerID *int64, page int64, limit int64) (models.CarPage, error) {
	log := logger.FromContext(ctx)

	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	cars, err := c.carRepository.GetCars(ctx, ownerID, page, limit)
	if err != nil {
		log.Err(err).Int64("page", page).Msg("car listing failed")
		return models.CarPage{}, fmt.Errorf("car listing failed: %w", err)
	}

	total, err := c.carRepository.CountCars(ctx, ownerID)
	if err != nil {
		log.Err(err).Msg("car count failed")
		return models.CarPage{}, fmt.Errorf("car count failed: %w", err)
	}

	return models.CarPage{
		Cars:        cars,
		TotalCars:   total,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
	}, nil
}

// UpdateCar applies a partial update to a listing owned by owner.
//
// Supplied text fields replace their current values; an empty field means
// "leave unchanged". New images are appended to the existing sequence unless
// input.ReplaceImages is set, in which case the old images are removed from
// the media host and the new ones take their place.
//
// Returns the updated listing or:
//   - ErrInvalidCarID when carID is not a well-formed identifier.
//   - store.ErrCarNotFound when the listing does not exist.
//   - ErrNotResourceOwner when owner did not create the listing.
//   - ErrNothingToUpdate when no field and no image was supplied. Supplying
//     only values equal to the stored ones is not an error: the listing is
//     returned unchanged.
//   - store.ErrTitleAlreadyExists when the new title is taken.
func (c *carService) UpdateCar(ctx context.Context, owner models.User, carID string, input models.CarInput, imageFiles []string) (models.Car, error) {
	log := logger.FromContext(ctx)

	if !utils.IsValidUUID(carID) {
		c.discardStagedFiles(ctx, imageFiles)
		return models.Car{}, ErrInvalidCarID
	}

	if len(imageFiles) == 0 && isBlankInput(input) {
		return models.Car{}, ErrNothingToUpdate
	}

	existing, err := c.carRepository.GetCarByID(ctx, carID)
	if err != nil {
		c.discardStagedFiles(ctx, imageFiles)
		return models.Car{}, fmt.Errorf("car lookup failed: %w", err)
	}

	if existing.OwnerID != owner.UserID {
		c.discardStagedFiles(ctx, imageFiles)
		log.Error().Str("car_id", carID).Int64("user_id", owner.UserID).Msg("update attempt by non-owner")
		return models.Car{}, ErrNotResourceOwner
	}

	update := models.CarUpdate{CarID: carID}

	if title := strings.TrimSpace(input.Title); title != "" && title != existing.Title {
		if err = c.validator.Validate(ctx, input, validators.FieldTitle); err != nil {
			c.discardStagedFiles(ctx, imageFiles)
			return models.Car{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}

		taken, lookupErr := c.carRepository.TitleExists(ctx, title, carID)
		if lookupErr != nil {
			c.discardStagedFiles(ctx, imageFiles)
			return models.Car{}, fmt.Errorf("title lookup failed: %w", lookupErr)
		}
		if taken {
			c.discardStagedFiles(ctx, imageFiles)
			return models.Car{}, store.ErrTitleAlreadyExists
		}

		update.Title = &title
	}

	if description := strings.TrimSpace(input.Description); description != "" && description != existing.Description {
		update.Description = &description
	}

	if strings.TrimSpace(input.Tags) != "" {
		tags := splitTags(input.Tags)
		update.Tags = &tags
	}

	if len(imageFiles) > 0 {
		imageURLs, uploadErr := c.mediaClient.Upload(ctx, imageFiles)
		if uploadErr != nil {
			log.Err(uploadErr).Str("car_id", carID).Msg("image upload failed")
			return models.Car{}, fmt.Errorf("image upload failed: %w", uploadErr)
		}

		if input.ReplaceImages {
			if removeErr := c.mediaClient.Remove(ctx, existing.Images); removeErr != nil {
				log.Err(removeErr).Str("car_id", carID).Msg("failed to remove replaced images from the media host")
			}
			update.Images = &imageURLs
		} else {
			combined := append(append([]string{}, existing.Images...), imageURLs...)
			update.Images = &combined
		}
	}

	if update.Title == nil && update.Description == nil && update.Tags == nil && update.Images == nil {
		// Every supplied field matches the stored value. Treat the request as
		// an idempotent no-op and return the listing as it is.
		log.Debug().Str("car_id", carID).Msg("update changed nothing")
		existing.Owner = &models.Owner{UserName: owner.UserName, FullName: owner.FullName}
		return existing, nil
	}

	updatedCar, err := c.carRepository.UpdateCar(ctx, update)
	if err != nil {
		log.Err(err).Str("car_id", carID).Msg("car update ended with error")
		return models.Car{}, fmt.Errorf("car update ended with error: %w", err)
	}

	updatedCar.Owner = &models.Owner{UserName: owner.UserName, FullName: owner.FullName}
	return updatedCar, nil
}

// DeleteCar removes a listing owned by owner together with its images on
// the media host. Media removal is best effort: a failure there is logged
// but does not undo the deletion.
//
// Returns ErrInvalidCarID, store.ErrCarNotFound or ErrNotResourceOwner
// analogously to UpdateCar.
func (c *carService) DeleteCar(ctx context.Context, owner models.User, carID string) error {
	log := logger.FromContext(ctx)

	if !utils.IsValidUUID(carID) {
		return ErrInvalidCarID
	}

	existing, err := c.carRepository.GetCarByID(ctx, carID)
	if err != nil {
		return fmt.Errorf("car lookup failed: %w", err)
	}

	if existing.OwnerID != owner.UserID {
		log.Error().Str("car_id", carID).Int64("user_id", owner.UserID).Msg("delete attempt by non-owner")
		return ErrNotResourceOwner
	}

	if err = c.carRepository.DeleteCar(ctx, carID); err != nil {
		log.Err(err).Str("car_id", carID).Msg("car deletion ended with error")
		return fmt.Errorf("car deletion ended with error: %w", err)
	}

	if removeErr := c.mediaClient.Remove(ctx, existing.Images); removeErr != nil {
		log.Err(removeErr).Str("car_id", carID).Msg("failed to remove images of deleted car from the media host")
	}

	return nil
}

// discardStagedFiles deletes staged upload files that will never be sent to
// the media host.
func (c *carService) discardStagedFiles(ctx context.Context, imageFiles []string) {
	log := logger.FromContext(ctx)

	for _, filePath := range imageFiles {
		if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("file", filePath).Msg("failed to remove staged upload file")
		}
	}
}

// isBlankInput reports whether the update form supplied no usable field.
func isBlankInput(input models.CarInput) bool {
	return strings.TrimSpace(input.Title) == "" &&
		strings.TrimSpace(input.Description) == "" &&
		strings.TrimSpace(input.Tags) == ""
}

// splitTags turns the raw comma-separated tag field into a clean slice:
// surrounding whitespace is trimmed and empty entries are dropped.
func splitTags(raw string) []string {
	tags := make([]string, 0, 4)

	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}
