// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/internal/utils"
	"github.com/MKhiriev/go-car-market/models"
)

const (
	// maxUploadImages is the most image files accepted in one request.
	maxUploadImages = 10

	// maxMultipartMemory is the in-memory threshold passed to
	// ParseMultipartForm; larger file parts spill to disk.
	maxMultipartMemory = 32 << 20

	// imagesFormField is the multipart field name carrying image files.
	imagesFormField = "images"
)

func (h *Handler) listCars(w http.ResponseWriter, r *http.Request) {
	page, limit := paginationParams(r)

	carPage, err := h.services.CarService.ListCars(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, r, err, "failed to fetch cars")
		return
	}

	h.writeSuccess(w, r, http.StatusOK, carPage, "Cars fetched successfully")
}

func (h *Handler) listOwnCars(w http.ResponseWriter, r *http.Request) {
	owner, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		h.writeError(w, r, ErrMissingAuthToken, "authentication required")
		return
	}

	page, limit := paginationParams(r)

	carPage, err := h.services.CarService.ListOwnCars(r.Context(), owner, page, limit)
	if err != nil {
		h.writeError(w, r, err, "failed to fetch own cars")
		return
	}

	h.writeSuccess(w, r, http.StatusOK, carPage, "Cars fetched successfully")
}

func (h *Handler) getCar(w http.ResponseWriter, r *http.Request) {
	carID := chi.URLParam(r, "carID")

	car, err := h.services.CarService.GetCarByID(r.Context(), carID)
	if err != nil {
		h.writeError(w, r, err, "failed to fetch car")
		return
	}

	h.writeSuccess(w, r, http.StatusOK, car, "Car fetched successfully")
}

func (h *Handler) createCar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	owner, ok := utils.GetUserFromContext(ctx)
	if !ok {
		h.writeError(w, r, ErrMissingAuthToken, "authentication required")
		return
	}

	input, imageFiles, err := h.parseCarForm(r)
	if err != nil {
		h.writeError(w, r, err, "failed to read listing form")
		return
	}

	car, err := h.services.CarService.CreateCar(ctx, owner, input, imageFiles)
	if err != nil {
		h.writeError(w, r, err, "failed to create car")
		return
	}

	log.Debug().Str("car_id", car.CarID).Str("title", car.Title).Msg("car created")

	h.writeSuccess(w, r, http.StatusCreated, car, "Car created successfully")
}

func (h *Handler) updateCar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, ok := utils.GetUserFromContext(ctx)
	if !ok {
		h.writeError(w, r, ErrMissingAuthToken, "authentication required")
		return
	}

	carID := chi.URLParam(r, "carID")

	input, imageFiles, err := h.parseCarForm(r)
	if err != nil {
		h.writeError(w, r, err, "failed to read listing form")
		return
	}

	car, err := h.services.CarService.UpdateCar(ctx, owner, carID, input, imageFiles)
	if err != nil {
		h.writeError(w, r, err, "failed to update car")
		return
	}

	h.writeSuccess(w, r, http.StatusOK, car, "Car updated successfully")
}

func (h *Handler) deleteCar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, ok := utils.GetUserFromContext(ctx)
	if !ok {
		h.writeError(w, r, ErrMissingAuthToken, "authentication required")
		return
	}

	carID := chi.URLParam(r, "carID")

	if err := h.services.CarService.DeleteCar(ctx, owner, carID); err != nil {
		h.writeError(w, r, err, "failed to delete car")
		return
	}

	h.writeSuccess(w, r, http.StatusOK, nil, "Car deleted successfully")
}

// parseCarForm reads the multipart listing form: the scalar fields go into a
// [models.CarInput] and every file under the "images" field is staged to the
// configured temporary directory. The returned paths belong to the caller;
// the service layer deletes them once the media host upload settles.
func (h *Handler) parseCarForm(r *http.Request) (models.CarInput, []string, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return models.CarInput{}, nil, fmt.Errorf("%w: %w", ErrInvalidMultipartForm, err)
	}

	input := models.CarInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Tags:        r.FormValue("tags"),
	}
	if replace, err := strconv.ParseBool(r.FormValue("replaceImages")); err == nil {
		input.ReplaceImages = replace
	}

	imageFiles, err := h.stageUploads(r)
	if err != nil {
		return models.CarInput{}, nil, err
	}

	return input, imageFiles, nil
}

// stageUploads copies every uploaded image part to its own file in the
// configured temporary directory and returns the staged paths. On any
// failure the files staged so far are removed before the error is returned,
// so a rejected request never leaves partial uploads behind.
func (h *Handler) stageUploads(r *http.Request) ([]string, error) {
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[imagesFormField]
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > maxUploadImages {
		return nil, fmt.Errorf("%w: got %d, limit is %d", ErrTooManyImages, len(headers), maxUploadImages)
	}

	staged := make([]string, 0, len(headers))
	for _, header := range headers {
		path, err := h.stageUpload(header)
		if err != nil {
			for _, p := range staged {
				os.Remove(p)
			}
			return nil, err
		}
		staged = append(staged, path)
	}

	return staged, nil
}

// stageUpload writes a single multipart file part to the temp directory,
// keeping the original file extension so the media host can detect the
// image format.
func (h *Handler) stageUpload(header *multipart.FileHeader) (string, error) {
	part, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidMultipartForm, err)
	}
	defer part.Close()

	tempFile, err := os.CreateTemp(h.cfg.Storage.Uploads.TempDir, "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", fmt.Errorf("staging uploaded image: %w", err)
	}

	if _, err := io.Copy(tempFile, part); err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("staging uploaded image: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("staging uploaded image: %w", err)
	}

	return tempFile.Name(), nil
}

// paginationParams reads the page and limit query parameters. Missing or
// malformed values fall back to zero; the service substitutes its defaults.
func paginationParams(r *http.Request) (page int64, limit int64) {
	page, _ = strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	limit, _ = strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	return page, limit
}
