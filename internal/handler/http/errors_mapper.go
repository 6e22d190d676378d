package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/internal/media"
	"github.com/MKhiriev/go-car-market/internal/service"
	"github.com/MKhiriev/go-car-market/internal/store"
	"github.com/MKhiriev/go-car-market/internal/utils"
	"github.com/MKhiriev/go-car-market/models"
)

var errorStatusMap = map[error]int{
	ErrInvalidJSON:          http.StatusBadRequest,
	ErrTooManyImages:        http.StatusBadRequest,
	ErrInvalidMultipartForm: http.StatusBadRequest,

	ErrMissingAuthToken:           http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	ErrEmptyToken:                 http.StatusUnauthorized,

	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrInvalidCarID:        http.StatusBadRequest,
	service.ErrNoImagesProvided:    http.StatusBadRequest,
	service.ErrNothingToUpdate:     http.StatusBadRequest,

	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	service.ErrNotResourceOwner: http.StatusForbidden,

	service.ErrTokenCreationFailed: http.StatusInternalServerError,

	store.ErrUserAlreadyExists:  http.StatusConflict,
	store.ErrTitleAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:     http.StatusNotFound,
	store.ErrCarNotFound:        http.StatusNotFound,
	store.ErrCarNotSaved:        http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,

	media.ErrUploadFailed: http.StatusBadGateway,
	media.ErrRemoveFailed: http.StatusBadGateway,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps err to an HTTP status via statusFromError and writes the
// uniform failure envelope. Causes of server-side failures are logged but
// never echoed back to the client; for client errors the full error chain is
// included in the envelope so the caller can see which check failed.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	log.Err(err).Int("status", status).Msg(message)

	response := models.NewErrorResponse(status, message)
	if status < http.StatusInternalServerError {
		response = models.NewErrorResponse(status, message, err.Error())
	}

	utils.WriteJSON(w, response, status)
}

// writeSuccess writes the uniform success envelope with the given payload.
func (h *Handler) writeSuccess(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	if _, err := utils.WriteJSON(w, models.NewResponse(status, data, message), status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}
