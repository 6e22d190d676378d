package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/internal/utils"
	"github.com/MKhiriev/go-car-market/models"
)

// maxJSONBodySize caps the JSON request bodies of the auth endpoints.
const maxJSONBodySize = 16 << 10

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RegisterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodySize)).Decode(&request); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", ErrInvalidJSON, err), "invalid request body")
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, request)
	if err != nil {
		h.writeError(w, r, err, "registration failed")
		return
	}

	log.Debug().Int64("id", registeredUser.UserID).Str("user_name", registeredUser.UserName).Msg("user registered")

	// No session is started here: the client logs in afterwards.
	h.writeSuccess(w, r, http.StatusCreated, registeredUser, "User registered successfully")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var credentials models.Credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodySize)).Decode(&credentials); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", ErrInvalidJSON, err), "invalid request body")
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, credentials)
	if err != nil {
		h.writeError(w, r, err, "login failed")
		return
	}

	log.Debug().Int64("id", foundUser.UserID).Str("user_name", foundUser.UserName).Msg("user successfully logged in")

	token, err := h.services.AuthService.CreateToken(ctx, foundUser)
	if err != nil {
		h.writeError(w, r, err, "creation of token failed")
		return
	}

	h.setSessionCookie(w, token)
	h.writeSuccess(w, r, http.StatusOK, foundUser, "User logged in successfully")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	h.writeSuccess(w, r, http.StatusOK, nil, "User logged out successfully")
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		// unreachable behind the auth middleware
		h.writeError(w, r, ErrMissingAuthToken, "authentication required")
		return
	}

	h.writeSuccess(w, r, http.StatusOK, user, "Current user fetched successfully")
}

// setSessionCookie issues the session cookie carrying the signed JWT. The
// cookie is scoped to the whole site and marked HttpOnly, Secure and
// SameSite=None so that the browser front end on a different origin can send
// it with credentialed requests.
func (h *Handler) setSessionCookie(w http.ResponseWriter, token models.Token) {
	cookie := &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token.SignedString,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
	if token.Claims.ExpiresAt != nil {
		cookie.Expires = token.Claims.ExpiresAt.Time
	}

	http.SetCookie(w, cookie)
}

// clearSessionCookie expires the session cookie immediately.
func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
