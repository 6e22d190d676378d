package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-car-market/internal/logger"
	"github.com/MKhiriev/go-car-market/internal/service"
	"github.com/MKhiriev/go-car-market/internal/utils"
)

// accessTokenCookie is the name of the session cookie carrying the JWT.
const accessTokenCookie = "accessToken"

// auth is an HTTP middleware that enforces JWT-based session authentication.
//
// It extracts the token from the "accessToken" cookie, falling back to the
// "Authorization" bearer header for non-browser clients, validates it via
// [service.AuthService.ParseToken], re-resolves the subject against storage
// and — on success — stores the authenticated [models.User] in the request
// context under [utils.UserCtxKey] before delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized when the token
// is missing ([ErrMissingAuthToken]), malformed, expired or when its subject
// no longer exists. Re-resolving the user on every request means a deleted
// account loses access immediately even if its token is still valid.
//
// All rejection events are logged using the context-scoped logger obtained
// via [logger.FromRequest].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := getTokenFromRequest(r)
		if err != nil {
			log.Err(err).Send()
			h.writeError(w, r, err, "authentication required")
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			h.writeError(w, r, err, "session is expired or invalid")
			return
		}

		user, err := h.services.AuthService.UserByID(ctx, token.UserID)
		if err != nil {
			// a session whose subject is gone is treated as invalid, not as
			// a missing resource
			h.writeError(w, r, fmt.Errorf("%w: %v", service.ErrTokenIsExpiredOrInvalid, err), "session user no longer exists")
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.SetUserInContext(ctx, user)))
	})
}

// getTokenFromRequest extracts the JWT string from the request, preferring
// the session cookie over the "Authorization" header.
//
// It returns the following sentinel errors:
//   - [ErrMissingAuthToken] — if neither the cookie nor the header is present.
//   - [ErrInvalidAuthorizationHeader] — if the header contains fewer than
//     two space-separated parts or uses a scheme other than "Bearer".
//   - [ErrEmptyToken] — if the token value exists but is an empty string.
func getTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		if cookie.Value == "" {
			return "", ErrEmptyToken
		}
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
