// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the session middleware and the multipart upload
// handlers. Callers can match against them with [errors.Is].
var (
	// ErrMissingAuthToken is returned by the auth middleware when the request
	// carries neither an "accessToken" cookie nor an "Authorization" header.
	ErrMissingAuthToken = errors.New("missing `accessToken` cookie or `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but is not a "Bearer <token>" pair: the scheme is
	// not Bearer, or the token value is missing entirely.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the cookie or the "Authorization" header
	// is present but the token value itself is an empty string.
	ErrEmptyToken = errors.New("empty token")

	// ErrInvalidJSON is returned when a JSON request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrTooManyImages is returned when a multipart request contains more
	// image files than the server accepts in a single upload.
	ErrTooManyImages = errors.New("too many images in a single upload")

	// ErrInvalidMultipartForm is returned when the request body cannot be
	// parsed as multipart/form-data.
	ErrInvalidMultipartForm = errors.New("invalid multipart form")
)
