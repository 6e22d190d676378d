package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyUserName     = errors.New("user name is required")
	ErrEmptyFullName     = errors.New("full name is required")
	ErrEmptyEmail        = errors.New("email is required")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrEmptyPassword     = errors.New("password is required")
	ErrMissingIdentifier = errors.New("user name or email is required")

	ErrEmptyTitle       = errors.New("title is required")
	ErrTitleTooShort    = errors.New("title is too short")
	ErrEmptyDescription = errors.New("description is required")
)
