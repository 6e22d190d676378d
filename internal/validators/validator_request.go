package validators

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-car-market/models"
)

// minTitleLength is the minimum number of characters in a trimmed listing title.
const minTitleLength = 2

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type RequestValidator struct {
}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegisterRequest(ctx, value, fields...)
	case *models.RegisterRequest:
		return v.validateRegisterRequest(ctx, *value, fields...)

	case models.Credentials:
		return v.validateCredentials(ctx, value, fields...)
	case *models.Credentials:
		return v.validateCredentials(ctx, *value, fields...)

	case models.CarInput:
		return v.validateCarInput(ctx, value, fields...)
	case *models.CarInput:
		return v.validateCarInput(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateRegisterRequest(_ context.Context, request models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserName, FieldFullName, FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUserName:
			if isBlank(request.UserName) {
				return ErrEmptyUserName
			}
		case FieldFullName:
			if isBlank(request.FullName) {
				return ErrEmptyFullName
			}
		case FieldEmail:
			if isBlank(request.Email) {
				return ErrEmptyEmail
			}
			if !emailPattern.MatchString(strings.TrimSpace(request.Email)) {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if request.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateCredentials(_ context.Context, credentials models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldIdentifier, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldIdentifier:
			if isBlank(credentials.UserName) && isBlank(credentials.Email) {
				return ErrMissingIdentifier
			}
		case FieldPassword:
			if credentials.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateCarInput(_ context.Context, input models.CarInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldDescription}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			title := strings.TrimSpace(input.Title)
			if title == "" {
				return ErrEmptyTitle
			}
			if utf8.RuneCountInString(title) < minTitleLength {
				return ErrTitleTooShort
			}
		case FieldDescription:
			if isBlank(input.Description) {
				return ErrEmptyDescription
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
