package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrInvalidCarID     = errors.New("invalid car id")
	ErrNotResourceOwner = errors.New("user is not the owner of this resource")
	ErrNoImagesProvided = errors.New("at least one image is required")
	ErrNothingToUpdate  = errors.New("no fields or images provided for update")
)
