package media

import "errors"

var (
	// ErrUploadFailed is returned when not a single staged file could be
	// transferred to the media host.
	ErrUploadFailed = errors.New("no images were uploaded to the media host")

	// ErrRemoveFailed is returned (wrapped) when the media host refuses to
	// delete one or more images.
	ErrRemoveFailed = errors.New("failed to remove image from the media host")
)
