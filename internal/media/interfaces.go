// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package media talks to the remote media host that stores car listing
// images. Listings only ever reference images by their public URL; the
// bytes themselves never touch the application database.
package media

//go:generate mockgen -source=interfaces.go -destination=../mock/media_client_mock.go -package=mock

import "context"

// Client uploads staged image files to the media host and removes
// previously uploaded images.
type Client interface {

	// Upload sends each staged local file to the media host and returns
	// the public URLs of the images that were stored successfully, in
	// input order. Every staged file is deleted from local disk before
	// Upload returns, whether its transfer succeeded or not.
	//
	// A partial failure is not an error: as long as at least one file
	// went through, the successful subset is returned with a nil error.
	// Only when every transfer fails is ErrUploadFailed returned.
	Upload(ctx context.Context, filePaths []string) ([]string, error)

	// Remove deletes the images behind the given public URLs from the
	// media host. Removal is best effort: all URLs are attempted and the
	// failures are reported as a single joined error.
	Remove(ctx context.Context, imageURLs []string) error
}
