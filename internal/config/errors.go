package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAuthConfigs indicates invalid access-token settings
	// (for example, a missing token signing key).
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty database DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidMediaConfigs indicates incomplete media-host settings
	// (base URL, cloud name, and the API credential pair are all required).
	ErrInvalidMediaConfigs = errors.New("invalid media host configuration")
)
