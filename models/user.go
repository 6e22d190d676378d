package models

import "time"

// User represents an account entity used for authentication and authorization.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// UserName is the unique lowercase login identifier.
	UserName string `json:"userName"`

	// FullName is the display name of the user.
	// It is non-sensitive and may be shown in UI.
	FullName string `json:"fullName"`

	// Email is the unique lowercase e-mail address of the user.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This value MUST be a one-way salted hash, never plaintext.
	// It is never exposed via JSON.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp of the last modification of the record.
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Credentials is the login request payload. Either UserName or Email
// identifies the account; Password is the plaintext credential to verify.
type Credentials struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the registration request payload.
type RegisterRequest struct {
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Owner is the public projection of a car owner embedded in car responses.
// Only non-sensitive identity attributes are included.
type Owner struct {
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
}
