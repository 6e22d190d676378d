package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the claim set embedded in every issued access token.
// Besides the registered claims (sub, iss, iat, exp) it carries the
// user's public identity attributes so that clients can display them
// without an extra round trip.
type TokenClaims struct {
	jwt.RegisteredClaims

	// UserName is the unique login identifier of the token subject.
	UserName string `json:"userName"`

	// FullName is the display name of the token subject.
	FullName string `json:"fullName"`
}

// Token wraps a JWT access token with convenience accessors for
// authentication flows.
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be transmitted in a cookie or an
// Authorization header.
//
// UserID is a cached, parsed copy of the "sub" claim converted to int64,
// populated during generation or verification to avoid repeated
// string-to-int parsing.
type Token struct {
	// Token is the underlying JWT token used for signing and claim
	// inspection. Excluded from JSON serialization because only the
	// compact string form is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// Claims provides access to the decoded claim set of the token.
	Claims TokenClaims `json:"-"`

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the subject identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
