package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered identifiers for newly created
// listings. UUIDv7 keeps insertion order stable under index scans.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// IsValidUUID reports whether s parses as a well-formed UUID of any version.
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
