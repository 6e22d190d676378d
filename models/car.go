package models

import "time"

// Car represents a single marketplace listing. A car always belongs to
// exactly one user and carries at least one image URL while it exists.
type Car struct {
	// CarID is the unique identifier of the listing (UUID).
	CarID string `json:"id"`

	// Title is the listing title, unique across all listings.
	Title string `json:"title"`

	// Description is optional free text; defaults to an empty string.
	Description string `json:"description"`

	// Images is the ordered sequence of public image URLs hosted on the
	// remote media host. Must contain at least one element.
	Images []string `json:"images"`

	// Tags is the ordered sequence of string tags; defaults to empty.
	Tags []string `json:"tags"`

	// OwnerID references the user who created the listing.
	// Immutable after creation. Not exposed via JSON; see Owner.
	OwnerID int64 `json:"-"`

	// Owner is the resolved public projection of the owning user.
	// Populated on read paths only.
	Owner *Owner `json:"owner,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the Car model.
func (c Car) TableName() string {
	return "cars"
}

// CarUpdate describes a partial update of a car listing. Nil pointer
// fields are left unchanged; Images always holds the full resulting
// sequence and is written as-is.
type CarUpdate struct {
	CarID       string
	Title       *string
	Description *string
	Tags        *[]string
	Images      *[]string
}

// CarInput carries the raw listing fields submitted through the
// multipart create and update forms. An empty string means the field
// was not supplied.
type CarInput struct {
	// Title is the submitted listing title.
	Title string

	// Description is the submitted free-text description.
	Description string

	// Tags is the raw comma-separated tag list as typed by the user.
	Tags string

	// ReplaceImages requests that uploaded images replace the existing
	// sequence instead of being appended to it. Update only.
	ReplaceImages bool
}

// CarPage is a single page of listings together with pagination totals.
type CarPage struct {
	Cars        []Car `json:"cars"`
	TotalCars   int64 `json:"totalCars"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int64 `json:"currentPage"`
}
