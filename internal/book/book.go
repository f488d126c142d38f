package book

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrLimitReached is returned when a non-premium client tries to create a
// book past the free limit. Handlers map it to an upgrade prompt, not a
// generic error.
var ErrLimitReached = errors.New("book limit reached")

// FreeBookLimit is the number of books a non-premium client may store.
const FreeBookLimit = 5

const (
	StatusToRead  = "to-read"
	StatusReading = "reading"
	StatusRead    = "read"
)

func ValidateStatus(status string) error {
	switch status {
	case StatusToRead, StatusReading, StatusRead:
		return nil
	default:
		return fmt.Errorf("invalid read status: %s", status)
	}
}

// Book represents a single tracked book.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           *string   `json:"genre,omitempty"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	ReadStatus      string    `json:"read_status"`
	Rating          *int      `json:"rating,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateInput holds the fields for creating a book. IsPremium is the
// client-reported entitlement flag consulted by the gate; it is never stored.
type CreateInput struct {
	Title           string  `json:"title" validate:"required"`
	Author          string  `json:"author" validate:"required"`
	Genre           *string `json:"genre"`
	PublicationYear *int    `json:"publication_year"`
	ReadStatus      string  `json:"read_status" validate:"omitempty,oneof=to-read reading read"`
	Rating          *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Notes           *string `json:"notes"`
	IsPremium       bool    `json:"is_premium"`
}

// UpdateInput holds the fields for updating a book. The id is immutable and
// comes from the URL, never the body.
type UpdateInput struct {
	Title           string  `json:"title" validate:"required"`
	Author          string  `json:"author" validate:"required"`
	Genre           *string `json:"genre"`
	PublicationYear *int    `json:"publication_year"`
	ReadStatus      string  `json:"read_status" validate:"required,oneof=to-read reading read"`
	Rating          *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Notes           *string `json:"notes"`
}
