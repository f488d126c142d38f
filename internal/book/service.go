package book

import (
	"context"
)

// Service provides book-related business logic, including the free-limit
// entitlement gate.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CanCreate is the admission policy for a create attempt: premium clients are
// never gated, free clients are gated at FreeBookLimit.
func CanCreate(currentCount int, isPremium bool) bool {
	return isPremium || currentCount < FreeBookLimit
}

// Create stores a new book after the entitlement gate admits it. The count is
// read fresh on every attempt. The count-then-insert pair is not atomic, so
// two concurrent creates racing past the same count can both land; at
// single-user scale this is accepted rather than locked.
func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	if in.ReadStatus == "" {
		in.ReadStatus = StatusToRead
	}
	if err := ValidateStatus(in.ReadStatus); err != nil {
		return Book{}, err
	}

	if !in.IsPremium {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return Book{}, err
		}
		if !CanCreate(count, in.IsPremium) {
			return Book{}, ErrLimitReached
		}
	}

	return s.repo.Create(ctx, in)
}

// Get returns a book by its id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.Get(ctx, id)
}

// List returns all books, newest-created first.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// Update replaces the mutable fields of an existing book.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	if err := ValidateStatus(in.ReadStatus); err != nil {
		return Book{}, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes a book by its id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Count returns the current number of stored books.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// DeleteAll wipes the library.
func (s *Service) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}
