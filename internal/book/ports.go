package book

import (
	"context"
)

// Repository defines the contract for book storage.
type Repository interface {
	Create(ctx context.Context, in CreateInput) (Book, error)
	Get(ctx context.Context, id string) (Book, error)
	// List returns all books, newest-created first.
	List(ctx context.Context) ([]Book, error)
	Update(ctx context.Context, id string, in UpdateInput) (Book, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// DeleteAll wipes the library. Admin-only.
	DeleteAll(ctx context.Context) error
}
