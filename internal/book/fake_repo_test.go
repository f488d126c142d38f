package book

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// memRepo is an in-memory Repository for tests. Function fields override
// individual operations to force errors.
type memRepo struct {
	books []Book

	createFn func(ctx context.Context, in CreateInput) (Book, error)
	countFn  func(ctx context.Context) (int, error)
	listFn   func(ctx context.Context) ([]Book, error)
	getFn    func(ctx context.Context, id string) (Book, error)
}

func newMemRepo() *memRepo {
	return &memRepo{}
}

func (m *memRepo) Create(ctx context.Context, in CreateInput) (Book, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	now := time.Now()
	b := Book{
		ID:              uuid.New().String(),
		Title:           in.Title,
		Author:          in.Author,
		Genre:           in.Genre,
		PublicationYear: in.PublicationYear,
		ReadStatus:      in.ReadStatus,
		Rating:          in.Rating,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.books = append(m.books, b)
	return b, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (Book, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	for _, b := range m.books {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}

func (m *memRepo) List(ctx context.Context) ([]Book, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	out := append([]Book(nil), m.books...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memRepo) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	for i, b := range m.books {
		if b.ID != id {
			continue
		}
		b.Title = in.Title
		b.Author = in.Author
		b.Genre = in.Genre
		b.PublicationYear = in.PublicationYear
		b.ReadStatus = in.ReadStatus
		b.Rating = in.Rating
		b.Notes = in.Notes
		b.UpdatedAt = time.Now()
		m.books[i] = b
		return b, nil
	}
	return Book{}, ErrNotFound
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	for i, b := range m.books {
		if b.ID == id {
			m.books = append(m.books[:i], m.books[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return len(m.books), nil
}

func (m *memRepo) DeleteAll(ctx context.Context) error {
	m.books = nil
	return nil
}
