package book

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// invalidTextRepresentation is the SQLSTATE Postgres raises when a path id
// fails the text to uuid cast. A malformed id can never match a row, so it
// reads as not found rather than a server error.
const invalidTextRepresentation = "22P02"

func mapRowError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		return ErrNotFound
	}
	return err
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const bookColumns = `id, title, author, genre, publication_year, read_status, rating, notes, created_at, updated_at`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.PublicationYear,
		&b.ReadStatus, &b.Rating, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *PostgresRepo) Create(ctx context.Context, in CreateInput) (Book, error) {
	const query = `
		INSERT INTO books (title, author, genre, publication_year, read_status, rating, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanBook(r.db.QueryRow(timeoutCtx, query,
		in.Title, in.Author, in.Genre, in.PublicationYear, in.ReadStatus, in.Rating, in.Notes,
	))
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		return Book{}, mapRowError(err)
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	const query = `
		UPDATE books
		SET title = $2, author = $3, genre = $4, publication_year = $5,
		    read_status = $6, rating = $7, notes = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query,
		id, in.Title, in.Author, in.Genre, in.PublicationYear, in.ReadStatus, in.Rating, in.Notes,
	))
	if err != nil {
		return Book{}, mapRowError(err)
	}
	return b, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM books WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	commandTag, err := r.db.Exec(timeoutCtx, query, id)
	if err != nil {
		return mapRowError(err)
	}
	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM books`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var count int
	if err := r.db.QueryRow(timeoutCtx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepo) DeleteAll(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, `DELETE FROM books`)
	return err
}
