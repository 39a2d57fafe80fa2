package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"bookscanner/internal/platform/postgres"
)

type PostgresRepo struct {
	db      postgres.Pool
	timeout time.Duration
}

func NewPostgresRepo(db postgres.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Exists(ctx context.Context, userID, isbn string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM user_books WHERE user_id = $1 AND isbn = $2)`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	if err := r.db.QueryRow(timeoutCtx, query, userID, isbn).Scan(&exists); err != nil {
		return false, fmt.Errorf("check isbn: %w", err)
	}
	return exists, nil
}

// Insert relies on the (user_id, isbn) unique index: a conflicting row is
// skipped and reported as ErrDuplicate.
func (r *PostgresRepo) Insert(ctx context.Context, b *Book) error {
	const query = `
	INSERT INTO user_books (user_id, isbn, title, authors, description, categories, page_count, thumbnail)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (user_id, isbn) DO NOTHING
	RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	authors, categories := b.Authors, b.Categories
	if authors == nil {
		authors = []string{}
	}
	if categories == nil {
		categories = []string{}
	}

	err := r.db.QueryRow(timeoutCtx, query,
		b.UserID, b.ISBN, b.Title, authors, b.Description, categories, b.PageCount, b.Thumbnail,
	).Scan(&b.ID, &b.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || postgres.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *PostgresRepo) DeleteByISBN(ctx context.Context, userID, isbn string) (int, error) {
	const query = `DELETE FROM user_books WHERE user_id = $1 AND isbn = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query, userID, isbn)
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *PostgresRepo) ListAll(ctx context.Context, userID string) ([]Book, error) {
	const query = `
	SELECT id, user_id, isbn, title, authors, description, categories, page_count, thumbnail, created_at
	FROM user_books
	WHERE user_id = $1
	ORDER BY authors, title
	LIMIT $2
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, userID, MaxListSize)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]Book, 0)
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.ISBN, &b.Title, &b.Authors, &b.Description,
			&b.Categories, &b.PageCount, &b.Thumbnail, &b.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (r *PostgresRepo) Count(ctx context.Context, userID string) (int, error) {
	const query = `SELECT count(*) FROM user_books WHERE user_id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int
	if err := r.db.QueryRow(timeoutCtx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}
