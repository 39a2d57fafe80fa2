package ingest

import (
	"context"
	"fmt"
	"time"

	"bookscanner/internal/platform/postgres"
)

type PostgresRepo struct {
	db      postgres.Pool
	timeout time.Duration
}

func NewPostgresRepo(db postgres.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) RecordAttempt(ctx context.Context, a *Attempt) error {
	const sql = `
		INSERT INTO ingest_attempts (user_id, isbn, source, status, reason, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql,
		a.UserID, a.ISBN, string(a.Source), string(a.Status), a.Reason, a.StartedAt, a.FinishedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert ingest attempt: %w", err)
	}
	return nil
}

func (r *PostgresRepo) ListAttempts(ctx context.Context, userID string, limit int) ([]Attempt, error) {
	const sql = `
		SELECT id, user_id, isbn, source, status, reason, started_at, finished_at
		FROM ingest_attempts
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2`

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingest attempts: %w", err)
	}
	defer rows.Close()

	out := make([]Attempt, 0)
	for rows.Next() {
		var a Attempt
		var source, status string
		if err := rows.Scan(&a.ID, &a.UserID, &a.ISBN, &source, &status, &a.Reason, &a.StartedAt, &a.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan ingest attempt: %w", err)
		}
		a.Source, a.Status = Source(source), Status(status)
		out = append(out, a)
	}
	return out, rows.Err()
}
