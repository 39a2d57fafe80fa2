package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresRepo(mock, time.Second), mock
}

func TestPostgresRepo_Create(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta("INSERT INTO users (email, username, password_hash)")

	t.Run("returns generated id", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now()
		mock.ExpectQuery(insert).
			WithArgs("reader@example.com", "reader", "hash").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("u-1", now, now))

		u := &User{Email: "reader@example.com", Username: "reader", PasswordHash: "hash"}
		require.NoError(t, repo.Create(ctx, u))
		assert.Equal(t, "u-1", u.ID)
		assert.Equal(t, now, u.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrAlreadyExists", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(insert).
			WithArgs("reader@example.com", "reader", "hash").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(ctx, &User{Email: "reader@example.com", Username: "reader", PasswordHash: "hash"})
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})
}

func TestPostgresRepo_GetByEmail(t *testing.T) {
	ctx := context.Background()
	sel := regexp.QuoteMeta("FROM users") + `\s+WHERE email = \$1`
	cols := []string{"id", "email", "username", "password_hash", "disabled", "created_at", "updated_at"}

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		now := time.Now()
		mock.ExpectQuery(sel).WithArgs("reader@example.com").
			WillReturnRows(pgxmock.NewRows(cols).AddRow("u-1", "reader@example.com", "reader", "hash", true, now, now))

		u, err := repo.GetByEmail(ctx, "reader@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
		assert.True(t, u.Disabled)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(sel).WithArgs("nobody@example.com").WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
