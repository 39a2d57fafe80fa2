package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookscanner/internal/testutil"
)

func TestIntegration_PostgresCollection(t *testing.T) {
	pool := testutil.PostgresPool(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, pool)
	c := NewService(NewPostgresRepo(pool, 3*time.Second)).Collection(owner)

	pages := 277
	require.NoError(t, c.Insert(ctx, &Book{
		ISBN: "9780316769488", Title: "The Catcher in the Rye",
		Authors: []string{"J.D. Salinger"}, PageCount: &pages,
	}))
	assert.ErrorIs(t, c.Insert(ctx, &Book{ISBN: "9780316769488", Title: "again"}), ErrDuplicate)

	ok, err := c.Exists(ctx, "9780316769488")
	require.NoError(t, err)
	assert.True(t, ok)

	all, err := c.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].PageCount)
	assert.Equal(t, 277, *all[0].PageCount)
	assert.Nil(t, all[0].Thumbnail)

	n, err := c.DeleteByISBN(ctx, "9780316769488")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
