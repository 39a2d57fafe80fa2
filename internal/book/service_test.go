package book

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	alice, bob := svc.Collection("alice"), svc.Collection("bob")

	b := &Book{ISBN: "123", Title: "Shared Title", Authors: []string{"Some One"}}
	require.NoError(t, alice.Insert(ctx, b))
	assert.Equal(t, "alice", b.UserID)
	assert.NotEmpty(t, b.ID)

	ok, err := bob.Exists(ctx, "123")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bob.Insert(ctx, &Book{ISBN: "123", Title: "Shared Title"}))
	assert.ErrorIs(t, alice.Insert(ctx, &Book{ISBN: "123"}), ErrDuplicate)

	n, err := bob.DeleteByISBN(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = bob.DeleteByISBN(ctx, "123")
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := alice.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollection_RequiresOwner(t *testing.T) {
	c := NewService(NewMemoryRepo()).Collection("")
	_, err := c.ListAll(context.Background())
	assert.Error(t, err)
	assert.Error(t, c.Insert(context.Background(), &Book{ISBN: "1"}))
}

func TestService_View(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	c := svc.Collection("u")
	require.NoError(t, c.Insert(ctx, &Book{ISBN: "1", Title: "Zed", Authors: []string{"Amy West"}}))
	require.NoError(t, c.Insert(ctx, &Book{ISBN: "2", Title: "Abe", Authors: []string{"Bo East"}}))

	books, total, err := svc.View(ctx, "u", ViewOptions{Key: SortByAuthor, Dir: Ascending})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"Abe", "Zed"}, titles(books))

	books, total, err = svc.View(ctx, "u", ViewOptions{Search: "zed"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"Zed"}, titles(books))
}

func TestBook_JSON(t *testing.T) {
	raw, err := json.Marshal(Book{ISBN: "1", Title: "Bare"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, []any{}, m["authors"])
	assert.Equal(t, []any{}, m["categories"])
	assert.NotContains(t, m, "thumbnail")
	assert.NotContains(t, m, "page_count")
	assert.NotContains(t, m, "UserID")
}

func TestMemoryRepo_ListAllReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	thumb := "http://x/1.jpg"
	require.NoError(t, repo.Insert(ctx, &Book{
		UserID: "u", ISBN: "1", Title: "T",
		Authors: []string{"Amy West"}, Categories: []string{"Fiction"}, Thumbnail: &thumb,
	}))

	first, err := repo.ListAll(ctx, "u")
	require.NoError(t, err)
	first[0].Authors[0] = "Mallory"
	first[0].Categories[0] = "Tampered"
	*first[0].Thumbnail = "http://evil/"

	again, err := repo.ListAll(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"Amy West"}, again[0].Authors)
	assert.Equal(t, []string{"Fiction"}, again[0].Categories)
	assert.Equal(t, "http://x/1.jpg", *again[0].Thumbnail)
}
