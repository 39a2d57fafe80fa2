package book

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-process Repository for tests and STORE=memory.
type MemoryRepo struct {
	mu    sync.RWMutex
	books map[string][]Book
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{books: make(map[string][]Book), now: time.Now}
}

func (r *MemoryRepo) Exists(_ context.Context, userID, isbn string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.ContainsFunc(r.books[userID], func(b Book) bool { return b.ISBN == isbn }), nil
}

func (r *MemoryRepo) Insert(_ context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := r.books[b.UserID]
	if slices.ContainsFunc(owned, func(x Book) bool { return x.ISBN == b.ISBN }) {
		return ErrDuplicate
	}
	b.ID = uuid.NewString()
	b.AddedAt = r.now().UTC()

	r.books[b.UserID] = append(owned, cloneBook(*b))
	return nil
}

func (r *MemoryRepo) DeleteByISBN(_ context.Context, userID, isbn string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.books[userID])
	r.books[userID] = slices.DeleteFunc(r.books[userID], func(b Book) bool { return b.ISBN == isbn })
	return before - len(r.books[userID]), nil
}

// ListAll mirrors the SQL base order: authors array, then title.
func (r *MemoryRepo) ListAll(_ context.Context, userID string) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.books[userID]
	out := make([]Book, 0, len(stored))
	for _, b := range stored {
		out = append(out, cloneBook(b))
	}
	slices.SortStableFunc(out, func(a, b Book) int {
		if c := slices.Compare(a.Authors, b.Authors); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
	if len(out) > MaxListSize {
		out = out[:MaxListSize]
	}
	return out, nil
}

func (r *MemoryRepo) Count(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books[userID]), nil
}

// cloneBook copies b so the caller and the store never share slices or
// pointed-to values.
func cloneBook(b Book) Book {
	b.Authors = slices.Clone(b.Authors)
	b.Categories = slices.Clone(b.Categories)
	if b.PageCount != nil {
		pc := *b.PageCount
		b.PageCount = &pc
	}
	if b.Thumbnail != nil {
		th := *b.Thumbnail
		b.Thumbnail = &th
	}
	return b
}
