package ingest

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo keeps attempts in process memory.
type MemoryRepo struct {
	mu       sync.Mutex
	attempts map[string][]Attempt
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{attempts: make(map[string][]Attempt)}
}

func (r *MemoryRepo) RecordAttempt(_ context.Context, a *Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.NewString()
	r.attempts[a.UserID] = append(r.attempts[a.UserID], *a)
	return nil
}

func (r *MemoryRepo) ListAttempts(_ context.Context, userID string, limit int) ([]Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := slices.Clone(r.attempts[userID])
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Attempt{}
	}
	return out, nil
}
