package ingest

import (
	"context"

	"bookscanner/internal/platform/googlebooks"
)

// MetadataLookup resolves an ISBN against the public catalog. It returns
// googlebooks.ErrNoMatch when the catalog has no record.
type MetadataLookup interface {
	LookupISBN(ctx context.Context, isbn string) (*googlebooks.Volume, error)
}

// Repository keeps the ingestion history.
type Repository interface {
	RecordAttempt(ctx context.Context, a *Attempt) error
	ListAttempts(ctx context.Context, userID string, limit int) ([]Attempt, error)
}
