package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository stores every user's collection. All methods are scoped by the
// owner id; callers go through Collection rather than passing ids around.
type Repository interface {
	Exists(ctx context.Context, userID, isbn string) (bool, error)
	Insert(ctx context.Context, b *Book) error
	DeleteByISBN(ctx context.Context, userID, isbn string) (int, error)
	ListAll(ctx context.Context, userID string) ([]Book, error)
	Count(ctx context.Context, userID string) (int, error)
}
