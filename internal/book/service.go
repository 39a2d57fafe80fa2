package book

import (
	"context"
	"errors"
)

// Service provides library operations on top of a Repository.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Collection returns the library of userID.
func (s *Service) Collection(userID string) *Collection {
	return &Collection{repo: s.repo, userID: userID}
}

// View lists the collection of userID with opts applied. total is the size
// of the collection before filtering.
func (s *Service) View(ctx context.Context, userID string, opts ViewOptions) (books []Book, total int, err error) {
	all, err := s.Collection(userID).ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	return ApplyView(all, opts), len(all), nil
}

// Collection is one user's library. It never touches another owner's books.
type Collection struct {
	repo   Repository
	userID string
}

var errNoOwner = errors.New("book: collection has no owner")

func (c *Collection) Owner() string { return c.userID }

func (c *Collection) Exists(ctx context.Context, isbn string) (bool, error) {
	if c.userID == "" {
		return false, errNoOwner
	}
	return c.repo.Exists(ctx, c.userID, isbn)
}

// Insert attaches the owner to b and stores it. ErrDuplicate is returned when
// the ISBN is already present.
func (c *Collection) Insert(ctx context.Context, b *Book) error {
	if c.userID == "" {
		return errNoOwner
	}
	b.UserID = c.userID
	return c.repo.Insert(ctx, b)
}

// DeleteByISBN removes every book with isbn and reports how many were removed.
func (c *Collection) DeleteByISBN(ctx context.Context, isbn string) (int, error) {
	if c.userID == "" {
		return 0, errNoOwner
	}
	return c.repo.DeleteByISBN(ctx, c.userID, isbn)
}

func (c *Collection) ListAll(ctx context.Context) ([]Book, error) {
	if c.userID == "" {
		return nil, errNoOwner
	}
	return c.repo.ListAll(ctx, c.userID)
}

func (c *Collection) Count(ctx context.Context) (int, error) {
	if c.userID == "" {
		return 0, errNoOwner
	}
	return c.repo.Count(ctx, c.userID)
}
