package home

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bookscanner/internal/book"
	"bookscanner/internal/user"
)

// Screen is the landing screen of a signed-in user.
type Screen struct {
	Username  string   `json:"username"`
	BookCount int      `json:"book_count"`
	Covers    []string `json:"covers"`
}

type Service struct {
	users  *user.Service
	books  *book.Service
	logger *zap.Logger
}

func NewService(users *user.Service, books *book.Service, logger *zap.Logger) *Service {
	return &Service{users: users, books: books, logger: logger}
}

// Load fetches the profile, the collection and its size concurrently. The
// count comes from the store so it is not bounded by book.MaxListSize. A
// missing profile leaves Username empty.
func (s *Service) Load(ctx context.Context, userID string, seed uint64) (Screen, error) {
	var (
		username string
		books    []book.Book
		count    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetByID(gctx, userID)
		if errors.Is(err, user.ErrNotFound) {
			s.logger.Warn("profile not found for home screen", zap.String("user_id", userID))
			return nil
		}
		if err != nil {
			return err
		}
		username = u.Username
		return nil
	})
	coll := s.books.Collection(userID)
	g.Go(func() error {
		var err error
		books, err = coll.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = coll.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Screen{}, err
	}

	covers := make([]string, 0, len(books))
	for _, b := range books {
		if b.Thumbnail != nil && *b.Thumbnail != "" {
			covers = append(covers, *b.Thumbnail)
		}
	}
	return Screen{
		Username:  username,
		BookCount: count,
		Covers:    Shuffle(covers, seed),
	}, nil
}
