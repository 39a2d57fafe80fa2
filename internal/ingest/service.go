package ingest

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookscanner/internal/book"
	"bookscanner/internal/platform/googlebooks"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

type Service struct {
	lookup   MetadataLookup
	books    *book.Service
	attempts Repository
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the workflow. attempts may be nil to disable history.
func NewService(lookup MetadataLookup, books *book.Service, attempts Repository, logger *zap.Logger) *Service {
	return &Service{
		lookup:   lookup,
		books:    books,
		attempts: attempts,
		logger:   logger,
		now:      time.Now,
	}
}

// Ingest looks isbn up in the catalog and adds it to the collection of
// userID. Every stage runs once; nothing is retried or rolled back. Manual
// entry and barcode scans both come through here.
func (s *Service) Ingest(ctx context.Context, userID, isbn string, source Source) Outcome {
	started := s.now()
	isbn = strings.TrimSpace(isbn)
	out := s.ingest(ctx, userID, isbn)

	log := s.logger.With(
		zap.String("user_id", userID),
		zap.String("isbn", isbn),
		zap.String("source", string(source)),
		zap.String("status", string(out.Status)),
	)
	if out.Reason != "" {
		log.Warn("ingestion finished", zap.String("reason", out.Reason))
	} else {
		log.Info("ingestion finished")
	}

	s.record(ctx, &Attempt{
		UserID:     userID,
		ISBN:       isbn,
		Source:     source,
		Status:     out.Status,
		Reason:     out.Reason,
		StartedAt:  started,
		FinishedAt: s.now(),
	})
	return out
}

func (s *Service) ingest(ctx context.Context, userID, isbn string) Outcome {
	out := Outcome{ISBN: isbn}

	vol, err := s.lookup.LookupISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, googlebooks.ErrNoMatch) {
			out.Status = StatusNotFound
			return out
		}
		out.Status = StatusLookupFailed
		out.Reason = err.Error()
		return out
	}

	coll := s.books.Collection(userID)
	exists, err := coll.Exists(ctx, isbn)
	if err != nil {
		out.Status = StatusFailed
		out.Reason = err.Error()
		return out
	}
	if exists {
		out.Status = StatusDuplicate
		return out
	}

	b := BookFromVolume(isbn, vol)
	if err := coll.Insert(ctx, &b); err != nil {
		if errors.Is(err, book.ErrDuplicate) {
			out.Status = StatusDuplicate
			return out
		}
		out.Status = StatusFailed
		out.Reason = err.Error()
		return out
	}

	out.Status = StatusAdded
	out.Book = &b
	return out
}

func (s *Service) record(ctx context.Context, a *Attempt) {
	if s.attempts == nil {
		return
	}
	if err := s.attempts.RecordAttempt(ctx, a); err != nil {
		s.logger.Warn("record ingest attempt",
			zap.String("user_id", a.UserID),
			zap.String("isbn", a.ISBN),
			zap.Error(err),
		)
	}
}

// History returns the latest attempts of userID, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]Attempt, error) {
	if s.attempts == nil {
		return []Attempt{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.attempts.ListAttempts(ctx, userID, limit)
}

// BookFromVolume maps catalog metadata to an unowned Book. Missing page
// count and thumbnail stay absent.
func BookFromVolume(isbn string, v *googlebooks.Volume) book.Book {
	info := v.VolumeInfo
	b := book.Book{
		ISBN:        isbn,
		Title:       info.Title,
		Authors:     slices.Clone(info.Authors),
		Description: info.Description,
		Categories:  slices.Clone(info.Categories),
	}
	if b.Authors == nil {
		b.Authors = []string{}
	}
	if b.Categories == nil {
		b.Categories = []string{}
	}
	if info.PageCount > 0 {
		pc := info.PageCount
		b.PageCount = &pc
	}
	if thumb := info.Thumbnail(); thumb != "" {
		b.Thumbnail = &thumb
	}
	return b
}
