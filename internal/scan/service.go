package scan

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookscanner/internal/ingest"
)

// DefaultDecodeBudget bounds one ingestion started by a decode event. It
// stays below the server write timeout.
const DefaultDecodeBudget = 20 * time.Second

// Ingester is the part of the ingestion workflow a scan session needs.
type Ingester interface {
	Ingest(ctx context.Context, userID, isbn string, source ingest.Source) ingest.Outcome
}

type Service struct {
	latch  Latch
	ingest Ingester
	logger *zap.Logger
	budget time.Duration
	newID  func() string
}

func NewService(latch Latch, ing Ingester, logger *zap.Logger) *Service {
	return &Service{
		latch:  latch,
		ingest: ing,
		logger: logger,
		budget: DefaultDecodeBudget,
		newID:  uuid.NewString,
	}
}

// Start opens an armed scan session for userID.
func (s *Service) Start(ctx context.Context, userID string) (string, error) {
	id := s.newID()
	if err := s.latch.Arm(ctx, userID, id); err != nil {
		return "", err
	}
	s.logger.Debug("scan session started", zap.String("user_id", userID), zap.String("session_id", id))
	return id, nil
}

// Decode handles one barcode decode event. The first event on an armed
// session engages the latch and runs the ingestion; later events fail with
// ErrLatched until Rearm. The ingestion is not cancelled when the caller
// goes away.
func (s *Service) Decode(ctx context.Context, userID, sessionID, data string) (ingest.Outcome, error) {
	if err := s.latch.Engage(ctx, userID, sessionID); err != nil {
		return ingest.Outcome{}, err
	}

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.budget)
	defer cancel()
	return s.ingest.Ingest(runCtx, userID, strings.TrimSpace(data), ingest.SourceScan), nil
}

// Rearm releases the latch so the next decode event is processed.
func (s *Service) Rearm(ctx context.Context, userID, sessionID string) error {
	return s.latch.Release(ctx, userID, sessionID)
}
