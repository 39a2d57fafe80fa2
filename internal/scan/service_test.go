package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookscanner/internal/ingest"
)

type mockIngester struct {
	mock.Mock
}

func (m *mockIngester) Ingest(ctx context.Context, userID, isbn string, source ingest.Source) ingest.Outcome {
	args := m.Called(ctx, userID, isbn, source)
	return args.Get(0).(ingest.Outcome)
}

func newTestService(ing Ingester) *Service {
	svc := NewService(NewMemoryLatch(time.Minute), ing, zap.NewNop())
	svc.newID = func() string { return "s-1" }
	return svc
}

func TestService_DecodeOncePerArm(t *testing.T) {
	ctx := context.Background()
	ing := new(mockIngester)
	ing.On("Ingest", mock.Anything, "u-1", "9780316769488", ingest.SourceScan).
		Return(ingest.Outcome{Status: ingest.StatusAdded, ISBN: "9780316769488"}).Twice()
	svc := newTestService(ing)

	id, err := svc.Start(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", id)

	out, err := svc.Decode(ctx, "u-1", id, " 9780316769488\n")
	require.NoError(t, err)
	assert.Equal(t, ingest.StatusAdded, out.Status)

	for range 3 {
		_, err = svc.Decode(ctx, "u-1", id, "9780316769488")
		assert.ErrorIs(t, err, ErrLatched)
	}

	require.NoError(t, svc.Rearm(ctx, "u-1", id))
	_, err = svc.Decode(ctx, "u-1", id, "9780316769488")
	require.NoError(t, err)

	ing.AssertNumberOfCalls(t, "Ingest", 2)
}

func TestService_DecodeSurvivesCallerCancel(t *testing.T) {
	ing := new(mockIngester)
	ing.On("Ingest", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return ctx.Err() == nil && hasDeadline
	}), "u-1", "123", ingest.SourceScan).Return(ingest.Outcome{Status: ingest.StatusNotFound})
	svc := newTestService(ing)

	id, err := svc.Start(context.Background(), "u-1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := svc.Decode(ctx, "u-1", id, "123")
	require.NoError(t, err)
	assert.Equal(t, ingest.StatusNotFound, out.Status)
	ing.AssertExpectations(t)
}

func TestService_UnknownSession(t *testing.T) {
	ing := new(mockIngester)
	svc := newTestService(ing)

	_, err := svc.Decode(context.Background(), "u-1", "missing", "123")
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.ErrorIs(t, svc.Rearm(context.Background(), "u-1", "missing"), ErrUnknownSession)
	ing.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
