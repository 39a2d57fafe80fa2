package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrUnknownSession is returned for a session that was never started,
	// belongs to another user, or has expired.
	ErrUnknownSession = errors.New("scan: unknown session")
	// ErrLatched is returned when a decode event arrives while the session
	// is already engaged.
	ErrLatched = errors.New("scan: session is latched")
)

// Latch holds the armed/engaged flag of every scan session. Engage must be
// atomic: of two concurrent callers on an armed session exactly one wins.
type Latch interface {
	// Arm creates the session in the armed state.
	Arm(ctx context.Context, userID, sessionID string) error
	// Engage flips an armed session to engaged. It returns ErrLatched when
	// the session is engaged already.
	Engage(ctx context.Context, userID, sessionID string) error
	// Release re-arms an engaged session. Releasing an armed session is a
	// no-op.
	Release(ctx context.Context, userID, sessionID string) error
}

func sessionKey(userID, sessionID string) string {
	return fmt.Sprintf("%s:%s", userID, sessionID)
}

type memoryEntry struct {
	engaged bool
	expires time.Time
}

// MemoryLatch is a process-local Latch for single-instance deployments and
// tests.
type MemoryLatch struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*memoryEntry
	now      func() time.Time
}

func NewMemoryLatch(ttl time.Duration) *MemoryLatch {
	return &MemoryLatch{
		ttl:      ttl,
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
	}
}

func (l *MemoryLatch) Arm(_ context.Context, userID, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep()
	l.sessions[sessionKey(userID, sessionID)] = &memoryEntry{expires: l.now().Add(l.ttl)}
	return nil
}

func (l *MemoryLatch) Engage(_ context.Context, userID, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, err := l.lookup(userID, sessionID)
	if err != nil {
		return err
	}
	if e.engaged {
		return ErrLatched
	}
	e.engaged = true
	e.expires = l.now().Add(l.ttl)
	return nil
}

func (l *MemoryLatch) Release(_ context.Context, userID, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, err := l.lookup(userID, sessionID)
	if err != nil {
		return err
	}
	e.engaged = false
	e.expires = l.now().Add(l.ttl)
	return nil
}

func (l *MemoryLatch) lookup(userID, sessionID string) (*memoryEntry, error) {
	key := sessionKey(userID, sessionID)
	e, ok := l.sessions[key]
	if !ok {
		return nil, ErrUnknownSession
	}
	if !l.now().Before(e.expires) {
		delete(l.sessions, key)
		return nil, ErrUnknownSession
	}
	return e, nil
}

// sweep drops expired sessions. Callers hold mu.
func (l *MemoryLatch) sweep() {
	now := l.now()
	for k, e := range l.sessions {
		if !now.Before(e.expires) {
			delete(l.sessions, k)
		}
	}
}

const redisKeyPrefix = "bookscanner:scan:"

// RedisLatch shares latches across API instances. A session is two keys: the
// session marker written by Arm, and the latch written with SET NX by
// Engage. Both expire after ttl.
type RedisLatch struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisLatch(client redis.UniversalClient, ttl time.Duration) *RedisLatch {
	return &RedisLatch{client: client, ttl: ttl}
}

func (l *RedisLatch) keys(userID, sessionID string) (session, latch string) {
	base := redisKeyPrefix + sessionKey(userID, sessionID)
	return base, base + ":latch"
}

func (l *RedisLatch) Arm(ctx context.Context, userID, sessionID string) error {
	session, _ := l.keys(userID, sessionID)
	if err := l.client.Set(ctx, session, "1", l.ttl).Err(); err != nil {
		return fmt.Errorf("arm scan session: %w", err)
	}
	return nil
}

func (l *RedisLatch) Engage(ctx context.Context, userID, sessionID string) error {
	session, latch := l.keys(userID, sessionID)
	if err := l.touch(ctx, session); err != nil {
		return err
	}
	ok, err := l.client.SetNX(ctx, latch, "1", l.ttl).Result()
	if err != nil {
		return fmt.Errorf("engage scan latch: %w", err)
	}
	if !ok {
		return ErrLatched
	}
	return nil
}

func (l *RedisLatch) Release(ctx context.Context, userID, sessionID string) error {
	session, latch := l.keys(userID, sessionID)
	if err := l.touch(ctx, session); err != nil {
		return err
	}
	if err := l.client.Del(ctx, latch).Err(); err != nil {
		return fmt.Errorf("release scan latch: %w", err)
	}
	return nil
}

// touch extends the session marker and reports ErrUnknownSession when it is
// gone.
func (l *RedisLatch) touch(ctx context.Context, session string) error {
	ok, err := l.client.Expire(ctx, session, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("refresh scan session: %w", err)
	}
	if !ok {
		return ErrUnknownSession
	}
	return nil
}
