package memory

import (
	"context"
	"sync"
	"time"
)

// LockStore is an in-process stand-in for the Redis session lock, used when
// Redis is disabled.
type LockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time
	now   func() time.Time
}

// NewLockStore creates a new in-process lock store.
func NewLockStore() *LockStore {
	return &LockStore{
		locks: make(map[string]time.Time),
		now:   time.Now,
	}
}

// AcquireSessionLock acquires the lock unless a live one is held.
func (s *LockStore) AcquireSessionLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if exp, ok := s.locks[sessionID]; ok && s.now().Before(exp) {
		return false, nil
	}
	s.locks[sessionID] = s.now().Add(ttl)
	return true, nil
}

// ReleaseSessionLock releases the lock.
func (s *LockStore) ReleaseSessionLock(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, sessionID)
	return nil
}
