package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionLockPrefix = "lock:booking:"

// releaseScript deletes the lock only while it still carries our token, so a
// lock that expired and was taken by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore serializes mutations of a booking session across instances.
type LockStore struct {
	client *redis.Client
	owner  string
}

// NewLockStore creates a new LockStore. Locks are tagged with a per-instance
// owner token.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client, owner: uuid.New().String()}
}

func sessionLockKey(sessionID string) string {
	return sessionLockPrefix + sessionID
}

// AcquireSessionLock takes the session lock. It returns false if the lock is
// held elsewhere.
func (s *LockStore) AcquireSessionLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, sessionLockKey(sessionID), s.owner, ttl).Result()
}

// ReleaseSessionLock releases the session lock if this instance holds it.
func (s *LockStore) ReleaseSessionLock(ctx context.Context, sessionID string) error {
	return releaseScript.Run(ctx, s.client, []string{sessionLockKey(sessionID)}, s.owner).Err()
}
