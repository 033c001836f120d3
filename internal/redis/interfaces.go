package redis

import (
	"context"
	"time"

	"voltfind/internal/repository"
)

// LockStoreInterface is implemented by stores that serialize session mutations.
type LockStoreInterface interface {
	AcquireSessionLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseSessionLock(ctx context.Context, sessionID string) error
}

// ChargerCacheInterface caches directory entries. A miss returns nil, nil.
type ChargerCacheInterface interface {
	GetCharger(ctx context.Context, chargerID string) (*CachedCharger, error)
	SetCharger(ctx context.Context, charger *CachedCharger) error
	GetChargerList(ctx context.Context) ([]*CachedCharger, error)
	SetChargerList(ctx context.Context, chargers []*CachedCharger) error
}

var (
	_ LockStoreInterface           = (*LockStore)(nil)
	_ ChargerCacheInterface        = (*CacheStore)(nil)
	_ repository.SessionRepository = (*SessionStore)(nil)
)
