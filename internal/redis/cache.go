package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"voltfind/internal/domain"
)

// CacheStore handles charger directory caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	ChargerCacheTTL     = 60 * time.Second // Stall availability drifts
	ChargerListCacheTTL = 30 * time.Second
)

// Key prefixes
const (
	chargerCachePrefix = "cache:charger:"
	chargerListKey     = "cache:chargers:all"
)

// CachedCharger represents a cached charger entity.
type CachedCharger struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Speed         string  `json:"speed"`
	PricePerKWh   float64 `json:"price_per_kwh"`
	ConnectorType string  `json:"connector_type"`
	Distance      string  `json:"distance"`
	Available     int     `json:"available"`
	Total         int     `json:"total"`
	Rating        float64 `json:"rating"`
	PowerKW       int     `json:"power_kw"`
}

// ToCachedCharger converts a domain charger for caching.
func ToCachedCharger(c *domain.Charger) *CachedCharger {
	return &CachedCharger{
		ID:            c.ID,
		Name:          c.Name,
		Address:       c.Address,
		Speed:         c.Speed,
		PricePerKWh:   c.PricePerKWh,
		ConnectorType: c.ConnectorType,
		Distance:      c.Distance,
		Available:     c.Available,
		Total:         c.Total,
		Rating:        c.Rating,
		PowerKW:       c.PowerKW,
	}
}

// ToDomain converts a cached charger back to the domain type.
func (c *CachedCharger) ToDomain() *domain.Charger {
	return &domain.Charger{
		ChargerInfo: domain.ChargerInfo{
			ID:            c.ID,
			Name:          c.Name,
			Address:       c.Address,
			Speed:         c.Speed,
			PricePerKWh:   c.PricePerKWh,
			ConnectorType: c.ConnectorType,
		},
		Distance:  c.Distance,
		Available: c.Available,
		Total:     c.Total,
		Rating:    c.Rating,
		PowerKW:   c.PowerKW,
	}
}

// GetCharger retrieves a charger from cache. Returns nil on a cache miss.
func (s *CacheStore) GetCharger(ctx context.Context, chargerID string) (*CachedCharger, error) {
	data, err := s.client.Get(ctx, chargerCachePrefix+chargerID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var charger CachedCharger
	if err := json.Unmarshal(data, &charger); err != nil {
		return nil, err
	}
	return &charger, nil
}

// SetCharger stores a charger in cache.
func (s *CacheStore) SetCharger(ctx context.Context, charger *CachedCharger) error {
	data, err := json.Marshal(charger)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, chargerCachePrefix+charger.ID, data, ChargerCacheTTL).Err()
}

// InvalidateCharger removes a charger and the full listing from cache.
func (s *CacheStore) InvalidateCharger(ctx context.Context, chargerID string) error {
	return s.client.Del(ctx, chargerCachePrefix+chargerID, chargerListKey).Err()
}

// GetChargerList retrieves the full listing. Returns nil on a cache miss.
func (s *CacheStore) GetChargerList(ctx context.Context) ([]*CachedCharger, error) {
	data, err := s.client.Get(ctx, chargerListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var chargers []*CachedCharger
	if err := json.Unmarshal(data, &chargers); err != nil {
		return nil, err
	}
	return chargers, nil
}

// SetChargerList stores the full listing and warms the per-charger entries
// in a single pipeline.
func (s *CacheStore) SetChargerList(ctx context.Context, chargers []*CachedCharger) error {
	list, err := json.Marshal(chargers)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, chargerListKey, list, ChargerListCacheTTL)
	for _, c := range chargers {
		data, err := json.Marshal(c)
		if err != nil {
			continue // Skip invalid entries
		}
		pipe.Set(ctx, chargerCachePrefix+c.ID, data, ChargerCacheTTL)
	}

	_, err = pipe.Exec(ctx)
	return err
}
