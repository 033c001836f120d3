package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"voltfind/internal/domain"
	"voltfind/internal/repository"
)

const sessionKeyPrefix = "session:booking:"

// SessionStore keeps booking sessions in Redis as JSON with a sliding TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Create stores a new session.
func (s *SessionStore) Create(ctx context.Context, session *domain.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, sessionKeyPrefix+session.ID, data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrAlreadyExists
	}
	return nil
}

// GetByID retrieves a session.
func (s *SessionStore) GetByID(ctx context.Context, id string) (*domain.BookingSession, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var session domain.BookingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Update replaces an existing session and refreshes its TTL.
func (s *SessionStore) Update(ctx context.Context, session *domain.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ok, err := s.client.SetXX(ctx, sessionKeyPrefix+session.ID, data, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}
