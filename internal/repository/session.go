package repository

import (
	"context"

	"voltfind/internal/domain"
)

// SessionRepository stores open booking sessions. Sessions expire on their own
// and are never kept beyond the store's TTL.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *domain.BookingSession) error

	// GetByID retrieves a session. Returns ErrNotFound for unknown or expired sessions.
	GetByID(ctx context.Context, id string) (*domain.BookingSession, error)

	// Update replaces an existing session.
	Update(ctx context.Context, session *domain.BookingSession) error

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error
}
