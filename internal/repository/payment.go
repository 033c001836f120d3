package repository

import (
	"context"

	"voltfind/internal/domain"
)

// PaymentRepository defines the persistence operations for reservation charges.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// ListBySession retrieves all payment attempts of a session, oldest first.
	ListBySession(ctx context.Context, sessionID string) ([]*domain.Payment, error)

	// UpdateStatus updates the status of a payment.
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error
}
