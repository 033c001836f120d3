package repository

import (
	"context"

	"voltfind/internal/domain"
)

// ChargerRepository defines the read operations of the charger directory.
type ChargerRepository interface {
	// GetAll retrieves every listed charger in display order.
	GetAll(ctx context.Context) ([]*domain.Charger, error)

	// GetByID retrieves a charger by ID.
	GetByID(ctx context.Context, id string) (*domain.Charger, error)
}
