package memory

import (
	"context"

	"voltfind/internal/domain"
	"voltfind/internal/repository"
)

// ChargerRepository is a static, read-only charger directory.
type ChargerRepository struct {
	chargers []*domain.Charger
}

// NewChargerRepository creates a directory over the given chargers.
func NewChargerRepository(chargers []*domain.Charger) *ChargerRepository {
	return &ChargerRepository{chargers: chargers}
}

// DefaultChargers returns the built-in charger listing.
func DefaultChargers() []*domain.Charger {
	return []*domain.Charger{
		{
			ChargerInfo: domain.ChargerInfo{
				ID:            "1",
				Name:          "Tesla Supercharger - Downtown",
				Address:       "123 Main Street, Downtown",
				Speed:         "250 kW",
				PricePerKWh:   0.35,
				ConnectorType: "Tesla",
			},
			Distance:  "0.5 mi",
			Available: 4,
			Total:     8,
			Rating:    4.8,
			PowerKW:   250,
		},
		{
			ChargerInfo: domain.ChargerInfo{
				ID:            "2",
				Name:          "ChargePoint Station",
				Address:       "456 Oak Avenue",
				Speed:         "150 kW",
				PricePerKWh:   0.32,
				ConnectorType: "CCS",
			},
			Distance:  "1.2 mi",
			Available: 2,
			Total:     4,
			Rating:    4.5,
			PowerKW:   150,
		},
		{
			ChargerInfo: domain.ChargerInfo{
				ID:            "3",
				Name:          "Electrify America Hub",
				Address:       "789 Electric Blvd",
				Speed:         "350 kW",
				PricePerKWh:   0.43,
				ConnectorType: "CCS / CHAdeMO",
			},
			Distance:  "2.1 mi",
			Available: 6,
			Total:     12,
			Rating:    4.7,
			PowerKW:   350,
		},
		{
			ChargerInfo: domain.ChargerInfo{
				ID:            "4",
				Name:          "EVgo Fast Charger",
				Address:       "321 Green Lane",
				Speed:         "100 kW",
				PricePerKWh:   0.28,
				ConnectorType: "CCS",
			},
			Distance:  "2.8 mi",
			Available: 1,
			Total:     3,
			Rating:    4.2,
			PowerKW:   100,
		},
	}
}

// GetAll returns copies of every charger.
func (r *ChargerRepository) GetAll(ctx context.Context) ([]*domain.Charger, error) {
	result := make([]*domain.Charger, 0, len(r.chargers))
	for _, c := range r.chargers {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

// GetByID retrieves a charger by ID.
func (r *ChargerRepository) GetByID(ctx context.Context, id string) (*domain.Charger, error) {
	for _, c := range r.chargers {
		if c.ID == id {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

var _ repository.ChargerRepository = (*ChargerRepository)(nil)
