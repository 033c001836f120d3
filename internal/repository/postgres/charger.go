package postgres

import (
	"context"
	"database/sql"

	"voltfind/internal/domain"
	"voltfind/internal/repository"
)

// ChargerRepository is a PostgreSQL implementation of repository.ChargerRepository.
type ChargerRepository struct {
	q Querier
}

// NewChargerRepository creates a new PostgreSQL charger repository.
func NewChargerRepository(db *sql.DB) *ChargerRepository {
	return &ChargerRepository{q: db}
}

const chargerColumns = `
	id, name, address, speed, price_per_kwh, connector_type,
	COALESCE(distance, ''), available, total, COALESCE(rating, 0), power_kw
`

func scanCharger(row rowScanner) (*domain.Charger, error) {
	var c domain.Charger
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Address,
		&c.Speed,
		&c.PricePerKWh,
		&c.ConnectorType,
		&c.Distance,
		&c.Available,
		&c.Total,
		&c.Rating,
		&c.PowerKW,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAll retrieves every listed charger ordered by sort position.
func (r *ChargerRepository) GetAll(ctx context.Context) ([]*domain.Charger, error) {
	query := `SELECT ` + chargerColumns + ` FROM chargers ORDER BY sort_order, id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chargers []*domain.Charger
	for rows.Next() {
		c, err := scanCharger(rows)
		if err != nil {
			return nil, err
		}
		chargers = append(chargers, c)
	}

	return chargers, rows.Err()
}

// GetByID retrieves a charger by ID.
func (r *ChargerRepository) GetByID(ctx context.Context, id string) (*domain.Charger, error) {
	query := `SELECT ` + chargerColumns + ` FROM chargers WHERE id = $1`

	c, err := scanCharger(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}

	return c, nil
}

var _ repository.ChargerRepository = (*ChargerRepository)(nil)
