package postgres

import (
	"context"
	"database/sql"

	"voltfind/internal/domain"
	"voltfind/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO booking_payments (id, session_id, amount, status, attempt, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.SessionID,
		payment.Amount,
		payment.Status,
		payment.Attempt,
		payment.CreatedAt,
	)

	return translateError(err)
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT id, session_id, amount, status, attempt, created_at
		FROM booking_payments WHERE id = $1
	`

	var payment domain.Payment
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&payment.ID,
		&payment.SessionID,
		&payment.Amount,
		&payment.Status,
		&payment.Attempt,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}

	return &payment, nil
}

// ListBySession retrieves the payment attempts of a session.
func (r *PaymentRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, session_id, amount, status, attempt, created_at
		FROM booking_payments WHERE session_id = $1 ORDER BY attempt
	`

	rows, err := r.q.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Amount, &p.Status, &p.Attempt, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}

	return payments, rows.Err()
}

// UpdateStatus updates the status of a payment.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	query := `UPDATE booking_payments SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)
