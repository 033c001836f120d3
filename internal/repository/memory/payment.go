package memory

import (
	"context"
	"sort"
	"sync"

	"voltfind/internal/domain"
	"voltfind/internal/repository"
)

// PaymentRepository records payment attempts in process memory.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
}

// NewPaymentRepository creates an in-memory payment repository.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[string]*domain.Payment)}
}

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[payment.ID]; ok {
		return repository.ErrAlreadyExists
	}
	copy := *payment
	r.payments[payment.ID] = &copy
	return nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

// ListBySession retrieves the payment attempts of a session ordered by attempt.
func (r *PaymentRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range r.payments {
		if p.SessionID == sessionID {
			copy := *p
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Attempt < result[j].Attempt })
	return result, nil
}

// UpdateStatus updates the status of a payment.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	return nil
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)
