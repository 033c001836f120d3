package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"

	"voltfind/internal/domain"
	"voltfind/internal/repository"
)

// PSP is the interface for a Payment Service Provider.
type PSP interface {
	Charge(ctx context.Context, amount float64) (bool, error)
}

// SimulatedPSP stands in for a card processor. Each charge waits for the
// configured delay and is declined with probability DeclineRate.
type SimulatedPSP struct {
	delay       time.Duration
	declineRate float64
	rand        func() float64
}

// NewSimulatedPSP creates a simulated PSP.
func NewSimulatedPSP(delay time.Duration, declineRate float64) *SimulatedPSP {
	return &SimulatedPSP{
		delay:       delay,
		declineRate: declineRate,
		rand:        rand.Float64,
	}
}

// Charge simulates a payment charge.
func (p *SimulatedPSP) Charge(ctx context.Context, amount float64) (bool, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	if p.declineRate > 0 && p.rand() < p.declineRate {
		return false, nil
	}
	return true, nil
}

// PaymentService records reservation charges and runs them through the PSP.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	psp         PSP
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo repository.PaymentRepository, psp PSP) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		psp:         psp,
		now:         time.Now,
	}
}

// ChargeRequest contains the parameters for a reservation charge.
type ChargeRequest struct {
	SessionID string
	Amount    float64
	Attempt   int
}

// Charge creates a PENDING payment, calls the PSP and records the outcome.
// A decline is reported through the payment status, not the error.
func (s *PaymentService) Charge(ctx context.Context, req ChargeRequest) (*domain.Payment, error) {
	if req.SessionID == "" {
		return nil, ErrInvalidSessionID
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}

	payment := &domain.Payment{
		ID:        "pi_" + uuid.New().String(),
		SessionID: req.SessionID,
		Amount:    req.Amount,
		Status:    domain.PaymentStatusPending,
		Attempt:   req.Attempt,
		CreatedAt: s.now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	segment := newrelic.FromContext(ctx).StartSegment("psp/Charge")
	success, err := s.psp.Charge(ctx, req.Amount)
	segment.End()

	status := domain.PaymentStatusSuccess
	if err != nil || !success {
		status = domain.PaymentStatusDeclined
	}
	if updateErr := s.paymentRepo.UpdateStatus(ctx, payment.ID, status); updateErr != nil {
		return nil, updateErr
	}
	payment.Status = status

	return payment, err
}

// ListBySession returns the payment attempts of a session.
func (s *PaymentService) ListBySession(ctx context.Context, sessionID string) ([]*domain.Payment, error) {
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}
	return s.paymentRepo.ListBySession(ctx, sessionID)
}
