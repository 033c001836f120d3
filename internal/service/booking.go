package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voltfind/internal/booking"
	"voltfind/internal/domain"
	internalRedis "voltfind/internal/redis"
	"voltfind/internal/repository"
)

const (
	lockAttempts      = 20
	lockRetryInterval = 25 * time.Millisecond

	completionAttempts      = 6
	completionRetryInterval = 50 * time.Millisecond
	completionRetryMax      = time.Second

	defaultProcessingTimeout = 30 * time.Second
)

// BookingConfig holds the booking service settings.
type BookingConfig struct {
	MaxAdvance         time.Duration
	MaxPaymentAttempts int
	LockTTL            time.Duration
	// ProcessingTimeout is how long a payment may stay in flight before the
	// session stops treating it as processing.
	ProcessingTimeout  time.Duration
}

// ChargerLookup resolves the charger a session is opened against.
type ChargerLookup interface {
	Get(ctx context.Context, id string) (*domain.Charger, error)
}

// BookingService owns booking sessions and drives each one through its flow.
type BookingService struct {
	sessions      repository.SessionRepository
	chargers      ChargerLookup
	payments      *PaymentService
	locks         internalRedis.LockStoreInterface
	notifications *NotificationService
	receipts      *ReceiptService
	logger        *zap.Logger
	cfg           BookingConfig
	now           func() time.Time
	newCode       func() string
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	sessions repository.SessionRepository,
	chargers ChargerLookup,
	payments *PaymentService,
	locks internalRedis.LockStoreInterface,
	notifications *NotificationService,
	receipts *ReceiptService,
	logger *zap.Logger,
	cfg BookingConfig,
) *BookingService {
	if cfg.MaxAdvance <= 0 {
		cfg.MaxAdvance = booking.DefaultMaxAdvance
	}
	if cfg.MaxPaymentAttempts <= 0 {
		cfg.MaxPaymentAttempts = booking.DefaultMaxPaymentAttempts
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Second
	}
	if cfg.ProcessingTimeout <= 0 {
		cfg.ProcessingTimeout = defaultProcessingTimeout
	}
	return &BookingService{
		sessions:      sessions,
		chargers:      chargers,
		payments:      payments,
		locks:         locks,
		notifications: notifications,
		receipts:      receipts,
		logger:        logger,
		cfg:           cfg,
		now:           time.Now,
		newCode:       booking.NewConfirmationCode,
	}
}

// SetClock overrides the time source.
func (s *BookingService) SetClock(now func() time.Time) {
	s.now = now
}

// SessionView is a session together with the values derived from it.
type SessionView struct {
	Session           *domain.BookingSession
	CanProceed        bool
	PaymentReady      bool
	Processing        bool
	RemainingAttempts int
	Quote             domain.Quote
}

// View computes the derived values of a session.
func (s *BookingService) View(session *domain.BookingSession) SessionView {
	f := s.attach(session)
	return SessionView{
		Session:           session,
		CanProceed:        f.CanProceed(),
		PaymentReady:      f.PaymentReady(),
		Processing:        f.InFlight(),
		RemainingAttempts: f.RemainingAttempts(),
		Quote:             f.Quote(),
	}
}

// Open starts a new booking session for a charger.
func (s *BookingService) Open(ctx context.Context, chargerID string) (*domain.BookingSession, error) {
	if chargerID == "" {
		return nil, ErrInvalidChargerID
	}

	charger, err := s.chargers.Get(ctx, chargerID)
	if err != nil {
		return nil, fmt.Errorf("resolve charger %s: %w", chargerID, err)
	}

	session := booking.NewSession(uuid.New().String(), charger.ChargerInfo, s.now())
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("booking session opened",
		zap.String("session_id", session.ID),
		zap.String("charger_id", charger.ID),
	)
	return session, nil
}

// Get retrieves a session.
func (s *BookingService) Get(ctx context.Context, id string) (*domain.BookingSession, error) {
	if id == "" {
		return nil, ErrInvalidSessionID
	}
	return s.sessions.GetByID(ctx, id)
}

// SelectDate sets the booking date.
func (s *BookingService) SelectDate(ctx context.Context, id string, date time.Time) (*domain.BookingSession, error) {
	return s.mutate(ctx, id, func(f *booking.Flow) error {
		return f.SelectDate(date)
	})
}

// SelectTime sets the start time.
func (s *BookingService) SelectTime(ctx context.Context, id string, slot string) (*domain.BookingSession, error) {
	return s.mutate(ctx, id, func(f *booking.Flow) error {
		return f.SelectTime(slot)
	})
}

// SelectDuration sets the charging duration.
func (s *BookingService) SelectDuration(ctx context.Context, id string, minutes int) (*domain.BookingSession, error) {
	return s.mutate(ctx, id, func(f *booking.Flow) error {
		return f.SelectDuration(minutes)
	})
}

// Next advances to the payment step.
func (s *BookingService) Next(ctx context.Context, id string) (*domain.BookingSession, error) {
	return s.mutate(ctx, id, func(f *booking.Flow) error {
		return f.Next()
	})
}

// Back returns to date/time selection.
func (s *BookingService) Back(ctx context.Context, id string) (*domain.BookingSession, error) {
	return s.mutate(ctx, id, func(f *booking.Flow) error {
		return f.Back()
	})
}

// UpdatePayment changes the payment fields.
func (s *BookingService) UpdatePayment(ctx context.Context, id string, u booking.PaymentUpdate) (*domain.BookingSession, error) {
	return s.mutate(ctx, id, func(f *booking.Flow) error {
		return f.UpdatePayment(u)
	})
}

// SubmitPayment charges the reservation and confirms the booking on success.
// The charge runs to completion even if ctx is cancelled. On a decline the
// session stays on the payment step and ErrPaymentDeclined is returned along
// with the session.
func (s *BookingService) SubmitPayment(ctx context.Context, id string) (*domain.BookingSession, error) {
	ctx = context.WithoutCancel(ctx)

	var (
		amount  float64
		attempt int
	)
	if _, err := s.mutate(ctx, id, func(f *booking.Flow) error {
		if err := f.BeginPayment(); err != nil {
			return err
		}
		amount = f.Quote().Total
		attempt = f.Session().Draft.PaymentAttempts
		return nil
	}); err != nil {
		return nil, err
	}

	payment, chargeErr := s.payments.Charge(ctx, ChargeRequest{
		SessionID: id,
		Amount:    amount,
		Attempt:   attempt,
	})
	succeeded := chargeErr == nil && payment.Status == domain.PaymentStatusSuccess

	session, err := s.finishPayment(ctx, id, func(f *booking.Flow) error {
		// A stale payment may have been superseded by a newer attempt.
		if f.Session().Draft.PaymentAttempts != attempt {
			return booking.ErrPaymentNotStarted
		}
		if !succeeded {
			return f.FailPayment(declineReason(chargeErr))
		}
		return f.CompletePayment(domain.Confirmation{
			Code:        s.newCode(),
			PaymentID:   payment.ID,
			Amount:      payment.Amount,
			ConfirmedAt: s.now(),
		})
	})
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Info("payment finished after session closed",
			zap.String("session_id", id),
			zap.Bool("succeeded", succeeded),
		)
		return nil, ErrSessionClosed
	}
	if err != nil {
		fields := []zap.Field{
			zap.String("session_id", id),
			zap.Int("attempt", attempt),
			zap.Bool("succeeded", succeeded),
			zap.Error(err),
		}
		if payment != nil {
			fields = append(fields, zap.String("payment_id", payment.ID))
		}
		s.logger.Error("failed to record payment result", fields...)
		return nil, err
	}

	if !succeeded {
		s.logger.Warn("payment declined",
			zap.String("session_id", id),
			zap.Int("attempt", attempt),
			zap.Error(chargeErr),
		)
		if payment != nil {
			_ = s.notifications.NotifyPaymentFailed(ctx, session, payment)
		}
		if chargeErr != nil {
			return session, fmt.Errorf("%w: %v", ErrPaymentDeclined, chargeErr)
		}
		return session, ErrPaymentDeclined
	}

	s.logger.Info("booking confirmed",
		zap.String("session_id", id),
		zap.String("confirmation_code", session.Confirmation.Code),
		zap.Float64("amount", payment.Amount),
	)
	_ = s.notifications.NotifyBookingConfirmed(ctx, session)
	return session, nil
}

// Close resets and discards a session. A payment still in flight finishes
// but its result is dropped.
func (s *BookingService) Close(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidSessionID
	}

	release, err := s.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return err
	}

	completed := session.Draft.Complete
	s.attach(session).Reset()
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if !completed {
		_ = s.notifications.NotifyBookingCancelled(ctx, session)
	}
	s.logger.Info("booking session closed", zap.String("session_id", id), zap.Bool("completed", completed))
	return nil
}

// Receipt returns the receipt of a confirmed session and its text rendering.
func (s *BookingService) Receipt(ctx context.Context, id string) (*domain.Receipt, string, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	receipt, err := s.receipts.GenerateReceipt(session)
	if err != nil {
		return nil, "", err
	}
	return receipt, s.receipts.FormatReceipt(receipt), nil
}

// Payments lists the payment attempts of a session.
func (s *BookingService) Payments(ctx context.Context, id string) ([]*domain.Payment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.payments.ListBySession(ctx, id)
}

func (s *BookingService) attach(session *domain.BookingSession) *booking.Flow {
	return booking.Attach(session,
		booking.WithClock(s.now),
		booking.WithMaxAdvance(s.cfg.MaxAdvance),
		booking.WithMaxPaymentAttempts(s.cfg.MaxPaymentAttempts),
		booking.WithProcessingTimeout(s.cfg.ProcessingTimeout),
	)
}

// finishPayment records the outcome of a charge. The charge has already
// happened, so transient lock and store failures are retried with backoff.
// It stops early when the session is gone or the payment is no longer the
// one in flight.
func (s *BookingService) finishPayment(ctx context.Context, id string, fn func(f *booking.Flow) error) (*domain.BookingSession, error) {
	wait := completionRetryInterval
	var err error
	for i := 0; i < completionAttempts; i++ {
		var session *domain.BookingSession
		session, err = s.mutate(ctx, id, fn)
		if err == nil {
			return session, nil
		}
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, booking.ErrPaymentNotStarted) {
			return nil, err
		}

		s.logger.Warn("retrying payment completion",
			zap.String("session_id", id),
			zap.Int("try", i+1),
			zap.Error(err),
		)
		if i < completionAttempts-1 {
			time.Sleep(wait)
			wait = min(wait*2, completionRetryMax)
		}
	}
	return nil, fmt.Errorf("record payment result: %w", err)
}

// mutate applies fn to the session under the session lock and saves the
// result. Nothing is saved when fn fails.
func (s *BookingService) mutate(ctx context.Context, id string, fn func(f *booking.Flow) error) (*domain.BookingSession, error) {
	if id == "" {
		return nil, ErrInvalidSessionID
	}

	release, err := s.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(s.attach(session)); err != nil {
		return nil, err
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *BookingService) acquire(ctx context.Context, id string) (func(), error) {
	for i := 0; i < lockAttempts; i++ {
		ok, err := s.locks.AcquireSessionLock(ctx, id, s.cfg.LockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire session lock: %w", err)
		}
		if ok {
			return func() {
				if err := s.locks.ReleaseSessionLock(context.WithoutCancel(ctx), id); err != nil {
					s.logger.Warn("failed to release session lock", zap.String("session_id", id), zap.Error(err))
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
	return nil, ErrSessionBusy
}

func declineReason(err error) string {
	if err != nil {
		return "payment provider error"
	}
	return "card declined"
}
