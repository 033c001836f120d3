package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"voltfind/internal/booking"
	"voltfind/internal/domain"
	"voltfind/internal/repository/memory"
	"voltfind/internal/service"
)

var testNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

// testClock is a settable time source shared by the fixture's services.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// bookingFixture bundles a BookingService with the mocks behind it.
type bookingFixture struct {
	service  *service.BookingService
	sessions *MockSessionRepository
	chargers *MockChargerRepository
	payments *MockPaymentRepository
	locks    *MockLockStore
	psp      *MockPSP
	notifier *MockDispatcher
	clock    *testClock
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		sessions: NewMockSessionRepository(),
		chargers: NewMockChargerRepository(memory.DefaultChargers()...),
		payments: NewMockPaymentRepository(),
		locks:    NewMockLockStore(),
		psp:      NewMockPSP(),
		notifier: NewMockDispatcher(),
		clock:    &testClock{now: testNow},
	}

	logger := zap.NewNop()
	notifications := service.NewNotificationService(f.notifier, logger, 30*time.Minute)
	notifications.SetClock(func() time.Time { return testNow })
	directory := service.NewDirectoryService(f.chargers, nil, logger)
	f.service = service.NewBookingService(
		f.sessions,
		directory,
		service.NewPaymentService(f.payments, f.psp),
		f.locks,
		notifications,
		service.NewReceiptService(),
		logger,
		service.BookingConfig{
			MaxAdvance:         booking.DefaultMaxAdvance,
			MaxPaymentAttempts: booking.DefaultMaxPaymentAttempts,
			LockTTL:            time.Second,
		},
	)
	f.service.SetClock(f.clock.Now)
	return f
}

// openAtPayment opens a session on charger 1 and drives it to the payment
// step with valid card details.
func (f *bookingFixture) openAtPayment(t *testing.T) *domain.BookingSession {
	t.Helper()
	ctx := context.Background()

	session, err := f.service.Open(ctx, "1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := f.service.SelectDate(ctx, session.ID, testNow.AddDate(0, 0, 2)); err != nil {
		t.Fatalf("SelectDate failed: %v", err)
	}
	if _, err := f.service.SelectTime(ctx, session.ID, "14:00"); err != nil {
		t.Fatalf("SelectTime failed: %v", err)
	}
	if _, err := f.service.Next(ctx, session.ID); err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	session, err = f.service.UpdatePayment(ctx, session.ID, booking.PaymentUpdate{
		CardholderName: strPtr("Ada Lovelace"),
		CardNumber:     strPtr("4242424242424242"),
		Expiry:         strPtr("1228"),
		CVC:            strPtr("123"),
	})
	if err != nil {
		t.Fatalf("UpdatePayment failed: %v", err)
	}
	return session
}
