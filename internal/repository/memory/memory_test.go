package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltfind/internal/domain"
	"voltfind/internal/repository"
)

func newSession(id string) *domain.BookingSession {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	return &domain.BookingSession{
		ID:        id,
		Charger:   DefaultChargers()[0].ChargerInfo,
		Step:      domain.StepDateTime,
		Draft:     domain.NewBookingDraft(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSessionRepository_CRUD(t *testing.T) {
	repo := NewSessionRepository(time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("a")))
	assert.ErrorIs(t, repo.Create(ctx, newSession("a")), repository.ErrAlreadyExists)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	got.Step = domain.StepPayment
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StepPayment, got.Step)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.GetByID(ctx, "a")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, got), repository.ErrNotFound)
}

func TestSessionRepository_ReturnsCopies(t *testing.T) {
	repo := NewSessionRepository(time.Minute)
	ctx := context.Background()

	s := newSession("a")
	want := time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)
	date := want
	s.Draft.Date = &date
	require.NoError(t, repo.Create(ctx, s))

	// Mutating the caller's copy must not leak into the store.
	*s.Draft.Date = want.AddDate(0, 0, 1)
	s.Draft.Time = "09:00"

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, want, *got.Draft.Date)
	assert.Empty(t, got.Draft.Time)
}

func TestSessionRepository_SlidingTTL(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepository(10 * time.Minute)
	repo.SetClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("a")))
	require.NoError(t, repo.Create(ctx, newSession("b")))

	now = now.Add(8 * time.Minute)
	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, got))

	now = now.Add(5 * time.Minute)
	_, err = repo.GetByID(ctx, "a")
	assert.NoError(t, err, "update extends the TTL")
	_, err = repo.GetByID(ctx, "b")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1, repo.Count())

	// An expired ID can be reused.
	assert.NoError(t, repo.Create(ctx, newSession("b")))
}

func TestSessionRepository_CreateSweepsExpired(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepository(10 * time.Minute)
	repo.SetClock(func() time.Time { return now })
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, newSession(id)))
	}
	assert.Equal(t, 3, repo.stored())

	// Abandoned sessions are dropped without ever being read again.
	now = now.Add(11 * time.Minute)
	require.NoError(t, repo.Create(ctx, newSession("d")))
	assert.Equal(t, 1, repo.stored())

	_, err := repo.GetByID(ctx, "d")
	assert.NoError(t, err)
}

// stored returns the number of entries held, expired or not.
func (r *SessionRepository) stored() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func TestPaymentRepository(t *testing.T) {
	repo := NewPaymentRepository()
	ctx := context.Background()

	for _, p := range []*domain.Payment{
		{ID: "p2", SessionID: "s", Attempt: 2, Status: domain.PaymentStatusPending},
		{ID: "p1", SessionID: "s", Attempt: 1, Status: domain.PaymentStatusPending},
		{ID: "p3", SessionID: "other", Attempt: 1, Status: domain.PaymentStatusPending},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}
	assert.ErrorIs(t, repo.Create(ctx, &domain.Payment{ID: "p1"}), repository.ErrAlreadyExists)

	require.NoError(t, repo.UpdateStatus(ctx, "p1", domain.PaymentStatusDeclined))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", domain.PaymentStatusSuccess), repository.ErrNotFound)

	list, err := repo.ListBySession(ctx, "s")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p1", list[0].ID)
	assert.Equal(t, domain.PaymentStatusDeclined, list[0].Status)
	assert.Equal(t, "p2", list[1].ID)
}

func TestChargerRepository(t *testing.T) {
	repo := NewChargerRepository(DefaultChargers())
	ctx := context.Background()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	all[0].Available = 0
	c, err := repo.GetByID(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Available, "returned chargers are copies")

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLockStore(t *testing.T) {
	locks := NewLockStore()
	ctx := context.Background()

	ok, err := locks.AcquireSessionLock(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = locks.AcquireSessionLock(ctx, "a", time.Minute)
	assert.False(t, ok, "lock is exclusive")

	ok, _ = locks.AcquireSessionLock(ctx, "b", time.Minute)
	assert.True(t, ok, "locks are per session")

	require.NoError(t, locks.ReleaseSessionLock(ctx, "a"))
	ok, _ = locks.AcquireSessionLock(ctx, "a", time.Minute)
	assert.True(t, ok)

	now := time.Now()
	locks.now = func() time.Time { return now }
	ok, _ = locks.AcquireSessionLock(ctx, "c", time.Second)
	require.True(t, ok)
	locks.now = func() time.Time { return now.Add(2 * time.Second) }
	ok, _ = locks.AcquireSessionLock(ctx, "c", time.Second)
	assert.True(t, ok, "expired lock can be taken over")
}
