package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"voltfind/internal/domain"
	internalRedis "voltfind/internal/redis"
	"voltfind/internal/repository"
	"voltfind/internal/service"
)

// ──────────────────────────────────────────────
// MOCK SESSION REPOSITORY
// ──────────────────────────────────────────────

// MockSessionRepository is a mock implementation of SessionRepository.
type MockSessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.BookingSession

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockSessionRepository creates a new mock session repository.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions: make(map[string]*domain.BookingSession),
	}
}

func cloneSession(s *domain.BookingSession) *domain.BookingSession {
	c := *s
	if s.Draft.Date != nil {
		d := *s.Draft.Date
		c.Draft.Date = &d
	}
	if s.Draft.ProcessingSince != nil {
		since := *s.Draft.ProcessingSince
		c.Draft.ProcessingSince = &since
	}
	if s.Confirmation != nil {
		conf := *s.Confirmation
		c.Confirmation = &conf
	}
	return &c
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.BookingSession) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.ID]; ok {
		return repository.ErrAlreadyExists
	}
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id string) (*domain.BookingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	return cloneSession(session), nil
}

func (m *MockSessionRepository) Update(ctx context.Context, session *domain.BookingSession) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[session.ID]; !ok {
		return repository.ErrNotFound
	}
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// GetSession returns the stored session (for test assertions).
func (m *MockSessionRepository) GetSession(id string) *domain.BookingSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return cloneSession(s)
	}
	return nil
}

// CountSessions returns the number of stored sessions.
func (m *MockSessionRepository) CountSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ──────────────────────────────────────────────
// MOCK CHARGER REPOSITORY
// ──────────────────────────────────────────────

// MockChargerRepository is a mock implementation of ChargerRepository.
type MockChargerRepository struct {
	mu       sync.RWMutex
	chargers []*domain.Charger

	// Counters for verification
	GetAllCallCount  int32
	GetByIDCallCount int32

	// Error injection
	GetAllError error
}

// NewMockChargerRepository creates a new mock charger repository.
func NewMockChargerRepository(chargers ...*domain.Charger) *MockChargerRepository {
	return &MockChargerRepository{chargers: chargers}
}

func (m *MockChargerRepository) GetAll(ctx context.Context) ([]*domain.Charger, error) {
	atomic.AddInt32(&m.GetAllCallCount, 1)
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Charger, 0, len(m.chargers))
	for _, c := range m.chargers {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockChargerRepository) GetByID(ctx context.Context, id string) (*domain.Charger, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.chargers {
		if c.ID == id {
			copy := *c
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (m *MockPaymentRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.SessionID == sessionID {
			copy := *p
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Attempt < result[j].Attempt })
	return result, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	return nil
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
	failNext     int
	failNextErr  error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireSessionLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext > 0 {
		m.failNext--
		return false, m.failNextErr
	}
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}

	key := "lock:booking:" + sessionID
	if expiry, exists := m.locks[key]; exists && time.Now().Before(expiry) {
		return false, nil // Lock still held.
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseSessionLock(ctx context.Context, sessionID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:booking:"+sessionID)
	return nil
}

// FailNextAcquires makes the next n acquisitions return err. Safe to call
// while other goroutines use the store.
func (m *MockLockStore) FailNextAcquires(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = n
	m.failNextErr = err
}

// IsLocked checks if a session is locked (for test assertions).
func (m *MockLockStore) IsLocked(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:booking:"+sessionID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK CHARGER CACHE
// ──────────────────────────────────────────────

// MockChargerCache is a mock implementation of ChargerCacheInterface.
type MockChargerCache struct {
	mu       sync.Mutex
	chargers map[string]*internalRedis.CachedCharger
	list     []*internalRedis.CachedCharger

	// Counters
	ListHits   int32
	ChargerHit int32

	// Error injection
	GetError error
}

// NewMockChargerCache creates a new mock charger cache.
func NewMockChargerCache() *MockChargerCache {
	return &MockChargerCache{chargers: make(map[string]*internalRedis.CachedCharger)}
}

func (m *MockChargerCache) GetCharger(ctx context.Context, chargerID string) (*internalRedis.CachedCharger, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chargers[chargerID]
	if !ok {
		return nil, nil
	}
	atomic.AddInt32(&m.ChargerHit, 1)
	return c, nil
}

func (m *MockChargerCache) SetCharger(ctx context.Context, charger *internalRedis.CachedCharger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chargers[charger.ID] = charger
	return nil
}

func (m *MockChargerCache) GetChargerList(ctx context.Context) ([]*internalRedis.CachedCharger, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.list == nil {
		return nil, nil
	}
	atomic.AddInt32(&m.ListHits, 1)
	return m.list, nil
}

func (m *MockChargerCache) SetChargerList(ctx context.Context, chargers []*internalRedis.CachedCharger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = chargers
	for _, c := range chargers {
		m.chargers[c.ID] = c
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK PSP (Payment Service Provider)
// ──────────────────────────────────────────────

// MockPSP is a mock payment service provider.
type MockPSP struct {
	mu sync.Mutex

	// Control behavior
	ShouldFail bool
	FailError  error

	// When Gate is set, Charge signals Started and blocks until Gate is closed.
	Gate    chan struct{}
	Started chan struct{}

	// Counters
	ChargeCallCount int32
}

// NewMockPSP creates a new mock PSP.
func NewMockPSP() *MockPSP {
	return &MockPSP{}
}

// Block makes subsequent charges wait until Unblock is called.
func (m *MockPSP) Block() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gate = make(chan struct{})
	m.Started = make(chan struct{}, 1)
}

// Unblock releases blocked charges.
func (m *MockPSP) Unblock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Gate != nil {
		close(m.Gate)
		m.Gate = nil
	}
}

func (m *MockPSP) Charge(ctx context.Context, amount float64) (bool, error) {
	atomic.AddInt32(&m.ChargeCallCount, 1)

	m.mu.Lock()
	gate, started := m.Gate, m.Started
	m.mu.Unlock()

	if gate != nil {
		started <- struct{}{}
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailError != nil {
		return false, m.FailError
	}
	if m.ShouldFail {
		return false, nil
	}
	return true, nil
}

// SetFailure configures the PSP to fail.
func (m *MockPSP) SetFailure(shouldFail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShouldFail = shouldFail
	m.FailError = err
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION DISPATCHER
// ──────────────────────────────────────────────

// DispatchedNotification is a notification captured by MockDispatcher.
type DispatchedNotification struct {
	Notification service.Notification
	DeliverAt    time.Time
}

// MockDispatcher records dispatched notifications.
type MockDispatcher struct {
	mu   sync.Mutex
	sent []DispatchedNotification

	// Error injection
	DispatchError error
}

// NewMockDispatcher creates a new mock dispatcher.
func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

func (m *MockDispatcher) Dispatch(ctx context.Context, n service.Notification, deliverAt time.Time) error {
	if m.DispatchError != nil {
		return m.DispatchError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, DispatchedNotification{Notification: n, DeliverAt: deliverAt})
	return nil
}

// Sent returns the notifications of the given type.
func (m *MockDispatcher) Sent(typ service.NotificationType) []DispatchedNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []DispatchedNotification
	for _, d := range m.sent {
		if d.Notification.Type == typ {
			result = append(result, d)
		}
	}
	return result
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)

// Ensure mocks implement the interfaces they stand in for.
var (
	_ repository.SessionRepository        = (*MockSessionRepository)(nil)
	_ repository.ChargerRepository        = (*MockChargerRepository)(nil)
	_ repository.PaymentRepository        = (*MockPaymentRepository)(nil)
	_ internalRedis.LockStoreInterface    = (*MockLockStore)(nil)
	_ internalRedis.ChargerCacheInterface = (*MockChargerCache)(nil)
	_ service.Dispatcher                  = (*MockDispatcher)(nil)
)
