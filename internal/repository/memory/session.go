package memory

import (
	"context"
	"sync"
	"time"

	"voltfind/internal/domain"
	"voltfind/internal/repository"
)

type sessionEntry struct {
	session   domain.BookingSession
	expiresAt time.Time
}

// SessionRepository keeps booking sessions in process memory with a sliding TTL.
// Expired sessions are swept on Create, at most once per TTL.
type SessionRepository struct {
	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

// NewSessionRepository creates an in-memory session store.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetClock overrides the time source used for expiry.
func (r *SessionRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Create stores a new session.
func (r *SessionRepository) Create(ctx context.Context, session *domain.BookingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()
	if e, ok := r.sessions[session.ID]; ok && r.now().Before(e.expiresAt) {
		return repository.ErrAlreadyExists
	}
	r.sessions[session.ID] = &sessionEntry{
		session:   cloneSession(session),
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

// GetByID retrieves a copy of a live session.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.BookingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.live(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	s := cloneSession(&e.session)
	return &s, nil
}

// Update replaces a live session and extends its TTL.
func (r *SessionRepository) Update(ctx context.Context, session *domain.BookingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.live(session.ID)
	if !ok {
		return repository.ErrNotFound
	}
	e.session = cloneSession(session)
	e.expiresAt = r.now().Add(r.ttl)
	return nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (r *SessionRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id := range r.sessions {
		if _, ok := r.live(id); ok {
			n++
		}
	}
	return n
}

// live returns the entry for id, evicting it if expired. Caller holds mu.
func (r *SessionRepository) live(id string) (*sessionEntry, bool) {
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.sessions, id)
		return nil, false
	}
	return e, true
}

// sweep evicts every expired entry once the sweep interval has passed.
// Caller holds mu.
func (r *SessionRepository) sweep() {
	now := r.now()
	if now.Before(r.nextSweep) {
		return
	}
	for id, e := range r.sessions {
		if !now.Before(e.expiresAt) {
			delete(r.sessions, id)
		}
	}
	r.nextSweep = now.Add(r.ttl)
}

func cloneSession(s *domain.BookingSession) domain.BookingSession {
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
	return c
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
