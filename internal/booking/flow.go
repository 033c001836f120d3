package booking

import (
	"time"

	"voltfind/internal/domain"
)

// Defaults for the flow options.
const (
	DefaultMaxAdvance         = 30 * 24 * time.Hour
	DefaultMaxPaymentAttempts = 3
)

// Option configures a Flow.
type Option func(*Flow)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// WithMaxAdvance sets how far ahead a date may be booked.
func WithMaxAdvance(d time.Duration) Option {
	return func(f *Flow) { f.maxAdvance = d }
}

// WithMaxPaymentAttempts sets how many times payment may be submitted.
func WithMaxPaymentAttempts(n int) Option {
	return func(f *Flow) { f.maxAttempts = n }
}

// WithProcessingTimeout sets how long a payment may stay in flight before the
// processing flag is treated as stale. Zero disables the timeout.
func WithProcessingTimeout(d time.Duration) Option {
	return func(f *Flow) { f.processingTimeout = d }
}

// PaymentUpdate carries the payment fields to change. Nil fields are left as-is.
type PaymentUpdate struct {
	CardholderName *string
	CardNumber     *string
	Expiry         *string
	CVC            *string
}

// Flow drives a booking session through date/time selection, payment and
// confirmation. Every operation either applies fully or returns an error and
// leaves the session untouched. A Flow is not safe for concurrent use.
type Flow struct {
	session           *domain.BookingSession
	now               func() time.Time
	maxAdvance        time.Duration
	maxAttempts       int
	processingTimeout time.Duration
}

// NewSession returns a session in its initial state.
func NewSession(id string, charger domain.ChargerInfo, now time.Time) *domain.BookingSession {
	return &domain.BookingSession{
		ID:        id,
		Charger:   charger,
		Step:      domain.StepDateTime,
		Draft:     domain.NewBookingDraft(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Attach wraps an existing session.
func Attach(session *domain.BookingSession, opts ...Option) *Flow {
	f := &Flow{
		session:     session,
		now:         time.Now,
		maxAdvance:  DefaultMaxAdvance,
		maxAttempts: DefaultMaxPaymentAttempts,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Session returns the underlying session.
func (f *Flow) Session() *domain.BookingSession {
	return f.session
}

// Step returns the current step.
func (f *Flow) Step() domain.BookingStep {
	return f.session.Step
}

// SelectDate sets the booking date. The date is truncated to its calendar day
// and must fall between now and the end of the booking window. Choosing a
// different day clears the selected time.
func (f *Flow) SelectDate(date time.Time) error {
	if f.session.Step != domain.StepDateTime {
		return ErrWrongStep
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	now := f.now()
	if day.Before(now) || day.After(now.Add(f.maxAdvance)) {
		return ErrDateOutOfRange
	}

	d := &f.session.Draft
	if d.Date != nil && !sameDay(*d.Date, day) {
		d.Time = ""
	}
	d.Date = &day
	f.touch()
	return nil
}

// SelectTime sets the start time. A date must already be selected and the
// slot must be available.
func (f *Flow) SelectTime(label string) error {
	if f.session.Step != domain.StepDateTime {
		return ErrWrongStep
	}
	if f.session.Draft.Date == nil {
		return ErrDateRequired
	}

	slot, ok := FindSlot(label)
	if !ok {
		return ErrUnknownSlot
	}
	if !slot.Available {
		return ErrSlotUnavailable
	}

	f.session.Draft.Time = slot.Time
	f.touch()
	return nil
}

// SelectDuration sets the charging duration. A time must already be selected.
func (f *Flow) SelectDuration(minutes int) error {
	if f.session.Step != domain.StepDateTime {
		return ErrWrongStep
	}
	if f.session.Draft.Time == "" {
		return ErrTimeRequired
	}
	if _, ok := FindDuration(minutes); !ok {
		return ErrInvalidDuration
	}

	f.session.Draft.DurationMinutes = minutes
	f.touch()
	return nil
}

// CanProceed reports whether the date/time step is complete.
func (f *Flow) CanProceed() bool {
	return f.session.Draft.Date != nil && f.session.Draft.Time != ""
}

// Next advances from date/time selection to payment.
func (f *Flow) Next() error {
	if f.session.Step != domain.StepDateTime {
		return ErrWrongStep
	}
	if !f.CanProceed() {
		return ErrSelectionIncomplete
	}

	f.session.Step = domain.StepPayment
	f.touch()
	return nil
}

// Back returns from payment to date/time selection, keeping all fields.
func (f *Flow) Back() error {
	if f.session.Step != domain.StepPayment {
		return ErrWrongStep
	}
	if f.InFlight() {
		return ErrPaymentInProgress
	}

	f.clearProcessing()
	f.session.Step = domain.StepDateTime
	f.touch()
	return nil
}

// UpdatePayment applies the given payment fields, formatting them as they
// would be displayed.
func (f *Flow) UpdatePayment(u PaymentUpdate) error {
	if f.session.Step != domain.StepPayment {
		return ErrWrongStep
	}
	if f.InFlight() {
		return ErrPaymentInProgress
	}

	f.clearProcessing()
	p := &f.session.Draft.Payment
	if u.CardholderName != nil {
		p.CardholderName = *u.CardholderName
	}
	if u.CardNumber != nil {
		p.CardNumber = truncate(FormatCardNumber(*u.CardNumber), CardNumberMaxLen)
	}
	if u.Expiry != nil {
		p.Expiry = truncate(FormatExpiry(*u.Expiry), ExpiryMaxLen)
	}
	if u.CVC != nil {
		p.CVC = FormatCVC(*u.CVC)
	}
	f.touch()
	return nil
}

// PaymentReady reports whether the payment fields pass validation.
func (f *Flow) PaymentReady() bool {
	p := f.session.Draft.Payment
	return len(p.CardNumber) >= CardNumberMaxLen &&
		len(p.Expiry) >= ExpiryMaxLen &&
		len(p.CVC) >= CVCMinLen &&
		p.CardholderName != ""
}

// RemainingAttempts returns how many more payment submissions are allowed.
func (f *Flow) RemainingAttempts() int {
	return max(f.maxAttempts-f.session.Draft.PaymentAttempts, 0)
}

// BeginPayment marks a payment as in flight. Exactly one payment may be in
// flight at a time.
func (f *Flow) BeginPayment() error {
	if f.session.Step != domain.StepPayment {
		return ErrWrongStep
	}
	if f.InFlight() {
		return ErrPaymentInProgress
	}
	d := &f.session.Draft
	if d.PaymentAttempts >= f.maxAttempts {
		return ErrPaymentAttemptsExceeded
	}
	if !f.PaymentReady() {
		return ErrPaymentDetailsInvalid
	}

	now := f.now()
	d.Processing = true
	d.ProcessingSince = &now
	d.PaymentAttempts++
	d.LastPaymentError = ""
	f.touch()
	return nil
}

// CompletePayment finishes the in-flight payment and moves to confirmation.
func (f *Flow) CompletePayment(c domain.Confirmation) error {
	d := &f.session.Draft
	if !d.Processing {
		return ErrPaymentNotStarted
	}

	f.clearProcessing()
	d.Complete = true
	f.session.Step = domain.StepConfirmation
	f.session.Confirmation = &c
	f.touch()
	return nil
}

// FailPayment ends the in-flight payment without confirming and stays on the
// payment step so the user may retry.
func (f *Flow) FailPayment(reason string) error {
	d := &f.session.Draft
	if !d.Processing {
		return ErrPaymentNotStarted
	}

	f.clearProcessing()
	d.LastPaymentError = reason
	f.touch()
	return nil
}

// InFlight reports whether a payment is processing and has not gone stale.
// A payment whose completion was never recorded stops blocking the session
// once the processing timeout has passed.
func (f *Flow) InFlight() bool {
	d := f.session.Draft
	if !d.Processing {
		return false
	}
	if f.processingTimeout <= 0 || d.ProcessingSince == nil {
		return true
	}
	return f.now().Sub(*d.ProcessingSince) < f.processingTimeout
}

// Reset discards everything collected and returns to date/time selection.
func (f *Flow) Reset() {
	f.session.Step = domain.StepDateTime
	f.session.Draft = domain.NewBookingDraft()
	f.session.Confirmation = nil
	f.touch()
}

// Quote returns the cost summary for the current duration.
func (f *Flow) Quote() domain.Quote {
	return QuoteFor(f.session.Draft.DurationMinutes, f.session.Charger.PricePerKWh)
}

func (f *Flow) clearProcessing() {
	f.session.Draft.Processing = false
	f.session.Draft.ProcessingSince = nil
}

func (f *Flow) touch() {
	f.session.UpdatedAt = f.now()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
