package booking

import "errors"

var (
	// ErrWrongStep is returned when an operation is not available in the current step.
	ErrWrongStep = errors.New("operation not available in current step")

	// ErrDateOutOfRange is returned for dates in the past or beyond the booking window.
	ErrDateOutOfRange = errors.New("date outside booking window")

	// ErrDateRequired is returned when a time is selected before a date.
	ErrDateRequired = errors.New("date must be selected first")

	// ErrTimeRequired is returned when a duration is selected before a time.
	ErrTimeRequired = errors.New("time slot must be selected first")

	// ErrUnknownSlot is returned for time labels outside the catalog.
	ErrUnknownSlot = errors.New("unknown time slot")

	// ErrSlotUnavailable is returned for slots marked unavailable.
	ErrSlotUnavailable = errors.New("time slot unavailable")

	// ErrInvalidDuration is returned for durations outside the catalog.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrSelectionIncomplete is returned when advancing without a date and time.
	ErrSelectionIncomplete = errors.New("date and time must be selected")

	// ErrPaymentDetailsInvalid is returned when the card fields fail validation.
	ErrPaymentDetailsInvalid = errors.New("payment details incomplete or invalid")

	// ErrPaymentInProgress is returned for a submission while another is in flight.
	ErrPaymentInProgress = errors.New("payment already in progress")

	// ErrPaymentNotStarted is returned when completing a payment that was never begun.
	ErrPaymentNotStarted = errors.New("no payment in progress")

	// ErrPaymentAttemptsExceeded is returned once the retry budget is spent.
	ErrPaymentAttemptsExceeded = errors.New("maximum payment attempts exceeded")
)
