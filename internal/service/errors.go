package service

import "errors"

var (
	// ErrInvalidSessionID is returned when a session ID is empty.
	ErrInvalidSessionID = errors.New("invalid session id")

	// ErrInvalidChargerID is returned when a charger ID is empty.
	ErrInvalidChargerID = errors.New("invalid charger id")

	// ErrInvalidFilter is returned for unknown directory filters.
	ErrInvalidFilter = errors.New("invalid charger filter")

	// ErrInvalidPaymentAmount is returned when a charge amount is not positive.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")

	// ErrSessionBusy is returned when the session lock could not be acquired.
	ErrSessionBusy = errors.New("booking session is busy")

	// ErrPaymentDeclined is returned when the payment provider declines a charge.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrBookingNotConfirmed is returned when a receipt is requested before confirmation.
	ErrBookingNotConfirmed = errors.New("booking not confirmed")

	// ErrSessionClosed is returned when a session was closed while a payment was in flight.
	ErrSessionClosed = errors.New("booking session closed during payment")
)
