package domain

import "time"

// BookingStep represents the current stage of a booking session.
type BookingStep string

const (
	StepDateTime     BookingStep = "DATETIME"
	StepPayment      BookingStep = "PAYMENT"
	StepConfirmation BookingStep = "CONFIRMATION"
)

// DefaultDurationMinutes is the duration preselected on a fresh draft.
const DefaultDurationMinutes = 60

// TimeSlot is a bookable start time of day.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DurationOption is a selectable charging duration.
type DurationOption struct {
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}

// PaymentDetails holds the card fields as displayed to the user.
type PaymentDetails struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVC            string `json:"cvc"`
}

// BookingDraft is the mutable state collected while a session is open.
type BookingDraft struct {
	Date             *time.Time     `json:"date,omitempty"`
	Time             string         `json:"time,omitempty"`
	DurationMinutes  int            `json:"duration_minutes"`
	Payment          PaymentDetails `json:"payment"`
	Processing       bool           `json:"processing"`
	ProcessingSince  *time.Time     `json:"processing_since,omitempty"`
	Complete         bool           `json:"complete"`
	PaymentAttempts  int            `json:"payment_attempts"`
	LastPaymentError string         `json:"last_payment_error,omitempty"`
}

// NewBookingDraft returns the draft every session starts from.
func NewBookingDraft() BookingDraft {
	return BookingDraft{DurationMinutes: DefaultDurationMinutes}
}

// BookingSession is one activation of the booking flow for a charger.
type BookingSession struct {
	ID           string        `json:"id"`
	Charger      ChargerInfo   `json:"charger"`
	Step         BookingStep   `json:"step"`
	Draft        BookingDraft  `json:"draft"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Quote holds the derived cost values of a draft.
type Quote struct {
	EnergyKWh      float64 `json:"energy_kwh"`
	ChargingCost   float64 `json:"charging_cost"`
	ReservationFee float64 `json:"reservation_fee"`
	Total          float64 `json:"total"`
}
