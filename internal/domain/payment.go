package domain

import "time"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusDeclined PaymentStatus = "DECLINED"
)

// Payment represents a reservation charge for a booking session.
type Payment struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `json:"status"`
	Attempt   int           `json:"attempt"`
	CreatedAt time.Time     `json:"created_at"`
}

// Confirmation is issued once a booking has been paid.
// The code is for display only and is not guaranteed unique.
type Confirmation struct {
	Code        string    `json:"code"`
	PaymentID   string    `json:"payment_id"`
	Amount      float64   `json:"amount"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
