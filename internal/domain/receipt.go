package domain

import "time"

// Receipt summarizes a confirmed booking.
type Receipt struct {
	ID               string
	SessionID        string
	ConfirmationCode string
	PaymentID        string
	ChargerName      string
	ChargerAddress   string
	ConnectorType    string
	Date             time.Time
	Time             string
	DurationLabel    string
	EnergyKWh        float64
	ChargingCost     float64
	ReservationFee   float64
	Total            float64
	CardLast4        string
	CreatedAt        time.Time
}
