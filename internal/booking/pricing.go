package booking

import (
	"fmt"
	"math"

	"voltfind/internal/domain"
)

// Pricing constants.
const (
	// ChargeRateKW is the assumed average delivery rate used for estimates.
	ChargeRateKW   = 50.0
	ReservationFee = 2.50
)

// QuoteFor computes the derived cost values for a duration at the given price.
func QuoteFor(durationMinutes int, pricePerKWh float64) domain.Quote {
	energy := round(float64(durationMinutes)/60*ChargeRateKW, 2)
	cost := round(energy*pricePerKWh, 2)
	return domain.Quote{
		EnergyKWh:      energy,
		ChargingCost:   cost,
		ReservationFee: ReservationFee,
		Total:          round(cost+ReservationFee, 2),
	}
}

// FormatAmount renders a monetary value with two decimals.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
