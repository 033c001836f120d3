package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteFor(t *testing.T) {
	tests := []struct {
		name       string
		minutes    int
		price      float64
		wantEnergy float64
		wantCost   string
		wantTotal  string
	}{
		{name: "one hour", minutes: 60, price: 0.35, wantEnergy: 50, wantCost: "17.50", wantTotal: "20.00"},
		{name: "half hour", minutes: 30, price: 0.32, wantEnergy: 25, wantCost: "8.00", wantTotal: "10.50"},
		{name: "ninety minutes", minutes: 90, price: 0.43, wantEnergy: 75, wantCost: "32.25", wantTotal: "34.75"},
		{name: "two hours", minutes: 120, price: 0.28, wantEnergy: 100, wantCost: "28.00", wantTotal: "30.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuoteFor(tt.minutes, tt.price)
			assert.InDelta(t, tt.wantEnergy, q.EnergyKWh, 1e-9)
			assert.Equal(t, tt.wantCost, FormatAmount(q.ChargingCost))
			assert.Equal(t, "2.50", FormatAmount(q.ReservationFee))
			assert.Equal(t, tt.wantTotal, FormatAmount(q.Total))
		})
	}
}

func TestCatalog(t *testing.T) {
	slots := TimeSlots()
	assert.Len(t, slots, 14)
	assert.Equal(t, "08:00", slots[0].Time)
	assert.Equal(t, "21:00", slots[13].Time)

	for _, label := range []string{"10:00", "13:00", "17:00"} {
		s, ok := FindSlot(label)
		assert.True(t, ok)
		assert.False(t, s.Available, label)
	}

	slots[0].Available = false
	s, _ := FindSlot("08:00")
	assert.True(t, s.Available, "catalog must not be mutable through the returned slice")

	d, ok := FindDuration(90)
	assert.True(t, ok)
	assert.Equal(t, "1.5 hours", d.Label)
	_, ok = FindDuration(45)
	assert.False(t, ok)
}

func TestNewConfirmationCode(t *testing.T) {
	code := NewConfirmationCode()
	assert.Regexp(t, `^VF-[0-9A-Z]{8}$`, code)
}
