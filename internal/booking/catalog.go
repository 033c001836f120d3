package booking

import "voltfind/internal/domain"

var timeSlots = []domain.TimeSlot{
	{Time: "08:00", Available: true},
	{Time: "09:00", Available: true},
	{Time: "10:00", Available: false},
	{Time: "11:00", Available: true},
	{Time: "12:00", Available: true},
	{Time: "13:00", Available: false},
	{Time: "14:00", Available: true},
	{Time: "15:00", Available: true},
	{Time: "16:00", Available: true},
	{Time: "17:00", Available: false},
	{Time: "18:00", Available: true},
	{Time: "19:00", Available: true},
	{Time: "20:00", Available: true},
	{Time: "21:00", Available: true},
}

var durations = []domain.DurationOption{
	{Minutes: 30, Label: "30 min"},
	{Minutes: 60, Label: "1 hour"},
	{Minutes: 90, Label: "1.5 hours"},
	{Minutes: 120, Label: "2 hours"},
}

// TimeSlots returns a copy of the time slot catalog in display order.
func TimeSlots() []domain.TimeSlot {
	out := make([]domain.TimeSlot, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// Durations returns a copy of the duration catalog in display order.
func Durations() []domain.DurationOption {
	out := make([]domain.DurationOption, len(durations))
	copy(out, durations)
	return out
}

// FindSlot looks up a slot by its time label.
func FindSlot(label string) (domain.TimeSlot, bool) {
	for _, s := range timeSlots {
		if s.Time == label {
			return s, true
		}
	}
	return domain.TimeSlot{}, false
}

// FindDuration looks up a duration option by minutes.
func FindDuration(minutes int) (domain.DurationOption, bool) {
	for _, d := range durations {
		if d.Minutes == minutes {
			return d, true
		}
	}
	return domain.DurationOption{}, false
}
