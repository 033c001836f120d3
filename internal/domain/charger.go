package domain

// ChargerInfo is the charger summary a booking is made against.
// It is supplied by the charger directory and never modified by the booking flow.
type ChargerInfo struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Speed         string  `json:"speed"`
	PricePerKWh   float64 `json:"price_per_kwh"`
	ConnectorType string  `json:"connector_type"`
}

// Charger is a directory listing entry.
type Charger struct {
	ChargerInfo
	Distance  string  `json:"distance"`
	Available int     `json:"available"`
	Total     int     `json:"total"`
	Rating    float64 `json:"rating"`
	PowerKW   int     `json:"power_kw"`
}

// ChargerFilter narrows a directory listing.
type ChargerFilter string

const (
	ChargerFilterAll       ChargerFilter = "all"
	ChargerFilterFast      ChargerFilter = "fast"
	ChargerFilterUltra     ChargerFilter = "ultra"
	ChargerFilterAvailable ChargerFilter = "available"
)

// Power thresholds for the fast and ultra filters.
const (
	FastChargePowerKW  = 150
	UltraChargePowerKW = 250
)

// IsValid reports whether the filter is one of the known filters.
func (f ChargerFilter) IsValid() bool {
	switch f {
	case ChargerFilterAll, ChargerFilterFast, ChargerFilterUltra, ChargerFilterAvailable:
		return true
	}
	return false
}

// ChargerQuery holds the listing criteria.
type ChargerQuery struct {
	Filter    ChargerFilter
	Connector string
	Search    string
}
