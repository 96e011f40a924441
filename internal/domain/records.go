package domain

import "time"

// Season is a named date interval carrying one price tier of a tour.
// Start and End are inclusive calendar days at UTC midnight.
type Season struct {
	TourID string    `json:"tour_id"`
	Code   string    `json:"season_code"`
	Label  string    `json:"label"`
	Start  time.Time `json:"date_start"`
	End    time.Time `json:"date_end"`
}

// Contains reports whether date falls inside the season interval.
// A zero-length interval (Start == End) matches exactly that day.
func (s Season) Contains(date time.Time) bool {
	d := Midnight(date)
	return !d.Before(s.Start) && !d.After(s.End)
}

// IsValid reports whether the interval is well-formed (Start <= End).
func (s Season) IsValid() bool {
	return s.TourID != "" && s.Code != "" && !s.End.Before(s.Start)
}

// Overlaps reports whether two season intervals share at least one day.
func (s Season) Overlaps(other Season) bool {
	return !s.Start.After(other.End) && !other.Start.After(s.End)
}

// BasePrice is the per-person price for one (season, duration) pair of a
// tour. Price is in integer minor units (no decimals).
type BasePrice struct {
	TourID   string `json:"tour_id"`
	Code     string `json:"season_code"`
	Duration int    `json:"duration_days"`
	Price    int    `json:"price"`
}

// SoloFee is the surcharge applied when a booking has exactly one
// participant. A missing (tour, duration) combination means fee 0.
type SoloFee struct {
	TourID   string `json:"tour_id"`
	Duration int    `json:"duration_days"`
	Fee      int    `json:"solo_fee"`
}

// DailyFlag marks a single departure day as confirmed, optionally with an
// operator note. Flags affect display filtering only, never pricing.
type DailyFlag struct {
	TourID    string    `json:"tour_id"`
	Date      time.Time `json:"date"`
	Confirmed bool      `json:"is_confirmed"`
	Note      string    `json:"note,omitempty"`
}

// TourOption is an add-on a booking may include. The quote uses PriceMin
// as the concrete estimate; options with AffectsTotal false are shown but
// never contribute to the total.
type TourOption struct {
	ID           string `json:"option_id"`
	Label        string `json:"option_label"`
	PriceMin     int    `json:"price_min"`
	PriceMax     int    `json:"price_max"`
	Description  string `json:"description,omitempty"`
	AffectsTotal bool   `json:"affects_total"`
}

// Midnight truncates a time to its UTC calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
