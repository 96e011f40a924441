package pricing

import (
	"time"

	"pricecal/internal/domain"
)

// ResolveSeason returns the season code covering date, scanning the
// intervals in input order and taking the first match. The caller passes a
// list already filtered to one tour. A date outside every interval returns
// ok == false, which callers treat as "no price available", not an error.
func ResolveSeason(seasons []domain.Season, date time.Time) (string, bool) {
	for _, s := range seasons {
		if s.Contains(date) {
			return s.Code, true
		}
	}
	return "", false
}

// ResolveBasePrice returns the base price for an exact (season, duration)
// match. Duplicate rows should have been deduplicated at ingestion; if any
// survive, the first match wins. Negative prices are treated as "no
// price".
func ResolveBasePrice(prices []domain.BasePrice, seasonCode string, duration int) (int, bool) {
	for _, p := range prices {
		if p.Code == seasonCode && p.Duration == duration {
			if p.Price < 0 {
				return 0, false
			}
			return p.Price, true
		}
	}
	return 0, false
}

// ResolveSoloFee returns the solo surcharge for a duration, defaulting to 0
// when no row matches.
func ResolveSoloFee(fees []domain.SoloFee, duration int) int {
	for _, f := range fees {
		if f.Duration == duration {
			if f.Fee < 0 {
				return 0
			}
			return f.Fee
		}
	}
	return 0
}

// ResolveFlag returns the daily flag for a date, if any.
func ResolveFlag(flags []domain.DailyFlag, date time.Time) (domain.DailyFlag, bool) {
	d := domain.Midnight(date)
	for _, f := range flags {
		if f.Date.Equal(d) {
			return f, true
		}
	}
	return domain.DailyFlag{}, false
}
