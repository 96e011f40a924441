package domain

import "errors"

// Sentinel errors returned by builders and the service layer. A day with no
// resolvable season or price is NOT an error state; it is rendered as a
// "no data" cell. Only whole-request failures surface as errors.
var (
	// ErrDataUnavailable means no season or price source exists for the tour.
	ErrDataUnavailable = errors.New("no season/price data available")

	// ErrUnknownTour means the tour identifier matched no loaded data set.
	ErrUnknownTour = errors.New("unknown tour")

	// ErrInvalidMonth means the month argument did not parse as YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month format")

	// ErrInvalidYear means the year argument is outside the supported range.
	ErrInvalidYear = errors.New("invalid year")

	// ErrInvalidDate means a date argument did not parse as YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date format")

	// ErrInvalidDuration means the duration is outside the configured bound.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidPax means the participant count is below one.
	ErrInvalidPax = errors.New("invalid pax")
)

// Duration bounds accepted by every operation. Durations are whole trip
// days; nothing in the data set exceeds a month.
const (
	MinDuration = 1
	MaxDuration = 30
)

// ValidDuration reports whether d is inside the accepted duration bound.
func ValidDuration(d int) bool {
	return d >= MinDuration && d <= MaxDuration
}
