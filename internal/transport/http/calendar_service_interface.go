package http

import (
	"context"

	"pricecal/internal/calendar"
	"pricecal/internal/pricing"
)

// CalendarServiceInterface defines the service operations the handlers
// consume, kept narrow so handler tests can stub it.
type CalendarServiceInterface interface {
	MonthView(ctx context.Context, tourID, month string, duration int, heatmapOn, confirmedOnly bool) (*calendar.MonthGrid, error)
	AnnualView(ctx context.Context, tourID string, year, duration int, showEmpty bool) (*calendar.AnnualSummary, error)
	BookingQuote(ctx context.Context, tourID, date string, duration, pax int, optionIDs []string) (*pricing.PriceBreakdown, error)
	Legend(grid *calendar.MonthGrid) []calendar.LegendEntry
	InvalidateCache(ctx context.Context) error
}
