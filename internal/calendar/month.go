package calendar

import (
	"fmt"
	"log/slog"
	"time"

	"pricecal/internal/domain"
	"pricecal/internal/heatmap"
	"pricecal/internal/pricing"
)

// HeatmapSettings carries the binning configuration handed down from the
// validated process configuration.
type HeatmapSettings struct {
	Mode     heatmap.Mode
	BinCount int
	Palette  []string
	Prune    heatmap.PruneMode
}

// MonthOptions controls a single month build.
type MonthOptions struct {
	Heatmap        bool
	ConfirmedOnly  bool
	ConfirmedBadge bool
	WeekStart      WeekStart
}

// Builder assembles month grids and annual summaries from a tour snapshot.
type Builder struct {
	settings HeatmapSettings
	assigner *heatmap.Assigner
	logger   *slog.Logger
	now      func() time.Time
}

// NewBuilder creates a calendar builder. A nil logger falls back to
// slog.Default.
func NewBuilder(settings HeatmapSettings, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		settings: settings,
		assigner: heatmap.NewAssigner(logger),
		logger:   logger.With(slog.String("component", "calendar_builder")),
		now:      time.Now,
	}
}

// SetClock overrides the time source, used by tests to pin "today".
func (b *Builder) SetClock(now func() time.Time) {
	b.now = now
}

// DaysInMonth returns the Gregorian day count of a month, leap years
// included. time.Date normalizes day 0 of the following month to the last
// day of this one.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonth expands one month into week rows of day cells with resolved
// price, season color and heatmap bin per day. The heatmap is computed
// from the tour×duration-wide price set, not this month's subset, so
// colors and legends stay consistent across months. Filtering via
// ConfirmedOnly only flags cells hidden; the grid shape never changes.
func (b *Builder) BuildMonth(td *pricing.TourData, year, month, duration int, opts MonthOptions) (*MonthGrid, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range: %w", month, domain.ErrInvalidMonth)
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("year %d out of range: %w", year, domain.ErrInvalidYear)
	}

	seasonPrices := SeasonPrices(td, duration)
	colors := b.assigner.AssignColors(seasonPrices, b.settings.Palette, b.settings.Prune)

	var bins []heatmap.Bin
	if opts.Heatmap {
		bins = heatmap.ComputeBins(tourPriceSet(td, duration), b.settings.Mode, b.settings.BinCount, b.settings.Palette)
	}

	grid := &MonthGrid{
		TourID:         td.TourID,
		Year:           year,
		Month:          month,
		Duration:       duration,
		WeekStart:      opts.WeekStart,
		WeekdayOrder:   weekdayOrder(opts.WeekStart),
		SeasonColors:   colors,
		ConfirmedBadge: opts.ConfirmedBadge,
	}

	today := dateOnly(b.now())
	days := DaysInMonth(year, month)
	grid.DayCount = days

	cells := make([]Day, 0, days)
	for d := 1; d <= days; d++ {
		date := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
		cells = append(cells, b.buildDay(td, date, duration, bins, colors, today, opts))
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	leading := (int(first.Weekday()) - int(opts.WeekStart) + 7) % 7
	grid.Weeks = arrangeWeeks(cells, leading)
	grid.Bins = bins
	return grid, nil
}

// buildDay resolves a single real day cell.
func (b *Builder) buildDay(td *pricing.TourData, date time.Time, duration int, bins []heatmap.Bin, colors map[string]string, today time.Time, opts MonthOptions) Day {
	day := Day{
		Day:      date.Day(),
		Date:     date.Format("2006-01-02"),
		Weekday:  int(date.Weekday()),
		BinIndex: -1,
		IsToday:  date.Equal(today),
	}

	price, code, ok := pricing.DayPrice(td, date, duration)
	day.SeasonCode = code
	if ok {
		day.HasPrice = true
		day.Price = price
		day.PriceDisplay = heatmap.FormatPrice(price)
		if c, found := colors[code]; found {
			day.SeasonColor = c
		}
		if len(bins) > 0 {
			day.BinIndex = heatmap.Classify(price, bins)
			day.BinColor = bins[day.BinIndex].Color
			day.TextColor = heatmap.ContrastTextColor(day.BinColor)
		}
	}

	if flag, found := pricing.ResolveFlag(td.Flags, date); found {
		day.IsConfirmed = flag.Confirmed
		day.Note = flag.Note
	}
	day.ShouldDisplay = !opts.ConfirmedOnly || day.IsConfirmed
	return day
}

// arrangeWeeks lays real cells into full rows of seven, padding the first
// row with leading empties and the last row to a full week.
func arrangeWeeks(cells []Day, leading int) []Week {
	total := leading + len(cells)
	rows := (total + 6) / 7
	weeks := make([]Week, rows)
	for i := range weeks {
		for j := range weeks[i] {
			weeks[i][j] = Day{Empty: true, BinIndex: -1}
		}
	}
	for i, c := range cells {
		pos := leading + i
		weeks[pos/7][pos%7] = c
	}
	return weeks
}

// weekdayOrder rotates the Sunday-first weekday indices to the configured
// week start, for rendering column headers.
func weekdayOrder(start WeekStart) [7]int {
	var order [7]int
	for i := 0; i < 7; i++ {
		order[i] = (int(start) + i) % 7
	}
	return order
}

// SeasonPrices pairs every season of the tour with its price for the
// duration, in input order. Seasons without a price row are skipped; they
// cannot participate in color ordering.
func SeasonPrices(td *pricing.TourData, duration int) []heatmap.SeasonPrice {
	seen := make(map[string]bool, len(td.Seasons))
	out := make([]heatmap.SeasonPrice, 0, len(td.Seasons))
	for _, s := range td.Seasons {
		if seen[s.Code] {
			continue
		}
		seen[s.Code] = true
		if price, ok := pricing.ResolveBasePrice(td.Prices, s.Code, duration); ok {
			out = append(out, heatmap.SeasonPrice{Code: s.Code, Price: price})
		}
	}
	return out
}

// tourPriceSet collects the full price multiset for the tour and duration
// across all seasons and all time. Binning over this set rather than the
// visible month keeps the color scale stable as the user pages through
// months.
func tourPriceSet(td *pricing.TourData, duration int) []int {
	prices := make([]int, 0, len(td.Seasons))
	for _, sp := range SeasonPrices(td, duration) {
		prices = append(prices, sp.Price)
	}
	return prices
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
