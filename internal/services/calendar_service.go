package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"pricecal/internal/cache"
	"pricecal/internal/calendar"
	"pricecal/internal/config"
	"pricecal/internal/domain"
	"pricecal/internal/heatmap"
	"pricecal/internal/pricing"
)

var monthPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// DataRepository is the read-only reference data source the service
// consumes. The dataset package provides the CSV-backed implementation.
type DataRepository interface {
	Snapshot(tourID string) (*pricing.TourData, error)
	Revision() string
	Reload() error
}

// CalendarService exposes the core operations a wire protocol or template
// layer needs: month view, annual view, booking quote and legend.
type CalendarService struct {
	repo    DataRepository
	cache   *cache.Cache
	cfg     *config.Config
	builder *calendar.Builder
	logger  *slog.Logger
	group   singleflight.Group

	weekStart calendar.WeekStart
}

// NewCalendarService wires the service from validated configuration.
func NewCalendarService(repo DataRepository, store *cache.Cache, cfg *config.Config, logger *slog.Logger) (*CalendarService, error) {
	mode, err := heatmap.ParseMode(cfg.Calendar.HeatmapMode)
	if err != nil {
		return nil, err
	}
	prune, err := heatmap.ParsePruneMode(cfg.Calendar.PruneMode)
	if err != nil {
		return nil, err
	}
	weekStart, err := calendar.ParseWeekStart(cfg.Calendar.WeekStart)
	if err != nil {
		return nil, err
	}

	settings := calendar.HeatmapSettings{
		Mode:     mode,
		BinCount: cfg.Calendar.HeatmapBins,
		Palette:  cfg.Calendar.SeasonPalette,
		Prune:    prune,
	}

	return &CalendarService{
		repo:      repo,
		cache:     store,
		cfg:       cfg,
		builder:   calendar.NewBuilder(settings, logger),
		logger:    logger.With(slog.String("component", "calendar_service")),
		weekStart: weekStart,
	}, nil
}

// Builder exposes the underlying calendar builder, used by tests to pin
// the clock.
func (s *CalendarService) Builder() *calendar.Builder {
	return s.builder
}

// MonthView computes the month grid for a tour. month is "YYYY-MM".
func (s *CalendarService) MonthView(ctx context.Context, tourID, month string, duration int, heatmapOn, confirmedOnly bool) (*calendar.MonthGrid, error) {
	year, m, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}
	if !domain.ValidDuration(duration) {
		return nil, fmt.Errorf("duration %d: %w", duration, domain.ErrInvalidDuration)
	}

	key := fmt.Sprintf("month:%s:%d:%04d-%02d:%t:%t:%s",
		tourID, duration, year, m, heatmapOn, confirmedOnly, s.repo.Revision())

	if v, ok := s.cache.Get(key); ok {
		return v.(*calendar.MonthGrid), nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		td, err := s.repo.Snapshot(tourID)
		if err != nil {
			return nil, err
		}
		grid, err := s.builder.BuildMonth(td, year, m, duration, calendar.MonthOptions{
			Heatmap:        heatmapOn,
			ConfirmedOnly:  confirmedOnly,
			ConfirmedBadge: s.cfg.Calendar.ConfirmedBadge,
			WeekStart:      s.weekStart,
		})
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, grid, s.cfg.Cache.MonthTTL)
		return grid, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "month view built",
		slog.String("tour", tourID),
		slog.String("month", month),
		slog.Int("duration", duration),
	)
	return v.(*calendar.MonthGrid), nil
}

// AnnualView computes the 12-month summary for a tour and year. showEmpty
// keeps months without a single priced day in the output.
func (s *CalendarService) AnnualView(ctx context.Context, tourID string, year, duration int, showEmpty bool) (*calendar.AnnualSummary, error) {
	if !domain.ValidDuration(duration) {
		return nil, fmt.Errorf("duration %d: %w", duration, domain.ErrInvalidDuration)
	}

	key := fmt.Sprintf("annual:%s:%d:%04d:%t:%s", tourID, duration, year, showEmpty, s.repo.Revision())
	if v, ok := s.cache.Get(key); ok {
		return v.(*calendar.AnnualSummary), nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		td, err := s.repo.Snapshot(tourID)
		if err != nil {
			return nil, err
		}
		summary, err := s.builder.BuildYear(td, year, duration, calendar.AnnualOptions{
			WeekStart:       s.weekStart,
			ShowEmptyMonths: showEmpty,
		})
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, summary, s.cfg.Cache.AnnualTTL)
		return summary, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "annual view built",
		slog.String("tour", tourID),
		slog.Int("year", year),
		slog.Int("duration", duration),
	)
	return v.(*calendar.AnnualSummary), nil
}

// BookingQuote computes the itemized estimate for one departure day.
// Quotes are never cached: pax and option combinations fan out too far and
// the computation is a handful of list scans.
func (s *CalendarService) BookingQuote(ctx context.Context, tourID, date string, duration, pax int, optionIDs []string) (*pricing.PriceBreakdown, error) {
	if !domain.ValidDuration(duration) {
		return nil, fmt.Errorf("duration %d: %w", duration, domain.ErrInvalidDuration)
	}
	if pax < 1 {
		return nil, fmt.Errorf("pax %d: %w", pax, domain.ErrInvalidPax)
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", date, domain.ErrInvalidDate)
	}

	td, err := s.repo.Snapshot(tourID)
	if err != nil {
		return nil, err
	}

	bd := pricing.ComputeDayPrice(td, day, duration, pax, optionIDs)
	s.logger.DebugContext(ctx, "booking quote computed",
		slog.String("tour", tourID),
		slog.String("date", date),
		slog.Int("total", bd.Total),
		slog.Bool("has_price", bd.HasPrice),
	)
	return &bd, nil
}

// Legend derives the visible heatmap legend from a built grid.
func (s *CalendarService) Legend(grid *calendar.MonthGrid) []calendar.LegendEntry {
	return calendar.Legend(grid)
}

// InvalidateCache drops every cached structure, for out-of-band data
// refreshes, then reloads the reference data.
func (s *CalendarService) InvalidateCache(ctx context.Context) error {
	s.cache.InvalidateAll()
	if err := s.repo.Reload(); err != nil {
		return fmt.Errorf("reload reference data: %w", err)
	}
	s.logger.InfoContext(ctx, "cache invalidated and data reloaded",
		slog.String("revision", s.repo.Revision()))
	return nil
}

// ParseMonth splits "YYYY-MM" into year and month, rejecting anything
// else.
func ParseMonth(month string) (int, int, error) {
	m := monthPattern.FindStringSubmatch(month)
	if m == nil {
		return 0, 0, fmt.Errorf("month %q: %w", month, domain.ErrInvalidMonth)
	}
	year, _ := strconv.Atoi(m[1])
	mon, _ := strconv.Atoi(m[2])
	if mon < 1 || mon > 12 {
		return 0, 0, fmt.Errorf("month %q: %w", month, domain.ErrInvalidMonth)
	}
	return year, mon, nil
}
