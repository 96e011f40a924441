package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecal/internal/domain"
	"pricecal/internal/heatmap"
	"pricecal/internal/pricing"
)

var testPalette = []string{"#2166ac", "#67a9cf", "#d1e5f0", "#fddbc7", "#ef8a62", "#b2182b"}

func testSettings() HeatmapSettings {
	return HeatmapSettings{
		Mode:     heatmap.ModeQuantile,
		BinCount: 5,
		Palette:  testPalette,
		Prune:    heatmap.PruneBalanced,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testTour() *pricing.TourData {
	return &pricing.TourData{
		TourID: "A1",
		Seasons: []domain.Season{
			{TourID: "A1", Code: "LOW", Label: "Low", Start: day(2025, 1, 1), End: day(2025, 3, 31)},
			{TourID: "A1", Code: "MID", Label: "Mid", Start: day(2025, 4, 1), End: day(2025, 6, 30)},
			{TourID: "A1", Code: "HIGH", Label: "High", Start: day(2025, 7, 1), End: day(2025, 8, 31)},
		},
		Prices: []domain.BasePrice{
			{TourID: "A1", Code: "LOW", Duration: 4, Price: 100000},
			{TourID: "A1", Code: "MID", Duration: 4, Price: 120000},
			{TourID: "A1", Code: "HIGH", Duration: 4, Price: 150000},
		},
		Flags: []domain.DailyFlag{
			{TourID: "A1", Date: day(2025, 1, 10), Confirmed: true, Note: "guaranteed"},
		},
	}
}

func fixedClock() func() time.Time {
	return func() time.Time { return day(2025, 1, 15) }
}

func TestBuildMonthGridShape(t *testing.T) {
	b := NewBuilder(testSettings(), nil)
	b.SetClock(fixedClock())

	tests := []struct {
		name     string
		year     int
		month    int
		wantDays int
	}{
		{"january 2025", 2025, 1, 31},
		{"april 2025", 2025, 4, 30},
		{"february leap year", 2024, 2, 29},
		{"february non-leap year", 2023, 2, 28},
		{"february century non-leap", 1900, 2, 28},
		{"february 400-year leap", 2000, 2, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := b.BuildMonth(testTour(), tt.year, tt.month, 4, MonthOptions{WeekStart: WeekStartSunday})
			require.NoError(t, err)

			assert.Equal(t, tt.wantDays, grid.DayCount)

			// Always full weeks of exactly seven cells.
			assert.NotEmpty(t, grid.Weeks)
			realDays := 0
			for _, week := range grid.Weeks {
				assert.Len(t, week, 7)
				for _, cell := range week {
					if !cell.Empty {
						realDays++
					}
				}
			}
			assert.Equal(t, tt.wantDays, realDays)
		})
	}
}

func TestBuildMonthInvalidArgs(t *testing.T) {
	b := NewBuilder(testSettings(), nil)

	_, err := b.BuildMonth(testTour(), 2025, 0, 4, MonthOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = b.BuildMonth(testTour(), 2025, 13, 4, MonthOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = b.BuildMonth(testTour(), -3, 5, 4, MonthOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidYear)
}

func TestBuildMonthLeadingPadding(t *testing.T) {
	b := NewBuilder(testSettings(), nil)
	b.SetClock(fixedClock())

	// January 1, 2025 is a Wednesday (weekday 3).
	sunday, err := b.BuildMonth(testTour(), 2025, 1, 4, MonthOptions{WeekStart: WeekStartSunday})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.True(t, sunday.Weeks[0][i].Empty, "cell %d should be leading padding", i)
	}
	assert.Equal(t, 1, sunday.Weeks[0][3].Day)

	monday, err := b.BuildMonth(testTour(), 2025, 1, 4, MonthOptions{WeekStart: WeekStartMonday})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		assert.True(t, monday.Weeks[0][i].Empty)
	}
	assert.Equal(t, 1, monday.Weeks[0][2].Day)

	assert.Equal(t, [7]int{0, 1, 2, 3, 4, 5, 6}, sunday.WeekdayOrder)
	assert.Equal(t, [7]int{1, 2, 3, 4, 5, 6, 0}, monday.WeekdayOrder)
}

func TestBuildMonthDayResolution(t *testing.T) {
	b := NewBuilder(testSettings(), nil)
	b.SetClock(fixedClock())

	grid, err := b.BuildMonth(testTour(), 2025, 1, 4, MonthOptions{Heatmap: true, WeekStart: WeekStartSunday})
	require.NoError(t, err)

	var jan10, jan15 *Day
	for wi := range grid.Weeks {
		for di := range grid.Weeks[wi] {
			cell := &grid.Weeks[wi][di]
			switch {
			case cell.Day == 10 && !cell.Empty:
				jan10 = cell
			case cell.Day == 15 && !cell.Empty:
				jan15 = cell
			}
		}
	}
	require.NotNil(t, jan10)
	require.NotNil(t, jan15)

	assert.True(t, jan10.HasPrice)
	assert.Equal(t, 100000, jan10.Price)
	assert.Equal(t, "100,000", jan10.PriceDisplay)
	assert.Equal(t, "LOW", jan10.SeasonCode)
	assert.True(t, jan10.IsConfirmed)
	assert.Equal(t, "guaranteed", jan10.Note)
	assert.NotEmpty(t, jan10.SeasonColor)
	assert.GreaterOrEqual(t, jan10.BinIndex, 0)
	assert.NotEmpty(t, jan10.BinColor)

	assert.True(t, jan15.IsToday)
	assert.False(t, jan10.IsToday)
}

func TestBuildMonthNoSeasonDays(t *testing.T) {
	b := NewBuilder(testSettings(), nil)
	b.SetClock(fixedClock())

	// December has no season: every day renders as "no data", not an error.
	grid, err := b.BuildMonth(testTour(), 2025, 12, 4, MonthOptions{Heatmap: true, WeekStart: WeekStartSunday})
	require.NoError(t, err)
	assert.Equal(t, 31, grid.DayCount)
	for _, week := range grid.Weeks {
		for _, cell := range week {
			if !cell.Empty {
				assert.False(t, cell.HasPrice)
			}
		}
	}
}

func TestBuildMonthConfirmedOnlyKeepsShape(t *testing.T) {
	b := NewBuilder(testSettings(), nil)
	b.SetClock(fixedClock())

	all, err := b.BuildMonth(testTour(), 2025, 1, 4, MonthOptions{WeekStart: WeekStartSunday})
	require.NoError(t, err)
	filtered, err := b.BuildMonth(testTour(), 2025, 1, 4, MonthOptions{ConfirmedOnly: true, WeekStart: WeekStartSunday})
	require.NoError(t, err)

	// Filtering flags days hidden but never changes the grid shape.
	assert.Equal(t, len(all.Weeks), len(filtered.Weeks))
	assert.Equal(t, all.DayCount, filtered.DayCount)

	shown := 0
	for _, week := range filtered.Weeks {
		for _, cell := range week {
			if !cell.Empty && cell.ShouldDisplay {
				shown++
			}
		}
	}
	assert.Equal(t, 1, shown, "only the confirmed day remains visible")
}

func TestBuildMonthHeatmapScopeIsTourWide(t *testing.T) {
	b := NewBuilder(testSettings(), nil)
	b.SetClock(fixedClock())

	// January only contains LOW days, but the bins span the whole tour's
	// price set so the scale matches other months.
	jan, err := b.BuildMonth(testTour(), 2025, 1, 4, MonthOptions{Heatmap: true, WeekStart: WeekStartSunday})
	require.NoError(t, err)
	jul, err := b.BuildMonth(testTour(), 2025, 7, 4, MonthOptions{Heatmap: true, WeekStart: WeekStartSunday})
	require.NoError(t, err)

	require.NotEmpty(t, jan.Bins)
	assert.Equal(t, jan.Bins, jul.Bins)

	assert.Equal(t, 100000, jan.Bins[0].Min)
	last := len(jan.Bins) - 1
	assert.Equal(t, 150000, jan.Bins[last].Max)
}

func TestBuildMonthWithoutHeatmap(t *testing.T) {
	b := NewBuilder(testSettings(), nil)
	b.SetClock(fixedClock())

	grid, err := b.BuildMonth(testTour(), 2025, 1, 4, MonthOptions{Heatmap: false, WeekStart: WeekStartSunday})
	require.NoError(t, err)
	assert.Empty(t, grid.Bins)
	for _, week := range grid.Weeks {
		for _, cell := range week {
			if !cell.Empty && cell.HasPrice {
				assert.Equal(t, -1, cell.BinIndex)
				assert.Empty(t, cell.BinColor)
			}
		}
	}
}

func TestBuildMonthConfirmedBadgeFlag(t *testing.T) {
	b := NewBuilder(testSettings(), nil)
	b.SetClock(fixedClock())

	grid, err := b.BuildMonth(testTour(), 2025, 1, 4, MonthOptions{ConfirmedBadge: true, WeekStart: WeekStartSunday})
	require.NoError(t, err)
	assert.True(t, grid.ConfirmedBadge)

	grid, err = b.BuildMonth(testTour(), 2025, 1, 4, MonthOptions{WeekStart: WeekStartSunday})
	require.NoError(t, err)
	assert.False(t, grid.ConfirmedBadge)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2025, 1))
	assert.Equal(t, 28, DaysInMonth(2023, 2))
	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 30, DaysInMonth(2025, 11))
	assert.Equal(t, 31, DaysInMonth(2025, 12))
}

func TestSeasonPricesSkipsUnpricedSeasons(t *testing.T) {
	td := testTour()
	td.Seasons = append(td.Seasons, domain.Season{
		TourID: "A1", Code: "XTRA", Start: day(2025, 9, 1), End: day(2025, 9, 30),
	})

	sp := SeasonPrices(td, 4)
	require.Len(t, sp, 3, "season without a price row cannot be color ordered")
	for _, s := range sp {
		assert.NotEqual(t, "XTRA", s.Code)
	}
}
