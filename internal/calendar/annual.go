package calendar

import (
	"fmt"
	"sort"
	"time"

	"pricecal/internal/domain"
	"pricecal/internal/pricing"
)

// AnnualOptions controls a year build.
type AnnualOptions struct {
	WeekStart       WeekStart
	ShowEmptyMonths bool
}

// yearRange is a season interval clipped to one calendar year. A season
// spanning a year boundary contributes only its in-year portion; the same
// code may contribute several ranges.
type yearRange struct {
	code  string
	label string
	start time.Time
	end   time.Time
}

// BuildYear expands a full year into mini month grids (season color only,
// no heatmap) plus the season/period/price table. Months with zero priced
// days are skipped unless ShowEmptyMonths is set.
func (b *Builder) BuildYear(td *pricing.TourData, year, duration int, opts AnnualOptions) (*AnnualSummary, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("year %d out of range: %w", year, domain.ErrInvalidYear)
	}

	seasonPrices := SeasonPrices(td, duration)
	colors := b.assigner.AssignColors(seasonPrices, b.settings.Palette, b.settings.Prune)

	summary := &AnnualSummary{
		TourID:   td.TourID,
		Year:     year,
		Duration: duration,
	}

	for month := 1; month <= 12; month++ {
		mini := b.buildMini(td, year, month, duration, colors, opts.WeekStart)
		if mini.PricedDays == 0 && !opts.ShowEmptyMonths {
			continue
		}
		summary.Months = append(summary.Months, mini)
	}

	summary.SeasonTable = b.seasonTable(td, year, duration, colors)
	return summary, nil
}

// buildMini reuses the month day enumeration without heatmap resolution.
func (b *Builder) buildMini(td *pricing.TourData, year, month, duration int, colors map[string]string, weekStart WeekStart) MonthMini {
	days := DaysInMonth(year, month)
	cells := make([]MiniDay, 0, days)
	priced := 0

	for d := 1; d <= days; d++ {
		date := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
		cell := MiniDay{Day: d}
		if _, code, ok := pricing.DayPrice(td, date, duration); ok {
			cell.HasPrice = true
			cell.SeasonCode = code
			cell.SeasonColor = colors[code]
			priced++
		}
		cells = append(cells, cell)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	leading := (int(first.Weekday()) - int(weekStart) + 7) % 7
	total := leading + len(cells)
	rows := (total + 6) / 7

	weeks := make([]MiniWeek, rows)
	for i := range weeks {
		for j := range weeks[i] {
			weeks[i][j] = MiniDay{Empty: true}
		}
	}
	for i, c := range cells {
		pos := leading + i
		weeks[pos/7][pos%7] = c
	}

	return MonthMini{Month: month, Weeks: weeks, PricedDays: priced}
}

// seasonTable builds one row per season code present in the year, with
// merged, deduplicated, sorted period strings and the price for the
// requested duration. Rows sort by season code.
func (b *Builder) seasonTable(td *pricing.TourData, year, duration int, colors map[string]string) []SeasonRow {
	ranges := clipToYear(td.Seasons, year)

	byCode := make(map[string]*SeasonRow)
	for _, r := range ranges {
		row, ok := byCode[r.code]
		if !ok {
			row = &SeasonRow{Code: r.code, Label: r.label, Color: colors[r.code]}
			if price, found := pricing.ResolveBasePrice(td.Prices, r.code, duration); found {
				row.Price = price
				row.HasPrice = true
			}
			byCode[r.code] = row
		}
		period := formatPeriod(r.start, r.end)
		if !containsString(row.Periods, period) {
			row.Periods = append(row.Periods, period)
		}
	}

	rows := make([]SeasonRow, 0, len(byCode))
	for _, row := range byCode {
		sortPeriods(row.Periods)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	return rows
}

// clipToYear clips every season interval to [Jan 1, Dec 31] of the year.
// Intervals fully outside the year are excluded; an interval spanning the
// boundary contributes only its in-year portion, so a Dec 20 – Jan 10
// season shows up as two separate year-scoped ranges.
func clipToYear(seasons []domain.Season, year int) []yearRange {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	dec31 := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	out := make([]yearRange, 0, len(seasons))
	for _, s := range seasons {
		if s.End.Before(jan1) || s.Start.After(dec31) {
			continue
		}
		start, end := s.Start, s.End
		if start.Before(jan1) {
			start = jan1
		}
		if end.After(dec31) {
			end = dec31
		}
		out = append(out, yearRange{code: s.Code, label: s.Label, start: start, end: end})
	}
	return out
}

// formatPeriod renders an in-year range as "M/D–M/D".
func formatPeriod(start, end time.Time) string {
	return fmt.Sprintf("%d/%d–%d/%d", int(start.Month()), start.Day(), int(end.Month()), end.Day())
}

// sortPeriods orders period strings by their start date within the year.
func sortPeriods(periods []string) {
	sort.Slice(periods, func(i, j int) bool {
		return periodKey(periods[i]) < periodKey(periods[j])
	})
}

// periodKey extracts a sortable month*100+day key from "M/D–M/D".
func periodKey(period string) int {
	var m, d int
	fmt.Sscanf(period, "%d/%d", &m, &d)
	return m*100 + d
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
