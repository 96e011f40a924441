package calendar

import (
	"fmt"

	"pricecal/internal/heatmap"
)

// Legend derives the visible heatmap legend from a built month grid: one
// entry per non-empty bin, carrying the literal [min, max] price range of
// the displayed priced days that landed in it, sorted by bin index.
func Legend(grid *MonthGrid) []LegendEntry {
	if grid == nil || len(grid.Bins) == 0 {
		return nil
	}

	type span struct {
		min, max int
		seen     bool
	}
	spans := make([]span, len(grid.Bins))

	for _, week := range grid.Weeks {
		for _, day := range week {
			if day.Empty || !day.HasPrice || !day.ShouldDisplay || day.BinIndex < 0 {
				continue
			}
			s := &spans[day.BinIndex]
			if !s.seen || day.Price < s.min {
				s.min = day.Price
			}
			if !s.seen || day.Price > s.max {
				s.max = day.Price
			}
			s.seen = true
		}
	}

	entries := make([]LegendEntry, 0, len(spans))
	for i, s := range spans {
		if !s.seen {
			continue
		}
		label := heatmap.FormatPrice(s.min)
		if s.max != s.min {
			label = fmt.Sprintf("%s–%s", heatmap.FormatPrice(s.min), heatmap.FormatPrice(s.max))
		}
		entries = append(entries, LegendEntry{
			BinIndex: i,
			Min:      s.min,
			Max:      s.max,
			Color:    grid.Bins[i].Color,
			Label:    label,
		})
	}
	return entries
}
