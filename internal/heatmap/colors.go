package heatmap

import (
	"fmt"
	"log/slog"
	"sort"
)

// PruneMode selects which middle seasons keep a color when seasons
// outnumber palette colors. There is deliberately no default: call sites
// must choose.
type PruneMode string

const (
	// PruneTail keeps the first middle seasons in price order and drops
	// high-end granularity.
	PruneTail PruneMode = "tail"

	// PruneBalanced interpolates evenly across the middle seasons, keeping
	// the loss symmetric.
	PruneBalanced PruneMode = "balanced"
)

// ParsePruneMode validates a prune mode string.
func ParsePruneMode(s string) (PruneMode, error) {
	switch PruneMode(s) {
	case PruneTail, PruneBalanced:
		return PruneMode(s), nil
	}
	return "", fmt.Errorf("unknown prune mode %q", s)
}

// SeasonPrice pairs a season code with its representative price for color
// ordering.
type SeasonPrice struct {
	Code  string
	Price int
}

// Assigner maps season codes onto a palette. It is stateless apart from
// the logger used for insufficient-palette warnings.
type Assigner struct {
	logger *slog.Logger
}

// NewAssigner creates a season color assigner. A nil logger falls back to
// slog.Default.
func NewAssigner(logger *slog.Logger) *Assigner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assigner{logger: logger.With(slog.String("component", "season_colors"))}
}

// AssignColors maps each season to one palette color, cheapest season
// first. The cheapest and most expensive seasons are always pinned to
// palette[0] and palette[last]; middle seasons interpolate across the
// remaining palette range. When the palette is smaller than the season
// count only len(palette) seasons receive a color; the rest are omitted
// from the map and callers fall back to a neutral default. Price ties
// order by season code so the result is deterministic.
func (a *Assigner) AssignColors(seasons []SeasonPrice, palette []string, prune PruneMode) map[string]string {
	out := make(map[string]string, len(seasons))
	if len(seasons) == 0 || len(palette) == 0 {
		return out
	}

	ordered := make([]SeasonPrice, len(seasons))
	copy(ordered, seasons)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Price != ordered[j].Price {
			return ordered[i].Price < ordered[j].Price
		}
		return ordered[i].Code < ordered[j].Code
	})

	n := len(ordered)
	last := len(palette) - 1

	switch {
	case n == 1:
		out[ordered[0].Code] = palette[0]
	case n == 2:
		out[ordered[0].Code] = palette[0]
		out[ordered[1].Code] = palette[last]
	case n <= len(palette):
		for i, s := range ordered {
			idx := interpolate(i, n, len(palette))
			out[s.Code] = palette[idx]
		}
		// Endpoints are fixed regardless of rounding.
		out[ordered[0].Code] = palette[0]
		out[ordered[n-1].Code] = palette[last]
	default:
		a.logger.Warn("palette smaller than season count, pruning",
			slog.Int("seasons", n),
			slog.Int("palette", len(palette)),
			slog.String("prune_mode", string(prune)),
		)
		picked := pruneSeasons(ordered, len(palette), prune)
		for i, s := range picked {
			out[s.Code] = palette[i]
		}
	}
	return out
}

// pruneSeasons selects the len(palette) seasons that keep a color: both
// endpoints always, plus palette-2 middle seasons chosen by mode. Each
// selected season takes one palette index in order, so endpoints still land
// on palette[0] and palette[last].
func pruneSeasons(ordered []SeasonPrice, k int, prune PruneMode) []SeasonPrice {
	n := len(ordered)
	if k >= n {
		return ordered
	}
	if k == 1 {
		return ordered[:1]
	}

	picked := make([]SeasonPrice, 0, k)
	picked = append(picked, ordered[0])
	want := k - 2
	switch prune {
	case PruneTail:
		// First middle seasons in price order; expensive middles lose
		// their color.
		for i := 1; i <= want; i++ {
			picked = append(picked, ordered[i])
		}
	default: // PruneBalanced
		if want == 1 {
			picked = append(picked, ordered[(n-1)/2])
			break
		}
		for i := 0; i < want; i++ {
			// Interpolate across the middle positions 1..n-2.
			idx := 1 + interpolate(i, want, n-2)
			picked = append(picked, ordered[idx])
		}
	}
	picked = append(picked, ordered[n-1])
	return picked
}

// interpolate maps position i of n evenly onto 0..m-1 with round-half-up,
// the formula round(i/(n-1) * (m-1)).
func interpolate(i, n, m int) int {
	if n <= 1 || m <= 1 {
		return 0
	}
	idx := (i*(m-1)*2 + (n - 1)) / ((n - 1) * 2)
	if idx >= m {
		idx = m - 1
	}
	return idx
}
