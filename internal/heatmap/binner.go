package heatmap

import (
	"fmt"
	"sort"
)

// Mode selects how bin boundaries are derived from the price distribution.
type Mode string

const (
	// ModeQuantile places boundaries at equal fractions of the sorted
	// price index rather than the value range. Clustered prices therefore
	// spread across bins instead of piling into the low end.
	ModeQuantile Mode = "quantile"

	// ModeLinear splits the [min, max] value range into equal-width bins.
	ModeLinear Mode = "linear"
)

// ParseMode validates a mode string from configuration or a request.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeQuantile, ModeLinear:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown heatmap mode %q", s)
}

// Bin is one ordered price bucket. Min and Max are the literal inclusive
// price bounds of values assigned to the bin; Count is how many of the
// input prices landed in it. Bins with Count == 0 keep their index so that
// palette assignment stays aligned, but they are dropped from legends.
type Bin struct {
	Index int    `json:"index"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// ComputeBins partitions prices into binCount ordered bins and colors them
// from palette low to high. It operates on the full multiset: duplicate
// prices weight the distribution in quantile mode.
//
// Empty input returns nil; callers render without a heatmap. A degenerate
// distribution (all prices equal) collapses to a single bin regardless of
// binCount.
func ComputeBins(prices []int, mode Mode, binCount int, palette []string) []Bin {
	if len(prices) == 0 || binCount < 1 {
		return nil
	}

	sorted := make([]int, len(prices))
	copy(sorted, prices)
	sort.Ints(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		b := Bin{Index: 0, Min: lo, Max: hi, Count: len(prices)}
		if len(palette) > 0 {
			b.Color = palette[0]
		}
		return []Bin{b}
	}

	var bins []Bin
	switch mode {
	case ModeLinear:
		bins = linearBins(lo, hi, binCount)
	default:
		bins = quantileBins(sorted, binCount)
	}

	for i := range bins {
		bins[i].Color = paletteAt(palette, i, len(bins))
	}
	for _, p := range sorted {
		bins[classifyInternal(p, bins)].Count++
	}
	return bins
}

// linearBins splits [lo, hi] into n equal-width ranges. Integer bounds are
// derived so that consecutive bins never overlap and the last bin is
// closed on both ends. When the span holds fewer integers than n, ranges
// too narrow for a value stay as empty placeholders (Max < Min), keeping
// the index count stable for palette assignment.
func linearBins(lo, hi, n int) []Bin {
	span := hi - lo
	bins := make([]Bin, n)
	for i := 0; i < n; i++ {
		min := lo + span*i/n
		max := lo + span*(i+1)/n - 1
		if i == n-1 {
			max = hi
		}
		bins[i] = Bin{Index: i, Min: min, Max: max}
	}
	return bins
}

// quantileBins places boundaries at i/n positions of the sorted index.
// Duplicate values never straddle a boundary: a run of equal prices always
// lands in one bin, so adjacent bins may merge when prices cluster.
func quantileBins(sorted []int, n int) []Bin {
	total := len(sorted)
	if n > total {
		n = total
	}

	bins := make([]Bin, 0, n)
	prevMax := sorted[0] - 1
	for i := 0; i < n; i++ {
		loIdx := total * i / n
		hiIdx := total*(i+1)/n - 1
		min, max := sorted[loIdx], sorted[hiIdx]
		if min <= prevMax {
			min = prevMax + 1
		}
		if max < min {
			// Entire slice of this quantile was swallowed by the
			// previous bin's value run; keep the index, leave it empty.
			bins = append(bins, Bin{Index: i, Min: min, Max: min - 1})
			continue
		}
		bins = append(bins, Bin{Index: i, Min: min, Max: max})
		prevMax = max
	}
	// Last non-empty bin must close at the true maximum.
	for i := len(bins) - 1; i >= 0; i-- {
		if bins[i].Max >= bins[i].Min {
			if bins[i].Max < sorted[total-1] {
				bins[i].Max = sorted[total-1]
			}
			break
		}
	}
	return bins
}

// Classify returns the bin index for price. It is total over every price
// that participated in ComputeBins; values outside the covered range clamp
// to the nearest bin.
func Classify(price int, bins []Bin) int {
	if len(bins) == 0 {
		return -1
	}
	return classifyInternal(price, bins)
}

func classifyInternal(price int, bins []Bin) int {
	first, last := -1, -1
	for i, b := range bins {
		if b.Max < b.Min {
			continue // empty placeholder bin
		}
		if first == -1 {
			first = i
		}
		last = i
		if price >= b.Min && price <= b.Max {
			return i
		}
	}
	if first == -1 {
		return 0
	}
	if price < bins[first].Min {
		return first
	}
	if price > bins[last].Max {
		return last
	}
	// Price fell into a gap between bins (possible for values that never
	// appeared in the original set); clamp to the nearest lower bin.
	nearest := first
	for i, b := range bins {
		if b.Max < b.Min {
			continue
		}
		if b.Max < price {
			nearest = i
		}
	}
	return nearest
}

// paletteAt picks the palette color for bin i of n, interpolating evenly
// across the palette so the color progression tracks the bin order.
func paletteAt(palette []string, i, n int) string {
	if len(palette) == 0 {
		return ""
	}
	if n <= 1 {
		return palette[0]
	}
	return palette[interpolate(i, n, len(palette))]
}
