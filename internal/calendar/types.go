package calendar

import (
	"fmt"

	"pricecal/internal/heatmap"
)

// WeekStart selects which weekday begins a week row.
type WeekStart int

const (
	WeekStartSunday WeekStart = 0
	WeekStartMonday WeekStart = 1
)

// ParseWeekStart validates a week start name from configuration.
func ParseWeekStart(s string) (WeekStart, error) {
	switch s {
	case "sunday":
		return WeekStartSunday, nil
	case "monday":
		return WeekStartMonday, nil
	}
	return 0, fmt.Errorf("unknown week_start %q", s)
}

// Day is one cell of a month grid. Empty cells pad the leading and
// trailing week rows; they carry no other data. A day inside the month but
// outside every season keeps HasPrice false and renders as "no data".
type Day struct {
	Day           int    `json:"day"`
	Date          string `json:"date,omitempty"`
	Weekday       int    `json:"weekday"` // 0=Sun .. 6=Sat
	Empty         bool   `json:"empty,omitempty"`
	Price         int    `json:"price,omitempty"`
	PriceDisplay  string `json:"price_display,omitempty"`
	HasPrice      bool   `json:"has_price"`
	SeasonCode    string `json:"season_code,omitempty"`
	SeasonColor   string `json:"season_color,omitempty"`
	BinIndex      int    `json:"bin_index"`
	BinColor      string `json:"bin_color,omitempty"`
	TextColor     string `json:"text_color,omitempty"`
	IsToday       bool   `json:"is_today,omitempty"`
	IsConfirmed   bool   `json:"is_confirmed,omitempty"`
	Note          string `json:"note,omitempty"`
	ShouldDisplay bool   `json:"should_display"`
}

// Week is exactly seven cells.
type Week [7]Day

// MonthGrid is the complete month view. Weeks always hold full rows of
// seven; DayCount is the number of real (non-empty) cells, equal to the
// days in the month.
type MonthGrid struct {
	TourID         string            `json:"tour_id"`
	Year           int               `json:"year"`
	Month          int               `json:"month"`
	Duration       int               `json:"duration_days"`
	WeekStart      WeekStart         `json:"week_start"`
	WeekdayOrder   [7]int            `json:"weekday_order"`
	Weeks          []Week            `json:"weeks"`
	DayCount       int               `json:"day_count"`
	Bins           []heatmap.Bin     `json:"bins,omitempty"`
	SeasonColors   map[string]string `json:"season_colors,omitempty"`
	ConfirmedBadge bool              `json:"confirmed_badge"`
}

// LegendEntry is one visible line of the heatmap legend: the literal
// price range of a non-empty bin and its color.
type LegendEntry struct {
	BinIndex int    `json:"bin_index"`
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Color    string `json:"color"`
	Label    string `json:"label"`
}

// MiniDay is one cell of an annual mini grid: season color only, no
// heatmap.
type MiniDay struct {
	Day         int    `json:"day"`
	Empty       bool   `json:"empty,omitempty"`
	HasPrice    bool   `json:"has_price"`
	SeasonCode  string `json:"season_code,omitempty"`
	SeasonColor string `json:"season_color,omitempty"`
}

// MiniWeek is exactly seven mini cells.
type MiniWeek [7]MiniDay

// MonthMini is one month of the annual summary.
type MonthMini struct {
	Month      int        `json:"month"`
	Weeks      []MiniWeek `json:"weeks"`
	PricedDays int        `json:"priced_days"`
}

// SeasonRow is one line of the annual season table: the in-year periods of
// a season and its price for the requested duration.
type SeasonRow struct {
	Code     string   `json:"season_code"`
	Label    string   `json:"label,omitempty"`
	Periods  []string `json:"periods"`
	Price    int      `json:"price,omitempty"`
	HasPrice bool     `json:"has_price"`
	Color    string   `json:"color,omitempty"`
}

// AnnualSummary is the full-year roll-up: one mini grid per month plus the
// season table.
type AnnualSummary struct {
	TourID      string      `json:"tour_id"`
	Year        int         `json:"year"`
	Duration    int         `json:"duration_days"`
	Months      []MonthMini `json:"months"`
	SeasonTable []SeasonRow `json:"season_table"`
}
