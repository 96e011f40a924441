package pricing

import (
	"time"

	"pricecal/internal/domain"
)

// PriceBreakdown is the itemized result of a booking estimate. BaseTotal
// is the per-person base price multiplied by pax; SoloFee applies only to
// single-participant bookings; OptionTotal sums the minimum price of every
// selected option that affects the total.
type PriceBreakdown struct {
	TourID      string `json:"tour_id"`
	Date        string `json:"date"`
	Duration    int    `json:"duration_days"`
	Pax         int    `json:"pax"`
	SeasonCode  string `json:"season_code"`
	BasePrice   int    `json:"base_price"`
	BaseTotal   int    `json:"base_total"`
	SoloFee     int    `json:"solo_fee"`
	OptionTotal int    `json:"option_total"`
	Total       int    `json:"total"`
	HasPrice    bool   `json:"has_price"`
}

// TourData is the immutable per-tour snapshot the resolvers operate on.
// The dataset repository produces one per tour; nothing here mutates it.
type TourData struct {
	TourID   string
	Seasons  []domain.Season
	Prices   []domain.BasePrice
	SoloFees []domain.SoloFee
	Flags    []domain.DailyFlag
	Options  []domain.TourOption
}

// Empty reports whether the snapshot carries no pricing source at all.
func (td *TourData) Empty() bool {
	return len(td.Seasons) == 0 && len(td.Prices) == 0
}

// DayPrice resolves the per-person base price for a single day. ok is
// false when the date falls outside every season or the season has no row
// for the duration, a valid "no price" state.
func DayPrice(td *TourData, date time.Time, duration int) (price int, seasonCode string, ok bool) {
	code, ok := ResolveSeason(td.Seasons, date)
	if !ok {
		return 0, "", false
	}
	price, ok = ResolveBasePrice(td.Prices, code, duration)
	if !ok {
		return 0, code, false
	}
	return price, code, true
}

// OptionContribution sums the price_min of the selected options that
// affect the total. Unknown option IDs are skipped; selection is by exact
// ID match.
func OptionContribution(options []domain.TourOption, optionIDs []string) int {
	total := 0
	for _, id := range optionIDs {
		for _, opt := range options {
			if opt.ID == id && opt.AffectsTotal {
				total += opt.PriceMin
			}
		}
	}
	return total
}

// ComputeDayPrice builds the full booking estimate for one departure day.
// The breakdown always comes back; HasPrice is false when no base price
// resolves, in which case every amount is zero.
func ComputeDayPrice(td *TourData, date time.Time, duration, pax int, optionIDs []string) PriceBreakdown {
	bd := PriceBreakdown{
		TourID:   td.TourID,
		Date:     domain.Midnight(date).Format("2006-01-02"),
		Duration: duration,
		Pax:      pax,
	}

	base, code, ok := DayPrice(td, date, duration)
	bd.SeasonCode = code
	if !ok {
		return bd
	}

	bd.HasPrice = true
	bd.BasePrice = base
	bd.BaseTotal = base * pax
	if pax == 1 {
		bd.SoloFee = ResolveSoloFee(td.SoloFees, duration)
	}
	bd.OptionTotal = OptionContribution(td.Options, optionIDs)
	bd.Total = bd.BaseTotal + bd.SoloFee + bd.OptionTotal
	return bd
}
