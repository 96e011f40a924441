package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pricecal/internal/calendar"
)

func testSummary() *calendar.AnnualSummary {
	week := calendar.MiniWeek{}
	for i := range week {
		week[i].Empty = true
	}
	week[3] = calendar.MiniDay{Day: 1, HasPrice: true, SeasonCode: "LOW", SeasonColor: "#2166ac"}
	week[4] = calendar.MiniDay{Day: 2, HasPrice: true, SeasonCode: "LOW", SeasonColor: "#2166ac"}

	return &calendar.AnnualSummary{
		TourID:   "A1",
		Year:     2025,
		Duration: 4,
		Months: []calendar.MonthMini{
			{Month: 1, Weeks: []calendar.MiniWeek{week}, PricedDays: 2},
		},
		SeasonTable: []calendar.SeasonRow{
			{Code: "LOW", Label: "Low", Periods: []string{"1/1–3/31"}, Price: 100000, HasPrice: true, Color: "#2166ac"},
			{Code: "XTRA", Label: "Unpriced", Periods: []string{"9/1–9/30"}},
		},
	}
}

func TestWriteAnnualWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAnnualWorkbook(&buf, testSummary()))
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Contains(t, f.GetSheetList(), sheetName)

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Tour A1 2025 (4 days)", title)

	header, err := f.GetCellValue(sheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Season", header)

	code, err := f.GetCellValue(sheetName, "A4")
	require.NoError(t, err)
	assert.Equal(t, "LOW", code)

	periods, err := f.GetCellValue(sheetName, "C4")
	require.NoError(t, err)
	assert.Equal(t, "1/1–3/31", periods)

	price, err := f.GetCellValue(sheetName, "D4")
	require.NoError(t, err)
	assert.Equal(t, "100,000", price)

	unpriced, err := f.GetCellValue(sheetName, "D5")
	require.NoError(t, err)
	assert.Empty(t, unpriced, "seasons without a price leave the cell blank")
}

func TestWriteAnnualWorkbookMonthGrid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAnnualWorkbook(&buf, testSummary()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	// Season table: header row 3, two data rows, then a blank row before
	// the month title.
	monthTitle, err := f.GetCellValue(sheetName, "A8")
	require.NoError(t, err)
	assert.Equal(t, "January 2025", monthTitle)

	day1, err := f.GetCellValue(sheetName, "D9")
	require.NoError(t, err)
	assert.Equal(t, "1", day1)

	day2, err := f.GetCellValue(sheetName, "E9")
	require.NoError(t, err)
	assert.Equal(t, "2", day2)

	// Padding cells stay empty.
	pad, err := f.GetCellValue(sheetName, "A9")
	require.NoError(t, err)
	assert.Empty(t, pad)
}

func TestWriteAnnualWorkbookEmptySummary(t *testing.T) {
	var buf bytes.Buffer
	err := WriteAnnualWorkbook(&buf, &calendar.AnnualSummary{TourID: "A1", Year: 2025, Duration: 4})
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
