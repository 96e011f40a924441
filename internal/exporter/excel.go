// Package exporter renders annual price summaries as xlsx workbooks for
// download: one sheet with the season/period/price table plus a colored
// mini calendar per month.
package exporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"pricecal/internal/calendar"
	"pricecal/internal/heatmap"
)

const sheetName = "Price Calendar"

// WriteAnnualWorkbook writes summary to w as an xlsx workbook.
func WriteAnnualWorkbook(w io.Writer, summary *calendar.AnnualSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetName)

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Tour %s %d (%d days)", summary.TourID, summary.Year, summary.Duration))

	row := writeSeasonTable(f, summary, 3)
	row += 2

	for _, month := range summary.Months {
		row = writeMonthMini(f, summary.Year, month, row)
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// writeSeasonTable writes the season/period/price rows starting at
// startRow and returns the next free row.
func writeSeasonTable(f *excelize.File, summary *calendar.AnnualSummary, startRow int) int {
	headers := []string{"Season", "Label", "Periods", "Price"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, startRow)
		f.SetCellValue(sheetName, cell, hd)
	}

	row := startRow + 1
	for _, sr := range summary.SeasonTable {
		price := ""
		if sr.HasPrice {
			price = heatmap.FormatPrice(sr.Price)
		}
		values := []interface{}{sr.Code, sr.Label, strings.Join(sr.Periods, ", "), price}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
		if sr.Color != "" {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if styleID, err := fillStyle(f, sr.Color); err == nil {
				f.SetCellStyle(sheetName, cell, cell, styleID)
			}
		}
		row++
	}
	return row
}

// writeMonthMini writes one mini month grid starting at startRow and
// returns the next free row.
func writeMonthMini(f *excelize.File, year int, month calendar.MonthMini, startRow int) int {
	title, _ := excelize.CoordinatesToCellName(1, startRow)
	f.SetCellValue(sheetName, title, time.Month(month.Month).String()+fmt.Sprintf(" %d", year))

	row := startRow + 1
	for _, week := range month.Weeks {
		for col, day := range week {
			if day.Empty {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, day.Day)
			if day.SeasonColor != "" {
				if styleID, err := fillStyle(f, day.SeasonColor); err == nil {
					f.SetCellStyle(sheetName, cell, cell, styleID)
				}
			}
		}
		row++
	}
	return row
}

// fillStyle creates a solid fill style for a hex color.
func fillStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(color, "#")}},
	})
}
