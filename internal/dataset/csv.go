package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"pricecal/internal/domain"
)

// Reference data file names inside the data directory. daily_flags.csv and
// season_aliases.csv are optional.
const (
	seasonsFile  = "seasons.csv"
	pricesFile   = "prices.csv"
	soloFeesFile = "solo_fees.csv"
	flagsFile    = "daily_flags.csv"
	optionsFile  = "options.csv"
	aliasesFile  = "season_aliases.csv"
)

// readRows opens a CSV file and returns its data rows, header stripped.
// A missing file returns (nil, nil); the caller decides whether the file
// was required.
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

// parseDate accepts the two date layouts present in the source data.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006/1/2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Midnight(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

// parseAmount parses a non-negative integer amount, tolerating thousands
// separators.
func parseAmount(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unparsable amount %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount %d", v)
	}
	return v, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// parseSeasons converts raw rows into Season records, skipping malformed
// rows with a warning.
func parseSeasons(rows [][]string, logger *slog.Logger) []domain.Season {
	out := make([]domain.Season, 0, len(rows))
	for i, row := range rows {
		if len(row) < 5 {
			logRowSkip(logger, seasonsFile, i, "expected 5 columns")
			continue
		}
		start, err := parseDate(row[3])
		if err != nil {
			logRowSkip(logger, seasonsFile, i, err.Error())
			continue
		}
		end, err := parseDate(row[4])
		if err != nil {
			logRowSkip(logger, seasonsFile, i, err.Error())
			continue
		}
		s := domain.Season{
			TourID: strings.TrimSpace(row[0]),
			Code:   strings.TrimSpace(row[1]),
			Label:  strings.TrimSpace(row[2]),
			Start:  start,
			End:    end,
		}
		if !s.IsValid() {
			logRowSkip(logger, seasonsFile, i, "invalid season row")
			continue
		}
		out = append(out, s)
	}
	return out
}

// parsePrices converts raw rows into BasePrice records. Season codes run
// through the alias map so rows keyed "A" resolve against a season keyed
// "LOW". Duplicate (tour, season, duration) keys collapse last-wins.
func parsePrices(rows [][]string, aliases map[string]string, logger *slog.Logger) []domain.BasePrice {
	type key struct {
		tour, code string
		duration   int
	}
	index := make(map[key]int)
	out := make([]domain.BasePrice, 0, len(rows))

	for i, row := range rows {
		if len(row) < 4 {
			logRowSkip(logger, pricesFile, i, "expected 4 columns")
			continue
		}
		duration, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil || !domain.ValidDuration(duration) {
			logRowSkip(logger, pricesFile, i, "invalid duration")
			continue
		}
		price, err := parseAmount(row[3])
		if err != nil {
			logRowSkip(logger, pricesFile, i, err.Error())
			continue
		}
		p := domain.BasePrice{
			TourID:   strings.TrimSpace(row[0]),
			Code:     canonicalCode(strings.TrimSpace(row[1]), aliases),
			Duration: duration,
			Price:    price,
		}
		k := key{p.TourID, p.Code, p.Duration}
		if pos, dup := index[k]; dup {
			out[pos] = p // last row wins
			continue
		}
		index[k] = len(out)
		out = append(out, p)
	}
	return out
}

func parseSoloFees(rows [][]string, logger *slog.Logger) []domain.SoloFee {
	out := make([]domain.SoloFee, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			logRowSkip(logger, soloFeesFile, i, "expected 3 columns")
			continue
		}
		duration, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil || !domain.ValidDuration(duration) {
			logRowSkip(logger, soloFeesFile, i, "invalid duration")
			continue
		}
		fee, err := parseAmount(row[2])
		if err != nil {
			logRowSkip(logger, soloFeesFile, i, err.Error())
			continue
		}
		out = append(out, domain.SoloFee{
			TourID:   strings.TrimSpace(row[0]),
			Duration: duration,
			Fee:      fee,
		})
	}
	return out
}

func parseFlags(rows [][]string, logger *slog.Logger) []domain.DailyFlag {
	out := make([]domain.DailyFlag, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			logRowSkip(logger, flagsFile, i, "expected 3 columns")
			continue
		}
		date, err := parseDate(row[1])
		if err != nil {
			logRowSkip(logger, flagsFile, i, err.Error())
			continue
		}
		f := domain.DailyFlag{
			TourID:    strings.TrimSpace(row[0]),
			Date:      date,
			Confirmed: parseBool(row[2]),
		}
		if len(row) > 3 {
			f.Note = strings.TrimSpace(row[3])
		}
		out = append(out, f)
	}
	return out
}

func parseOptions(rows [][]string, logger *slog.Logger) []domain.TourOption {
	out := make([]domain.TourOption, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			logRowSkip(logger, optionsFile, i, "expected 6 columns")
			continue
		}
		min, err := parseAmount(row[2])
		if err != nil {
			logRowSkip(logger, optionsFile, i, err.Error())
			continue
		}
		max, err := parseAmount(row[3])
		if err != nil {
			logRowSkip(logger, optionsFile, i, err.Error())
			continue
		}
		out = append(out, domain.TourOption{
			ID:           strings.TrimSpace(row[0]),
			Label:        strings.TrimSpace(row[1]),
			PriceMin:     min,
			PriceMax:     max,
			Description:  strings.TrimSpace(row[4]),
			AffectsTotal: parseBool(row[5]),
		})
	}
	return out
}

// parseAliases builds the season code normalization map.
func parseAliases(rows [][]string, logger *slog.Logger) map[string]string {
	out := make(map[string]string, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			logRowSkip(logger, aliasesFile, i, "expected 2 columns")
			continue
		}
		alias := strings.TrimSpace(row[0])
		canonical := strings.TrimSpace(row[1])
		if alias == "" || canonical == "" {
			logRowSkip(logger, aliasesFile, i, "empty alias mapping")
			continue
		}
		out[alias] = canonical
	}
	return out
}

func canonicalCode(code string, aliases map[string]string) string {
	if canonical, ok := aliases[code]; ok {
		return canonical
	}
	return code
}

func logRowSkip(logger *slog.Logger, file string, row int, reason string) {
	logger.Warn("skipping malformed row",
		slog.String("file", file),
		slog.Int("row", row+2), // 1-based, header included
		slog.String("reason", reason),
	)
}
