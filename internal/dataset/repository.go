package dataset

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"pricecal/internal/domain"
	"pricecal/internal/pricing"
)

// Repository loads the reference data once and serves immutable per-tour
// snapshots. It replaces the module-level singleton accessor of the old
// system: construct one explicitly and pass it down. Reload swaps the
// whole data set atomically; snapshots handed out earlier stay valid.
type Repository struct {
	dataDir string
	logger  *slog.Logger

	mu       sync.RWMutex
	tours    map[string]*pricing.TourData
	revision string
}

// NewRepository creates a repository over a data directory. Call Reload
// before serving.
func NewRepository(dataDir string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		dataDir: dataDir,
		logger:  logger.With(slog.String("component", "dataset")),
		tours:   make(map[string]*pricing.TourData),
	}
}

// Reload reads every reference file and rebuilds the per-tour snapshots.
// Row-level problems are logged and skipped; only unreadable required
// files fail the reload.
func (r *Repository) Reload() error {
	aliasRows, err := readRows(filepath.Join(r.dataDir, aliasesFile))
	if err != nil {
		return err
	}
	aliases := parseAliases(aliasRows, r.logger)

	seasonRows, err := readRows(filepath.Join(r.dataDir, seasonsFile))
	if err != nil {
		return err
	}
	priceRows, err := readRows(filepath.Join(r.dataDir, pricesFile))
	if err != nil {
		return err
	}
	if seasonRows == nil && priceRows == nil {
		return fmt.Errorf("%s: %w", r.dataDir, domain.ErrDataUnavailable)
	}
	feeRows, err := readRows(filepath.Join(r.dataDir, soloFeesFile))
	if err != nil {
		return err
	}
	flagRows, err := readRows(filepath.Join(r.dataDir, flagsFile))
	if err != nil {
		return err
	}
	optionRows, err := readRows(filepath.Join(r.dataDir, optionsFile))
	if err != nil {
		return err
	}

	seasons := parseSeasons(seasonRows, r.logger)
	prices := parsePrices(priceRows, aliases, r.logger)
	fees := parseSoloFees(feeRows, r.logger)
	flags := parseFlags(flagRows, r.logger)
	options := parseOptions(optionRows, r.logger)

	tours := make(map[string]*pricing.TourData)
	get := func(tourID string) *pricing.TourData {
		td, ok := tours[tourID]
		if !ok {
			td = &pricing.TourData{TourID: tourID}
			tours[tourID] = td
		}
		return td
	}
	for _, s := range seasons {
		td := get(s.TourID)
		td.Seasons = append(td.Seasons, s)
	}
	for _, p := range prices {
		get(p.TourID).Prices = append(get(p.TourID).Prices, p)
	}
	for _, f := range fees {
		get(f.TourID).SoloFees = append(get(f.TourID).SoloFees, f)
	}
	for _, f := range flags {
		get(f.TourID).Flags = append(get(f.TourID).Flags, f)
	}
	// Options are not tour-scoped in the source data; every tour sees the
	// full option list.
	for _, td := range tours {
		td.Options = options
	}

	for tourID, td := range tours {
		r.warnOverlaps(tourID, td.Seasons)
	}

	revision, err := r.computeRevision()
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.tours = tours
	r.revision = revision
	r.mu.Unlock()

	r.logger.Info("reference data loaded",
		slog.Int("tours", len(tours)),
		slog.Int("seasons", len(seasons)),
		slog.Int("prices", len(prices)),
		slog.String("revision", revision),
	)
	return nil
}

// Snapshot returns the immutable data for one tour. ErrUnknownTour means
// the identifier matched nothing.
func (r *Repository) Snapshot(tourID string) (*pricing.TourData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	td, ok := r.tours[tourID]
	if !ok {
		return nil, fmt.Errorf("tour %q: %w", tourID, domain.ErrUnknownTour)
	}
	if td.Empty() {
		return nil, fmt.Errorf("tour %q: %w", tourID, domain.ErrDataUnavailable)
	}
	return td, nil
}

// Tours lists the loaded tour identifiers, sorted.
func (r *Repository) Tours() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.tours))
	for id := range r.tours {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Revision is an opaque marker that changes whenever the underlying files
// change; it participates in cache keys so stale entries die on reload.
func (r *Repository) Revision() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// warnOverlaps logs a warning for each pair of overlapping season
// intervals of one tour. Resolution still picks the first interval in file
// order; the warning exists so malformed data gets noticed.
func (r *Repository) warnOverlaps(tourID string, seasons []domain.Season) {
	for i := 0; i < len(seasons); i++ {
		for j := i + 1; j < len(seasons); j++ {
			if seasons[i].Overlaps(seasons[j]) {
				r.logger.Warn("overlapping season intervals, first in file order wins",
					slog.String("tour", tourID),
					slog.String("season_a", seasons[i].Code),
					slog.String("season_b", seasons[j].Code),
				)
			}
		}
	}
}

// computeRevision hashes the size and mtime of every reference file.
func (r *Repository) computeRevision() (string, error) {
	h := sha256.New()
	for _, name := range []string{seasonsFile, pricesFile, soloFeesFile, flagsFile, optionsFile, aliasesFile} {
		info, err := os.Stat(filepath.Join(r.dataDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("stat %s: %w", name, err)
		}
		fmt.Fprintf(h, "%s:%d:%d;", name, info.Size(), info.ModTime().UnixNano())
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:12], nil
}
