// Package domain defines the reference-data records the price calendar is
// computed from: seasons, base prices, solo fees, daily flags and tour
// options. Records are immutable once loaded; every derived structure
// (grids, summaries, quotes) is rebuilt fresh per request from a snapshot
// of these records.
package domain
