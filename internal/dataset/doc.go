// Package dataset loads the season/price reference data from CSV files
// and serves immutable per-tour snapshots to the builders. It is the only
// place raw rows are parsed and validated: malformed rows are logged and
// skipped, season aliases are normalized, duplicate price keys collapse
// last-wins, and overlapping season intervals raise a warning. Everything
// downstream consumes typed, validated records.
package dataset
