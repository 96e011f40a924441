// Package calendar assembles price calendars: a month grid of day cells
// with resolved prices, season colors and heatmap bins, and a 12-month
// annual summary with a season/period/price table. Builders are pure:
// they consume an immutable tour snapshot and return a fresh structure
// every call, so results can be cached and recomputed idempotently.
package calendar
