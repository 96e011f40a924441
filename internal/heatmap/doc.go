// Package heatmap converts raw price distributions into stable,
// human-legible color bands. It has two halves: a binner that partitions a
// price multiset into N ordered bins (quantile or linear), and a season
// color assigner that maps a price-ordered season list onto a fixed palette
// with deterministic endpoint fixing and pruning.
//
// Everything here is pure computation over immutable inputs; the only side
// effect is a diagnostic warning when a palette is too small for the season
// count.
package heatmap
