// Package services orchestrates the calendar core: it resolves tour
// snapshots from the dataset repository, runs the builders, and fronts
// them with the TTL cache. Recomputation is pure and cheap, so concurrent
// cache misses are merely deduplicated with singleflight rather than
// locked.
package services
