// Package pricing resolves (tour, date, duration) into a concrete price:
// season interval matching, base price lookup, solo surcharge and option
// contributions. All functions are pure lookups over pre-loaded, already
// normalized records; malformed data never reaches this package.
package pricing
