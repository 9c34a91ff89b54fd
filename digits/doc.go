// Package digits owns the growing window of known π decimal digits.
//
// A Store is an append-only digit string. It grows only by whole pages of
// PageSize digits fetched from a Source, always requesting the page that
// starts at the current length, so a page is never fetched twice and the
// digits stay contiguous and index-addressable from zero.
//
// Reads (Len, DigitsFrom, Slice, Snapshot) are pure in-memory operations.
// Network or storage access happens only inside EnsureAvailable, Extend and
// Prefetch.
//
// A Store is safe for concurrent use: appends take a single writer lock and
// the fetch happens while that lock is held, so two goroutines extending the
// store at once never append the same page twice.
package digits
