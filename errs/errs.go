// Package errs defines the error classes shared by the piencode packages.
//
// Every failure returned by the core wraps exactly one of the sentinels below,
// so callers classify errors with errors.Is regardless of how much context was
// added along the way.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable means the digit source could not deliver a page:
	// it was unreachable, returned a malformed page, or is exhausted.
	ErrSourceUnavailable = errors.New("digit source unavailable")

	// ErrOutOfRange means an index lies past the end of the cached digits.
	ErrOutOfRange = errors.New("digit index out of range")

	// ErrMalformedFragment means a decimal fragment violates the 3-digit group rules.
	ErrMalformedFragment = errors.New("malformed fragment")

	// ErrMalformedStream means an encoded stream has a bad header or record layout.
	ErrMalformedStream = errors.New("malformed stream")

	// ErrCacheCorrupt means a persisted digit cache failed its internal invariants.
	ErrCacheCorrupt = errors.New("digit cache corrupt")

	// ErrFragmentUnresolvable means subdivision reached the minimal unit and it
	// still could not be located.
	ErrFragmentUnresolvable = errors.New("fragment unresolvable")

	ErrInvalidChunkSize = errors.New("invalid chunk size")
	ErrInvalidMode      = errors.New("invalid encoding mode")
)

// FragmentError attaches the failing chunk index and fragment key to an encode
// or decode failure.
type FragmentError struct {
	Chunk int    // zero-based chunk index in the input, -1 when unknown
	Key   string // decimal fragment key, may be empty
	Err   error
}

func (e *FragmentError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("chunk %d: %v", e.Chunk, e.Err)
	}

	return fmt.Sprintf("chunk %d (fragment %q): %v", e.Chunk, e.Key, e.Err)
}

func (e *FragmentError) Unwrap() error {
	return e.Err
}
