// Package locate finds decimal fragments inside the cached π digits.
//
// A Locator searches the digit window of a digits.Store for the first
// occurrence of a fragment, growing the store page by page when the fragment
// is not in the digits seen so far, and remembers every answer. When a
// fragment still cannot be found after the configured number of extensions,
// Resolve splits it on 3-digit group boundaries and resolves each half on its
// own: shorter strings are exponentially more likely to occur early in π.
//
// A Locator is not safe for concurrent use. The memo is per-run state owned
// by the locator; the digit store may be shared.
package locate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/errs"
	"github.com/arloliu/piencode/fragment"
	"github.com/arloliu/piencode/internal/options"
	"github.com/arloliu/piencode/section"
)

const (
	// DefaultMaxExtensions is the number of pages a single Locate call may fetch.
	DefaultMaxExtensions = 8
	// DefaultMinGroups is the smallest unit subdivision produces: one byte.
	DefaultMinGroups = 1
)

// Location is a memo entry. For a fragment that was not found, Searched is
// the store length at the time, so a later search resumes from there.
type Location struct {
	Offset   int
	Found    bool
	Searched int
}

// Stats counts locator activity.
type Stats struct {
	Searches   int // window scans performed
	MemoHits   int // lookups answered from the memo
	Extensions int // pages fetched on behalf of a search
	Splits     int // fragments subdivided
}

// Locator finds fragment offsets in a digit store.
type Locator struct {
	store         *digits.Store
	memo          map[string]Location
	maxExtensions int
	minGroups     int
	logger        *slog.Logger
	stats         Stats
}

// Option configures a Locator.
type Option = options.Option[*Locator]

// WithMaxExtensions sets how many pages a single Locate call may fetch before
// declaring the fragment not found at its current size.
func WithMaxExtensions(n int) Option {
	return options.New(func(l *Locator) error {
		if n < 0 {
			return fmt.Errorf("max extensions must not be negative: %d", n)
		}
		l.maxExtensions = n

		return nil
	})
}

// WithMinGroups sets the smallest fragment, in 3-digit groups, that Resolve
// will try before failing with errs.ErrFragmentUnresolvable.
func WithMinGroups(n int) Option {
	return options.New(func(l *Locator) error {
		if n < 1 {
			return fmt.Errorf("min groups must be at least 1: %d", n)
		}
		l.minGroups = n

		return nil
	})
}

// WithLogger sets the logger used for search diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(l *Locator) {
		if logger != nil {
			l.logger = logger
		}
	})
}

// New creates a Locator over store.
func New(store *digits.Store, opts ...Option) (*Locator, error) {
	if store == nil {
		return nil, errors.New("locate: nil digit store")
	}

	l := &Locator{
		store:         store,
		memo:          make(map[string]Location),
		maxExtensions: DefaultMaxExtensions,
		minGroups:     DefaultMinGroups,
		logger:        slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(l, opts...); err != nil {
		return nil, err
	}

	return l, nil
}

// Store returns the digit store the locator searches.
func (l *Locator) Store() *digits.Store {
	return l.store
}

// Stats returns a copy of the activity counters.
func (l *Locator) Stats() Stats {
	return l.stats
}

// Lookup returns the memo entry for key, if any.
func (l *Locator) Lookup(key string) (Location, bool) {
	loc, ok := l.memo[key]
	return loc, ok
}

// Locate returns the offset of the first occurrence of key in π.
//
// found is false when key is absent from the digits available after up to
// the configured number of page extensions; that outcome is memoized along
// with how far the search got. Errors come only from the digit store.
// The empty key is found at offset 0 without searching.
func (l *Locator) Locate(ctx context.Context, key string) (offset int, found bool, err error) {
	if key == "" {
		return 0, true, nil
	}

	from := 0
	if loc, ok := l.memo[key]; ok {
		if loc.Found {
			l.stats.MemoHits++
			return loc.Offset, true, nil
		}
		from = resumeAt(loc.Searched, len(key))
	}

	window, err := l.store.DigitsFrom(0)
	if err != nil {
		return 0, false, err
	}
	if off := l.search(window, key, from); off >= 0 {
		return off, true, nil
	}
	searched := len(window)

	for ext := 0; ext < l.maxExtensions && l.store.CanGrow(); ext++ {
		if err := l.store.Extend(ctx, 1); err != nil {
			return 0, false, err
		}
		l.stats.Extensions++

		window, err = l.store.DigitsFrom(0)
		if err != nil {
			return 0, false, err
		}
		if off := l.search(window, key, resumeAt(searched, len(key))); off >= 0 {
			return off, true, nil
		}
		searched = len(window)
	}

	l.logger.Debug("fragment not in available digits", "fragment", key, "searched", searched)
	l.memo[key] = Location{Searched: searched}

	return 0, false, nil
}

// search scans window[from:] for key and memoizes a hit.
func (l *Locator) search(window, key string, from int) int {
	l.stats.Searches++
	if from > len(window) {
		return -1
	}

	idx := strings.Index(window[from:], key)
	if idx < 0 {
		return -1
	}

	off := from + idx
	l.memo[key] = Location{Offset: off, Found: true, Searched: len(window)}
	l.logger.Debug("fragment found", "fragment", key, "offset", off)

	return off
}

// resumeAt is the first start index not yet ruled out after searched digits
// were scanned: a match may straddle the old end by up to keyLen-1 digits.
func resumeAt(searched, keyLen int) int {
	if from := searched - keyLen + 1; from > 0 {
		return from
	}

	return 0
}

// Resolve maps a fragment to the records that reproduce it.
//
// If the whole fragment can be located it yields a single record. Otherwise
// the fragment is split at the group boundary nearest its middle and each half
// is resolved recursively, down to the minimum unit. A minimum unit that
// cannot be located fails with errs.ErrFragmentUnresolvable. The digits of
// the returned records, concatenated in order, equal key.
func (l *Locator) Resolve(ctx context.Context, key string) ([]section.Record, error) {
	if len(key)%fragment.GroupWidth != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", errs.ErrMalformedFragment, len(key), fragment.GroupWidth)
	}
	if key == "" {
		return nil, nil
	}

	return l.resolve(ctx, key, nil)
}

func (l *Locator) resolve(ctx context.Context, key string, dst []section.Record) ([]section.Record, error) {
	off, found, err := l.Locate(ctx, key)
	if err != nil {
		return nil, err
	}
	if found {
		return append(dst, section.Record{Start: off, Length: len(key)}), nil
	}

	groups := fragment.Groups(len(key))
	if groups <= l.minGroups {
		return nil, fmt.Errorf("%w: %q not found in %d digits", errs.ErrFragmentUnresolvable, key, l.store.Len())
	}

	split := (groups / 2) * fragment.GroupWidth
	l.stats.Splits++
	l.logger.Debug("subdividing fragment", "fragment", key, "left", key[:split], "right", key[split:])

	dst, err = l.resolve(ctx, key[:split], dst)
	if err != nil {
		return nil, err
	}

	return l.resolve(ctx, key[split:], dst)
}
