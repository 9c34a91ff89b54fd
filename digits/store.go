package digits

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/arloliu/piencode/errs"
	"github.com/arloliu/piencode/internal/options"
)

// PageSize is the number of digits a Source returns per request.
const PageSize = 1000

// Source delivers pages of π digits.
//
// FetchPage returns exactly PageSize decimal digits starting at index start.
// Implementations must be idempotent: fetching the same start twice returns
// the same digits. Exhaustion or failure is reported as an error.
type Source interface {
	FetchPage(ctx context.Context, start int) (string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, start int) (string, error)

// FetchPage calls f(ctx, start).
func (f SourceFunc) FetchPage(ctx context.Context, start int) (string, error) {
	return f(ctx, start)
}

// Store is the in-memory digit cache.
type Store struct {
	mu        sync.RWMutex
	digits    strings.Builder
	source    Source
	maxDigits int
	fetches   int
	logger    *slog.Logger
}

// StoreOption configures a Store.
type StoreOption = options.Option[*Store]

// WithSource sets the page source used to grow the store. A store without a
// source can only serve digits it already holds.
func WithSource(src Source) StoreOption {
	return options.NoError(func(s *Store) {
		s.source = src
	})
}

// DefaultMaxDigits is the digit limit used where no explicit cap is set:
// ten thousand pages.
const DefaultMaxDigits = 10_000_000

// WithMaxDigits caps the store size. Growing past the cap fails with
// errs.ErrSourceUnavailable. Zero means unlimited.
func WithMaxDigits(n int) StoreOption {
	return options.New(func(s *Store) error {
		if n < 0 {
			return fmt.Errorf("max digits must not be negative: %d", n)
		}
		s.maxDigits = n

		return nil
	})
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(logger *slog.Logger) StoreOption {
	return options.NoError(func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{logger: slog.New(slog.DiscardHandler)}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Len returns the number of cached digits.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.digits.Len()
}

// MaxDigits returns the configured cap, or 0 when the store is unbounded.
func (s *Store) MaxDigits() int {
	return s.maxDigits
}

// Fetches returns how many pages this store has fetched from its source.
func (s *Store) Fetches() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.fetches
}

// CanGrow reports whether another page could be fetched: a source is
// configured and the digit cap, if any, leaves room for a full page.
func (s *Store) CanGrow() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.source != nil && (s.maxDigits == 0 || s.digits.Len()+PageSize <= s.maxDigits)
}

// DigitsFrom returns the cached digits from index through the current end.
// index == Len() yields the empty string.
func (s *Store) DigitsFrom(index int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index > s.digits.Len() {
		return "", fmt.Errorf("%w: index %d, have %d digits", errs.ErrOutOfRange, index, s.digits.Len())
	}

	return s.digits.String()[index:], nil
}

// Slice returns length digits starting at start.
func (s *Store) Slice(start, length int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if start < 0 || length < 0 || start+length > s.digits.Len() {
		return "", fmt.Errorf("%w: [%d, %d), have %d digits", errs.ErrOutOfRange, start, start+length, s.digits.Len())
	}

	return s.digits.String()[start : start+length], nil
}

// EnsureAvailable grows the store until Len() >= index+count.
//
// Calling it again with arguments it already satisfied is a no-op.
func (s *Store) EnsureAvailable(ctx context.Context, index, count int) error {
	if index < 0 || count < 0 {
		return fmt.Errorf("%w: negative range [%d, +%d)", errs.ErrOutOfRange, index, count)
	}
	need := index + count

	s.mu.Lock()
	defer s.mu.Unlock()

	for s.digits.Len() < need {
		if err := s.fetchNextLocked(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Extend fetches pages more pages regardless of the current length.
func (s *Store) Extend(ctx context.Context, pages int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for range pages {
		if err := s.fetchNextLocked(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Prefetch makes sure the first count digits are cached.
func (s *Store) Prefetch(ctx context.Context, count int) error {
	if count <= 0 {
		return nil
	}

	return s.EnsureAvailable(ctx, 0, count)
}

// fetchNextLocked appends the page starting at the current length.
// Caller must hold s.mu for writing.
func (s *Store) fetchNextLocked(ctx context.Context) error {
	start := s.digits.Len()
	if s.source == nil {
		return fmt.Errorf("%w: no source configured to fetch index %d", errs.ErrSourceUnavailable, start)
	}
	if s.maxDigits > 0 && start+PageSize > s.maxDigits {
		return fmt.Errorf("%w: digit cap %d reached", errs.ErrSourceUnavailable, s.maxDigits)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrSourceUnavailable, err)
	}

	s.logger.Debug("fetching digit page", "start", start)
	page, err := s.source.FetchPage(ctx, start)
	if err != nil {
		return fmt.Errorf("%w: fetch page at %d: %w", errs.ErrSourceUnavailable, start, err)
	}
	if err := validatePage(page); err != nil {
		return fmt.Errorf("%w: page at %d: %w", errs.ErrSourceUnavailable, start, err)
	}

	s.digits.WriteString(page)
	s.fetches++

	return nil
}

func validatePage(page string) error {
	if len(page) != PageSize {
		return fmt.Errorf("got %d digits, want %d", len(page), PageSize)
	}

	return checkDigits(page)
}

func checkDigits(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("non-digit %q at offset %d", s[i], i)
		}
	}

	return nil
}
