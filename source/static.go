package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/arloliu/piencode/digits"
)

// ErrExhausted is returned when a page lies past the end of a Static source.
var ErrExhausted = errors.New("digit source exhausted")

// Static serves pages from a fixed digit string.
type Static struct {
	digits string
}

var _ digits.Source = (*Static)(nil)

// NewStatic creates a source over s. Only whole pages are served; a trailing
// partial page is unreachable.
func NewStatic(s string) *Static {
	return &Static{digits: s}
}

// Len returns the number of digits the source holds.
func (s *Static) Len() int {
	return len(s.digits)
}

// FetchPage returns the page starting at start.
func (s *Static) FetchPage(ctx context.Context, start int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if start < 0 || start+digits.PageSize > len(s.digits) {
		return "", fmt.Errorf("%w: page at %d, have %d digits", ErrExhausted, start, len(s.digits))
	}

	return s.digits[start : start+digits.PageSize], nil
}
