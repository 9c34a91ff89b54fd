package section

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/piencode/errs"
	"github.com/arloliu/piencode/format"
)

// Header identifies a π-encoded stream and how its decoded bytes are read.
type Header struct {
	Mode format.Mode
}

// NewHeader creates a header for mode, rejecting modes outside the closed set.
func NewHeader(mode format.Mode) (Header, error) {
	if !mode.Valid() {
		return Header{}, fmt.Errorf("%w: %d", errs.ErrInvalidMode, mode)
	}

	return Header{Mode: mode}, nil
}

// AppendHeader appends the encoded header to dst.
func AppendHeader(dst []byte, h Header) []byte {
	dst = append(dst, Marker...)
	dst = strconv.AppendUint(dst, uint64(h.Mode), 10)

	return append(dst, headerTerminator)
}

// String returns the encoded header.
func (h Header) String() string {
	return string(AppendHeader(nil, h))
}

// ParseHeader parses the header at the start of data and returns the
// remaining bytes, which hold the record sequence.
func ParseHeader(data []byte) (Header, []byte, error) {
	s := string(data)
	if !strings.HasPrefix(s, Marker) {
		return Header{}, nil, fmt.Errorf("%w: missing %q marker", errs.ErrMalformedStream, Marker)
	}
	s = s[len(Marker):]

	end := strings.IndexByte(s, headerTerminator)
	if end < 0 {
		return Header{}, nil, fmt.Errorf("%w: unterminated header", errs.ErrMalformedStream)
	}

	tag, err := parseField(s[:end])
	if err != nil {
		return Header{}, nil, fmt.Errorf("%w: mode tag: %w", errs.ErrMalformedStream, err)
	}
	mode := format.Mode(tag)
	if tag > 255 || !mode.Valid() {
		return Header{}, nil, fmt.Errorf("%w: unknown mode tag %d", errs.ErrMalformedStream, tag)
	}

	rest := data[len(Marker)+end+1:]

	return Header{Mode: mode}, rest, nil
}

// parseField parses a non-negative base-10 integer made only of ASCII digits.
func parseField(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty field")
	}
	if len(s) > maxFieldDigits {
		return 0, fmt.Errorf("field %q too long", s)
	}

	v := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("field %q is not a decimal integer", s)
		}
		v = v*10 + int(c-'0')
	}

	return v, nil
}
