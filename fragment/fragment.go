// Package fragment converts raw bytes to the decimal alphabet searched for in
// π and back.
//
// Every byte value 0-255 becomes exactly GroupWidth decimal digits, padded on
// the left with '0', and a fragment is the concatenation of those groups in
// byte order. "Hi" ([72 105]) therefore encodes to "072105".
//
// Older encoders padded groups with NUL characters instead of '0'; Decode
// strips NUL padding so such fragments still decode.
package fragment

import (
	"fmt"

	"github.com/arloliu/piencode/errs"
)

// GroupWidth is the number of decimal digits that encode one byte.
const GroupWidth = 3

const nulPad = '\x00'

// Encode renders src as a fragment. It is a total function: every byte
// sequence, including the empty one, has exactly one encoding.
func Encode(src []byte) string {
	return string(AppendEncode(make([]byte, 0, len(src)*GroupWidth), src))
}

// AppendEncode appends the fragment encoding of src to dst.
func AppendEncode(dst []byte, src []byte) []byte {
	for _, b := range src {
		dst = append(dst, '0'+b/100, '0'+(b/10)%10, '0'+b%10)
	}

	return dst
}

// Groups returns the number of whole digit groups in a fragment of n digits.
func Groups(n int) int {
	return n / GroupWidth
}

// Decode parses a fragment back into bytes.
//
// It fails with errs.ErrMalformedFragment if len(s) is not a multiple of
// GroupWidth, if a group contains anything other than digits and leading NUL
// padding, or if a group's value exceeds 255.
func Decode(s string) ([]byte, error) {
	if len(s)%GroupWidth != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", errs.ErrMalformedFragment, len(s), GroupWidth)
	}

	out := make([]byte, len(s)/GroupWidth)
	for i := range out {
		v, err := parseGroup(s[i*GroupWidth : (i+1)*GroupWidth])
		if err != nil {
			return nil, fmt.Errorf("%w: group %d: %w", errs.ErrMalformedFragment, i, err)
		}
		out[i] = v
	}

	return out, nil
}

func parseGroup(g string) (byte, error) {
	i := 0
	for i < len(g) && g[i] == nulPad {
		i++
	}
	if i == len(g) {
		return 0, fmt.Errorf("group %q has no digits", g)
	}

	v := 0
	for ; i < len(g); i++ {
		c := g[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("group %q is not numeric", g)
		}
		v = v*10 + int(c-'0')
	}
	if v > 255 {
		return 0, fmt.Errorf("group %q exceeds 255", g)
	}

	return byte(v), nil
}
