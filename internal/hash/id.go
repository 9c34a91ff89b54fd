// Package hash provides the checksums used to validate persisted digit caches.
package hash

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Digits computes the xxHash64 of a digit string.
func Digits(data string) uint64 {
	return xxhash.Sum64String(data)
}

// DigitsHex returns Digits(data) as a fixed-width lowercase hex string, the form
// stored in JSON snapshots.
func DigitsHex(data string) string {
	return fmt.Sprintf("%016x", Digits(data))
}

// ParseHex parses a checksum written by DigitsHex.
func ParseHex(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}
