package blob

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/locate"
	"github.com/arloliu/piencode/source"
	"github.com/stretchr/testify/require"
)

// randomDigits returns n reproducible pseudo-random decimal digits.
func randomDigits(n int, seed int64) string {
	rng := rand.New(rand.NewSource(seed))
	var sb strings.Builder
	sb.Grow(n)
	for range n {
		sb.WriteByte(byte('0' + rng.Intn(10)))
	}

	return sb.String()
}

// fixedStore returns a store holding exactly window, with no source.
func fixedStore(t *testing.T, window string) *digits.Store {
	t.Helper()
	store, err := digits.NewStoreFromSnapshot(digits.Snapshot{Length: len(window), Digits: window})
	require.NoError(t, err)

	return store
}

// sourcedStore returns an empty store backed by a static source of pages.
func sourcedStore(t *testing.T, pages int) (*digits.Store, *source.Static) {
	t.Helper()
	src := source.NewStatic(randomDigits(pages*digits.PageSize, 31415))
	store, err := digits.NewStore(digits.WithSource(src))
	require.NoError(t, err)

	return store, src
}

func newTestEncoder(t *testing.T, store *digits.Store, locOpts []locate.Option, opts ...EncoderOption) *Encoder {
	t.Helper()
	loc, err := locate.New(store, locOpts...)
	require.NoError(t, err)
	enc, err := NewEncoder(loc, opts...)
	require.NoError(t, err)

	return enc
}
