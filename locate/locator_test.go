package locate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/errs"
	"github.com/arloliu/piencode/section"
	"github.com/stretchr/testify/require"
)

// fixedStore returns a store holding exactly window, with no source.
func fixedStore(t *testing.T, window string) *digits.Store {
	t.Helper()
	store, err := digits.NewStoreFromSnapshot(digits.Snapshot{Length: len(window), Digits: window})
	require.NoError(t, err)

	return store
}

// plantedSource serves pages of filler digits with key planted at offset at.
type plantedSource struct {
	key      string
	at       int
	requests int
}

func (p *plantedSource) FetchPage(_ context.Context, start int) (string, error) {
	p.requests++
	page := []byte(strings.Repeat("1", digits.PageSize))
	for i := 0; i < len(p.key); i++ {
		if idx := p.at + i - start; idx >= 0 && idx < digits.PageSize {
			page[idx] = p.key[i]
		}
	}

	return string(page), nil
}

func TestLocate_FoundAndMemoized(t *testing.T) {
	store := fixedStore(t, "14159265358979323846")
	loc, err := New(store)
	require.NoError(t, err)

	off, found, err := loc.Locate(context.Background(), "589")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 9, off)
	require.Equal(t, 1, loc.Stats().Searches)

	off, found, err = loc.Locate(context.Background(), "589")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 9, off)
	// The second call is answered from the memo without scanning.
	require.Equal(t, 1, loc.Stats().Searches)
	require.Equal(t, 1, loc.Stats().MemoHits)

	entry, ok := loc.Lookup("589")
	require.True(t, ok)
	require.Equal(t, Location{Offset: 9, Found: true, Searched: 20}, entry)
}

func TestLocate_EmptyKey(t *testing.T) {
	loc, err := New(fixedStore(t, ""))
	require.NoError(t, err)

	off, found, err := loc.Locate(context.Background(), "")
	require.NoError(t, err)
	require.True(t, found)
	require.Zero(t, off)
	require.Zero(t, loc.Stats().Searches)
}

func TestLocate_ExtendsStore(t *testing.T) {
	src := &plantedSource{key: "072105", at: 1500}
	store, err := digits.NewStore(digits.WithSource(src))
	require.NoError(t, err)
	require.NoError(t, store.Prefetch(context.Background(), digits.PageSize))

	loc, err := New(store, WithMaxExtensions(2))
	require.NoError(t, err)

	off, found, err := loc.Locate(context.Background(), "072105")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 1500, off)
	require.Equal(t, 1, loc.Stats().Extensions)
	require.Equal(t, 2*digits.PageSize, store.Len())
}

func TestLocate_MatchStraddlesPageBoundary(t *testing.T) {
	src := &plantedSource{key: "072105", at: 997}
	store, err := digits.NewStore(digits.WithSource(src))
	require.NoError(t, err)
	require.NoError(t, store.Prefetch(context.Background(), digits.PageSize))

	loc, err := New(store)
	require.NoError(t, err)

	off, found, err := loc.Locate(context.Background(), "072105")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 997, off)
}

func TestLocate_NotFoundThenResumes(t *testing.T) {
	src := &plantedSource{key: "072105", at: 2500}
	store, err := digits.NewStore(digits.WithSource(src))
	require.NoError(t, err)
	require.NoError(t, store.Prefetch(context.Background(), digits.PageSize))

	loc, err := New(store, WithMaxExtensions(1))
	require.NoError(t, err)

	_, found, err := loc.Locate(context.Background(), "072105")
	require.NoError(t, err)
	require.False(t, found)

	entry, ok := loc.Lookup("072105")
	require.True(t, ok)
	require.False(t, entry.Found)
	require.Equal(t, 2*digits.PageSize, entry.Searched)

	// A later call picks up from the memoized position and extends further.
	off, found, err := loc.Locate(context.Background(), "072105")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 2500, off)
	require.Equal(t, 3*digits.PageSize, store.Len())
}

func TestLocate_SourceError(t *testing.T) {
	store, err := digits.NewStore(digits.WithSource(digits.SourceFunc(func(context.Context, int) (string, error) {
		return "", errors.New("dns failure")
	})))
	require.NoError(t, err)

	loc, err := New(store)
	require.NoError(t, err)

	_, _, err = loc.Locate(context.Background(), "072")
	require.ErrorIs(t, err, errs.ErrSourceUnavailable)
}

func TestResolve_WholeFragment(t *testing.T) {
	store := fixedStore(t, "3141592653072105897932")
	loc, err := New(store)
	require.NoError(t, err)

	records, err := loc.Resolve(context.Background(), "072105")
	require.NoError(t, err)
	require.Equal(t, []section.Record{{Start: 10, Length: 6}}, records)
}

func TestResolve_Subdivides(t *testing.T) {
	// Each 3-digit half occurs, the 6-digit fragment does not.
	window := "31415926105358979072323846"
	store := fixedStore(t, window)
	loc, err := New(store, WithMaxExtensions(0))
	require.NoError(t, err)

	records, err := loc.Resolve(context.Background(), "072105")
	require.NoError(t, err)
	require.Equal(t, []section.Record{{Start: 17, Length: 3}, {Start: 8, Length: 3}}, records)
	require.Equal(t, 1, loc.Stats().Splits)

	var rebuilt strings.Builder
	for _, r := range records {
		s, err := store.Slice(r.Start, r.Length)
		require.NoError(t, err)
		rebuilt.WriteString(s)
	}
	require.Equal(t, "072105", rebuilt.String())
}

func TestResolve_OddGroupCount(t *testing.T) {
	window := "000111222"
	loc, err := New(fixedStore(t, window), WithMaxExtensions(0))
	require.NoError(t, err)

	records, err := loc.Resolve(context.Background(), "111000222")
	require.NoError(t, err)
	// Split after one group: "111" | "000222", then "000222" splits again.
	require.Equal(t, []section.Record{{Start: 3, Length: 3}, {Start: 0, Length: 3}, {Start: 6, Length: 3}}, records)
	require.Equal(t, 2, loc.Stats().Splits)
}

func TestResolve_Unresolvable(t *testing.T) {
	loc, err := New(fixedStore(t, "1111111111"), WithMaxExtensions(0))
	require.NoError(t, err)

	_, err = loc.Resolve(context.Background(), "111999")
	require.ErrorIs(t, err, errs.ErrFragmentUnresolvable)
	require.Contains(t, err.Error(), `"999"`)
}

func TestResolve_MinGroups(t *testing.T) {
	window := "31415926105358979072323846"
	loc, err := New(fixedStore(t, window), WithMaxExtensions(0), WithMinGroups(2))
	require.NoError(t, err)

	_, err = loc.Resolve(context.Background(), "072105")
	require.ErrorIs(t, err, errs.ErrFragmentUnresolvable)
}

func TestResolve_Malformed(t *testing.T) {
	loc, err := New(fixedStore(t, "1415"))
	require.NoError(t, err)

	_, err = loc.Resolve(context.Background(), "0721")
	require.ErrorIs(t, err, errs.ErrMalformedFragment)

	records, err := loc.Resolve(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestNew_InvalidOptions(t *testing.T) {
	store := fixedStore(t, "1")

	_, err := New(nil)
	require.Error(t, err)
	_, err = New(store, WithMaxExtensions(-1))
	require.Error(t, err)
	_, err = New(store, WithMinGroups(0))
	require.Error(t, err)
}
