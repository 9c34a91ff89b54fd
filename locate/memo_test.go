package locate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemo_ExportsFoundOnly(t *testing.T) {
	loc, err := New(fixedStore(t, "14159265358979323846"), WithMaxExtensions(0))
	require.NoError(t, err)

	ctx := context.Background()
	_, _, err = loc.Locate(ctx, "265")
	require.NoError(t, err)
	_, found, err := loc.Locate(ctx, "000")
	require.NoError(t, err)
	require.False(t, found)

	require.Equal(t, map[string]int{"265": 5}, loc.Memo())
}

func TestPreload(t *testing.T) {
	store := fixedStore(t, "14159265358979323846")
	loc, err := New(store)
	require.NoError(t, err)

	dropped := loc.Preload(map[string]int{
		"265":  5,  // valid
		"999":  0,  // digits do not match
		"3846": 99, // past the end of the store
		"":     0,  // ignored
	})
	require.ElementsMatch(t, []string{"999", "3846"}, dropped)

	off, found, err := loc.Locate(context.Background(), "265")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 5, off)
	require.Zero(t, loc.Stats().Searches)
	require.Equal(t, 1, loc.Stats().MemoHits)
}
