package cache

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/format"
	"github.com/stretchr/testify/require"
)

func TestFile_SaveLoad(t *testing.T) {
	for _, layout := range []format.SnapshotFormat{format.SnapshotJSON, format.SnapshotCBOR} {
		t.Run(layout.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", DefaultPath)
			f, err := NewFile(path, WithFormat(layout), WithCompression(format.CompressionS2))
			require.NoError(t, err)
			require.Equal(t, path, f.Path())

			snap := testSnapshot(3000)
			require.NoError(t, f.Save(snap))

			got, ok, err := f.Load()
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, snap, got)

			// No temp files are left behind.
			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			require.Len(t, entries, 1)
		})
	}
}

func TestFile_LoadMissing(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "absent.cache"))
	require.NoError(t, err)

	_, ok, err := f.Load()
	require.NoError(t, err)
	require.False(t, ok)

	store, err := f.LoadStore()
	require.NoError(t, err)
	require.Zero(t, store.Len())
}

func TestFile_LoadStoreDiscardsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(`{"length": 12, "digits": "3141592653"}`), 0o644))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	f, err := NewFile(path, WithLogger(logger))
	require.NoError(t, err)

	store, err := f.LoadStore()
	require.NoError(t, err)
	require.Zero(t, store.Len())
	require.Contains(t, logs.String(), "discarding corrupt digit cache")
}

func TestFile_StoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pi.cbor")
	f, err := NewFile(path, WithFormat(format.SnapshotCBOR))
	require.NoError(t, err)

	page := strings.Repeat("2718281828", digits.PageSize/10)
	src := digits.SourceFunc(func(context.Context, int) (string, error) { return page, nil })
	store, err := digits.NewStore(digits.WithSource(src))
	require.NoError(t, err)
	require.NoError(t, store.Prefetch(context.Background(), 2*digits.PageSize))
	require.NoError(t, f.SaveStore(store))

	restored, err := f.LoadStore()
	require.NoError(t, err)
	require.Equal(t, store.Snapshot(), restored.Snapshot())
}

func TestNewFile_InvalidOptions(t *testing.T) {
	_, err := NewFile("")
	require.Error(t, err)
	_, err = NewFile("x", WithFormat(format.SnapshotFormat(9)))
	require.Error(t, err)
	_, err = NewFile("x", WithCompression(format.CompressionType(9)))
	require.Error(t, err)
}
