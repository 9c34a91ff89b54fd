package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/format"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.True(t, cfg.CachePi)
	require.False(t, cfg.CacheFrags)
	require.Equal(t, 10, cfg.TargetFragSize)
	require.Equal(t, "pi.cache", cfg.CacheFile)
	require.Equal(t, 100000, cfg.Prefetch)
	require.Equal(t, digits.DefaultMaxDigits, cfg.MaxDigits)
	require.Positive(t, cfg.MaxDigits)

	mode, err := cfg.EncodingMode()
	require.NoError(t, err)
	require.Equal(t, format.ModeBytes, mode)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piencode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cache_frags: true
target_frag_size: 4
mode: utf-16
cache_format: cbor
cache_compression: lz4
fetch_backoff: 250ms
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.True(t, cfg.CacheFrags)
	require.True(t, cfg.CachePi)
	require.Equal(t, 4, cfg.TargetFragSize)
	require.Equal(t, 250*time.Millisecond, cfg.FetchBackoff)

	mode, err := cfg.EncodingMode()
	require.NoError(t, err)
	require.Equal(t, format.ModeUTF16, mode)

	layout, err := cfg.SnapshotFormat()
	require.NoError(t, err)
	require.Equal(t, format.SnapshotCBOR, layout)

	compression, err := cfg.Compression()
	require.NoError(t, err)
	require.Equal(t, format.CompressionLZ4, compression)
}

func TestParse_Unbounded(t *testing.T) {
	cfg, err := Parse([]byte("max_digits: 0\nprefetch: 0\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Zero(t, cfg.MaxDigits)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("chunk_size: 3\n"))
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero frag size", func(c *Config) { c.TargetFragSize = 0 }},
		{"bad mode", func(c *Config) { c.Mode = "ebcdic" }},
		{"bad format", func(c *Config) { c.CacheFormat = "xml" }},
		{"bad compression", func(c *Config) { c.CacheCompression = "brotli" }},
		{"no cache file", func(c *Config) { c.CacheFile = "" }},
		{"no frag file", func(c *Config) { c.CacheFrags = true; c.FragCacheFile = "" }},
		{"no source", func(c *Config) { c.SourceURL = "" }},
		{"no attempts", func(c *Config) { c.FetchAttempts = 0 }},
		{"negative prefetch", func(c *Config) { c.Prefetch = -1 }},
		{"negative extensions", func(c *Config) { c.MaxExtensions = -1 }},
		{"negative max digits", func(c *Config) { c.MaxDigits = -5 }},
		{"prefetch past cap", func(c *Config) { c.MaxDigits = 1000; c.Prefetch = 2000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
