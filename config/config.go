// Package config holds the settings of the piencode command.
//
// Settings start from Default, are optionally overlaid by a YAML file, and
// are finally overridden by command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/piencode/blob"
	"github.com/arloliu/piencode/cache"
	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/format"
	"github.com/arloliu/piencode/locate"
	"github.com/arloliu/piencode/source"
)

// Config is the piencode configuration.
type Config struct {
	// CachePi persists the fetched π digits between runs.
	CachePi bool `yaml:"cache_pi"`

	// CacheFrags persists the fragment→offset memo between runs.
	CacheFrags bool `yaml:"cache_frags"`

	// CacheFile is the digit cache path. Defaults to pi.cache.
	CacheFile string `yaml:"cache_file"`

	// CacheFormat is "json" or "cbor".
	CacheFormat string `yaml:"cache_format"`

	// CacheCompression compresses the CBOR cache payload: none, zstd, s2 or lz4.
	CacheCompression string `yaml:"cache_compression"`

	// FragCacheFile is the fragment memo path. Defaults to pi.frags.
	FragCacheFile string `yaml:"frag_cache_file"`

	// TargetFragSize is the encoder chunk size in bytes.
	TargetFragSize int `yaml:"target_frag_size"`

	// Mode is the encoding mode written to the header, e.g. "bytes" or "utf8".
	Mode string `yaml:"mode"`

	// SourceURL is the base URL of the digit service.
	SourceURL string `yaml:"source_url"`

	// FetchAttempts bounds the tries per page fetch.
	FetchAttempts int `yaml:"fetch_attempts"`

	// FetchBackoff is the base delay between retries, e.g. "500ms".
	FetchBackoff time.Duration `yaml:"fetch_backoff"`

	// FetchTimeout bounds a single HTTP request.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// Prefetch is the number of digits to make available before encoding.
	// Defaults to DefaultPrefetch.
	Prefetch int `yaml:"prefetch"`

	// MaxExtensions is the number of pages one fragment search may fetch.
	MaxExtensions int `yaml:"max_extensions"`

	// MaxDigits caps the digit store size, and so the positions an encoded
	// file may reference. Zero means unbounded. Defaults to
	// digits.DefaultMaxDigits.
	MaxDigits int `yaml:"max_digits"`
}

// DefaultPrefetch is the digit count loaded before every encode: the first
// hundred pages hold nearly every short fragment.
const DefaultPrefetch = 100_000

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CachePi:          true,
		CacheFrags:       false,
		CacheFile:        cache.DefaultPath,
		CacheFormat:      "json",
		CacheCompression: "zstd",
		FragCacheFile:    cache.DefaultFragmentPath,
		TargetFragSize:   blob.DefaultChunkSize,
		Mode:             "bytes",
		SourceURL:        source.DefaultBaseURL,
		FetchAttempts:    source.DefaultAttempts,
		FetchBackoff:     source.DefaultBackoff,
		FetchTimeout:     source.DefaultTimeout,
		Prefetch:         DefaultPrefetch,
		MaxExtensions:    locate.DefaultMaxExtensions,
		MaxDigits:        digits.DefaultMaxDigits,
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.TargetFragSize <= 0 {
		return fmt.Errorf("target_frag_size must be positive, got %d", c.TargetFragSize)
	}
	if _, err := c.EncodingMode(); err != nil {
		return err
	}
	if _, err := c.SnapshotFormat(); err != nil {
		return err
	}
	if _, err := c.Compression(); err != nil {
		return err
	}
	if c.CachePi && c.CacheFile == "" {
		return errors.New("cache_file is required when cache_pi is set")
	}
	if c.CacheFrags && c.FragCacheFile == "" {
		return errors.New("frag_cache_file is required when cache_frags is set")
	}
	if c.SourceURL == "" {
		return errors.New("source_url is required")
	}
	if c.FetchAttempts < 1 {
		return fmt.Errorf("fetch_attempts must be at least 1, got %d", c.FetchAttempts)
	}
	if c.FetchBackoff < 0 || c.FetchTimeout < 0 {
		return errors.New("fetch_backoff and fetch_timeout must not be negative")
	}
	if c.Prefetch < 0 {
		return fmt.Errorf("prefetch must not be negative, got %d", c.Prefetch)
	}
	if c.MaxExtensions < 0 {
		return fmt.Errorf("max_extensions must not be negative, got %d", c.MaxExtensions)
	}
	if c.MaxDigits < 0 {
		return fmt.Errorf("max_digits must not be negative, got %d", c.MaxDigits)
	}
	if c.MaxDigits > 0 && c.Prefetch > c.MaxDigits {
		return fmt.Errorf("prefetch %d exceeds max_digits %d", c.Prefetch, c.MaxDigits)
	}

	return nil
}

// EncodingMode returns Mode as a format.Mode.
func (c *Config) EncodingMode() (format.Mode, error) {
	mode, ok := format.ParseMode(c.Mode)
	if !ok {
		return 0, fmt.Errorf("unknown mode %q (supported: bytes, ascii, utf8, utf16, utf32)", c.Mode)
	}

	return mode, nil
}

// SnapshotFormat returns CacheFormat as a format.SnapshotFormat.
func (c *Config) SnapshotFormat() (format.SnapshotFormat, error) {
	layout, ok := format.ParseSnapshotFormat(c.CacheFormat)
	if !ok {
		return 0, fmt.Errorf("unknown cache_format %q (supported: json, cbor)", c.CacheFormat)
	}

	return layout, nil
}

// Compression returns CacheCompression as a format.CompressionType.
func (c *Config) Compression() (format.CompressionType, error) {
	compression, ok := format.ParseCompression(c.CacheCompression)
	if !ok {
		return 0, fmt.Errorf("unknown cache_compression %q (supported: none, zstd, s2, lz4)", c.CacheCompression)
	}

	return compression, nil
}
