package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/errs"
	"github.com/arloliu/piencode/format"
	"github.com/arloliu/piencode/internal/options"
)

// DefaultPath is the conventional digit cache file name.
const DefaultPath = "pi.cache"

// File is a digit snapshot stored on disk.
type File struct {
	path        string
	layout      format.SnapshotFormat
	compression format.CompressionType
	logger      *slog.Logger
}

// Option configures a File.
type Option = options.Option[*File]

// WithFormat selects the layout used when saving. Loading detects the layout.
func WithFormat(layout format.SnapshotFormat) Option {
	return options.New(func(f *File) error {
		if layout != format.SnapshotJSON && layout != format.SnapshotCBOR {
			return fmt.Errorf("invalid snapshot format: %s", layout)
		}
		f.layout = layout

		return nil
	})
}

// WithCompression selects the payload codec for CBOR snapshots.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(f *File) error {
		switch compression {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			f.compression = compression
			return nil
		default:
			return fmt.Errorf("invalid snapshot compression: %s", compression)
		}
	})
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(f *File) {
		if logger != nil {
			f.logger = logger
		}
	})
}

// NewFile describes a snapshot file at path. Defaults: JSON layout, zstd for
// CBOR payloads.
func NewFile(path string, opts ...Option) (*File, error) {
	if path == "" {
		return nil, errors.New("cache: empty path")
	}

	f := &File{
		path:        path,
		layout:      format.SnapshotJSON,
		compression: format.CompressionZstd,
		logger:      slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(f, opts...); err != nil {
		return nil, err
	}

	return f, nil
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Load reads the snapshot. ok is false when the file does not exist.
func (f *File) Load() (snap digits.Snapshot, ok bool, err error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return digits.Snapshot{}, false, nil
	}
	if err != nil {
		return digits.Snapshot{}, false, fmt.Errorf("reading digit cache: %w", err)
	}

	snap, err = DecodeSnapshot(data)
	if err != nil {
		return digits.Snapshot{}, false, fmt.Errorf("%s: %w", f.path, err)
	}

	return snap, true, nil
}

// Save writes snap atomically.
func (f *File) Save(snap digits.Snapshot) error {
	data, stats, err := EncodeSnapshot(snap, f.layout, f.compression)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(f.path, data); err != nil {
		return err
	}

	f.logger.Debug("saved digit cache",
		"path", f.path, "digits", snap.Length, "format", f.layout.String(), "bytes", len(data))
	if f.layout == format.SnapshotCBOR {
		f.logger.Debug("digit cache compression",
			"algorithm", stats.Algorithm.String(), "ratio", stats.CompressionRatio(), "savings", stats.SpaceSavings())
	}

	return nil
}

// LoadStore builds a digit store from the file. A missing file yields an empty
// store. A corrupt file is discarded with a warning and also yields an empty
// store; other read errors are returned.
func (f *File) LoadStore(opts ...digits.StoreOption) (*digits.Store, error) {
	snap, ok, err := f.Load()
	switch {
	case errors.Is(err, errs.ErrCacheCorrupt):
		f.logger.Warn("discarding corrupt digit cache", "path", f.path, "error", err)
		return digits.NewStore(opts...)
	case err != nil:
		return nil, err
	case !ok:
		f.logger.Debug("no digit cache found", "path", f.path)
		return digits.NewStore(opts...)
	}

	f.logger.Debug("loaded digit cache", "path", f.path, "digits", snap.Length)

	return digits.NewStoreFromSnapshot(snap, opts...)
}

// SaveStore snapshots store and writes it.
func (f *File) SaveStore(store *digits.Store) error {
	return f.Save(store.Snapshot())
}
