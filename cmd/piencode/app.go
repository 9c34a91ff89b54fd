package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/arloliu/piencode/blob"
	"github.com/arloliu/piencode/cache"
	"github.com/arloliu/piencode/config"
	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/locate"
	"github.com/arloliu/piencode/source"
)

// app wires one run: the digit store with its caches, and the codec on top.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *digits.Store
	cache  *cache.File // nil unless CachePi
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	src, err := source.NewHTTPSource(
		source.WithBaseURL(cfg.SourceURL),
		source.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		source.WithRetry(cfg.FetchAttempts, cfg.FetchBackoff),
		source.WithHTTPLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("configuring digit source: %w", err)
	}

	storeOpts := []digits.StoreOption{
		digits.WithSource(src),
		digits.WithMaxDigits(cfg.MaxDigits),
		digits.WithLogger(logger),
	}

	a := &app{cfg: cfg, logger: logger}
	if !cfg.CachePi {
		a.store, err = digits.NewStore(storeOpts...)
		if err != nil {
			return nil, err
		}

		return a, nil
	}

	layout, err := cfg.SnapshotFormat()
	if err != nil {
		return nil, err
	}
	compression, err := cfg.Compression()
	if err != nil {
		return nil, err
	}
	a.cache, err = cache.NewFile(cfg.CacheFile,
		cache.WithFormat(layout),
		cache.WithCompression(compression),
		cache.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	a.store, err = a.cache.LoadStore(storeOpts...)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// saveDigits persists the store when the digit cache is enabled. It runs
// after failed operations too, so digits fetched so far are kept.
func (a *app) saveDigits() error {
	if a.cache == nil {
		return nil
	}
	if err := a.cache.SaveStore(a.store); err != nil {
		return fmt.Errorf("saving digit cache: %w", err)
	}

	return nil
}

func (a *app) newLocator() (*locate.Locator, error) {
	loc, err := locate.New(a.store,
		locate.WithMaxExtensions(a.cfg.MaxExtensions),
		locate.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	if !a.cfg.CacheFrags {
		return loc, nil
	}

	entries, err := cache.LoadFragments(a.cfg.FragCacheFile)
	if err != nil {
		a.logger.Warn("discarding fragment cache", "path", a.cfg.FragCacheFile, "error", err)
		return loc, nil
	}
	stale := loc.Preload(entries)
	if len(stale) > 0 {
		a.logger.Warn("dropped stale fragment cache entries", "path", a.cfg.FragCacheFile, "count", len(stale))
	}
	a.logger.Debug("loaded fragment cache", "path", a.cfg.FragCacheFile, "entries", len(entries)-len(stale))

	return loc, nil
}

func (a *app) encodeFile(ctx context.Context, input, output string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	err = a.encode(ctx, data, output)

	return errors.Join(err, a.saveDigits())
}

func (a *app) encode(ctx context.Context, data []byte, output string) error {
	if err := a.store.Prefetch(ctx, a.cfg.Prefetch); err != nil {
		return fmt.Errorf("prefetching digits: %w", err)
	}

	loc, err := a.newLocator()
	if err != nil {
		return err
	}
	mode, err := a.cfg.EncodingMode()
	if err != nil {
		return err
	}
	enc, err := blob.NewEncoder(loc,
		blob.WithChunkSize(a.cfg.TargetFragSize),
		blob.WithMode(mode),
		blob.WithEncoderLogger(a.logger),
	)
	if err != nil {
		return err
	}

	b, encErr := enc.Encode(ctx, data)
	if a.cfg.CacheFrags {
		if err := cache.SaveFragments(a.cfg.FragCacheFile, loc.Memo()); err != nil {
			encErr = errors.Join(encErr, fmt.Errorf("saving fragment cache: %w", err))
		}
	}
	if encErr != nil {
		return encErr
	}

	if err := os.WriteFile(output, b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	a.logger.Debug("wrote encoded output", "path", output, "records", len(b.Records))

	return nil
}

func (a *app) decodeFile(ctx context.Context, input, output string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	err = a.decode(ctx, data, output)

	return errors.Join(err, a.saveDigits())
}

func (a *app) decode(ctx context.Context, data []byte, output string) error {
	dec, err := blob.NewDecoder(a.store, blob.WithDecoderLogger(a.logger))
	if err != nil {
		return err
	}

	out, err := dec.Decode(ctx, data)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	a.logger.Debug("wrote decoded output", "path", output, "bytes", len(out.Bytes()))

	return nil
}
