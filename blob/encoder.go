package blob

import (
	"context"
	"errors"

	"github.com/arloliu/piencode/errs"
	"github.com/arloliu/piencode/fragment"
	"github.com/arloliu/piencode/internal/options"
	"github.com/arloliu/piencode/locate"
	"github.com/arloliu/piencode/section"
)

// Encoder encodes inputs as references into π.
type Encoder struct {
	cfg     *EncoderConfig
	locator *locate.Locator
}

// NewEncoder creates an encoder resolving fragments with locator.
func NewEncoder(locator *locate.Locator, opts ...EncoderOption) (*Encoder, error) {
	if locator == nil {
		return nil, errors.New("blob: nil locator")
	}

	cfg := newEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg, locator: locator}, nil
}

// Config returns the encoder configuration.
func (e *Encoder) Config() *EncoderConfig {
	return e.cfg
}

// Encode encodes input.
//
// The input is checked against the configured mode, split into chunks of at
// most ChunkSize bytes, and every chunk's fragment is resolved into one or
// more records. A chunk that cannot be resolved fails the whole encode with an
// *errs.FragmentError naming the chunk and its fragment.
func (e *Encoder) Encode(ctx context.Context, input []byte) (Blob, error) {
	header, err := section.NewHeader(e.cfg.mode)
	if err != nil {
		return Blob{}, err
	}
	if err := ValidateMode(e.cfg.mode, input); err != nil {
		return Blob{}, err
	}

	chunks := (len(input) + e.cfg.chunkSize - 1) / e.cfg.chunkSize
	b := Blob{Header: header, Records: make([]section.Record, 0, chunks)}
	key := make([]byte, 0, e.cfg.chunkSize*fragment.GroupWidth)

	for i := range chunks {
		start := i * e.cfg.chunkSize
		end := min(start+e.cfg.chunkSize, len(input))

		key = fragment.AppendEncode(key[:0], input[start:end])
		records, err := e.locator.Resolve(ctx, string(key))
		if err != nil {
			return Blob{}, &errs.FragmentError{Chunk: i, Key: string(key), Err: err}
		}
		if len(records) > 1 {
			e.cfg.logger.Debug("chunk subdivided", "chunk", i, "records", len(records))
		}
		b.Records = append(b.Records, records...)
	}

	stats := e.locator.Stats()
	e.cfg.logger.Info("encoded input",
		"bytes", len(input),
		"chunks", chunks,
		"records", len(b.Records),
		"digits_cached", e.locator.Store().Len(),
		"memo_hits", stats.MemoHits,
		"extensions", stats.Extensions,
		"splits", stats.Splits,
	)

	return b, nil
}

// EncodeText encodes s after converting it to the byte representation of the
// configured mode, e.g. UTF-16LE for format.ModeUTF16.
func (e *Encoder) EncodeText(ctx context.Context, s string) (Blob, error) {
	data, err := TextBytes(e.cfg.mode, s)
	if err != nil {
		return Blob{}, err
	}

	return e.Encode(ctx, data)
}
