package blob

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/errs"
	"github.com/arloliu/piencode/fragment"
	"github.com/arloliu/piencode/internal/options"
	"github.com/arloliu/piencode/section"
)

// Decoded is the result of decoding a stream.
type Decoded struct {
	Header section.Header
	data   []byte
}

// Bytes returns the decoded bytes.
func (d Decoded) Bytes() []byte {
	return d.data
}

// Text returns the decoded data as a UTF-8 string, converting from the
// stream's text encoding when the mode names one.
func (d Decoded) Text() (string, error) {
	return TextString(d.Header.Mode, d.data)
}

// Decoder decodes π-encoded streams against a digit store.
type Decoder struct {
	store     *digits.Store
	maxDigits int
	logger    *slog.Logger
}

// DecoderOption is a functional option for configuring Decoder.
type DecoderOption = options.Option[*Decoder]

// WithDecoderLogger sets the logger used for progress diagnostics.
func WithDecoderLogger(logger *slog.Logger) DecoderOption {
	return options.NoError(func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	})
}

// WithDecoderMaxDigits bounds the π positions records may reference. Records
// ending past the bound are malformed and nothing is fetched for them.
// Defaults to the store's cap, or digits.DefaultMaxDigits for an unbounded store.
func WithDecoderMaxDigits(n int) DecoderOption {
	return options.New(func(d *Decoder) error {
		if n <= 0 {
			return fmt.Errorf("decoder max digits must be positive: %d", n)
		}
		d.maxDigits = n

		return nil
	})
}

// NewDecoder creates a decoder that reads digits from store.
func NewDecoder(store *digits.Store, opts ...DecoderOption) (*Decoder, error) {
	if store == nil {
		return nil, errors.New("blob: nil digit store")
	}

	d := &Decoder{
		store:     store,
		maxDigits: store.MaxDigits(),
		logger:    slog.New(slog.DiscardHandler),
	}
	if d.maxDigits == 0 {
		d.maxDigits = digits.DefaultMaxDigits
	}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// Decode parses and decodes a complete encoded stream.
func (d *Decoder) Decode(ctx context.Context, data []byte) (Decoded, error) {
	header, records, err := section.Parse(data)
	if err != nil {
		return Decoded{}, err
	}

	return d.DecodeRecords(ctx, header, records)
}

// DecodeRecords restores the bytes referenced by records.
//
// Each record's digits are sliced from the store, which is grown when a
// record points past the cached window. The concatenated digits must form
// whole 3-digit groups, otherwise the stream is malformed.
func (d *Decoder) DecodeRecords(ctx context.Context, header section.Header, records []section.Record) (Decoded, error) {
	if !header.Mode.Valid() {
		return Decoded{}, fmt.Errorf("%w: unknown mode tag %d", errs.ErrMalformedStream, header.Mode)
	}

	total, err := d.checkRecords(records)
	if err != nil {
		return Decoded{}, err
	}

	var sb strings.Builder
	sb.Grow(min(total, d.maxDigits))
	for i, r := range records {
		if err := d.store.EnsureAvailable(ctx, r.Start, r.Length); err != nil {
			return Decoded{}, &errs.FragmentError{Chunk: i, Err: err}
		}
		s, err := d.store.Slice(r.Start, r.Length)
		if err != nil {
			return Decoded{}, &errs.FragmentError{Chunk: i, Err: err}
		}
		sb.WriteString(s)
	}

	out, err := fragment.Decode(sb.String())
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %w", errs.ErrMalformedStream, err)
	}
	if err := ValidateMode(header.Mode, out); err != nil {
		return Decoded{}, fmt.Errorf("%w: %w", errs.ErrMalformedStream, err)
	}

	d.logger.Info("decoded stream", "records", len(records), "digits", total, "bytes", len(out))

	return Decoded{Header: header, data: out}, nil
}

// checkRecords bounds every record by the digit limit and returns the total
// digit count, which must form whole groups.
func (d *Decoder) checkRecords(records []section.Record) (int, error) {
	total := 0
	for i, r := range records {
		if r.Start < 0 || r.Length < 0 {
			return 0, fmt.Errorf("%w: record %d has negative bounds %s", errs.ErrMalformedStream, i, r)
		}
		if r.Start > d.maxDigits || r.Length > d.maxDigits-r.Start {
			return 0, fmt.Errorf("%w: record %d (%s) ends past the %d-digit limit", errs.ErrMalformedStream, i, r, d.maxDigits)
		}
		if r.Length > math.MaxInt-total {
			return 0, fmt.Errorf("%w: record lengths overflow at record %d", errs.ErrMalformedStream, i)
		}
		total += r.Length
	}
	if total%fragment.GroupWidth != 0 {
		return 0, fmt.Errorf("%w: %d digits do not form whole %d-digit groups", errs.ErrMalformedStream, total, fragment.GroupWidth)
	}

	return total, nil
}
