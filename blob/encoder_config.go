package blob

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/piencode/errs"
	"github.com/arloliu/piencode/format"
	"github.com/arloliu/piencode/internal/options"
)

// DefaultChunkSize is the number of input bytes per chunk. Each byte becomes
// three digits, so a default chunk is a 30-digit fragment before subdivision.
const DefaultChunkSize = 10

// EncoderConfig holds the encoder settings.
type EncoderConfig struct {
	chunkSize int
	mode      format.Mode
	logger    *slog.Logger
}

func newEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		chunkSize: DefaultChunkSize,
		mode:      format.ModeBytes,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// ChunkSize returns the configured chunk size in bytes.
func (c *EncoderConfig) ChunkSize() int {
	return c.chunkSize
}

// Mode returns the configured encoding mode.
func (c *EncoderConfig) Mode() format.Mode {
	return c.mode
}

// EncoderOption is a functional option for configuring Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithChunkSize sets the maximum chunk size in bytes. Must be positive.
func WithChunkSize(n int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidChunkSize, n)
		}
		c.chunkSize = n

		return nil
	})
}

// WithMode sets the encoding mode recorded in the header. The input must be
// valid for the mode. Default is format.ModeBytes.
func WithMode(mode format.Mode) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if !mode.Valid() {
			return fmt.Errorf("%w: %d", errs.ErrInvalidMode, mode)
		}
		c.mode = mode

		return nil
	})
}

// WithEncoderLogger sets the logger used for progress diagnostics.
func WithEncoderLogger(logger *slog.Logger) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}
