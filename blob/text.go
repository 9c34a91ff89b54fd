package blob

import (
	"fmt"
	"unicode/utf8"

	"github.com/arloliu/piencode/errs"
	"github.com/arloliu/piencode/format"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// textEncoding returns the x/text encoding for the wide text modes.
func textEncoding(mode format.Mode) (encoding.Encoding, bool) {
	switch mode { //nolint: exhaustive
	case format.ModeUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), true
	case format.ModeUTF32:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), true
	default:
		return nil, false
	}
}

// ValidateMode checks that data is well formed for mode.
func ValidateMode(mode format.Mode, data []byte) error {
	switch mode {
	case format.ModeBytes:
		return nil
	case format.ModeASCII:
		for i, b := range data {
			if b >= utf8.RuneSelf {
				return fmt.Errorf("%w: byte %d (0x%02x) is not ASCII", errs.ErrInvalidMode, i, b)
			}
		}

		return nil
	case format.ModeUTF8:
		if !utf8.Valid(data) {
			return fmt.Errorf("%w: input is not valid UTF-8", errs.ErrInvalidMode)
		}

		return nil
	case format.ModeUTF16:
		if len(data)%2 != 0 {
			return fmt.Errorf("%w: UTF-16 input has odd length %d", errs.ErrInvalidMode, len(data))
		}

		return nil
	case format.ModeUTF32:
		if len(data)%4 != 0 {
			return fmt.Errorf("%w: UTF-32 input length %d is not a multiple of 4", errs.ErrInvalidMode, len(data))
		}

		return nil
	default:
		return fmt.Errorf("%w: %d", errs.ErrInvalidMode, mode)
	}
}

// TextBytes converts a UTF-8 string to the byte representation for mode.
func TextBytes(mode format.Mode, s string) ([]byte, error) {
	if enc, ok := textEncoding(mode); ok {
		out, err := enc.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("%w: converting to %s: %w", errs.ErrInvalidMode, mode, err)
		}

		return out, nil
	}

	data := []byte(s)
	if err := ValidateMode(mode, data); err != nil {
		return nil, err
	}

	return data, nil
}

// TextString converts data in mode's representation to a UTF-8 string.
func TextString(mode format.Mode, data []byte) (string, error) {
	if err := ValidateMode(mode, data); err != nil {
		return "", err
	}

	if enc, ok := textEncoding(mode); ok {
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("%w: converting from %s: %w", errs.ErrInvalidMode, mode, err)
		}

		return string(out), nil
	}

	return string(data), nil
}
