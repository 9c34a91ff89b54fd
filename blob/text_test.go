package blob

import (
	"testing"

	"github.com/arloliu/piencode/errs"
	"github.com/arloliu/piencode/format"
	"github.com/stretchr/testify/require"
)

func TestTextBytes(t *testing.T) {
	b, err := TextBytes(format.ModeUTF16, "Hi")
	require.NoError(t, err)
	require.Equal(t, []byte{'H', 0, 'i', 0}, b)

	b, err = TextBytes(format.ModeUTF32, "Hi")
	require.NoError(t, err)
	require.Equal(t, []byte{'H', 0, 0, 0, 'i', 0, 0, 0}, b)

	b, err = TextBytes(format.ModeASCII, "Hi")
	require.NoError(t, err)
	require.Equal(t, []byte("Hi"), b)

	_, err = TextBytes(format.ModeASCII, "héllo")
	require.ErrorIs(t, err, errs.ErrInvalidMode)
}

func TestTextString(t *testing.T) {
	s, err := TextString(format.ModeUTF16, []byte{0xc0, 0x03})
	require.NoError(t, err)
	require.Equal(t, "π", s)

	s, err = TextString(format.ModeBytes, []byte{0xff})
	require.NoError(t, err)
	require.Equal(t, "\xff", s)

	_, err = TextString(format.ModeUTF32, []byte{1, 2})
	require.ErrorIs(t, err, errs.ErrInvalidMode)

	_, err = TextString(format.Mode(77), nil)
	require.ErrorIs(t, err, errs.ErrInvalidMode)
}
