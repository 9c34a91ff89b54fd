package blob

import (
	"io"

	"github.com/arloliu/piencode/internal/pool"
	"github.com/arloliu/piencode/section"
)

// Blob is an encoded stream: one header and the records in input order.
type Blob struct {
	Header  section.Header
	Records []section.Record
}

// DigitCount returns the total number of π digits the records reference.
func (b Blob) DigitCount() int {
	n := 0
	for _, r := range b.Records {
		n += r.Length
	}

	return n
}

// sizeHint estimates the encoded size: a short header plus about a dozen
// bytes per record.
func (b Blob) sizeHint() int {
	return len(section.Marker) + 4 + len(b.Records)*12
}

// AppendTo appends the encoded stream to dst.
func (b Blob) AppendTo(dst []byte) []byte {
	dst = section.AppendHeader(dst, b.Header)
	for _, r := range b.Records {
		dst = section.AppendRecord(dst, r)
	}

	return dst
}

// Bytes returns the encoded stream.
func (b Blob) Bytes() []byte {
	bb := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(bb)

	bb.Grow(b.sizeHint())
	bb.B = b.AppendTo(bb.B)

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out
}

// WriteTo writes the encoded stream to w.
func (b Blob) WriteTo(w io.Writer) (int64, error) {
	bb := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(bb)

	bb.Grow(b.sizeHint())
	bb.B = b.AppendTo(bb.B)

	return bb.WriteTo(w)
}
