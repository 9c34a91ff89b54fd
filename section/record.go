package section

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/arloliu/piencode/errs"
)

// Record references Length digits of π starting at Start.
type Record struct {
	Start  int
	Length int
}

// End returns the index one past the last referenced digit.
func (r Record) End() int {
	return r.Start + r.Length
}

// AppendRecord appends the encoded record to dst.
func AppendRecord(dst []byte, r Record) []byte {
	dst = strconv.AppendInt(dst, int64(r.Start), 10)
	dst = append(dst, fieldSeparator)
	dst = strconv.AppendInt(dst, int64(r.Length), 10)

	return append(dst, recordTerminator)
}

// String returns the encoded record.
func (r Record) String() string {
	return string(AppendRecord(nil, r))
}

// ParseRecords parses a complete record sequence. Every record must be
// terminated by ';' and nothing may follow the last one.
func ParseRecords(data []byte) ([]Record, error) {
	records := make([]Record, 0, bytes.Count(data, []byte{recordTerminator}))

	for len(data) > 0 {
		end := bytes.IndexByte(data, recordTerminator)
		if end < 0 {
			return nil, fmt.Errorf("%w: record %d: missing %q terminator", errs.ErrMalformedStream, len(records), recordTerminator)
		}

		r, err := parseRecord(data[:end])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", errs.ErrMalformedStream, len(records), err)
		}
		records = append(records, r)
		data = data[end+1:]
	}

	return records, nil
}

func parseRecord(field []byte) (Record, error) {
	sep := bytes.IndexByte(field, fieldSeparator)
	if sep < 0 {
		return Record{}, fmt.Errorf("missing %q separator in %q", fieldSeparator, field)
	}

	start, err := parseField(string(field[:sep]))
	if err != nil {
		return Record{}, fmt.Errorf("start: %w", err)
	}
	length, err := parseField(string(field[sep+1:]))
	if err != nil {
		return Record{}, fmt.Errorf("length: %w", err)
	}

	return Record{Start: start, Length: length}, nil
}

// Parse parses a whole stream: header plus records.
func Parse(data []byte) (Header, []Record, error) {
	h, rest, err := ParseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}

	records, err := ParseRecords(rest)
	if err != nil {
		return Header{}, nil, err
	}

	return h, records, nil
}
