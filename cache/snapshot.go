package cache

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/arloliu/piencode/compress"
	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/errs"
	"github.com/arloliu/piencode/format"
	"github.com/arloliu/piencode/internal/hash"
)

const snapshotVersion = 1

type jsonSnapshot struct {
	Length   int    `json:"length"`
	Digits   string `json:"digits"`
	Checksum string `json:"checksum,omitempty"`
}

type cborSnapshot struct {
	Version     uint8                  `cbor:"1,keyasint"`
	Length      int                    `cbor:"2,keyasint"`
	Compression format.CompressionType `cbor:"3,keyasint"`
	Checksum    uint64                 `cbor:"4,keyasint"`
	Payload     []byte                 `cbor:"5,keyasint"`
}

// EncodeSnapshot serializes snap in the given layout. compression applies to
// the CBOR layout only.
func EncodeSnapshot(snap digits.Snapshot, layout format.SnapshotFormat, compression format.CompressionType) ([]byte, compress.CompressionStats, error) {
	var stats compress.CompressionStats
	if err := snap.Validate(); err != nil {
		return nil, stats, err
	}

	switch layout {
	case format.SnapshotJSON:
		data, err := json.Marshal(jsonSnapshot{
			Length:   snap.Length,
			Digits:   snap.Digits,
			Checksum: hash.DigitsHex(snap.Digits),
		})
		if err != nil {
			return nil, stats, fmt.Errorf("encoding JSON snapshot: %w", err)
		}

		return data, stats, nil
	case format.SnapshotCBOR:
		payload, stats, err := compress.CompressWithStats(compression, []byte(snap.Digits))
		if err != nil {
			return nil, stats, err
		}

		data, err := encMode.Marshal(cborSnapshot{
			Version:     snapshotVersion,
			Length:      snap.Length,
			Compression: compression,
			Checksum:    hash.Digits(snap.Digits),
			Payload:     payload,
		})
		if err != nil {
			return nil, stats, fmt.Errorf("encoding CBOR snapshot: %w", err)
		}

		return data, stats, nil
	default:
		return nil, stats, fmt.Errorf("unsupported snapshot format: %s", layout)
	}
}

// DecodeSnapshot parses a snapshot in either layout. Any structural or
// integrity failure is reported as errs.ErrCacheCorrupt.
func DecodeSnapshot(data []byte) (digits.Snapshot, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return decodeJSON(trimmed)
	}

	return decodeCBOR(data)
}

func decodeJSON(data []byte) (digits.Snapshot, error) {
	var wire jsonSnapshot
	if err := json.Unmarshal(data, &wire); err != nil {
		return digits.Snapshot{}, fmt.Errorf("%w: JSON: %w", errs.ErrCacheCorrupt, err)
	}

	snap := digits.Snapshot{Length: wire.Length, Digits: wire.Digits}
	if err := snap.Validate(); err != nil {
		return digits.Snapshot{}, err
	}
	if wire.Checksum != "" {
		want, err := hash.ParseHex(wire.Checksum)
		if err != nil {
			return digits.Snapshot{}, fmt.Errorf("%w: checksum %q: %w", errs.ErrCacheCorrupt, wire.Checksum, err)
		}
		if got := hash.Digits(snap.Digits); got != want {
			return digits.Snapshot{}, fmt.Errorf("%w: checksum mismatch", errs.ErrCacheCorrupt)
		}
	}

	return snap, nil
}

func decodeCBOR(data []byte) (digits.Snapshot, error) {
	var wire cborSnapshot
	if err := decMode.Unmarshal(data, &wire); err != nil {
		return digits.Snapshot{}, fmt.Errorf("%w: CBOR: %w", errs.ErrCacheCorrupt, err)
	}
	if wire.Version != snapshotVersion {
		return digits.Snapshot{}, fmt.Errorf("%w: unsupported snapshot version %d", errs.ErrCacheCorrupt, wire.Version)
	}

	codec, err := compress.CreateCodec(wire.Compression, "snapshot payload")
	if err != nil {
		return digits.Snapshot{}, fmt.Errorf("%w: %w", errs.ErrCacheCorrupt, err)
	}
	raw, err := codec.Decompress(wire.Payload)
	if err != nil {
		return digits.Snapshot{}, fmt.Errorf("%w: %w", errs.ErrCacheCorrupt, err)
	}

	snap := digits.Snapshot{Length: wire.Length, Digits: string(raw)}
	if err := snap.Validate(); err != nil {
		return digits.Snapshot{}, err
	}
	if hash.Digits(snap.Digits) != wire.Checksum {
		return digits.Snapshot{}, fmt.Errorf("%w: checksum mismatch", errs.ErrCacheCorrupt)
	}

	return snap, nil
}
