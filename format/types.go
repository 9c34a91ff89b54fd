package format

import "strings"

type (
	Mode            uint8
	CompressionType uint8
	SnapshotFormat  uint8
)

// Mode values are written into the stream header as decimal tags, so their
// numeric values are part of the wire format.
const (
	ModeBytes Mode = 0 // ModeBytes interprets decoded data as raw bytes.
	ModeASCII Mode = 1 // ModeASCII interprets decoded data as 7-bit ASCII text.
	ModeUTF16 Mode = 2 // ModeUTF16 interprets decoded data as UTF-16LE text.
	ModeUTF32 Mode = 3 // ModeUTF32 interprets decoded data as UTF-32LE text.
	ModeUTF8  Mode = 4 // ModeUTF8 interprets decoded data as UTF-8 text.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	SnapshotJSON SnapshotFormat = 0x1 // SnapshotJSON is the plain {length, digits} JSON record.
	SnapshotCBOR SnapshotFormat = 0x2 // SnapshotCBOR is the checksummed, optionally compressed CBOR envelope.
)

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m <= ModeUTF8
}

func (m Mode) String() string {
	switch m {
	case ModeBytes:
		return "Bytes"
	case ModeASCII:
		return "ASCII"
	case ModeUTF16:
		return "UTF16"
	case ModeUTF32:
		return "UTF32"
	case ModeUTF8:
		return "UTF8"
	default:
		return "Unknown"
	}
}

// ParseMode maps a case-insensitive mode name ("bytes", "ascii", "utf8",
// "utf16", "utf32") to its Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "bytes", "byte", "binary":
		return ModeBytes, true
	case "ascii":
		return ModeASCII, true
	case "utf16":
		return ModeUTF16, true
	case "utf32":
		return ModeUTF32, true
	case "utf8":
		return ModeUTF8, true
	default:
		return 0, false
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a case-insensitive name to its CompressionType.
func ParseCompression(s string) (CompressionType, bool) {
	switch strings.ToLower(s) {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

func (f SnapshotFormat) String() string {
	switch f {
	case SnapshotJSON:
		return "JSON"
	case SnapshotCBOR:
		return "CBOR"
	default:
		return "Unknown"
	}
}

// ParseSnapshotFormat maps "json" or "cbor" to its SnapshotFormat.
func ParseSnapshotFormat(s string) (SnapshotFormat, bool) {
	switch strings.ToLower(s) {
	case "json", "":
		return SnapshotJSON, true
	case "cbor":
		return SnapshotCBOR, true
	default:
		return 0, false
	}
}
