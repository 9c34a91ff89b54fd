package compress

// ZstdCompressor provides Zstandard compression for digit snapshots.
//
// This is the default codec for CBOR snapshots: digit caches are written once
// per run and read once per run, so ratio matters more than speed. The
// implementation is selected at build time, see zstd_pure.go and zstd_cgo.go.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
