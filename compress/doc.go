// Package compress provides compression codecs for persisted π digit snapshots.
//
// A digit cache is a long string of ASCII decimal digits. Each byte carries
// only log2(10) ≈ 3.3 bits of information, so entropy coders shrink cached
// snapshots to well under half their size. The cache package applies one of
// these codecs to the payload of CBOR snapshot files.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): payload stored as-is
//   - Zstd (format.CompressionZstd): best ratio, the default for CBOR snapshots
//   - S2 (format.CompressionS2): fast, moderate ratio
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// Zstd uses the pure-Go klauspost/compress implementation unless the binary is
// built with both cgo and the "gozstd" build tag, in which case the
// valyala/gozstd bindings to the reference C library are used instead. Both
// produce standard zstd frames and are interchangeable on disk.
//
// # Usage
//
//	codec, err := compress.CreateCodec(format.CompressionZstd, "snapshot")
//	if err != nil {
//	    return err
//	}
//	payload, err := codec.Compress([]byte(digits))
//
// All codecs are stateless values and safe for concurrent use; the Zstd and LZ4
// implementations pool their internal encoders.
package compress
