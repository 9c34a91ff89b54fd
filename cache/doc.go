// Package cache persists digit stores and fragment memos between runs.
//
// Two snapshot layouts are understood, and Load detects which one a file uses:
//
//   - JSON, the plain pi.cache layout:
//     {"length": N, "digits": "...", "checksum": "<xxhash64 hex>"}.
//     The checksum is written by this package and optional on read.
//   - CBOR, a versioned envelope holding the declared length, the
//     compression algorithm, an xxHash64 checksum of the digits, and the
//     digit payload compressed with one of the compress codecs.
//
// A snapshot whose declared length, checksum, or alphabet disagrees with its
// digits is rejected with errs.ErrCacheCorrupt. LoadStore recovers from that
// by logging a warning and starting from an empty store; the digits can always
// be fetched again.
//
// All writes go to a temporary file in the destination directory that is then
// renamed into place, so a crash never leaves a half-written cache behind.
package cache
