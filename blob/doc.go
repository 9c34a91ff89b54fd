// Package blob turns input files into π-encoded streams and back.
//
// An Encoder splits its input into chunks of at most ChunkSize bytes, renders
// each chunk as a decimal fragment (package fragment), and asks a
// locate.Locator for the records that reproduce it. The result is a Blob: a
// header naming the encoding mode plus the records in chunk order. When a
// chunk's fragment had to be subdivided it contributes several records.
//
// A Decoder reverses the process: it parses the header and records, slices
// each record's digits out of a digits.Store (fetching pages as needed),
// concatenates them in order and decodes the resulting fragment.
//
// Basic usage:
//
//	store, _ := digits.NewStore(digits.WithSource(src))
//	locator, _ := locate.New(store)
//	enc, _ := blob.NewEncoder(locator, blob.WithChunkSize(10))
//	b, err := enc.Encode(ctx, input)
//	...
//	dec, _ := blob.NewDecoder(store)
//	out, err := dec.Decode(ctx, b.Bytes())
//
// Encoders and decoders are not safe for concurrent use.
package blob
