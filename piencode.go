// Package piencode encodes arbitrary files as references into the decimal
// digits of π.
//
// Every input byte is written as a zero-padded 3-digit decimal group, the
// input is cut into chunks, and each chunk's digit string is located in π.
// The output lists one "start&length;" record per located fragment after a
// small header naming the encoding mode, e.g.
//
//	π0@10&6;
//
// Decoding slices the referenced digits back out of π and turns every 3-digit
// group into a byte again. The digits come from a digits.Store, which fetches
// 1000-digit pages from a digit service on demand and can be persisted with
// the cache package between runs.
//
// # Basic Usage
//
// Encoding with the public digit service:
//
//	store, _ := piencode.NewStore()
//	encoded, _ := piencode.Encode(ctx, store, []byte("Hi"))
//	fmt.Println(string(encoded)) // π0@...;
//
// Decoding:
//
//	data, _ := piencode.Decode(ctx, store, encoded)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the blob and
// locate packages. For persistent caches, subdivision tuning or text modes,
// use those packages directly.
package piencode

import (
	"context"

	"github.com/arloliu/piencode/blob"
	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/locate"
	"github.com/arloliu/piencode/source"
)

// NewStore creates an empty digit store backed by the HTTP digit service.
//
// Example:
//
//	store, err := piencode.NewStore(source.WithBaseURL("http://localhost:8080"))
func NewStore(opts ...source.HTTPOption) (*digits.Store, error) {
	src, err := source.NewHTTPSource(opts...)
	if err != nil {
		return nil, err
	}

	return digits.NewStore(digits.WithSource(src))
}

// NewEncoder creates an encoder over store with a fresh fragment memo.
func NewEncoder(store *digits.Store, opts ...blob.EncoderOption) (*blob.Encoder, error) {
	loc, err := locate.New(store)
	if err != nil {
		return nil, err
	}

	return blob.NewEncoder(loc, opts...)
}

// Encode encodes input and returns the encoded stream.
//
// Options are those of blob.NewEncoder, e.g. blob.WithChunkSize or
// blob.WithMode.
func Encode(ctx context.Context, store *digits.Store, input []byte, opts ...blob.EncoderOption) ([]byte, error) {
	enc, err := NewEncoder(store, opts...)
	if err != nil {
		return nil, err
	}

	b, err := enc.Encode(ctx, input)
	if err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Decode decodes an encoded stream and returns the original bytes.
func Decode(ctx context.Context, store *digits.Store, data []byte) ([]byte, error) {
	dec, err := blob.NewDecoder(store)
	if err != nil {
		return nil, err
	}

	out, err := dec.Decode(ctx, data)
	if err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
