// Package section defines the textual layout of a π-encoded stream.
//
// A stream is one header followed by zero or more records:
//
//	π<mode>@<start>&<length>;<start>&<length>;...
//
// The header starts with the marker "π" (UTF-8, two bytes), followed by the
// decimal format.Mode tag and a terminating '@'. Each record names a run of
// digits in π by its zero-based start index and digit count, both base-10
// ASCII integers. Records carry no sequence numbers: their order in the
// stream is the order in which the decoder concatenates them.
//
// Any deviation from this layout is reported as errs.ErrMalformedStream.
package section
