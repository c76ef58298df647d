package wire

import "errors"

// Sentinel errors for MessageCodec parsing failures. All of these are
// FramingErrors in the specification's error taxonomy: the packet they
// occur in is dropped and the connection continues.
var (
	// ErrTruncated indicates the buffer ended before a complete element
	// could be read.
	ErrTruncated = errors.New("wire: truncated message")

	// ErrUnknownTag indicates a tag byte outside the known variant and
	// control-tag space.
	ErrUnknownTag = errors.New("wire: unknown message tag")

	// ErrMalformedBody indicates a variant-specific body could not be
	// parsed (bad length prefix, count, or similar).
	ErrMalformedBody = errors.New("wire: malformed message body")
)
