// Package codec implements CodecNegotiator: ranking local encoders,
// composing a supported-formats advertisement, intersecting it with a
// peer's advertisement, and assigning payload types plus FEC/RTX codecs
// to the result.
//
// CodecNegotiator never touches the wire; it operates purely on
// [VideoFormat] values. CallManager is responsible for wrapping its input
// and output in VideoFormatsMessage.
package codec
