// Package wire implements the Message tagged union and its
// length-prefixed serialization across an EncryptedConnection packet: the
// single-message fast path, the multi-message coalesced path, and the
// in-band Ack/Empty control elements.
//
// Message is a closed set of seven variants, each carrying a fixed tag
// byte and a fixed requires-ack predicate — see Tag's constants. Callers
// construct one of the concrete *Message types (CandidatesList,
// VideoFormats, RequestVideo, RemoteVideoIsActive, AudioData, VideoData,
// UnstructuredData) and hand it to [EncodeElement]; [DecodeElement] is its
// inverse.
package wire
