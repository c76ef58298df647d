// Package call implements Manager (the specification's CallManager): the
// call-scoped actor that owns a signaling and a transport
// EncryptedConnection, mediates between the external Transport, the
// external MediaBridge, and the Application callbacks, and drives the
// call and video request state machines.
//
// Manager itself is a threadbound.Object handle; every public method
// posts work to its single owning goroutine and returns without waiting
// for it to run, except Stop, which blocks for teardown to complete, and
// NegotiatedFormats, which blocks until its posted read has run.
package call
