package crypto

import "errors"

// Sentinel errors for crypto package operations. These enable reliable
// error classification using errors.Is() without leaking the specific
// cryptographic reason for a failure to callers above the transport layer.
var (
	// ErrAuthFailed indicates the recomputed msgKey did not match the
	// authenticator carried on an incoming packet.
	ErrAuthFailed = errors.New("crypto: authentication failed")

	// ErrHandshakeIncomplete indicates a NoiseKeyExchange method was called
	// before the handshake produced a transport key.
	ErrHandshakeIncomplete = errors.New("crypto: handshake not complete")

	// ErrHandshakeAlreadyComplete indicates WriteMessage/ReadMessage was
	// called on a NoiseKeyExchange that already derived its key.
	ErrHandshakeAlreadyComplete = errors.New("crypto: handshake already complete")
)
