package crypto

import "errors"

// EncryptionKeySize is the number of bytes of shared secret material an
// EncryptionKey carries. Both peers derive identical key bytes out of band
// (for example via a Diffie-Hellman exchange — see NoiseKeyExchange) and
// construct one EncryptionKey value each, differing only in IsOutgoing.
const EncryptionKeySize = 256

// ErrInvalidKeySize indicates the byte slice handed to NewEncryptionKey was
// not exactly EncryptionKeySize bytes long.
var ErrInvalidKeySize = errors.New("crypto: encryption key must be exactly 256 bytes")

// ConnectionRole selects which 128-byte half of the shared key table a
// connection derives its keys from, letting one shared secret safely drive
// two independent channels (signaling and transport).
type ConnectionRole uint8

const (
	// RoleSignaling is the small-control-message channel.
	RoleSignaling ConnectionRole = iota
	// RoleTransport is the bulk audio/video channel.
	RoleTransport
)

// String implements fmt.Stringer.
func (r ConnectionRole) String() string {
	switch r {
	case RoleSignaling:
		return "signaling"
	case RoleTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// EncryptionKey is 256 bytes of shared secret material plus a flag that
// selects which direction's half of the key table this peer uses. It is
// immutable after construction and shared by value between the two
// EncryptedConnections (signaling and transport) a CallManager owns.
type EncryptionKey struct {
	bytes      [EncryptionKeySize]byte
	IsOutgoing bool
}

// NewEncryptionKey copies key (which must be exactly EncryptionKeySize
// bytes) into an EncryptionKey for the given direction.
func NewEncryptionKey(key []byte, isOutgoing bool) (EncryptionKey, error) {
	if len(key) != EncryptionKeySize {
		return EncryptionKey{}, ErrInvalidKeySize
	}
	var k EncryptionKey
	copy(k.bytes[:], key)
	k.IsOutgoing = isOutgoing
	return k, nil
}

// slice returns the n bytes of key material starting at offset off,
// panicking if that range falls outside the 256-byte key table — a
// programmer error in the derivation offsets, never a function of
// attacker-controlled input.
func (k *EncryptionKey) slice(off, n int) []byte {
	return k.bytes[off : off+n]
}

// Wipe securely erases the key material. Call once no EncryptedConnection
// still references this key.
func (k *EncryptionKey) Wipe() {
	ZeroBytes(k.bytes[:])
}
