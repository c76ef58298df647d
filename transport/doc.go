// Package transport implements the EncryptedConnection framing, keying,
// replay, and partial-reliability state machine that sits between
// CallManager and an opaque byte transport, plus a reference UDP
// implementation of the Transport collaborator interface.
//
// EncryptedConnection is the heaviest component in this module. Each
// instance is pinned to one role (signaling or transport) and one
// direction's half of a shared EncryptionKey; it owns its counters,
// replay window, and unacked-message queue exclusively and is never
// touched from more than one goroutine at a time — callers are expected
// to drive it through a threadbound.Object.
//
//	conn := transport.New(key, crypto.RoleTransport)
//	packet, err := conn.PrepareForSending(msg)
//	// ... hand packet.Bytes to the external Transport ...
//	decrypted, err := conn.HandleIncomingPacket(receivedBytes)
//
// # Transport collaborator
//
// [Transport] is the opaque external collaborator the specification
// places outside this module's responsibility (ICE candidate gathering,
// UDP/TURN sockets). [UDPTransport] is a minimal reference
// implementation for hosts that do not need NAT traversal.
package transport
