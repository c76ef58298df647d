package transport

// Transport is the opaque, externally-supplied byte transport CallManager
// drives its transport-role EncryptedConnection over. ICE candidate
// gathering, UDP/TURN socket management, and NAT traversal all live on
// the host's side of this interface — this module never originates a
// TransportError, only bubbles one up.
type Transport interface {
	// Send transmits one already-encrypted packet. It does not block for
	// delivery confirmation; reliability above the unreliable datagram is
	// EncryptedConnection's job, not Transport's.
	Send(packet []byte) error

	// Receive registers the callback invoked for each incoming packet.
	// Implementations call handler from their own goroutine; handler must
	// not block.
	Receive(handler func(packet []byte))

	// ReadyStateChanged registers the callback invoked on connectivity
	// transitions (for example ICE connectivity checks completing).
	// CallManager's connection state machine promotes
	// Connecting → Established on the first true.
	ReadyStateChanged(onReady func(ready bool))

	// Close releases the transport's resources. After Close, Send must
	// return an error and registered handlers must not fire again.
	Close() error
}
