package transport

import "errors"

// Sentinel errors covering the error taxonomy EncryptedConnection surfaces.
// Callers classify failures with errors.Is; none of these carry
// attacker-controlled detail.
var (
	// ErrTooManyUnacked indicates prepareForSending would exceed
	// NotAckedMessagesLimit outstanding requires-ack messages.
	ErrTooManyUnacked = errors.New("transport: too many unacked messages")

	// ErrCounterExhausted indicates the outgoing counter reached MaxCounter.
	// The call layer must terminate the connection on this error.
	ErrCounterExhausted = errors.New("transport: counter exhausted")

	// ErrPacketTooLarge indicates the framed message exceeds PacketLimit
	// minus the 16-byte msgKey.
	ErrPacketTooLarge = errors.New("transport: packet too large")

	// ErrBadSize indicates an incoming packet's length fell outside
	// [MinIncomingPacketSize, MaxIncomingPacketSize].
	ErrBadSize = errors.New("transport: bad packet size")

	// ErrAlreadySeenCounter indicates an incoming counter was rejected by
	// the replay window (duplicate or too old).
	ErrAlreadySeenCounter = errors.New("transport: counter already seen or too old")

	// ErrBadTrailing indicates a multi-message packet ended with a partial
	// seq that could not be read.
	ErrBadTrailing = errors.New("transport: bad trailing bytes")

	// ErrSingleMessageViolation indicates a packet's SingleMessagePacket
	// bit was set but it did not contain exactly one element.
	ErrSingleMessageViolation = errors.New("transport: single-message packet violation")
)
