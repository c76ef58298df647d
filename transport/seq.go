package transport

// MaxCounter is the largest counter value a seq can encode; it occupies
// the low 30 bits, leaving the top two for the SingleMessagePacket and
// RequiresAck flags.
const MaxCounter uint32 = 1<<30 - 1

const (
	singleMessageBit uint32 = 1 << 31
	requiresAckBit   uint32 = 1 << 30
	counterMask      uint32 = 1<<30 - 1
)

// packSeq assembles a frame's leading seq field from its counter and
// flags.
func packSeq(counter uint32, singleMessagePacket, requiresAck bool) uint32 {
	seq := counter & counterMask
	if singleMessagePacket {
		seq |= singleMessageBit
	}
	if requiresAck {
		seq |= requiresAckBit
	}
	return seq
}

// unpackSeq splits a frame's seq field back into its counter and flags.
func unpackSeq(seq uint32) (counter uint32, singleMessagePacket, requiresAck bool) {
	return seq & counterMask, seq&singleMessageBit != 0, seq&requiresAckBit != 0
}
