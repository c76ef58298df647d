package transport

// NotAckedMessagesLimit is a sanity bound on how many requires-ack
// messages can be outstanding at once before prepareForSending refuses
// to enqueue another.
const NotAckedMessagesLimit = 1 << 20

// unackedEntry is one requires-ack message still awaiting its peer's ack,
// retained verbatim (already framed and ready to resend) so opportunistic
// resend never re-serializes.
type unackedEntry struct {
	seq   uint32
	frame []byte
}

// unackedQueue is the FIFO of outstanding requires-ack frames a
// connection resends opportunistically until acked.
type unackedQueue struct {
	entries []unackedEntry
	size    int
}

func newUnackedQueue() *unackedQueue {
	return &unackedQueue{}
}

func (q *unackedQueue) len() int { return len(q.entries) }

func (q *unackedQueue) push(seq uint32, frame []byte) {
	q.entries = append(q.entries, unackedEntry{seq: seq, frame: frame})
	q.size += len(frame)
}

// totalBytes is the summed length of every retained frame, used by the
// opportunistic all-or-nothing resend check.
func (q *unackedQueue) totalBytes() int { return q.size }

// ackFirstMatching removes the first entry whose seq equals ackedSeq,
// reporting whether one was found. Duplicate acks for an already-removed
// seq are silently ignored, matching the ack-handling contract.
func (q *unackedQueue) ackFirstMatching(ackedSeq uint32) bool {
	for i, e := range q.entries {
		if e.seq == ackedSeq {
			q.size -= len(e.frame)
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// frames returns every retained frame in FIFO order, for opportunistic
// resend.
func (q *unackedQueue) frames() [][]byte {
	out := make([][]byte, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.frame
	}
	return out
}
