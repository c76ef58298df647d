package transport

import "sort"

// ReplayWindowSize bounds how many distinct recent counters
// registerIncomingCounter remembers, per the key-derivation and framing
// constants table.
const ReplayWindowSize = 64

// replayWindow tracks counters seen on an incoming EncryptedConnection
// stream, rejecting duplicates and counters older than the trailing edge
// of a fixed-size window behind the largest counter seen so far.
type replayWindow struct {
	seen       []uint32 // sorted ascending, len <= ReplayWindowSize
	largest    uint32
	hasLargest bool
}

func newReplayWindow() *replayWindow {
	return &replayWindow{seen: make([]uint32, 0, ReplayWindowSize)}
}

// register reports whether counter is newly accepted. It rejects a
// counter already present in the window, or one at or below
// largest-ReplayWindowSize, then inserts it in sorted order and prunes
// anything that has fallen off the trailing edge.
func (w *replayWindow) register(counter uint32) bool {
	if w.hasLargest && counter < w.largest && w.largest-counter >= ReplayWindowSize {
		return false
	}

	i := sort.Search(len(w.seen), func(i int) bool { return w.seen[i] >= counter })
	if i < len(w.seen) && w.seen[i] == counter {
		return false
	}

	w.seen = append(w.seen, 0)
	copy(w.seen[i+1:], w.seen[i:])
	w.seen[i] = counter

	if !w.hasLargest || counter > w.largest {
		w.largest = counter
		w.hasLargest = true
	}
	w.prune()
	return true
}

func (w *replayWindow) prune() {
	if !w.hasLargest || w.largest < ReplayWindowSize {
		return
	}
	threshold := w.largest - ReplayWindowSize
	cut := sort.Search(len(w.seen), func(i int) bool { return w.seen[i] > threshold })
	w.seen = w.seen[cut:]
}
