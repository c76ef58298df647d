package transport

import "testing"

func TestUnackedQueuePushAndAck(t *testing.T) {
	q := newUnackedQueue()
	q.push(1, []byte{1, 2, 3})
	q.push(2, []byte{4, 5})
	if q.len() != 2 {
		t.Fatalf("len = %d, want 2", q.len())
	}
	if q.totalBytes() != 5 {
		t.Fatalf("totalBytes = %d, want 5", q.totalBytes())
	}

	if !q.ackFirstMatching(1) {
		t.Fatal("ackFirstMatching(1) = false, want true")
	}
	if q.len() != 1 {
		t.Fatalf("len = %d, want 1", q.len())
	}
	if q.totalBytes() != 2 {
		t.Fatalf("totalBytes = %d, want 2", q.totalBytes())
	}
}

func TestUnackedQueueDuplicateAckIgnored(t *testing.T) {
	q := newUnackedQueue()
	q.push(1, []byte{1})
	if !q.ackFirstMatching(1) {
		t.Fatal("first ack should succeed")
	}
	if q.ackFirstMatching(1) {
		t.Fatal("duplicate ack should be ignored")
	}
}

func TestUnackedQueueAcksFirstMatchingOnly(t *testing.T) {
	q := newUnackedQueue()
	q.push(7, []byte{1})
	q.push(7, []byte{2})
	if !q.ackFirstMatching(7) {
		t.Fatal("ack should match first entry")
	}
	if q.len() != 1 {
		t.Fatalf("len = %d, want 1", q.len())
	}
	if string(q.entries[0].frame) != string([]byte{2}) {
		t.Fatalf("remaining frame = %v, want [2]", q.entries[0].frame)
	}
}

func TestUnackedQueueFrames(t *testing.T) {
	q := newUnackedQueue()
	q.push(1, []byte{1, 2})
	q.push(2, []byte{3})
	frames := q.frames()
	if len(frames) != 2 {
		t.Fatalf("len = %d, want 2", len(frames))
	}
	if string(frames[0]) != string([]byte{1, 2}) || string(frames[1]) != string([]byte{3}) {
		t.Fatalf("frames = %v", frames)
	}
}
