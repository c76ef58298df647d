package wire

import (
	"testing"

	"github.com/opd-ai/tgcalls-core/codec"
)

func roundTrip(t *testing.T, tag Tag, msg Message, singleMessagePacket bool) Message {
	t.Helper()
	encoded, err := EncodeElement(42, tag, msg, singleMessagePacket)
	if err != nil {
		t.Fatalf("EncodeElement: %v", err)
	}
	seq, decodedTag, decoded, consumed, err := DecodeElement(encoded, singleMessagePacket)
	if err != nil {
		t.Fatalf("DecodeElement: %v", err)
	}
	if seq != 42 {
		t.Fatalf("seq = %d, want 42", seq)
	}
	if decodedTag != tag {
		t.Fatalf("tag = %v, want %v", decodedTag, tag)
	}
	if consumed != len(encoded) {
		t.Fatalf("consumed = %d, want %d", consumed, len(encoded))
	}
	return decoded
}

func TestCandidatesListRoundTrip(t *testing.T) {
	for _, single := range []bool{true, false} {
		msg := CandidatesListMessage{Candidates: []string{"candidate:1 udp", "candidate:2 tcp"}}
		got := roundTrip(t, TagCandidatesList, msg, single).(CandidatesListMessage)
		if len(got.Candidates) != 2 || got.Candidates[0] != msg.Candidates[0] || got.Candidates[1] != msg.Candidates[1] {
			t.Fatalf("got %+v, want %+v", got, msg)
		}
	}
}

func TestCandidatesListEmpty(t *testing.T) {
	msg := CandidatesListMessage{}
	got := roundTrip(t, TagCandidatesList, msg, true).(CandidatesListMessage)
	if len(got.Candidates) != 0 {
		t.Fatalf("got %+v, want empty", got)
	}
}

func TestVideoFormatsRoundTrip(t *testing.T) {
	msg := VideoFormatsMessage{
		Formats: []codec.VideoFormat{
			{Name: "AV1", Parameters: nil},
			{Name: "H264", Parameters: []codec.Parameter{{Key: "profile-level-id", Value: "42e01f"}}},
		},
		EncodersCount: 1,
	}
	for _, single := range []bool{true, false} {
		got := roundTrip(t, TagVideoFormats, msg, single).(VideoFormatsMessage)
		if got.EncodersCount != 1 || len(got.Formats) != 2 {
			t.Fatalf("got %+v", got)
		}
		if !got.Formats[1].Equal(msg.Formats[1]) {
			t.Fatalf("format[1] = %+v, want %+v", got.Formats[1], msg.Formats[1])
		}
	}
}

func TestRequestVideoRoundTrip(t *testing.T) {
	roundTrip(t, TagRequestVideo, RequestVideoMessage{}, true)
	roundTrip(t, TagRequestVideo, RequestVideoMessage{}, false)
}

func TestRemoteVideoIsActiveRoundTrip(t *testing.T) {
	for _, active := range []bool{true, false} {
		msg := RemoteVideoIsActiveMessage{Active: active}
		got := roundTrip(t, TagRemoteVideoIsActive, msg, true).(RemoteVideoIsActiveMessage)
		if got.Active != active {
			t.Fatalf("got %v, want %v", got.Active, active)
		}
	}
}

func TestAudioDataRoundTripSingleMessage(t *testing.T) {
	msg := AudioDataMessage{Payload: []byte{1, 2, 3, 4, 5}}
	got := roundTrip(t, TagAudioData, msg, true).(AudioDataMessage)
	if string(got.Payload) != string(msg.Payload) {
		t.Fatalf("got %v, want %v", got.Payload, msg.Payload)
	}
}

func TestVideoDataRoundTripMultiMessage(t *testing.T) {
	msg := VideoDataMessage{Payload: []byte("some encoded frame bytes")}
	got := roundTrip(t, TagVideoData, msg, false).(VideoDataMessage)
	if string(got.Payload) != string(msg.Payload) {
		t.Fatalf("got %v, want %v", got.Payload, msg.Payload)
	}
}

func TestUnstructuredDataRoundTrip(t *testing.T) {
	for _, single := range []bool{true, false} {
		msg := UnstructuredDataMessage{Payload: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
		got := roundTrip(t, TagUnstructuredData, msg, single).(UnstructuredDataMessage)
		if string(got.Payload) != string(msg.Payload) {
			t.Fatalf("got %v, want %v", got.Payload, msg.Payload)
		}
	}
}

func TestDecodeElementControlTags(t *testing.T) {
	for _, tag := range []Tag{TagEmpty, TagAck} {
		encoded, err := EncodeElement(7, tag, nil, true)
		if err != nil {
			t.Fatalf("EncodeElement: %v", err)
		}
		seq, decodedTag, msg, consumed, err := DecodeElement(encoded, true)
		if err != nil {
			t.Fatalf("DecodeElement: %v", err)
		}
		if seq != 7 || decodedTag != tag || msg != nil || consumed != 5 {
			t.Fatalf("seq=%d tag=%v msg=%v consumed=%d", seq, decodedTag, msg, consumed)
		}
	}
}

func TestDecodeElementTruncated(t *testing.T) {
	if _, _, _, _, err := DecodeElement([]byte{0, 0, 0}, true); err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestDecodeElementUnknownTag(t *testing.T) {
	data := []byte{0, 0, 0, 1, 0x42}
	if _, _, _, _, err := DecodeElement(data, true); err != ErrUnknownTag {
		t.Fatalf("err = %v, want ErrUnknownTag", err)
	}
}

func TestDecodeElementMultiMessageConsumedAdvancesToNextElement(t *testing.T) {
	first, err := EncodeElement(1, TagAudioData, AudioDataMessage{Payload: []byte{9, 9}}, false)
	if err != nil {
		t.Fatalf("EncodeElement: %v", err)
	}
	second, err := EncodeElement(2, TagEmpty, nil, false)
	if err != nil {
		t.Fatalf("EncodeElement: %v", err)
	}
	packet := append(first, second...)

	_, _, _, consumed, err := DecodeElement(packet, false)
	if err != nil {
		t.Fatalf("DecodeElement first: %v", err)
	}
	if consumed != len(first) {
		t.Fatalf("consumed = %d, want %d", consumed, len(first))
	}
	seq, tag, _, _, err := DecodeElement(packet[consumed:], false)
	if err != nil {
		t.Fatalf("DecodeElement second: %v", err)
	}
	if seq != 2 || tag != TagEmpty {
		t.Fatalf("seq=%d tag=%v", seq, tag)
	}
}
