package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/tgcalls-core/codec"
)

// seqSize and tagSize are the fixed-width framing fields every element
// carries ahead of its variant body.
const (
	seqSize = 4
	tagSize = 1

	lenPrefixSize = 4
)

// EncodeElement serializes one wire element: a 4-byte big-endian seq,
// the element's tag byte, and (for every tag except the Empty/Ack control
// tags, which have none) its body. msg is nil for TagEmpty and TagAck.
//
// singleMessagePacket controls how AudioData, VideoData, and
// UnstructuredData bodies are framed: when true the payload is written
// with no length prefix (it is assumed to run to the end of the
// packet); when false it is preceded by a 4-byte big-endian length so
// further elements can follow in the same packet.
func EncodeElement(seq uint32, tag Tag, msg Message, singleMessagePacket bool) ([]byte, error) {
	var body []byte
	var err error
	if tag != TagEmpty && tag != TagAck {
		body, err = encodeBody(tag, msg, singleMessagePacket)
		if err != nil {
			return nil, err
		}
	}

	out := make([]byte, seqSize+tagSize+len(body))
	binary.BigEndian.PutUint32(out[0:seqSize], seq)
	out[seqSize] = byte(tag)
	copy(out[seqSize+tagSize:], body)
	return out, nil
}

// DecodeElement parses one wire element from the front of data, returning
// the number of bytes consumed so the caller can advance to the next
// element in a multi-message packet.
func DecodeElement(data []byte, singleMessagePacket bool) (seq uint32, tag Tag, msg Message, consumed int, err error) {
	if len(data) < seqSize+tagSize {
		return 0, 0, nil, 0, ErrTruncated
	}
	seq = binary.BigEndian.Uint32(data[0:seqSize])
	tag = Tag(data[seqSize])
	rest := data[seqSize+tagSize:]

	if tag == TagEmpty || tag == TagAck {
		return seq, tag, nil, seqSize + tagSize, nil
	}

	msg, bodyLen, err := decodeBody(tag, rest, singleMessagePacket)
	if err != nil {
		return 0, 0, nil, 0, err
	}
	return seq, tag, msg, seqSize + tagSize + bodyLen, nil
}

func encodeBody(tag Tag, msg Message, singleMessagePacket bool) ([]byte, error) {
	switch m := msg.(type) {
	case CandidatesListMessage:
		return encodeCandidatesList(m), nil
	case VideoFormatsMessage:
		return encodeVideoFormats(m), nil
	case RequestVideoMessage:
		return nil, nil
	case RemoteVideoIsActiveMessage:
		if m.Active {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case AudioDataMessage:
		return encodeRawPayload(m.Payload, singleMessagePacket), nil
	case VideoDataMessage:
		return encodeRawPayload(m.Payload, singleMessagePacket), nil
	case UnstructuredDataMessage:
		return encodeRawPayload(m.Payload, singleMessagePacket), nil
	default:
		return nil, fmt.Errorf("wire: unexpected message type %T for tag %s", msg, tag)
	}
}

func decodeBody(tag Tag, body []byte, singleMessagePacket bool) (Message, int, error) {
	switch tag {
	case TagCandidatesList:
		return decodeCandidatesList(body)
	case TagVideoFormats:
		return decodeVideoFormats(body)
	case TagRequestVideo:
		return RequestVideoMessage{}, 0, nil
	case TagRemoteVideoIsActive:
		if len(body) < 1 {
			return nil, 0, ErrTruncated
		}
		return RemoteVideoIsActiveMessage{Active: body[0] != 0}, 1, nil
	case TagAudioData:
		payload, n, err := decodeRawPayload(body, singleMessagePacket)
		if err != nil {
			return nil, 0, err
		}
		return AudioDataMessage{Payload: payload}, n, nil
	case TagVideoData:
		payload, n, err := decodeRawPayload(body, singleMessagePacket)
		if err != nil {
			return nil, 0, err
		}
		return VideoDataMessage{Payload: payload}, n, nil
	case TagUnstructuredData:
		payload, n, err := decodeRawPayload(body, singleMessagePacket)
		if err != nil {
			return nil, 0, err
		}
		return UnstructuredDataMessage{Payload: payload}, n, nil
	default:
		return nil, 0, ErrUnknownTag
	}
}

// encodeRawPayload writes payload verbatim in single-message mode (the
// packet boundary marks its end) or with an explicit 4-byte length
// prefix in multi-message mode, so a following element can be located.
func encodeRawPayload(payload []byte, singleMessagePacket bool) []byte {
	if singleMessagePacket {
		out := make([]byte, len(payload))
		copy(out, payload)
		return out
	}
	out := make([]byte, lenPrefixSize+len(payload))
	binary.BigEndian.PutUint32(out[:lenPrefixSize], uint32(len(payload)))
	copy(out[lenPrefixSize:], payload)
	return out
}

func decodeRawPayload(body []byte, singleMessagePacket bool) ([]byte, int, error) {
	if singleMessagePacket {
		payload := make([]byte, len(body))
		copy(payload, body)
		return payload, len(body), nil
	}
	if len(body) < lenPrefixSize {
		return nil, 0, ErrTruncated
	}
	n := binary.BigEndian.Uint32(body[:lenPrefixSize])
	if uint64(lenPrefixSize)+uint64(n) > uint64(len(body)) {
		return nil, 0, ErrTruncated
	}
	payload := make([]byte, n)
	copy(payload, body[lenPrefixSize:lenPrefixSize+int(n)])
	return payload, lenPrefixSize + int(n), nil
}

// encodeCandidatesList writes a 1-byte count followed by each candidate
// as a 4-byte big-endian length prefix plus its UTF-8 bytes.
func encodeCandidatesList(m CandidatesListMessage) []byte {
	out := []byte{byte(len(m.Candidates))}
	for _, c := range m.Candidates {
		lenBuf := make([]byte, lenPrefixSize)
		binary.BigEndian.PutUint32(lenBuf, uint32(len(c)))
		out = append(out, lenBuf...)
		out = append(out, c...)
	}
	return out
}

func decodeCandidatesList(body []byte) (Message, int, error) {
	if len(body) < 1 {
		return nil, 0, ErrTruncated
	}
	count := int(body[0])
	pos := 1
	candidates := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if len(body)-pos < lenPrefixSize {
			return nil, 0, ErrTruncated
		}
		n := binary.BigEndian.Uint32(body[pos : pos+lenPrefixSize])
		pos += lenPrefixSize
		if uint64(pos)+uint64(n) > uint64(len(body)) {
			return nil, 0, ErrTruncated
		}
		candidates = append(candidates, string(body[pos:pos+int(n)]))
		pos += int(n)
	}
	return CandidatesListMessage{Candidates: candidates}, pos, nil
}

// encodeVideoFormats writes EncodersCount as a single byte, then a
// 1-byte format count, then each format as a 1-byte name length, the
// name bytes, a 1-byte parameter count, and per parameter a 1-byte key
// length plus key bytes and a 1-byte value length plus value bytes.
func encodeVideoFormats(m VideoFormatsMessage) []byte {
	out := []byte{byte(m.EncodersCount), byte(len(m.Formats))}
	for _, f := range m.Formats {
		out = append(out, byte(len(f.Name)))
		out = append(out, f.Name...)
		out = append(out, byte(len(f.Parameters)))
		for _, p := range f.Parameters {
			out = append(out, byte(len(p.Key)))
			out = append(out, p.Key...)
			out = append(out, byte(len(p.Value)))
			out = append(out, p.Value...)
		}
	}
	return out
}

func decodeVideoFormats(body []byte) (Message, int, error) {
	if len(body) < 2 {
		return nil, 0, ErrTruncated
	}
	encodersCount := int(body[0])
	formatCount := int(body[1])
	pos := 2

	formats := make([]codec.VideoFormat, 0, formatCount)
	for i := 0; i < formatCount; i++ {
		name, n, err := decodeLenPrefixedString1(body[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += n

		if pos >= len(body) {
			return nil, 0, ErrTruncated
		}
		paramCount := int(body[pos])
		pos++

		params := make([]codec.Parameter, 0, paramCount)
		for j := 0; j < paramCount; j++ {
			key, kn, err := decodeLenPrefixedString1(body[pos:])
			if err != nil {
				return nil, 0, err
			}
			pos += kn

			value, vn, err := decodeLenPrefixedString1(body[pos:])
			if err != nil {
				return nil, 0, err
			}
			pos += vn

			params = append(params, codec.Parameter{Key: key, Value: value})
		}
		formats = append(formats, codec.VideoFormat{Name: name, Parameters: params})
	}

	if encodersCount > len(formats) {
		return nil, 0, ErrMalformedBody
	}
	return VideoFormatsMessage{Formats: formats, EncodersCount: encodersCount}, pos, nil
}

// decodeLenPrefixedString1 reads a 1-byte length prefix followed by that
// many bytes, returning the decoded string and the total bytes consumed.
func decodeLenPrefixedString1(b []byte) (string, int, error) {
	if len(b) < 1 {
		return "", 0, ErrTruncated
	}
	n := int(b[0])
	if len(b)-1 < n {
		return "", 0, ErrTruncated
	}
	return string(b[1 : 1+n]), 1 + n, nil
}
