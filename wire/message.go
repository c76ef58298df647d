package wire

import "github.com/opd-ai/tgcalls-core/codec"

// Tag identifies a Message variant or in-band control element on the
// wire. The tag space is authoritative: implementers must not introduce
// open polymorphism here, only the seven closed variants plus the two
// reserved control tags.
type Tag byte

const (
	TagCandidatesList      Tag = 1
	TagVideoFormats        Tag = 2
	TagRequestVideo        Tag = 3
	TagRemoteVideoIsActive Tag = 4
	TagAudioData           Tag = 5
	TagVideoData           Tag = 6
	TagUnstructuredData    Tag = 7

	// TagEmpty and TagAck are not Messages; they are in-band control
	// elements EncryptedConnection consumes and never surfaces to a
	// Message consumer.
	TagEmpty Tag = 0xFE
	TagAck   Tag = 0xFF
)

// RequiresAck reports whether a Tag's variant must be retained until the
// peer acknowledges it, per the fixed table in Message.h.
func (t Tag) RequiresAck() bool {
	switch t {
	case TagCandidatesList, TagVideoFormats, TagRequestVideo, TagRemoteVideoIsActive, TagUnstructuredData:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (t Tag) String() string {
	switch t {
	case TagCandidatesList:
		return "CandidatesList"
	case TagVideoFormats:
		return "VideoFormats"
	case TagRequestVideo:
		return "RequestVideo"
	case TagRemoteVideoIsActive:
		return "RemoteVideoIsActive"
	case TagAudioData:
		return "AudioData"
	case TagVideoData:
		return "VideoData"
	case TagUnstructuredData:
		return "UnstructuredData"
	case TagEmpty:
		return "Empty"
	case TagAck:
		return "Ack"
	default:
		return "Unknown"
	}
}

// Message is the sealed tagged union EncryptedConnection frames and
// MessageCodec serializes. Only the concrete types in this file implement
// it.
type Message interface {
	Tag() Tag
	RequiresAck() bool

	// sealed prevents implementations outside this package, keeping the
	// union closed as the wire tag space requires.
	sealed()
}

// CandidatesListMessage carries a list of opaque, platform-serialized ICE
// candidate SDP lines.
type CandidatesListMessage struct {
	Candidates []string
}

func (CandidatesListMessage) Tag() Tag         { return TagCandidatesList }
func (CandidatesListMessage) RequiresAck() bool { return TagCandidatesList.RequiresAck() }
func (CandidatesListMessage) sealed()          {}

// VideoFormatsMessage advertises local formats: encoders first (the
// leading EncodersCount entries), then any decoder-only formats.
type VideoFormatsMessage struct {
	Formats       []codec.VideoFormat
	EncodersCount int
}

func (VideoFormatsMessage) Tag() Tag         { return TagVideoFormats }
func (VideoFormatsMessage) RequiresAck() bool { return TagVideoFormats.RequiresAck() }
func (VideoFormatsMessage) sealed()          {}

// RequestVideoMessage asks the peer to begin sending video; it carries no
// payload.
type RequestVideoMessage struct{}

func (RequestVideoMessage) Tag() Tag         { return TagRequestVideo }
func (RequestVideoMessage) RequiresAck() bool { return TagRequestVideo.RequiresAck() }
func (RequestVideoMessage) sealed()          {}

// RemoteVideoIsActiveMessage reports whether the sender's outgoing video
// is currently active.
type RemoteVideoIsActiveMessage struct {
	Active bool
}

func (RemoteVideoIsActiveMessage) Tag() Tag         { return TagRemoteVideoIsActive }
func (RemoteVideoIsActiveMessage) RequiresAck() bool { return TagRemoteVideoIsActive.RequiresAck() }
func (RemoteVideoIsActiveMessage) sealed()          {}

// AudioDataMessage carries one opaque, codec-encoded audio frame.
type AudioDataMessage struct {
	Payload []byte
}

func (AudioDataMessage) Tag() Tag         { return TagAudioData }
func (AudioDataMessage) RequiresAck() bool { return TagAudioData.RequiresAck() }
func (AudioDataMessage) sealed()          {}

// VideoDataMessage carries one opaque, codec-encoded video frame.
type VideoDataMessage struct {
	Payload []byte
}

func (VideoDataMessage) Tag() Tag         { return TagVideoData }
func (VideoDataMessage) RequiresAck() bool { return TagVideoData.RequiresAck() }
func (VideoDataMessage) sealed()          {}

// UnstructuredDataMessage carries opaque bytes used by alternate
// signaling dialects this module otherwise stays agnostic to.
type UnstructuredDataMessage struct {
	Payload []byte
}

func (UnstructuredDataMessage) Tag() Tag         { return TagUnstructuredData }
func (UnstructuredDataMessage) RequiresAck() bool { return TagUnstructuredData.RequiresAck() }
func (UnstructuredDataMessage) sealed()          {}
