package call

import (
	"github.com/opd-ai/tgcalls-core/wire"
)

// CallState is the top-level connectivity state CallManager reports to
// the application.
type CallState int

const (
	StateConnecting CallState = iota
	StateEstablished
	StateReconnecting
)

// String implements fmt.Stringer.
func (s CallState) String() string {
	switch s {
	case StateConnecting:
		return "Connecting"
	case StateEstablished:
		return "Established"
	case StateReconnecting:
		return "Reconnecting"
	default:
		return "Unknown"
	}
}

// VideoState is the per-peer video request sub-state machine's current
// position.
type VideoState int

const (
	VideoPossible VideoState = iota
	VideoIncomingRequested
	VideoOutgoingRequested
	VideoActive
	VideoInactive
)

// String implements fmt.Stringer.
func (s VideoState) String() string {
	switch s {
	case VideoPossible:
		return "Possible"
	case VideoIncomingRequested:
		return "IncomingRequested"
	case VideoOutgoingRequested:
		return "OutgoingRequested"
	case VideoActive:
		return "Active"
	case VideoInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// Application receives CallManager's callbacks. Every method is invoked
// from the CallManager's owning goroutine; implementations must not
// block.
type Application interface {
	// StateUpdated fires exactly once per (CallState, VideoState) change.
	StateUpdated(state CallState, video VideoState)

	// SignalingDataEmitted hands the application an encrypted signaling
	// packet to transport out-of-band (the signaling channel's own
	// network path is outside this module).
	SignalingDataEmitted(packet []byte)

	// RemoteVideoIsActiveUpdated surfaces a peer's RemoteVideoIsActive
	// report.
	RemoteVideoIsActiveUpdated(active bool)
}

// MediaCapture and VideoSink are opaque handles the host's media stack
// defines; CallManager only ever passes them through to MediaBridge.
type MediaCapture interface{}
type VideoSink interface{}

// MediaBridge is the host-supplied collaborator that owns the actual
// audio/video engine (encoders, decoders, jitter buffering, rendering).
// CallManager mediates between it and the two EncryptedConnections but
// never inspects media payloads itself.
type MediaBridge interface {
	SetConnected(connected bool)
	ReceivePacket(packet []byte)
	SetSendVideo(capture MediaCapture)
	SetIncomingVideoOutput(sink VideoSink)
	SetMuteOutgoingAudio(muted bool)

	// ReceiveMessage delivers any decrypted message CallManager does not
	// interpret itself (CandidatesList, VideoFormats, AudioData,
	// VideoData, UnstructuredData) for the bridge to act on.
	ReceiveMessage(msg wire.Message)
}
