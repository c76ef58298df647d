package call

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/opd-ai/tgcalls-core/codec"
	"github.com/opd-ai/tgcalls-core/crypto"
	"github.com/opd-ai/tgcalls-core/threadbound"
	"github.com/opd-ai/tgcalls-core/transport"
	"github.com/opd-ai/tgcalls-core/wire"
	"github.com/sirupsen/logrus"
)

// Telemetry is the summary CallManager returns from Stop.
type Telemetry struct {
	SessionID       uuid.UUID
	FinalState      CallState
	FinalVideoState VideoState
}

// state is the data threadbound.Object exclusively owns; every field is
// only ever touched from the owning goroutine.
type state struct {
	app         Application
	externalNet transport.Transport
	media       MediaBridge
	config      Config

	localEncoders []codec.VideoFormat
	localDecoders []codec.VideoFormat

	signaling    *transport.EncryptedConnection
	transportConn *transport.EncryptedConnection

	started         bool
	establishedOnce bool
	callState       CallState
	videoState      VideoState

	lastNotifiedCallState  CallState
	lastNotifiedVideoState VideoState
	everNotified           bool

	negotiatedOnce   bool
	negotiatedCommon []codec.VideoFormat
	myEncoderIndex   int

	terminated bool

	sessionID uuid.UUID
	logger    *logrus.Entry
}

// Manager is the call-scoped actor owning the signaling and transport
// EncryptedConnections and mediating between the external Transport, the
// external MediaBridge, and the Application callbacks. All of its public
// methods are safe to call from any goroutine; the work they describe
// always runs on Manager's single owning goroutine.
type Manager struct {
	obj       *threadbound.Object[state]
	sessionID uuid.UUID
}

// SessionID identifies this call instance for correlating logs and
// telemetry across the signaling and transport connections it owns.
func (m *Manager) SessionID() uuid.UUID {
	return m.sessionID
}

// New constructs a Manager. key is the shared secret both
// EncryptedConnections derive their per-role keys from, already produced
// by a key exchange outside this module (for example crypto.NoiseKeyExchange).
// initialCapture, if non-nil, starts the video sub-state machine in
// VideoOutgoingRequested instead of VideoPossible.
func New(app Application, net transport.Transport, media MediaBridge, key crypto.EncryptionKey, localEncoders, localDecoders []codec.VideoFormat, config Config, initialCapture MediaCapture) *Manager {
	videoState := VideoPossible
	if initialCapture != nil {
		videoState = VideoOutgoingRequested
	}

	localEncoders = filterPreferredEncoders(localEncoders, config.PreferredEncoders)

	if config.LogLevel != "" {
		if lvl, err := logrus.ParseLevel(config.LogLevel); err == nil {
			logrus.SetLevel(lvl)
		}
	}

	sessionID := uuid.New()

	obj := threadbound.New(func() *state {
		keyCopy := key
		return &state{
			app:            app,
			externalNet:    net,
			media:          media,
			config:         config,
			localEncoders:  localEncoders,
			localDecoders:  localDecoders,
			signaling:      transport.New(&keyCopy, crypto.RoleSignaling),
			transportConn:  transport.New(&keyCopy, crypto.RoleTransport),
			callState:      StateConnecting,
			videoState:     videoState,
			myEncoderIndex: -1,
			sessionID:      sessionID,
			logger: logrus.WithFields(logrus.Fields{
				"package":    "call",
				"type":       "Manager",
				"session_id": sessionID.String(),
			}),
		}
	})
	m := &Manager{obj: obj, sessionID: sessionID}

	if initialCapture != nil {
		m.obj.Perform(func(s *state) {
			s.media.SetSendVideo(initialCapture)
		})
	}

	return m
}

// Start creates the network hooks and sends the initial VideoFormats
// advertisement. Calling Start twice has no additional effect.
func (m *Manager) Start() {
	m.obj.Perform(func(s *state) {
		if s.started {
			return
		}
		s.started = true

		s.externalNet.Receive(func(packet []byte) {
			m.obj.Perform(func(s *state) { s.handleTransportPacket(packet) })
		})
		s.externalNet.ReadyStateChanged(func(ready bool) {
			m.obj.Perform(func(s *state) { s.handleReadyStateChanged(ready) })
		})

		formats, encodersCount := codec.BuildAdvertisement(s.localEncoders, s.localDecoders)
		s.sendSignaling(wire.VideoFormatsMessage{Formats: formats, EncodersCount: encodersCount})
	})
}

// ReceiveSignalingData feeds an out-of-band-transported signaling packet
// into the signaling EncryptedConnection.
func (m *Manager) ReceiveSignalingData(packet []byte) {
	m.obj.Perform(func(s *state) {
		decrypted, err := s.signaling.HandleIncomingPacket(packet)
		if err != nil {
			s.logFramingError("ReceiveSignalingData", err)
			return
		}
		s.dispatch(decrypted)
	})
}

// SetMuteMicrophone forwards the mute flag to the media bridge.
func (m *Manager) SetMuteMicrophone(muted bool) {
	m.obj.Perform(func(s *state) { s.media.SetMuteOutgoingAudio(muted) })
}

// SetSendVideo drives the local side of the video sub-state machine
// without a specific capture device (enabled toggles outgoing video on
// an already-configured bridge).
func (m *Manager) SetSendVideo(enabled bool) {
	m.obj.Perform(func(s *state) {
		if enabled {
			s.localRequestVideo(nil)
			return
		}
		s.media.SetSendVideo(nil)
	})
}

// RequestVideo drives the local side of the video sub-state machine with
// an explicit capture device.
func (m *Manager) RequestVideo(capture MediaCapture) {
	m.obj.Perform(func(s *state) { s.localRequestVideo(capture) })
}

// SendMediaData frames an AudioData, VideoData, or UnstructuredData
// message and sends it over the transport EncryptedConnection. The media
// bridge calls this once it has an encoded frame ready to transmit.
func (m *Manager) SendMediaData(msg wire.Message) {
	m.obj.Perform(func(s *state) { s.sendMedia(msg) })
}

// SetIncomingVideoOutput forwards the render sink to the media bridge.
func (m *Manager) SetIncomingVideoOutput(sink VideoSink) {
	m.obj.Perform(func(s *state) { s.media.SetIncomingVideoOutput(sink) })
}

// NegotiatedFormats returns the most recent CommonFormats intersection
// and the locally preferred encoder's index within it (-1 if absent),
// blocking until any in-flight VideoFormats negotiation has been applied.
func (m *Manager) NegotiatedFormats() ([]codec.VideoFormat, int) {
	type result struct {
		formats []codec.VideoFormat
		index   int
	}
	out := make(chan result, 1)
	m.obj.Perform(func(s *state) {
		out <- result{formats: s.negotiatedCommon, index: s.myEncoderIndex}
	})
	r := <-out
	return r.formats, r.index
}

// Stop tears down both EncryptedConnections and the media bridge,
// blocking until teardown completes, and returns final telemetry.
func (m *Manager) Stop() Telemetry {
	result := make(chan Telemetry, 1)
	m.obj.Close(func(s *state) {
		s.media.SetConnected(false)
		result <- Telemetry{SessionID: s.sessionID, FinalState: s.callState, FinalVideoState: s.videoState}
	})
	m.obj.Wait()
	return <-result
}

// filterPreferredEncoders restricts encoders to the names listed in
// preferred, if preferred is non-empty; codec.RankEncoders still decides
// final priority order. An empty preferred list leaves encoders
// untouched.
func filterPreferredEncoders(encoders []codec.VideoFormat, preferred []string) []codec.VideoFormat {
	if len(preferred) == 0 {
		return encoders
	}
	allowed := make(map[string]bool, len(preferred))
	for _, name := range preferred {
		allowed[name] = true
	}
	out := make([]codec.VideoFormat, 0, len(encoders))
	for _, e := range encoders {
		if allowed[e.Name] {
			out = append(out, e)
		}
	}
	return out
}

func (s *state) sendSignaling(msg wire.Message) {
	if s.terminated {
		return
	}
	packet, err := s.signaling.PrepareForSending(msg)
	if err != nil {
		s.logFramingError("sendSignaling", err)
		return
	}
	s.app.SignalingDataEmitted(packet.Bytes)
}

func (s *state) sendMedia(msg wire.Message) {
	if s.terminated {
		return
	}
	packet, err := s.transportConn.PrepareForSending(msg)
	if err != nil {
		s.logFramingError("sendMedia", err)
		return
	}
	if err := s.externalNet.Send(packet.Bytes); err != nil {
		s.logger.WithFields(logrus.Fields{
			"function": "sendMedia",
			"error":    err.Error(),
		}).Warn("external transport send failed")
	}
}

func (s *state) handleTransportPacket(packet []byte) {
	if s.terminated {
		return
	}
	decrypted, err := s.transportConn.HandleIncomingPacket(packet)
	if err != nil {
		s.logFramingError("handleTransportPacket", err)
		return
	}
	s.dispatch(decrypted)
}

func (s *state) dispatch(decrypted transport.DecryptedPacket) {
	if decrypted.Main != nil {
		s.routeMessage(decrypted.Main)
	}
	for _, msg := range decrypted.Additional {
		s.routeMessage(msg)
	}
}

func (s *state) routeMessage(msg wire.Message) {
	switch m := msg.(type) {
	case wire.CandidatesListMessage:
		s.media.ReceiveMessage(m)
	case wire.VideoFormatsMessage:
		s.negotiateFormats(m)
	case wire.RequestVideoMessage:
		s.remoteRequestVideoReceived()
	case wire.RemoteVideoIsActiveMessage:
		s.app.RemoteVideoIsActiveUpdated(m.Active)
	case wire.AudioDataMessage, wire.VideoDataMessage, wire.UnstructuredDataMessage:
		s.media.ReceiveMessage(m)
	default:
		s.logger.WithField("type", fmt.Sprintf("%T", msg)).Warn("unrouted message type")
	}
}

func (s *state) negotiateFormats(m wire.VideoFormatsMessage) {
	common, myEncoderIndex := codec.ComputeCommonFormats(s.localEncoders, s.localDecoders, m.Formats)
	s.negotiatedCommon = common
	s.myEncoderIndex = myEncoderIndex
	s.media.ReceiveMessage(m)
	if !s.negotiatedOnce && len(common) > 0 {
		s.negotiatedOnce = true
	}
}

func (s *state) localRequestVideo(capture MediaCapture) {
	switch s.videoState {
	case VideoPossible:
		s.videoState = VideoOutgoingRequested
		s.sendSignaling(wire.RequestVideoMessage{})
	case VideoIncomingRequested:
		s.videoState = VideoActive
		s.sendSignaling(wire.RequestVideoMessage{})
	}
	if s.videoState == VideoOutgoingRequested || s.videoState == VideoActive {
		s.media.SetSendVideo(capture)
	}
	s.notifyState()
}

func (s *state) remoteRequestVideoReceived() {
	switch s.videoState {
	case VideoPossible:
		s.videoState = VideoIncomingRequested
	case VideoOutgoingRequested:
		s.videoState = VideoActive
	}
	s.notifyState()
}

func (s *state) handleReadyStateChanged(ready bool) {
	if ready {
		wasFirstEstablish := s.callState == StateConnecting
		s.callState = StateEstablished
		s.media.SetConnected(true)
		if wasFirstEstablish && !s.establishedOnce {
			s.establishedOnce = true
			if s.videoState == VideoOutgoingRequested {
				s.videoState = VideoActive
			}
		}
	} else {
		if s.callState == StateEstablished {
			s.callState = StateReconnecting
			s.media.SetConnected(false)
		}
	}
	s.notifyState()
}

// notifyState invokes Application.StateUpdated only when the
// (CallState, VideoState) pair actually changed, so callers that trigger
// a no-op transition (for example RequestVideo while already Active)
// don't generate a spurious callback.
func (s *state) notifyState() {
	if s.everNotified && s.callState == s.lastNotifiedCallState && s.videoState == s.lastNotifiedVideoState {
		return
	}
	s.everNotified = true
	s.lastNotifiedCallState = s.callState
	s.lastNotifiedVideoState = s.videoState
	s.app.StateUpdated(s.callState, s.videoState)
}

func (s *state) logFramingError(op string, err error) {
	if errors.Is(err, transport.ErrCounterExhausted) {
		s.terminated = true
		s.media.SetConnected(false)
		s.logger.WithFields(logrus.Fields{
			"function": op,
			"error":    ErrConnectionTerminated.Error(),
		}).Error("connection terminated")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"function": op,
		"error":    err.Error(),
	}).Warn("connection error")
}
