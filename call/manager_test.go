package call

import (
	"testing"

	"github.com/opd-ai/tgcalls-core/codec"
	"github.com/opd-ai/tgcalls-core/crypto"
	"github.com/opd-ai/tgcalls-core/transport"
	"github.com/opd-ai/tgcalls-core/wire"
)

type stateUpdate struct {
	call  CallState
	video VideoState
}

type fakeApp struct {
	states            []stateUpdate
	signalingEmitted  [][]byte
	remoteVideoActive []bool
}

func (f *fakeApp) StateUpdated(c CallState, v VideoState) {
	f.states = append(f.states, stateUpdate{c, v})
}
func (f *fakeApp) SignalingDataEmitted(packet []byte) {
	f.signalingEmitted = append(f.signalingEmitted, packet)
}
func (f *fakeApp) RemoteVideoIsActiveUpdated(active bool) {
	f.remoteVideoActive = append(f.remoteVideoActive, active)
}

type fakeTransport struct {
	sent    [][]byte
	onRecv  func([]byte)
	onReady func(bool)
	closed  bool
}

func (f *fakeTransport) Send(packet []byte) error {
	f.sent = append(f.sent, packet)
	return nil
}
func (f *fakeTransport) Receive(handler func([]byte))       { f.onRecv = handler }
func (f *fakeTransport) ReadyStateChanged(handler func(bool)) { f.onReady = handler }
func (f *fakeTransport) Close() error                        { f.closed = true; return nil }

type fakeMedia struct {
	connected      bool
	received       []wire.Message
	sendVideoCalls []MediaCapture
	muteCalls      []bool
}

func (f *fakeMedia) SetConnected(connected bool)     { f.connected = connected }
func (f *fakeMedia) ReceivePacket(packet []byte)     {}
func (f *fakeMedia) SetSendVideo(c MediaCapture)     { f.sendVideoCalls = append(f.sendVideoCalls, c) }
func (f *fakeMedia) SetIncomingVideoOutput(s VideoSink) {}
func (f *fakeMedia) SetMuteOutgoingAudio(muted bool) { f.muteCalls = append(f.muteCalls, muted) }
func (f *fakeMedia) ReceiveMessage(msg wire.Message) { f.received = append(f.received, msg) }

func testKey(t *testing.T) crypto.EncryptionKey {
	t.Helper()
	raw := make([]byte, crypto.EncryptionKeySize)
	for i := range raw {
		raw[i] = byte(i * 3)
	}
	k, err := crypto.NewEncryptionKey(raw, true)
	if err != nil {
		t.Fatalf("NewEncryptionKey: %v", err)
	}
	return k
}

// waitForQueue blocks until every closure posted to m before this call
// has run, by posting one more and waiting for it.
func waitForQueue(m *Manager) {
	done := make(chan struct{})
	m.obj.Perform(func(s *state) { close(done) })
	<-done
}

func newTestManager(t *testing.T) (*Manager, *fakeApp, *fakeTransport, *fakeMedia) {
	t.Helper()
	app := &fakeApp{}
	net := &fakeTransport{}
	media := &fakeMedia{}
	encoders := []codec.VideoFormat{{Name: "VP8"}, {Name: "AV1"}}
	decoders := []codec.VideoFormat{{Name: "VP8"}, {Name: "AV1"}}
	m := New(app, net, media, testKey(t), encoders, decoders, DefaultConfig(), nil)
	return m, app, net, media
}

func TestStartSendsVideoFormatsAdvertisement(t *testing.T) {
	m, app, _, _ := newTestManager(t)
	m.Start()
	waitForQueue(m)

	if len(app.signalingEmitted) != 1 {
		t.Fatalf("signalingEmitted len = %d, want 1", len(app.signalingEmitted))
	}
}

func TestReadyStateChangedTransitionsToEstablished(t *testing.T) {
	m, app, net, media := newTestManager(t)
	m.Start()
	waitForQueue(m)

	net.onReady(true)
	waitForQueue(m)

	if !media.connected {
		t.Fatal("media bridge expected connected=true")
	}
	last := app.states[len(app.states)-1]
	if last.call != StateEstablished {
		t.Fatalf("call state = %v, want Established", last.call)
	}
}

func TestReadyStateLossTransitionsToReconnecting(t *testing.T) {
	m, app, net, _ := newTestManager(t)
	m.Start()
	waitForQueue(m)

	net.onReady(true)
	waitForQueue(m)
	net.onReady(false)
	waitForQueue(m)

	last := app.states[len(app.states)-1]
	if last.call != StateReconnecting {
		t.Fatalf("call state = %v, want Reconnecting", last.call)
	}
}

func TestFirstEstablishPromotesOutgoingRequestedToActive(t *testing.T) {
	m, app, net, _ := newTestManager(t)
	m.Start()
	waitForQueue(m)

	m.RequestVideo(nil)
	waitForQueue(m)

	net.onReady(true)
	waitForQueue(m)

	last := app.states[len(app.states)-1]
	if last.video != VideoActive {
		t.Fatalf("video state = %v, want Active", last.video)
	}
}

func TestLocalRequestVideoFromPossibleEmitsRequestVideo(t *testing.T) {
	m, app, _, media := newTestManager(t)
	m.Start()
	waitForQueue(m)
	baseline := len(app.signalingEmitted)

	m.RequestVideo(nil)
	waitForQueue(m)

	if len(app.signalingEmitted) != baseline+1 {
		t.Fatalf("signalingEmitted grew by %d, want 1", len(app.signalingEmitted)-baseline)
	}
	if len(media.sendVideoCalls) != 1 {
		t.Fatalf("sendVideoCalls = %d, want 1", len(media.sendVideoCalls))
	}
}

func TestSetMuteMicrophoneForwardsToMediaBridge(t *testing.T) {
	m, _, _, media := newTestManager(t)
	m.SetMuteMicrophone(true)
	waitForQueue(m)

	if len(media.muteCalls) != 1 || !media.muteCalls[0] {
		t.Fatalf("muteCalls = %v, want [true]", media.muteCalls)
	}
}

func peerSignalingConnection(t *testing.T) *transport.EncryptedConnection {
	t.Helper()
	raw := make([]byte, crypto.EncryptionKeySize)
	for i := range raw {
		raw[i] = byte(i * 3)
	}
	k, err := crypto.NewEncryptionKey(raw, false)
	if err != nil {
		t.Fatalf("NewEncryptionKey: %v", err)
	}
	return transport.New(&k, crypto.RoleSignaling)
}

func TestRemoteVideoIsActiveRoutedToApplication(t *testing.T) {
	sender := peerSignalingConnection(t)
	m, app, _, _ := newTestManager(t)
	m.Start()
	waitForQueue(m)

	packet, err := sender.PrepareForSending(wire.RemoteVideoIsActiveMessage{Active: true})
	if err != nil {
		t.Fatalf("PrepareForSending: %v", err)
	}
	m.ReceiveSignalingData(packet.Bytes)
	waitForQueue(m)

	if len(app.remoteVideoActive) != 1 || !app.remoteVideoActive[0] {
		t.Fatalf("remoteVideoActive = %v, want [true]", app.remoteVideoActive)
	}
}

func TestSendMediaDataSendsOverTransport(t *testing.T) {
	m, _, net, _ := newTestManager(t)
	m.Start()
	waitForQueue(m)

	m.SendMediaData(wire.AudioDataMessage{Payload: []byte{1, 2, 3}})
	waitForQueue(m)

	if len(net.sent) != 1 {
		t.Fatalf("net.sent len = %d, want 1", len(net.sent))
	}
}

func TestNegotiatedFormatsAfterVideoFormatsReceived(t *testing.T) {
	sender := peerSignalingConnection(t)
	m, _, _, media := newTestManager(t)
	m.Start()
	waitForQueue(m)

	peerFormats := []codec.VideoFormat{{Name: "VP8"}, {Name: "H264"}}
	packet, err := sender.PrepareForSending(wire.VideoFormatsMessage{Formats: peerFormats, EncodersCount: 2})
	if err != nil {
		t.Fatalf("PrepareForSending: %v", err)
	}
	m.ReceiveSignalingData(packet.Bytes)
	waitForQueue(m)

	common, _ := m.NegotiatedFormats()
	if len(common) == 0 {
		t.Fatal("expected non-empty negotiated common formats (VP8 overlaps)")
	}
	if len(media.received) == 0 {
		t.Fatal("expected media bridge to receive the VideoFormatsMessage")
	}
}

func TestStopReturnsFinalTelemetryAndClosesMedia(t *testing.T) {
	m, _, _, media := newTestManager(t)
	m.Start()
	waitForQueue(m)

	telemetry := m.Stop()
	if telemetry.FinalState != StateConnecting {
		t.Fatalf("FinalState = %v, want Connecting", telemetry.FinalState)
	}
	if media.connected {
		t.Fatal("media bridge expected connected=false after Stop")
	}
}
