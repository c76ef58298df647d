// Package transport: reference UDP implementation of the Transport
// collaborator interface. A production host will typically replace this
// with an ICE-backed transport; UDPTransport exists so the protocol layer
// above it can be exercised and tested end to end without one.
package transport

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// UDPTransport is a minimal point-to-point Transport over a connected UDP
// socket. It performs no NAT traversal, ICE, or congestion control — those
// are the concerns the specification places outside this module.
type UDPTransport struct {
	conn   *net.UDPConn
	mu     sync.RWMutex
	onRecv func(packet []byte)
	onReady func(ready bool)
	ctx    context.Context
	cancel context.CancelFunc
	logger *logrus.Entry
}

// NewUDPTransport dials remoteAddr from a UDP socket bound to localAddr
// (empty for an ephemeral port) and starts its receive loop. It reports
// readiness true as soon as the socket is open, since a connected UDP
// socket has no handshake of its own.
func NewUDPTransport(localAddr, remoteAddr string) (*UDPTransport, error) {
	laddr, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, err
	}
	raddr, err := net.ResolveUDPAddr("udp", remoteAddr)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialUDP("udp", laddr, raddr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &UDPTransport{
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		logger: logrus.WithFields(logrus.Fields{
			"package": "transport",
			"type":    "udp",
		}),
	}

	go t.receiveLoop()
	return t, nil
}

// Send implements Transport.
func (t *UDPTransport) Send(packet []byte) error {
	_, err := t.conn.Write(packet)
	return err
}

// Receive implements Transport.
func (t *UDPTransport) Receive(handler func(packet []byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRecv = handler
}

// ReadyStateChanged implements Transport. UDPTransport reports ready
// immediately, on the goroutine that called NewUDPTransport's caller
// registers this callback, since the socket is already open.
func (t *UDPTransport) ReadyStateChanged(onReady func(ready bool)) {
	t.mu.Lock()
	t.onReady = onReady
	t.mu.Unlock()
	onReady(true)
}

// Close implements Transport.
func (t *UDPTransport) Close() error {
	t.cancel()
	err := t.conn.Close()

	t.mu.RLock()
	onReady := t.onReady
	t.mu.RUnlock()
	if onReady != nil {
		onReady(false)
	}
	return err
}

func (t *UDPTransport) receiveLoop() {
	buffer := make([]byte, 65536)
	for {
		select {
		case <-t.ctx.Done():
			return
		default:
		}

		_ = t.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, err := t.conn.Read(buffer)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			if t.ctx.Err() != nil {
				return
			}
			t.logger.WithField("error", err.Error()).Warn("udp read error")
			continue
		}

		packet := make([]byte, n)
		copy(packet, buffer[:n])

		t.mu.RLock()
		handler := t.onRecv
		t.mu.RUnlock()
		if handler != nil {
			handler(packet)
		}
	}
}
