package transport

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/tgcalls-core/crypto"
	"github.com/opd-ai/tgcalls-core/wire"
	"github.com/sirupsen/logrus"
)

// PacketLimit is the maximum size, in bytes, of an encrypted packet
// (16-byte authenticator plus ciphertext) EncryptedConnection will emit.
const PacketLimit = 1400

// MaxIncomingPacketSize and MinIncomingPacketSize bound what
// HandleIncomingPacket accepts before even attempting decryption.
const (
	MaxIncomingPacketSize = 131072
	MinIncomingPacketSize = 21
)

// PreparedPacket is the output of PrepareForSending: the fully encrypted
// bytes ready to hand to a Transport, and the counter consumed producing
// it.
type PreparedPacket struct {
	Bytes   []byte
	Counter uint32
}

// DecryptedPacket is the output of HandleIncomingPacket: the first data
// message in the packet (if any) plus any further data messages
// piggybacked in the same packet. Ack and Empty elements are consumed
// internally and never appear here.
type DecryptedPacket struct {
	Main       wire.Message
	Additional []wire.Message
}

// EncryptedConnection frames Messages into encrypted, authenticated
// datagrams over one logical channel (signaling or transport), driving
// at-least-once delivery for requires-ack messages via in-band ack
// piggybacking and opportunistic whole-queue resend.
//
// A CallManager owns two of these, one per ConnectionRole, sharing a
// single EncryptionKey; the peer holds the same key bytes with the
// opposite IsOutgoing.
// EncryptedConnection is not safe for concurrent use; callers running it
// from multiple goroutines must serialize access themselves (CallManager
// does so via threadbound.Object).
type EncryptedConnection struct {
	key  *crypto.EncryptionKey
	role crypto.ConnectionRole

	counter uint32

	unacked     *unackedQueue
	pendingAcks []uint32
	replay      *replayWindow

	logger *logrus.Entry
}

// New constructs an EncryptedConnection over key for the given role. The
// counter starts at 0; the first prepared packet carries counter 1.
func New(key *crypto.EncryptionKey, role crypto.ConnectionRole) *EncryptedConnection {
	return &EncryptedConnection{
		key:     key,
		role:    role,
		unacked: newUnackedQueue(),
		replay:  newReplayWindow(),
		logger: logrus.WithFields(logrus.Fields{
			"package": "transport",
			"type":    "EncryptedConnection",
			"role":    role.String(),
		}),
	}
}

// PrepareForSending frames message, assigning it the next counter,
// appending as many pending acks and opportunistically resending the
// whole unacked queue as space allows, then encrypts the result.
func (c *EncryptedConnection) PrepareForSending(message wire.Message) (PreparedPacket, error) {
	requiresAck := message.RequiresAck()
	singleMessagePacket := c.unacked.len() == 0 && len(c.pendingAcks) == 0 && !requiresAck

	if requiresAck && c.unacked.len() >= NotAckedMessagesLimit {
		return PreparedPacket{}, ErrTooManyUnacked
	}
	if c.counter == MaxCounter {
		return PreparedPacket{}, ErrCounterExhausted
	}

	c.counter++
	seq := packSeq(c.counter, singleMessagePacket, requiresAck)

	frame, err := wire.EncodeElement(seq, message.Tag(), message, singleMessagePacket)
	if err != nil {
		return PreparedPacket{}, fmt.Errorf("transport: encode message: %w", err)
	}

	plaintextLimit := PacketLimit - crypto.MsgKeySize
	buffer := make([]byte, 0, len(frame))
	buffer = append(buffer, frame...)

	if len(buffer) > plaintextLimit {
		return PreparedPacket{}, ErrPacketTooLarge
	}

	if requiresAck {
		c.unacked.push(seq, frame)
	}

	for len(c.pendingAcks) > 0 {
		ackSeq := c.pendingAcks[0]
		ackFrame, err := wire.EncodeElement(ackSeq, wire.TagAck, nil, false)
		if err != nil {
			return PreparedPacket{}, fmt.Errorf("transport: encode ack: %w", err)
		}
		if !enoughSpaceInPacket(buffer, len(ackFrame)) {
			break
		}
		buffer = append(buffer, ackFrame...)
		c.pendingAcks = c.pendingAcks[1:]
	}

	if resendTotal := c.unacked.totalBytes(); resendTotal > 0 && enoughSpaceInPacket(buffer, resendTotal) {
		for _, f := range c.unacked.frames() {
			buffer = append(buffer, f...)
		}
	}

	encrypted, err := c.encrypt(buffer)
	if err != nil {
		return PreparedPacket{}, err
	}

	c.logger.WithFields(logrus.Fields{
		"function":    "PrepareForSending",
		"counter":     c.counter,
		"tag":         message.Tag().String(),
		"requiresAck": requiresAck,
		"packetBytes": len(encrypted),
	}).Debug("prepared outgoing packet")

	return PreparedPacket{Bytes: encrypted, Counter: c.counter}, nil
}

// HandleIncomingPacket decrypts, authenticates, and walks an incoming
// packet, returning its data messages and applying any ack/replay
// bookkeeping in-band.
func (c *EncryptedConnection) HandleIncomingPacket(raw []byte) (DecryptedPacket, error) {
	if len(raw) < MinIncomingPacketSize || len(raw) > MaxIncomingPacketSize {
		return DecryptedPacket{}, ErrBadSize
	}

	var msgKey [crypto.MsgKeySize]byte
	copy(msgKey[:], raw[:crypto.MsgKeySize])

	aesKey, aesIV := crypto.DeriveAESKeyIV(c.key, c.role, false, msgKey)
	plaintext := make([]byte, len(raw)-crypto.MsgKeySize)
	if err := ctrXOR(aesKey[:], aesIV[:], raw[crypto.MsgKeySize:], plaintext); err != nil {
		return DecryptedPacket{}, fmt.Errorf("transport: decrypt: %w", err)
	}

	expected := crypto.DeriveMsgKey(c.key, c.role, false, plaintext)
	if subtle.ConstantTimeCompare(expected[:], msgKey[:]) != 1 {
		c.logger.Warn("incoming packet failed authentication")
		return DecryptedPacket{}, crypto.ErrAuthFailed
	}

	return c.walkPlaintext(plaintext)
}

// walkPlaintext decodes every framed element in a decrypted packet.
// Only the leading element's seq carries the packet-level RequiresAck
// bit (spec.md §4.1 steps 5-7 run once, before the per-element walk in
// step 8); it is scheduled into pendingAcks at most once here, mirroring
// _examples/original_source/tgcalls/EncryptedConnection.cpp's split
// between handleIncomingPacket (schedules one ack) and processPacket
// (the per-element loop, which never re-schedules).
func (c *EncryptedConnection) walkPlaintext(plaintext []byte) (DecryptedPacket, error) {
	var out DecryptedPacket
	offset := 0
	first := true
	var singleMessagePacket bool
	var leadingSeq uint32
	var leadingRequiresAck bool

	for offset < len(plaintext) {
		if len(plaintext)-offset < 4 {
			return DecryptedPacket{}, ErrBadTrailing
		}
		seq := binary.BigEndian.Uint32(plaintext[offset : offset+4])
		counter, single, requiresAck := unpackSeq(seq)

		if first {
			singleMessagePacket = single
			leadingSeq = seq
			leadingRequiresAck = requiresAck
			if !c.replay.register(counter) {
				return DecryptedPacket{}, ErrAlreadySeenCounter
			}
		}

		_, tag, msg, consumed, err := wire.DecodeElement(plaintext[offset:], singleMessagePacket)
		if err != nil {
			return DecryptedPacket{}, err
		}
		offset += consumed

		if singleMessagePacket && (!first || offset != len(plaintext)) {
			return DecryptedPacket{}, ErrSingleMessageViolation
		}

		switch tag {
		case wire.TagAck:
			c.unacked.ackFirstMatching(seq)
		case wire.TagEmpty:
			// keepalive; no further action.
		default:
			if out.Main == nil {
				out.Main = msg
			} else {
				out.Additional = append(out.Additional, msg)
			}
		}
		first = false
	}

	if leadingRequiresAck {
		c.pendingAcks = append(c.pendingAcks, leadingSeq)
	}

	return out, nil
}

// enoughSpaceInPacket reports whether amount more bytes fit alongside
// buffer in a packet still under PacketLimit once the 16-byte msgKey
// header is accounted for.
func enoughSpaceInPacket(buffer []byte, amount int) bool {
	return amount < PacketLimit && crypto.MsgKeySize+len(buffer)+amount <= PacketLimit
}

func (c *EncryptedConnection) encrypt(plaintext []byte) ([]byte, error) {
	msgKey := crypto.DeriveMsgKey(c.key, c.role, true, plaintext)
	aesKey, aesIV := crypto.DeriveAESKeyIV(c.key, c.role, true, msgKey)

	ciphertext := make([]byte, len(plaintext))
	if err := ctrXOR(aesKey[:], aesIV[:], plaintext, ciphertext); err != nil {
		return nil, err
	}

	out := make([]byte, crypto.MsgKeySize+len(ciphertext))
	copy(out[:crypto.MsgKeySize], msgKey[:])
	copy(out[crypto.MsgKeySize:], ciphertext)
	return out, nil
}

// ctrXOR runs AES-256 in CTR mode over src into dst, which must be the
// same length as src.
func ctrXOR(key, iv, src, dst []byte) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(dst, src)
	return nil
}
