package crypto

import (
	"crypto/sha256"

	"github.com/sirupsen/logrus"
)

// MsgKeySize is the width of the authenticator prepended to every
// EncryptedConnection packet.
const MsgKeySize = 16

// AESKeySize and AESIVSize are the AES-256-CTR key and IV widths produced
// by the KDF2 derivation in directionOffset/DeriveAESKeyIV.
const (
	AESKeySize = 32
	AESIVSize  = 16
)

// directionOffset computes the "x" value from the key-derivation
// pseudocode: it selects which 128-byte half of the key table (by role)
// and which 8-byte sub-offset (by direction) a derivation uses.
//
// sending reflects which side of this call is doing the work right now
// (true when framing an outgoing packet, false when authenticating an
// incoming one); key.IsOutgoing reflects which peer this EncryptionKey
// belongs to. The receive-side offset is always the send-side offset XOR 8,
// matching the two peers' mirrored views of the same shared key.
func directionOffset(key *EncryptionKey, role ConnectionRole, sending bool) int {
	x := 0
	outgoingBit := key.IsOutgoing
	if !sending {
		outgoingBit = !outgoingBit
	}
	if !outgoingBit {
		x += 8
	}
	if role == RoleSignaling {
		x += 128
	}
	return x
}

// DeriveMsgKey computes msgKeyLarge = SHA256(key[88+x .. 88+x+32) ‖
// plaintext) and returns its middle 16 bytes, the authenticator that is
// both prepended to outgoing ciphertext and recomputed to verify incoming
// ciphertext.
func DeriveMsgKey(key *EncryptionKey, role ConnectionRole, sending bool, plaintext []byte) [MsgKeySize]byte {
	x := directionOffset(key, role, sending)

	h := sha256.New()
	h.Write(key.slice(88+x, 32))
	h.Write(plaintext)
	large := h.Sum(nil)

	var msgKey [MsgKeySize]byte
	copy(msgKey[:], large[8:24])

	logrus.WithFields(logrus.Fields{
		"package":  "crypto",
		"function": "DeriveMsgKey",
		"role":     role.String(),
		"sending":  sending,
	}).WithFields(SecureFieldHash(msgKey[:], "msgkey")).Debug("derived message authenticator")

	return msgKey
}

// DeriveAESKeyIV implements the KDF2 construction from the key-derivation
// pseudocode: two overlapping SHA-256 digests of key material and the
// msgKey are interleaved to produce the AES-256-CTR key and IV.
//
// The aesIv construction in the source pseudocode specifies a 16-byte
// result but lists three 8-byte concatenated slices (24 bytes); since
// AES-CTR requires exactly a 16-byte IV and the declared size is
// authoritative, the third slice (sB[24:32)) is not used.
func DeriveAESKeyIV(key *EncryptionKey, role ConnectionRole, sending bool, msgKey [MsgKeySize]byte) (aesKey [AESKeySize]byte, aesIV [AESIVSize]byte) {
	x := directionOffset(key, role, sending)

	ha := sha256.New()
	ha.Write(msgKey[:])
	ha.Write(key.slice(x, 36))
	sA := ha.Sum(nil)

	hb := sha256.New()
	hb.Write(key.slice(x+40, 36))
	hb.Write(msgKey[:])
	sB := hb.Sum(nil)

	copy(aesKey[0:8], sA[0:8])
	copy(aesKey[8:24], sB[8:24])
	copy(aesKey[24:32], sA[24:32])

	copy(aesIV[0:8], sB[0:8])
	copy(aesIV[8:16], sA[8:16])

	return aesKey, aesIV
}
