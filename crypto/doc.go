// Package crypto implements the cryptographic primitives an
// EncryptedConnection needs: the 256-byte EncryptionKey, KDF2 key
// derivation, and a swappable out-of-band key-exchange collaborator.
//
// # Key material
//
// Both peers on a call derive identical EncryptionKey bytes out of band —
// [NoiseKeyExchange] is this module's concrete implementation of that
// exchange, but EncryptedConnection never imports it directly; it only
// ever sees an [EncryptionKey] value.
//
//	ex, _ := crypto.NewNoiseKeyExchange(crypto.Initiator, nil)
//	msg1, _, _ := ex.WriteMessage()
//	// ... send msg1 to peer, receive its reply msg2 ...
//	_, _ = ex.ReadMessage(msg2)
//	msg3, done, _ := ex.WriteMessage()
//	// ... send msg3 to peer ...
//	if done {
//	    key, _ := ex.EncryptionKey(true)
//	}
//
// NewNoiseKeyExchange runs the Noise XX pattern, so both sides present a
// [KeyPair] ([GenerateKeyPair] mints one if the caller has none yet) as
// part of the handshake; passing nil generates an ephemeral one.
//
// # Key derivation
//
// [DeriveMsgKey] and [DeriveAESKeyIV] implement the KDF2 construction: a
// per-direction offset into the 256-byte key table selects which 8-byte
// sub-range two overlapping SHA-256 digests draw from, and their output is
// interleaved to produce the AES-256-CTR key and IV used to encrypt one
// packet's plaintext.
//
// # Secure memory handling
//
// Sensitive byte slices should be wiped with [ZeroBytes] once no longer
// needed; [EncryptionKey.Wipe] does this for key material.
package crypto
