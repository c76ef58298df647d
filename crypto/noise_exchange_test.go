package crypto

import "testing"

// runHandshake drives both sides of a Noise XX exchange to completion
// (three messages: initiator -> responder -> initiator) and returns each
// side's derived EncryptionKey for isOutgoing=true/false respectively.
func runHandshake(t *testing.T) (initiatorKey, responderKey EncryptionKey) {
	t.Helper()

	initiator, err := NewNoiseKeyExchange(Initiator, nil)
	if err != nil {
		t.Fatalf("NewNoiseKeyExchange(initiator): %v", err)
	}
	responder, err := NewNoiseKeyExchange(Responder, nil)
	if err != nil {
		t.Fatalf("NewNoiseKeyExchange(responder): %v", err)
	}

	msg1, _, err := initiator.WriteMessage()
	if err != nil {
		t.Fatalf("initiator.WriteMessage (1): %v", err)
	}
	if _, err := responder.ReadMessage(msg1); err != nil {
		t.Fatalf("responder.ReadMessage (1): %v", err)
	}

	msg2, _, err := responder.WriteMessage()
	if err != nil {
		t.Fatalf("responder.WriteMessage (2): %v", err)
	}
	if _, err := initiator.ReadMessage(msg2); err != nil {
		t.Fatalf("initiator.ReadMessage (2): %v", err)
	}

	msg3, initiatorDone, err := initiator.WriteMessage()
	if err != nil {
		t.Fatalf("initiator.WriteMessage (3): %v", err)
	}
	if !initiatorDone {
		t.Fatal("expected initiator handshake complete after writing final XX message")
	}
	responderDone, err := responder.ReadMessage(msg3)
	if err != nil {
		t.Fatalf("responder.ReadMessage (3): %v", err)
	}
	if !responderDone {
		t.Fatal("expected responder handshake complete after reading final XX message")
	}

	initiatorKey, err = initiator.EncryptionKey(true)
	if err != nil {
		t.Fatalf("initiator.EncryptionKey: %v", err)
	}
	responderKey, err = responder.EncryptionKey(false)
	if err != nil {
		t.Fatalf("responder.EncryptionKey: %v", err)
	}
	return initiatorKey, responderKey
}

func TestNoiseKeyExchangeXXProducesMatchingKeys(t *testing.T) {
	initiatorKey, responderKey := runHandshake(t)

	if initiatorKey.bytes != responderKey.bytes {
		t.Fatal("initiator and responder derived different key tables")
	}
}

func TestNoiseKeyExchangeUsesProvidedStaticKeyPair(t *testing.T) {
	static, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if _, err := NewNoiseKeyExchange(Initiator, static); err != nil {
		t.Fatalf("NewNoiseKeyExchange with explicit static key pair: %v", err)
	}
}

func TestNoiseKeyExchangeWriteMessageAfterCompleteFails(t *testing.T) {
	initiator, err := NewNoiseKeyExchange(Initiator, nil)
	if err != nil {
		t.Fatalf("NewNoiseKeyExchange: %v", err)
	}
	responder, err := NewNoiseKeyExchange(Responder, nil)
	if err != nil {
		t.Fatalf("NewNoiseKeyExchange: %v", err)
	}

	msg1, _, _ := initiator.WriteMessage()
	responder.ReadMessage(msg1)
	msg2, _, _ := responder.WriteMessage()
	initiator.ReadMessage(msg2)
	_, initiatorDone, err := initiator.WriteMessage()
	if err != nil || !initiatorDone {
		t.Fatalf("expected initiator handshake complete, done=%v err=%v", initiatorDone, err)
	}

	if _, _, err := initiator.WriteMessage(); err != ErrHandshakeAlreadyComplete {
		t.Fatalf("WriteMessage after complete = %v, want ErrHandshakeAlreadyComplete", err)
	}
}

func TestNoiseKeyExchangeEncryptionKeyBeforeHandshakeIncomplete(t *testing.T) {
	initiator, err := NewNoiseKeyExchange(Initiator, nil)
	if err != nil {
		t.Fatalf("NewNoiseKeyExchange: %v", err)
	}
	if _, err := initiator.EncryptionKey(true); err != ErrHandshakeIncomplete {
		t.Fatalf("EncryptionKey before handshake complete = %v, want ErrHandshakeIncomplete", err)
	}
}
