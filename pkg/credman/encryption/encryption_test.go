package encryption

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, KeySize)
	sealed, err := Seal([]byte("hello"), key)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !bytes.HasPrefix(sealed, []byte(gcmPrefix)) {
		t.Fatalf("expected %q prefix, got %x", gcmPrefix, sealed[:4])
	}
	plaintext, err := Open(sealed, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(plaintext) != "hello" {
		t.Fatalf("expected plaintext 'hello', got %q", string(plaintext))
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	key := bytes.Repeat([]byte{0x12}, KeySize)
	a, _ := Seal([]byte("same"), key)
	b, _ := Seal([]byte("same"), key)
	if bytes.Equal(a, b) {
		t.Fatal("expected different ciphertexts for repeated Seal")
	}
}

func TestSealInvalidKey(t *testing.T) {
	if _, err := Seal([]byte("hi"), []byte{0x01}); err == nil {
		t.Fatalf("expected error for invalid key length")
	}
}

func TestOpenErrors(t *testing.T) {
	key := bytes.Repeat([]byte{0x22}, KeySize)
	if _, err := Open([]byte{0x00, 0x01}, key); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := Open([]byte(gcmPrefix+"abc"), key); !errors.Is(err, ErrCiphertextTooShort) {
		t.Errorf("expected ErrCiphertextTooShort, got %v", err)
	}

	sealed, err := Seal([]byte("secret"), key)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := Open(sealed, bytes.Repeat([]byte{0x23}, KeySize)); err == nil {
		t.Error("expected authentication failure with the wrong key")
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := Open(sealed, key); err == nil {
		t.Error("expected authentication failure for tampered data")
	}
}

func TestDeriveKey(t *testing.T) {
	salt := bytes.Repeat([]byte{0x01}, SaltSize)
	k1 := DeriveKey("correct horse", salt)
	k2 := DeriveKey("correct horse", salt)
	if len(k1) != KeySize || !bytes.Equal(k1, k2) {
		t.Fatalf("expected deterministic %d-byte key", KeySize)
	}
	if bytes.Equal(k1, DeriveKey("correct horse", bytes.Repeat([]byte{0x02}, SaltSize))) {
		t.Error("expected a different key for a different salt")
	}
	if bytes.Equal(k1, DeriveKey("battery staple", salt)) {
		t.Error("expected a different key for a different passphrase")
	}
}

func TestNewSalt(t *testing.T) {
	a, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	b, _ := NewSalt()
	if len(a) != SaltSize || bytes.Equal(a, b) {
		t.Errorf("expected distinct %d-byte salts", SaltSize)
	}

	orig := randReader
	defer func() { randReader = orig }()
	randReader = bytes.NewReader(nil)
	if _, err := NewSalt(); err == nil {
		t.Error("expected error when the random source fails")
	}
}
