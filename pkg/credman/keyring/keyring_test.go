package keyring

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

// fakeKeyring swaps the keyring functions for an in-memory map.
func fakeKeyring(t *testing.T) map[string]string {
	t.Helper()
	origSet, origGet, origDelete := keyringSet, keyringGet, keyringDelete
	t.Cleanup(func() {
		keyringSet, keyringGet, keyringDelete = origSet, origGet, origDelete
	})
	store := make(map[string]string)
	keyringSet = func(app, key, value string) error {
		store[app+"/"+key] = value
		return nil
	}
	keyringGet = func(app, key string) (string, error) {
		v, ok := store[app+"/"+key]
		if !ok {
			return "", ErrNotFound
		}
		return v, nil
	}
	keyringDelete = func(app, key string) error {
		if _, ok := store[app+"/"+key]; !ok {
			return ErrNotFound
		}
		delete(store, app+"/"+key)
		return nil
	}
	return store
}

func TestKeyring_SetGetDelete(t *testing.T) {
	store := fakeKeyring(t)
	kr := NewKeyring()

	if _, err := kr.GetKey(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before SetKey, got %v", err)
	}
	key, err := kr.SetKey()
	if err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(key))
	}
	if store["warpsession/store"] != hex.EncodeToString(key) {
		t.Fatalf("expected hex key under warpsession/store, got %v", store)
	}
	got, err := kr.GetKey()
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if !bytes.Equal(got, key) {
		t.Fatalf("roundtrip failed: set %x, got %x", key, got)
	}
	if err := kr.DeleteKey(); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	if len(store) != 0 {
		t.Fatalf("expected key deleted, got %v", store)
	}
}

func TestKeyring_SetKeyErrors(t *testing.T) {
	fakeKeyring(t)
	origRandRead := randRead
	defer func() { randRead = origRandRead }()

	kr := NewKeyring()
	randRead = func(b []byte) (int, error) { return 0, errors.New("rand fail") }
	if _, err := kr.SetKey(); err == nil {
		t.Fatal("expected rand error")
	}
	randRead = origRandRead

	keyringSet = func(string, string, string) error { return errors.New("set fail") }
	if _, err := kr.SetKey(); err == nil {
		t.Fatal("expected set error")
	}
}

func TestKeyring_GetKeyInvalidHex(t *testing.T) {
	store := fakeKeyring(t)
	store["warpsession/store"] = "not-valid-hex!"
	if _, err := NewKeyring().GetKey(); err == nil {
		t.Fatal("expected error for invalid hex string")
	}
}
