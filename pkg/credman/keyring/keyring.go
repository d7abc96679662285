package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned by GetKey when the keyring holds no key.
var ErrNotFound = keyring.ErrNotFound

// Keyring stores the store key in the operating system keyring.
type Keyring struct {
	AppName  string
	KeyField string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

func NewKeyring() *Keyring {
	return &Keyring{
		AppName:  "warpsession",
		KeyField: "store",
	}
}

// SetKey generates a 32-byte key and stores it hex-encoded.
func (k *Keyring) SetKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := randRead(key); err != nil {
		return nil, err
	}
	err := keyringSet(k.AppName, k.KeyField, hex.EncodeToString(key))
	if err != nil {
		return nil, err
	}
	return key, nil
}

// GetKey returns the decoded key.
func (k *Keyring) GetKey() ([]byte, error) {
	keyHex, err := keyringGet(k.AppName, k.KeyField)
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	return key, nil
}

func (k *Keyring) DeleteKey() error {
	return keyringDelete(k.AppName, k.KeyField)
}
