// Package credman resolves the key protecting the encrypted cookie store.
package credman

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/warpdl/warpsession/pkg/credman/encryption"
	"github.com/warpdl/warpsession/pkg/credman/keyring"
	"github.com/warpdl/warpsession/pkg/logger"
)

const (
	// KeyEnv holds a hex-encoded 32-byte key.
	KeyEnv = "WARPSESSION_KEY"
	// PassphraseEnv holds a passphrase stretched with argon2id.
	PassphraseEnv = "WARPSESSION_PASSPHRASE"
)

// ErrInvalidKey is returned when KeyEnv is not a hex-encoded 32-byte key.
var ErrInvalidKey = errors.New("invalid store key")

// KeyFunc returns the key for a store file sealed with salt.
type KeyFunc func(salt []byte) ([]byte, error)

// KeySource is a place where a generated key is kept.
type KeySource interface {
	GetKey() ([]byte, error)
	SetKey() ([]byte, error)
}

// Options configures ResolveKey. Zero values select the OS keyring and a
// key file inside ConfigDir.
type Options struct {
	ConfigDir string
	Keyring   KeySource
	Fallback  KeySource
	Log       logger.Logger
}

var getenv = os.Getenv

// ResolveKey returns a KeyFunc that looks for the key in order: KeyEnv,
// PassphraseEnv, the keyring, the key file. A keyring or file without a key
// gets a fresh one.
func ResolveKey(opts Options) KeyFunc {
	kr := opts.Keyring
	if kr == nil {
		kr = keyring.NewKeyring()
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = keyring.NewFileKeyStore(opts.ConfigDir)
	}
	log := opts.Log
	if log == nil {
		log = logger.NewNopLogger()
	}

	return func(salt []byte) ([]byte, error) {
		if keyHex := getenv(KeyEnv); keyHex != "" {
			key, err := hex.DecodeString(keyHex)
			if err != nil || len(key) != encryption.KeySize {
				return nil, fmt.Errorf("%w: %s must be %d hex-encoded bytes", ErrInvalidKey, KeyEnv, encryption.KeySize)
			}
			return key, nil
		}
		if pass := getenv(PassphraseEnv); pass != "" {
			return encryption.DeriveKey(pass, salt), nil
		}

		key, err := getOrCreate(kr, func(err error) bool { return errors.Is(err, keyring.ErrNotFound) })
		if err == nil {
			return key, nil
		}
		log.Warning("credman: keyring unavailable, falling back to key file: %v", err)

		key, err = getOrCreate(fallback, os.IsNotExist)
		if err != nil {
			return nil, fmt.Errorf("key file: %w", err)
		}
		return key, nil
	}
}

// getOrCreate reads the key from src and generates one only when notFound
// reports the read error as a missing key.
func getOrCreate(src KeySource, notFound func(error) bool) ([]byte, error) {
	key, err := src.GetKey()
	if err == nil {
		return key, nil
	}
	if !notFound(err) {
		return nil, err
	}
	return src.SetKey()
}
