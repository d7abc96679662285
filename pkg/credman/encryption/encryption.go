// Package encryption seals cookie store files with AES-256-GCM.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	gcmPrefix = "gcm1"

	// KeySize is the AES-256 key length.
	KeySize = 32
	// SaltSize is the length of salts produced by NewSalt.
	SaltSize = 16
)

// argon2id parameters used by DeriveKey.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var (
	// ErrCiphertextTooShort is returned when the input cannot hold a nonce.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	// ErrUnknownFormat is returned when the input lacks the sealed prefix.
	ErrUnknownFormat = errors.New("unknown ciphertext format")

	randReader io.Reader = rand.Reader
)

// Seal encrypts plaintext with key. The output is the format prefix, a random
// nonce and the GCM ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	out := make([]byte, 0, len(gcmPrefix)+len(nonce)+len(ciphertext))
	out = append(out, gcmPrefix...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// Open decrypts data produced by Seal.
func Open(ciphertext, key []byte) ([]byte, error) {
	if len(ciphertext) < len(gcmPrefix) || string(ciphertext[:len(gcmPrefix)]) != gcmPrefix {
		return nil, ErrUnknownFormat
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < len(gcmPrefix)+nonceSize {
		return nil, ErrCiphertextTooShort
	}
	nonce := ciphertext[len(gcmPrefix) : len(gcmPrefix)+nonceSize]
	data := ciphertext[len(gcmPrefix)+nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, data, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

// DeriveKey stretches a passphrase into a KeySize key with argon2id.
func DeriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, KeySize)
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
