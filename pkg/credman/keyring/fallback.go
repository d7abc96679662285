// Package keyring keeps the key of the encrypted cookie store, either in the
// operating system keyring or, where no keyring service runs, in a key file.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	keyFileName = "session.key"
	keyFileMode = 0600
	keySize     = 32
)

// FileKeyStore keeps the key hex-encoded in a 0600 file inside a
// configuration directory.
type FileKeyStore struct {
	configDir string
}

var (
	fileRandRead = rand.Read
	fileReadFile = os.ReadFile
	fileRemove   = os.Remove
	fileRename   = os.Rename
	fileMkdirAll = os.MkdirAll
	fileTempFile = os.CreateTemp
	fileChmod    = os.Chmod
)

// NewFileKeyStore creates a FileKeyStore rooted at configDir. The directory
// is created on the first SetKey.
func NewFileKeyStore(configDir string) *FileKeyStore {
	return &FileKeyStore{
		configDir: configDir,
	}
}

// Path returns the location of the key file.
func (f *FileKeyStore) Path() string {
	return filepath.Join(f.configDir, keyFileName)
}

// SetKey generates a fresh key, replaces the key file atomically and returns
// the raw key.
func (f *FileKeyStore) SetKey() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := fileRandRead(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if err := f.write(hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

func (f *FileKeyStore) write(keyHex string) error {
	if err := fileMkdirAll(f.configDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmpFile, err := fileTempFile(f.configDir, "."+keyFileName+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.WriteString(keyHex); err != nil {
		tmpFile.Close()
		fileRemove(tmpPath)
		return fmt.Errorf("write key: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fileChmod(tmpPath, keyFileMode); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := fileRename(tmpPath, f.Path()); err != nil {
		fileRemove(tmpPath)
		return fmt.Errorf("rename key file: %w", err)
	}
	return nil
}

// GetKey reads and decodes the key file. A missing file yields an error
// satisfying os.IsNotExist.
func (f *FileKeyStore) GetKey() ([]byte, error) {
	data, err := fileReadFile(f.Path())
	if err != nil {
		return nil, err
	}

	key, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("invalid key length: expected %d, got %d", keySize, len(key))
	}
	return key, nil
}

// DeleteKey removes the key file.
func (f *FileKeyStore) DeleteKey() error {
	return fileRemove(f.Path())
}
