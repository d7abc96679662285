package persist

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/warpdl/warpsession/pkg/cookiestore"
	"github.com/warpdl/warpsession/pkg/credman"
	"github.com/warpdl/warpsession/pkg/credman/encryption"
)

const encryptedMagic = "wse1"

// ErrNotEncryptedStore is returned when a file lacks the encrypted store
// header.
var ErrNotEncryptedStore = errors.New("not an encrypted store file")

// EncryptedFile keeps the store as sealed JSON lines. The file starts with a
// magic header and the salt handed to the key function.
type EncryptedFile struct {
	fs      afero.Fs
	path    string
	keyFunc credman.KeyFunc
	salt    []byte
}

// NewEncryptedFile returns an EncryptedFile backend at path on fs.
func NewEncryptedFile(fs afero.Fs, path string, keyFunc credman.KeyFunc) *EncryptedFile {
	return &EncryptedFile{fs: fs, path: path, keyFunc: keyFunc}
}

func (e *EncryptedFile) Load(st *cookiestore.Store) error {
	data, err := afero.ReadFile(e.fs, e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open store: %w", err)
	}
	hdr := len(encryptedMagic) + encryption.SaltSize
	if len(data) < hdr || string(data[:len(encryptedMagic)]) != encryptedMagic {
		return fmt.Errorf("%w: %s", ErrNotEncryptedStore, e.path)
	}
	salt := append([]byte(nil), data[len(encryptedMagic):hdr]...)
	key, err := e.keyFunc(salt)
	if err != nil {
		return fmt.Errorf("store key: %w", err)
	}
	plaintext, err := encryption.Open(data[hdr:], key)
	if err != nil {
		return fmt.Errorf("unseal store %s: %w", e.path, err)
	}
	if _, err := st.LoadJSON(bytes.NewReader(plaintext)); err != nil {
		return fmt.Errorf("read store %s: %w", e.path, err)
	}
	e.salt = salt
	return nil
}

func (e *EncryptedFile) Save(st *cookiestore.Store) error {
	if e.salt == nil {
		salt, err := e.existingSalt()
		if err != nil {
			return err
		}
		if salt == nil {
			if salt, err = encryption.NewSalt(); err != nil {
				return fmt.Errorf("generate salt: %w", err)
			}
		}
		e.salt = salt
	}
	key, err := e.keyFunc(e.salt)
	if err != nil {
		return fmt.Errorf("store key: %w", err)
	}

	var plain bytes.Buffer
	if err := st.SaveJSON(&plain); err != nil {
		return err
	}
	sealed, err := encryption.Seal(plain.Bytes(), key)
	if err != nil {
		return fmt.Errorf("seal store: %w", err)
	}

	out := make([]byte, 0, len(encryptedMagic)+len(e.salt)+len(sealed))
	out = append(out, encryptedMagic...)
	out = append(out, e.salt...)
	out = append(out, sealed...)
	return writeAtomic(e.fs, e.path, out)
}

// existingSalt returns the salt of the file on disk so a passphrase keeps
// deriving the same key, or nil when there is no usable file.
func (e *EncryptedFile) existingSalt() ([]byte, error) {
	data, err := afero.ReadFile(e.fs, e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	hdr := len(encryptedMagic) + encryption.SaltSize
	if len(data) < hdr || string(data[:len(encryptedMagic)]) != encryptedMagic {
		return nil, nil
	}
	return append([]byte(nil), data[len(encryptedMagic):hdr]...), nil
}

func (e *EncryptedFile) Close() error {
	return nil
}
