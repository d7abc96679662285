// Package persist stores the persistent cookies of a cookiestore.Store on
// disk. Every backend writes only unexpired cookies that carry an expiry.
package persist

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/afero"

	"github.com/warpdl/warpsession/pkg/cookiestore"
	"github.com/warpdl/warpsession/pkg/credman"
)

// Backend is a durable medium for a cookie store.
type Backend interface {
	// Load restores the stored cookies into st. A backend with nothing
	// stored yet loads no cookies and returns nil.
	Load(st *cookiestore.Store) error
	// Save replaces the stored content with the persistent cookies of st.
	Save(st *cookiestore.Store) error
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindJSON      = "json"
	KindNetscape  = "netscape"
	KindEncrypted = "encrypted"
	KindSQLite    = "sqlite"
	KindBolt      = "bolt"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported kind.
	ErrUnknownBackend = errors.New("unknown store backend")
	// ErrNoKey is returned by Open when the encrypted backend has no key
	// function.
	ErrNoKey = errors.New("encrypted backend needs a key")
)

// osFs is the filesystem used by Open. Tests replace it.
var osFs afero.Fs = afero.NewOsFs()

// Kinds lists the backend kinds accepted by Open.
func Kinds() []string {
	kinds := []string{KindJSON, KindNetscape, KindEncrypted, KindSQLite, KindBolt}
	sort.Strings(kinds)
	return kinds
}

// Open returns the backend of the given kind storing at path. keyFunc is
// only used by the encrypted backend.
func Open(kind, path string, keyFunc credman.KeyFunc) (Backend, error) {
	switch kind {
	case KindJSON, "":
		return NewFile(osFs, path, JSONLines), nil
	case KindNetscape:
		return NewFile(osFs, path, Netscape), nil
	case KindEncrypted:
		if keyFunc == nil {
			return nil, ErrNoKey
		}
		return NewEncryptedFile(osFs, path, keyFunc), nil
	case KindSQLite:
		return NewSQLite(path)
	case KindBolt:
		return NewBolt(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}
