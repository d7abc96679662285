package persist

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/warpdl/warpsession/pkg/cookiestore"
)

// Codec selects the text format of a File backend.
type Codec int

const (
	// JSONLines writes one JSON object per cookie.
	JSONLines Codec = iota
	// Netscape writes the tab-separated Netscape cookie file format.
	Netscape
)

func (c Codec) String() string {
	switch c {
	case JSONLines:
		return "jsonl"
	case Netscape:
		return "netscape"
	default:
		return fmt.Sprintf("Codec(%d)", int(c))
	}
}

func (c Codec) save(st *cookiestore.Store, w io.Writer) error {
	if c == Netscape {
		return st.SaveNetscape(w)
	}
	return st.SaveJSON(w)
}

func (c Codec) load(st *cookiestore.Store, r io.Reader) error {
	var err error
	if c == Netscape {
		_, err = st.LoadNetscape(r)
	} else {
		_, err = st.LoadJSON(r)
	}
	return err
}

const storeFileMode = 0600

// File keeps the store in a plain text file.
type File struct {
	fs    afero.Fs
	path  string
	codec Codec
}

// NewFile returns a File backend at path on fs.
func NewFile(fs afero.Fs, path string, codec Codec) *File {
	return &File{fs: fs, path: path, codec: codec}
}

func (f *File) Load(st *cookiestore.Store) error {
	file, err := f.fs.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open store: %w", err)
	}
	defer file.Close()
	if err := f.codec.load(st, file); err != nil {
		return fmt.Errorf("read store %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Save(st *cookiestore.Store) error {
	var buf bytes.Buffer
	if err := f.codec.save(st, &buf); err != nil {
		return err
	}
	return writeAtomic(f.fs, f.path, buf.Bytes())
}

func (f *File) Close() error {
	return nil
}

// writeAtomic replaces path with data through a temporary file and a rename.
func writeAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpPath)
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fs.Chmod(tmpPath, storeFileMode); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("rename store file: %w", err)
	}
	return nil
}
