package cookies

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SafeCopy copies a SQLite cookie database, with its -wal and -shm
// companions when present, into a new temporary directory. The caller must
// call cleanup when done.
func SafeCopy(srcPath string) (tempDir string, cleanup func(), err error) {
	if err := checkFile(srcPath); err != nil {
		return "", nil, err
	}
	tempDir, err = os.MkdirTemp("", "warpsession-import-*")
	if err != nil {
		return "", nil, fmt.Errorf("cannot create temp directory: %w", err)
	}
	cleanup = func() { os.RemoveAll(tempDir) }

	base := filepath.Join(tempDir, filepath.Base(srcPath))
	if err := copyFile(srcPath, base); err != nil {
		cleanup()
		return "", nil, err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if _, err := os.Stat(srcPath + suffix); err == nil {
			_ = copyFile(srcPath+suffix, base+suffix)
		}
	}
	return tempDir, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("cannot open source file %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot create destination file %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("cannot copy file: %w", err)
	}
	return out.Close()
}
