package cookies

import (
	"bufio"
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/warpdl/warpsession/pkg/cookiestore"
)

// sqliteMagic is the first 16 bytes of any SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// checkFile rejects paths that cannot be a cookie store.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cookie file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a cookie file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("cookie file at %s is empty or corrupted", path)
	}
	return nil
}

// DetectFormat reports the cookie store format of the file at path.
func DetectFormat(path string) (Format, error) {
	if err := checkFile(path); err != nil {
		return FormatUnknown, err
	}
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("cannot open cookie file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	header, err := br.Peek(len(sqliteMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return FormatUnknown, fmt.Errorf("cannot read cookie file: %w", err)
	}
	if bytes.Equal(header, sqliteMagic) {
		return detectSQLiteFormat(path)
	}

	first, _ := br.ReadString('\n')
	first = strings.TrimRight(first, "\r\n")
	if first == cookiestore.NetscapeHeader || first == "# HTTP Cookie File" {
		return FormatNetscape, nil
	}
	return FormatUnknown, fmt.Errorf("unsupported cookie store format at %s", path)
}

// detectSQLiteFormat tells Firefox and Chrome databases apart by their
// cookie table.
func detectSQLiteFormat(path string) (Format, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return FormatUnknown, fmt.Errorf("cannot open SQLite database: %w", err)
	}
	defer db.Close()

	for _, s := range []*schema{firefoxSchema, chromeSchema} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, s.table).Scan(&name)
		if err == nil {
			return s.format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unsupported cookie database schema at %s", path)
}
