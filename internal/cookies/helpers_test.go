package cookies

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

type firefoxRow struct {
	Name       string
	Value      string
	Host       string
	Path       string
	Expiry     int64
	IsSecure   int
	IsHttpOnly int
}

// createFirefoxFixture writes a moz_cookies database into dir.
func createFirefoxFixture(t *testing.T, dir string, rows []firefoxRow) string {
	t.Helper()
	dbPath := filepath.Join(dir, "cookies.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE moz_cookies (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        host TEXT NOT NULL,
        path TEXT NOT NULL DEFAULT '/',
        expiry INTEGER NOT NULL DEFAULT 0,
        isSecure INTEGER NOT NULL DEFAULT 0,
        isHttpOnly INTEGER NOT NULL DEFAULT 0
    )`)
	if err != nil {
		t.Fatalf("failed to create moz_cookies table: %v", err)
	}
	for _, r := range rows {
		_, err = db.Exec(`INSERT INTO moz_cookies (name, value, host, path, expiry, isSecure, isHttpOnly) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.Name, r.Value, r.Host, r.Path, r.Expiry, r.IsSecure, r.IsHttpOnly)
		if err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}
	return dbPath
}

type chromeRow struct {
	Name       string
	Value      string
	HostKey    string
	Path       string
	ExpiresUTC int64
	IsSecure   int
	IsHttpOnly int
}

func unixToChrome(unixSec int64) int64 {
	return (unixSec + chromeEpochOffset) * 1_000_000
}

// createChromeFixture writes a Chrome cookies database into dir.
func createChromeFixture(t *testing.T, dir string, rows []chromeRow) string {
	t.Helper()
	dbPath := filepath.Join(dir, "Cookies")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE cookies (
        creation_utc INTEGER NOT NULL,
        host_key TEXT NOT NULL,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        encrypted_value BLOB NOT NULL DEFAULT x'',
        path TEXT NOT NULL DEFAULT '/',
        expires_utc INTEGER NOT NULL DEFAULT 0,
        is_secure INTEGER NOT NULL DEFAULT 0,
        is_httponly INTEGER NOT NULL DEFAULT 0
    )`)
	if err != nil {
		t.Fatalf("failed to create cookies table: %v", err)
	}
	for _, r := range rows {
		_, err = db.Exec(`INSERT INTO cookies (creation_utc, host_key, name, value, path, expires_utc, is_secure, is_httponly) VALUES (0, ?, ?, ?, ?, ?, ?, ?)`,
			r.HostKey, r.Name, r.Value, r.Path, r.ExpiresUTC, r.IsSecure, r.IsHttpOnly)
		if err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}
	return dbPath
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
