package persist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/warpdl/warpsession/pkg/cookiestore"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cookies (
    domain      TEXT    NOT NULL,
    path        TEXT    NOT NULL,
    name        TEXT    NOT NULL,
    value       TEXT    NOT NULL,
    quoted      INTEGER NOT NULL DEFAULT 0,
    host_only   INTEGER NOT NULL DEFAULT 0,
    expires     INTEGER NOT NULL,
    secure      INTEGER NOT NULL DEFAULT 0,
    http_only   INTEGER NOT NULL DEFAULT 0,
    same_site   TEXT    NOT NULL DEFAULT '',
    creation    INTEGER NOT NULL,
    last_access INTEGER NOT NULL,
    PRIMARY KEY (domain, path, name)
)`

// SQLite keeps the store in a SQLite database with one row per cookie.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open cookie database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create cookie table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(st *cookiestore.Store) error {
	rows, err := s.db.Query(`
        SELECT domain, path, name, value, quoted, host_only, expires,
               secure, http_only, same_site, creation, last_access
        FROM cookies
        WHERE expires > ?
        ORDER BY creation ASC
    `, timeNow().Unix())
	if err != nil {
		return fmt.Errorf("failed to query cookies: %w", err)
	}
	defer rows.Close()

	var cookies []*cookiestore.Cookie
	for rows.Next() {
		var (
			c                                 cookiestore.Cookie
			quoted, hostOnly, secure, httpOnly int
			expires, creation, lastAccess     int64
			sameSite                          string
		)
		if err := rows.Scan(&c.Domain, &c.Path, &c.Name, &c.Value, &quoted, &hostOnly,
			&expires, &secure, &httpOnly, &sameSite, &creation, &lastAccess); err != nil {
			return fmt.Errorf("failed to scan cookie row: %w", err)
		}
		c.Quoted = quoted != 0
		c.HostOnly = hostOnly != 0
		c.Secure = secure != 0
		c.HttpOnly = httpOnly != 0
		c.SameSite = cookiestore.ParseSameSite(sameSite)
		c.Expires = time.Unix(expires, 0).UTC()
		c.Creation = fromNano(creation)
		c.LastAccess = fromNano(lastAccess)
		cookies = append(cookies, &c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate cookie rows: %w", err)
	}
	st.Restore(cookies)
	return nil
}

func (s *SQLite) Save(st *cookiestore.Store) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cookies`); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	stmt, err := tx.Prepare(`
        INSERT INTO cookies (domain, path, name, value, quoted, host_only, expires,
                             secure, http_only, same_site, creation, last_access)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range st.Persistent() {
		_, err := stmt.Exec(c.Domain, c.Path, c.Name, c.Value, boolInt(c.Quoted), boolInt(c.HostOnly),
			c.Expires.Unix(), boolInt(c.Secure), boolInt(c.HttpOnly), cookiestore.SameSiteName(c.SameSite),
			toNano(c.Creation), toNano(c.LastAccess))
		if err != nil {
			return fmt.Errorf("failed to insert cookie %q: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// timeNow is swapped in tests.
var timeNow = time.Now

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
