package cookies

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/warpdl/warpsession/pkg/cookiestore"
)

// chromeEpochOffset is the number of seconds between 1601-01-01 and the
// Unix epoch.
const chromeEpochOffset int64 = 11_644_473_600

// schema describes how to read one browser's cookie table.
type schema struct {
	format Format
	name   string
	table  string
	// query selects name, value, host, path, expiry, secure, httponly for
	// rows expiring after the single bound parameter.
	query   string
	toUnix  func(int64) int64
	unixArg func(int64) int64
}

var firefoxSchema = &schema{
	format: FormatFirefox,
	name:   "Firefox",
	table:  "moz_cookies",
	query: `
        SELECT name, value, host, path, expiry, isSecure, isHttpOnly
        FROM moz_cookies
        WHERE expiry > ?
        ORDER BY path DESC, name ASC`,
	toUnix:  func(v int64) int64 { return v },
	unixArg: func(v int64) int64 { return v },
}

var chromeSchema = &schema{
	format: FormatChrome,
	name:   "Chrome",
	table:  "cookies",
	query: `
        SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly
        FROM cookies
        WHERE value != '' AND expires_utc > ?
        ORDER BY path DESC, name ASC`,
	toUnix:  func(v int64) int64 { return v/1_000_000 - chromeEpochOffset },
	unixArg: func(v int64) int64 { return (v + chromeEpochOffset) * 1_000_000 },
}

// readSQLite reads the unexpired cookies of a copied browser database. An
// empty domain selects every cookie.
func readSQLite(dbPath, domain string, s *schema) ([]*cookiestore.Cookie, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, fmt.Errorf("cannot open %s cookie database: %w", s.name, err)
	}
	defer db.Close()

	rows, err := db.Query(s.query, s.unixArg(timeNow().Unix()))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s cookies: %w", s.name, err)
	}
	defer rows.Close()

	var out []*cookiestore.Cookie
	for rows.Next() {
		var (
			name, value, host, path string
			expiry                  int64
			secure, httpOnly        int
		)
		if err := rows.Scan(&name, &value, &host, &path, &expiry, &secure, &httpOnly); err != nil {
			return nil, fmt.Errorf("failed to scan %s cookie row: %w", s.name, err)
		}
		if !domainSelected(host, domain) {
			continue
		}
		out = append(out, &cookiestore.Cookie{
			Name:     name,
			Value:    value,
			Domain:   strings.ToLower(strings.TrimLeft(host, ".")),
			HostOnly: !strings.HasPrefix(host, "."),
			Path:     path,
			Expires:  time.Unix(s.toUnix(expiry), 0).UTC(),
			Secure:   secure != 0,
			HttpOnly: httpOnly != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s cookie rows: %w", s.name, err)
	}
	return out, nil
}

// domainSelected reports whether a cookie stored for cookieDomain belongs to
// the import filter: cookies of the domain itself, its subdomains and the
// parent domains that would be sent to it.
func domainSelected(cookieDomain, filter string) bool {
	if filter == "" {
		return true
	}
	d := strings.ToLower(strings.TrimLeft(cookieDomain, "."))
	filter = strings.ToLower(strings.TrimLeft(filter, "."))
	return d == filter ||
		strings.HasSuffix(d, "."+filter) ||
		(strings.HasPrefix(cookieDomain, ".") && strings.HasSuffix(filter, "."+d))
}

// timeNow is swapped in tests.
var timeNow = time.Now
