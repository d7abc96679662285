package cookies

import (
	"fmt"
	"path/filepath"

	"github.com/warpdl/warpsession/pkg/cookiestore"
	"github.com/warpdl/warpsession/pkg/logger"
)

// Import reads the cookies of the store at path. An empty domain imports
// every cookie; otherwise only the cookies relevant to domain are returned.
func Import(path, domain string, log logger.Logger) ([]*cookiestore.Cookie, *Source, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	src := &Source{Path: path, Format: format}

	var cookies []*cookiestore.Cookie
	switch format {
	case FormatFirefox:
		src.Browser = firefoxSchema.name
		cookies, err = importSQLite(path, domain, firefoxSchema)
	case FormatChrome:
		src.Browser = chromeSchema.name
		cookies, err = importSQLite(path, domain, chromeSchema)
	case FormatNetscape:
		src.Browser = "Netscape"
		cookies, err = readNetscape(path, domain, log)
	default:
		return nil, nil, fmt.Errorf("unsupported cookie store format at %s", path)
	}
	if err != nil {
		return nil, nil, err
	}
	log.Info("cookies: read %d cookies from %s store", len(cookies), src.Browser)
	return cookies, src, nil
}

func importSQLite(path, domain string, s *schema) ([]*cookiestore.Cookie, error) {
	dir, cleanup, err := SafeCopy(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return readSQLite(filepath.Join(dir, filepath.Base(path)), domain, s)
}

// Seed adds imported cookies to st, replacing cookies with the same domain,
// path and name, and returns how many were added.
func Seed(st *cookiestore.Store, cookies []*cookiestore.Cookie) int {
	return st.Restore(cookies)
}
