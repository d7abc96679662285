package cookies

import "fmt"

// Format identifies the format of a browser cookie store.
type Format int

const (
	// FormatUnknown means the format could not be detected.
	FormatUnknown Format = iota
	// FormatFirefox is the Firefox moz_cookies SQLite schema.
	FormatFirefox
	// FormatChrome is the Chrome cookies SQLite schema. Only unencrypted
	// values are usable.
	FormatChrome
	// FormatNetscape is the Netscape tab-separated text format.
	FormatNetscape
)

func (f Format) String() string {
	switch f {
	case FormatUnknown:
		return "unknown"
	case FormatFirefox:
		return "firefox"
	case FormatChrome:
		return "chrome"
	case FormatNetscape:
		return "netscape"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Source describes where cookies were imported from.
type Source struct {
	// Path is the cookie store file.
	Path string
	// Format is the detected format.
	Format Format
	// Browser is the browser name, e.g. "Firefox", or the format name for a
	// file given explicitly.
	Browser string
}
