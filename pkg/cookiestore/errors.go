package cookiestore

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned when a Set-Cookie value cannot be parsed.
	ErrMalformed = errors.New("malformed cookie")
	// ErrNoHost is returned when the source URL carries no host.
	ErrNoHost = errors.New("url has no host")
	// ErrEmptyDomain is returned for a Domain attribute that is empty after
	// stripping leading dots (e.g. "Domain=.").
	ErrEmptyDomain = errors.New("empty domain attribute")
	// ErrDomainMismatch is returned when the Domain attribute does not
	// domain-match the host of the source URL.
	ErrDomainMismatch = errors.New("domain attribute does not match host")
	// ErrPublicSuffix is returned when the Domain attribute names a public
	// suffix other than the host itself.
	ErrPublicSuffix = errors.New("domain attribute is a public suffix")
)

// CookieError describes a single cookie the store refused. It carries the
// cookie name and the source host only.
type CookieError struct {
	Name string
	Host string
	Err  error
}

func (e *CookieError) Error() string {
	return fmt.Sprintf("cookie %q from %s: %v", e.Name, e.Host, e.Err)
}

func (e *CookieError) Unwrap() error {
	return e.Err
}
