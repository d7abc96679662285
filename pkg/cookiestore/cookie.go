package cookiestore

import (
	"net/http"
	"time"
)

// Cookie is a stored cookie.
type Cookie struct {
	// Name is the cookie name.
	Name string
	// Value is the cookie value. SENSITIVE, never log.
	Value string
	// Quoted reports whether the value was sent in double quotes.
	Quoted bool
	// Domain is the lower-case ASCII domain without a leading dot.
	Domain string
	// HostOnly is set when the Set-Cookie header had no Domain attribute;
	// the cookie is then only sent to Domain itself, never to subdomains.
	HostOnly bool
	// Path is the cookie path scope.
	Path string
	// Expires is the expiry time. Zero for session cookies.
	Expires time.Time
	// Secure restricts the cookie to secure schemes.
	Secure bool
	// HttpOnly is stored for completeness; every request made through a
	// session is an HTTP API access.
	HttpOnly bool
	// SameSite is the SameSite attribute as parsed.
	SameSite http.SameSite
	// Creation is the time the cookie was first stored.
	Creation time.Time
	// LastAccess is the last time the cookie was attached to a request.
	LastAccess time.Time

	seq uint64
}

// Persistent reports whether the cookie survives the end of a session.
func (c *Cookie) Persistent() bool {
	return !c.Expires.IsZero()
}

// Expired reports whether the cookie is expired at now.
func (c *Cookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// Pair returns the "name=value" form used in a Cookie header.
func (c *Cookie) Pair() string {
	if c.Quoted {
		return c.Name + `="` + c.Value + `"`
	}
	return c.Name + "=" + c.Value
}

// HTTPCookie converts c into an *http.Cookie.
func (c *Cookie) HTTPCookie() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Quoted:   c.Quoted,
		Path:     c.Path,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
		SameSite: c.SameSite,
	}
	if !c.HostOnly {
		hc.Domain = c.Domain
	}
	return hc
}

func (c *Cookie) key() entryKey {
	return entryKey{domain: c.Domain, path: c.Path, name: c.Name}
}

func (c *Cookie) clone() *Cookie {
	cp := *c
	return &cp
}

// sendable reports whether c should be attached to a request for host/path.
func (c *Cookie) sendable(host, path string, secure bool, now time.Time) bool {
	if c.Expired(now) {
		return false
	}
	if c.Secure && !secure {
		return false
	}
	if c.HostOnly {
		if host != c.Domain {
			return false
		}
	} else if !domainMatch(c.Domain, host) {
		return false
	}
	return pathMatch(c.Path, path)
}

type entryKey struct {
	domain string
	path   string
	name   string
}
