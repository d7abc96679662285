package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const (
	// DefaultMaxRedirects is the maximum number of redirect hops allowed.
	// Matches Go's default http.Client behavior.
	DefaultMaxRedirects = 10
)

var (
	// ErrTooManyRedirects is returned when a redirect chain exceeds the configured max hops.
	ErrTooManyRedirects = errors.New("redirect loop detected")

	// ErrCrossProtocolRedirect is returned when a redirect leaves HTTP/HTTPS.
	ErrCrossProtocolRedirect = errors.New("cross-protocol redirect not supported")
)

// IsHTTPScheme returns true if the scheme is http or https.
func IsHTTPScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

// IsCrossOrigin returns true if two URLs have different hosts.
// Host includes port if specified (e.g., "example.com:8080").
func IsCrossOrigin(a, b *url.URL) bool {
	return a.Host != b.Host
}

// IsRedirect reports whether code is one of the redirect status codes a
// client follows.
func IsRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// RedirectPolicy returns a CheckRedirect function that:
// 1. Enforces a maximum number of redirect hops
// 2. Rejects cross-protocol redirects (HTTP/HTTPS -> non-HTTP)
// 3. Strips sensitive/custom headers on cross-origin redirects
//
// It is only installed when the client follows redirects itself.
func RedirectPolicy(maxRedirects int) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			lastURL := via[len(via)-1].URL.String()
			return fmt.Errorf("%w: exceeded %d hops (last URL: %s)",
				ErrTooManyRedirects, maxRedirects, lastURL)
		}

		if len(via) > 0 {
			prev := via[len(via)-1]

			if IsHTTPScheme(prev.URL.Scheme) && !IsHTTPScheme(req.URL.Scheme) {
				return fmt.Errorf("%w: %s -> %s",
					ErrCrossProtocolRedirect, prev.URL.Scheme, req.URL.Scheme)
			}

			if IsCrossOrigin(prev.URL, req.URL) {
				StripUnsafeHeaders(req.Header)
			}
		}

		return nil
	}
}

// safeHeaders are headers that are preserved on cross-origin redirects.
var safeHeaders = map[string]bool{
	"User-Agent":      true,
	"Accept":          true,
	"Accept-Language": true,
	"Accept-Encoding": true,
	"Range":           true,
}

// StripUnsafeHeaders removes all non-safe headers from h. The Cookie header
// goes too; cookies for the new origin come from the store.
func StripUnsafeHeaders(h http.Header) {
	for key := range h {
		if !safeHeaders[http.CanonicalHeaderKey(key)] {
			h.Del(key)
		}
	}
}
