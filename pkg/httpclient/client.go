package httpclient

import (
	"net/http"
	"time"
)

// Options configures NewClient.
type Options struct {
	// Proxy is an http, https or socks5 proxy URL. Empty falls back to
	// the proxy environment variables.
	Proxy string
	// Timeout bounds a whole exchange. Zero means no timeout.
	Timeout time.Duration
	// FollowRedirects lets the client follow redirects itself under
	// RedirectPolicy. Off by default so the caller sees every hop.
	FollowRedirects bool
	// MaxRedirects applies when FollowRedirects is set. Zero means
	// DefaultMaxRedirects.
	MaxRedirects int
}

// NewClient creates an HTTP client from opts.
func NewClient(opts Options) (*http.Client, error) {
	transport, err := newTransport(opts.Proxy)
	if err != nil {
		return nil, err
	}
	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}
	if opts.FollowRedirects {
		maxHops := opts.MaxRedirects
		if maxHops <= 0 {
			maxHops = DefaultMaxRedirects
		}
		client.CheckRedirect = RedirectPolicy(maxHops)
	} else {
		client.CheckRedirect = NoFollow
	}
	return client, nil
}

// NoFollow is a CheckRedirect that hands every redirect response back to
// the caller.
func NoFollow(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}
