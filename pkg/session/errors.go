package session

import (
	"errors"
	"fmt"

	"github.com/warpdl/warpsession/pkg/httpclient"
)

var (
	// ErrInvalidURL is returned when the request URL cannot be used.
	ErrInvalidURL = errors.New("invalid request URL")
	// ErrStoreNotPersistable is returned by Load and Save when the session
	// store is not a *cookiestore.Store.
	ErrStoreNotPersistable = errors.New("cookie store does not support persistence")

	// ErrTooManyRedirects is wrapped in a SendError when a chain exceeds
	// the configured hop limit.
	ErrTooManyRedirects = httpclient.ErrTooManyRedirects
	// ErrCrossProtocolRedirect is wrapped in a SendError when a redirect
	// points outside HTTP/HTTPS.
	ErrCrossProtocolRedirect = httpclient.ErrCrossProtocolRedirect
)

// SendError is returned when the client fails to deliver a request or when a
// redirect chain is rejected. It is never retried.
type SendError struct {
	Method string
	// URL is the request URL with any userinfo redacted.
	URL string
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
