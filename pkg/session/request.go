package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// PrepareFunc adjusts a request before it is sent. It may return the same
// request or a replacement.
type PrepareFunc func(*http.Request) (*http.Request, error)

// Do builds a minimal request for method and rawURL, applies prepare (which
// may be nil) and sends it with Send.
func (s *Session) Do(ctx context.Context, method, rawURL string, prepare PrepareFunc) (*http.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, u.Redacted())
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if prepare != nil {
		req, err = prepare(req)
		if err != nil {
			return nil, fmt.Errorf("prepare %s request: %w", method, err)
		}
		if req == nil {
			return nil, fmt.Errorf("prepare %s request: returned nil request", method)
		}
	}
	return s.Send(req)
}

// GetWith sends a GET request to rawURL.
func (s *Session) GetWith(ctx context.Context, rawURL string, prepare PrepareFunc) (*http.Response, error) {
	return s.Do(ctx, http.MethodGet, rawURL, prepare)
}

// HeadWith sends a HEAD request to rawURL.
func (s *Session) HeadWith(ctx context.Context, rawURL string, prepare PrepareFunc) (*http.Response, error) {
	return s.Do(ctx, http.MethodHead, rawURL, prepare)
}

// DeleteWith sends a DELETE request to rawURL.
func (s *Session) DeleteWith(ctx context.Context, rawURL string, prepare PrepareFunc) (*http.Response, error) {
	return s.Do(ctx, http.MethodDelete, rawURL, prepare)
}

// PostWith sends a POST request to rawURL.
func (s *Session) PostWith(ctx context.Context, rawURL string, prepare PrepareFunc) (*http.Response, error) {
	return s.Do(ctx, http.MethodPost, rawURL, prepare)
}

// PutWith sends a PUT request to rawURL.
func (s *Session) PutWith(ctx context.Context, rawURL string, prepare PrepareFunc) (*http.Response, error) {
	return s.Do(ctx, http.MethodPut, rawURL, prepare)
}

// PatchWith sends a PATCH request to rawURL.
func (s *Session) PatchWith(ctx context.Context, rawURL string, prepare PrepareFunc) (*http.Response, error) {
	return s.Do(ctx, http.MethodPatch, rawURL, prepare)
}

// WithHeader returns a PrepareFunc that sets one header.
func WithHeader(key, value string) PrepareFunc {
	return func(req *http.Request) (*http.Request, error) {
		req.Header.Set(key, value)
		return req, nil
	}
}

// WithBody returns a PrepareFunc that sets a replayable body and its
// Content-Type. An empty contentType leaves the header alone.
func WithBody(contentType string, body []byte) PrepareFunc {
	return func(req *http.Request) (*http.Request, error) {
		req.ContentLength = int64(len(body))
		if len(body) == 0 {
			req.Body = http.NoBody
			req.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
		} else {
			req.GetBody = func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(body)), nil
			}
			req.Body, _ = req.GetBody()
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		return req, nil
	}
}

// Chain applies fns in order. Nil entries are skipped.
func Chain(fns ...PrepareFunc) PrepareFunc {
	return func(req *http.Request) (*http.Request, error) {
		var err error
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			req, err = fn(req)
			if err != nil {
				return nil, err
			}
		}
		return req, nil
	}
}
