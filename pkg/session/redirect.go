package session

import (
	"fmt"
	"io"
	"net/http"

	"github.com/warpdl/warpsession/pkg/httpclient"
)

// maxBodySlurpSize is how much of a redirect body is read so the
// connection can be reused.
const maxBodySlurpSize = 2 << 10

// nextHop returns the request for the redirect described by resp, or nil when
// resp is final. req is the request that produced resp, before cookies were
// attached.
func (s *Session) nextHop(req *http.Request, resp *http.Response, hops int) (*http.Request, error) {
	if s.maxRedirects <= 0 || !httpclient.IsRedirect(resp.StatusCode) {
		return nil, nil
	}
	loc := resp.Header.Get("Location")
	if loc == "" {
		return nil, nil
	}
	target, err := req.URL.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Location header %q: %w", loc, err)
	}
	if hops >= s.maxRedirects {
		return nil, fmt.Errorf("%w: exceeded %d hops (last URL: %s)",
			ErrTooManyRedirects, s.maxRedirects, req.URL.Redacted())
	}
	if httpclient.IsHTTPScheme(req.URL.Scheme) && !httpclient.IsHTTPScheme(target.Scheme) {
		return nil, fmt.Errorf("%w: %s -> %s",
			ErrCrossProtocolRedirect, req.URL.Scheme, target.Scheme)
	}

	method := req.Method
	keepBody := false
	switch resp.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther:
		if method != http.MethodGet && method != http.MethodHead {
			method = http.MethodGet
		}
	case http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		if hasBody(req) {
			if req.GetBody == nil {
				// The body was consumed and cannot be replayed.
				return nil, nil
			}
			keepBody = true
		}
	}

	next, err := http.NewRequestWithContext(req.Context(), method, target.String(), nil)
	if err != nil {
		return nil, err
	}
	next.Header = req.Header.Clone()
	if next.Header == nil {
		next.Header = make(http.Header)
	}
	if keepBody {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		next.Body = body
		next.GetBody = req.GetBody
		next.ContentLength = req.ContentLength
	} else {
		next.Header.Del("Content-Type")
		next.Header.Del("Content-Length")
	}
	if httpclient.IsCrossOrigin(req.URL, target) {
		httpclient.StripUnsafeHeaders(next.Header)
	}
	return next, nil
}

func hasBody(req *http.Request) bool {
	return req.Body != nil && req.Body != http.NoBody
}

func drainBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	io.CopyN(io.Discard, resp.Body, maxBodySlurpSize)
	resp.Body.Close()
}
