package session

import (
	"errors"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/net/publicsuffix"

	"github.com/warpdl/warpsession/pkg/cookiestore"
	"github.com/warpdl/warpsession/pkg/httpclient"
	"github.com/warpdl/warpsession/pkg/logger"
)

// Doer sends a request and returns its response. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// CookieStore is the cookie storage a Session drives.
type CookieStore interface {
	// SetCookieString stores one raw Set-Cookie header value received
	// from u. A rejected value is reported as an error and leaves the
	// store unchanged.
	SetCookieString(u *url.URL, setCookie string) error
	// CookieString returns the Cookie header value to send to u, or ""
	// when no cookie applies.
	CookieString(u *url.URL) string
}

// Persister loads and saves a cookie store. persist.Backend satisfies it.
type Persister interface {
	Load(*cookiestore.Store) error
	Save(*cookiestore.Store) error
}

// Session attaches stored cookies to outgoing requests and records the
// cookies set by their responses.
type Session struct {
	client       Doer
	store        CookieStore
	log          logger.Logger
	headers      httpclient.Headers
	maxRedirects int

	// mu guards the cookie read before a request and the cookie update
	// after its response. The round trip itself is not guarded.
	mu sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithStore replaces the default in-memory store.
func WithStore(store CookieStore) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets the logger used to report rejected cookies.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHeaders sets headers added to every request that does not already
// carry them.
func WithHeaders(h httpclient.Headers) Option {
	return func(s *Session) {
		s.headers = append(httpclient.Headers(nil), h...)
	}
}

// WithMaxRedirects sets how many redirect hops the session follows itself.
// Zero or less hands every redirect response back to the caller.
func WithMaxRedirects(n int) Option {
	return func(s *Session) {
		s.maxRedirects = n
	}
}

// New creates a Session sending through client. A nil client uses a
// default http.Client that leaves redirects to the session. A client given
// here should do the same, or cookies set on intermediate hops are lost.
// Without WithStore the session owns a fresh *cookiestore.Store that checks
// the public suffix list.
func New(client Doer, opts ...Option) *Session {
	if client == nil {
		client = &http.Client{CheckRedirect: httpclient.NoFollow}
	}
	s := &Session{
		client:       client,
		log:          logger.NewNopLogger(),
		maxRedirects: httpclient.DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = cookiestore.New(&cookiestore.Options{PublicSuffixList: publicsuffix.List})
	}
	return s
}

// Store returns the cookie store of the session.
func (s *Session) Store() CookieStore {
	return s.store
}

// Load fills the session store from p.
func (s *Session) Load(p Persister) error {
	st, ok := s.store.(*cookiestore.Store)
	if !ok {
		return ErrStoreNotPersistable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return p.Load(st)
}

// Save writes the persistent cookies of the session store to p.
func (s *Session) Save(p Persister) error {
	st, ok := s.store.(*cookiestore.Store)
	if !ok {
		return ErrStoreNotPersistable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return p.Save(st)
}

// Send delivers req with the stored cookies for its URL, records the cookies
// of the response and returns the response untouched. Redirects are followed
// as configured by WithMaxRedirects. Transport failures and rejected
// redirects are returned as *SendError.
func (s *Session) Send(req *http.Request) (*http.Response, error) {
	if req == nil || req.URL == nil || req.URL.Host == "" {
		return nil, ErrInvalidURL
	}
	hops := 0
	for {
		resp, err := s.roundTrip(req)
		if err != nil {
			return nil, err
		}
		next, err := s.nextHop(req, resp, hops)
		if err != nil {
			drainBody(resp)
			return nil, &SendError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
		}
		if next == nil {
			return resp, nil
		}
		drainBody(resp)
		req = next
		hops++
	}
}

// roundTrip performs one hop. req is not modified.
func (s *Session) roundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	s.headers.Fill(out.Header)

	s.mu.Lock()
	cookies := s.store.CookieString(out.URL)
	s.mu.Unlock()
	attachCookies(out.Header, cookies)

	resp, err := s.client.Do(out)
	if err != nil {
		return nil, &SendError{Method: out.Method, URL: out.URL.Redacted(), Err: err}
	}

	src := out.URL
	if resp.Request != nil && resp.Request.URL != nil {
		src = resp.Request.URL
	}
	s.takeCookies(src, resp.Header.Values("Set-Cookie"))
	return resp, nil
}

// attachCookies sets the single Cookie header, after any value the caller
// already put there.
func attachCookies(h http.Header, cookies string) {
	if cookies == "" {
		return
	}
	if existing := h.Get(httpclient.COOKIE_KEY); existing != "" {
		cookies = existing + "; " + cookies
	}
	h.Set(httpclient.COOKIE_KEY, cookies)
}

func (s *Session) takeCookies(src *url.URL, values []string) {
	if len(values) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range values {
		err := s.store.SetCookieString(src, v)
		if err == nil {
			continue
		}
		var ce *cookiestore.CookieError
		if errors.As(err, &ce) {
			s.log.Warning("session: skipping cookie %q from %s: %v", ce.Name, ce.Host, ce.Err)
			continue
		}
		s.log.Warning("session: skipping cookie from %s: %v", src.Host, err)
	}
}
