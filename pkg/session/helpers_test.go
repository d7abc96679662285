package session

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/warpdl/warpsession/pkg/cookiestore"
)

// handlerDoer serves every request, whatever its host, with handler.
type handlerDoer struct {
	handler http.Handler
	err     error
	calls   atomic.Int32
}

func (d *handlerDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	rec := httptest.NewRecorder()
	d.handler.ServeHTTP(rec, req)
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

type seenRequest struct {
	Method string
	URL    string
	Cookie string
	Header http.Header
	Body   string
}

// router dispatches on host+path and records what each request carried.
type router struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	seen   []seenRequest
}

func newRouter() *router {
	return &router{routes: make(map[string]http.HandlerFunc)}
}

func (rt *router) handle(hostPath string, fn http.HandlerFunc) {
	rt.routes[hostPath] = fn
}

func (rt *router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body string
	if r.Body != nil {
		var buf bytes.Buffer
		buf.ReadFrom(r.Body)
		body = buf.String()
	}
	rt.mu.Lock()
	rt.seen = append(rt.seen, seenRequest{
		Method: r.Method,
		URL:    r.URL.String(),
		Cookie: r.Header.Get("Cookie"),
		Header: r.Header.Clone(),
		Body:   body,
	})
	path := r.URL.Path
	if path == "" {
		path = "/"
	}
	fn := rt.routes[r.URL.Host+path]
	rt.mu.Unlock()
	if fn == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	fn(w, r)
}

func (rt *router) last(t *testing.T) seenRequest {
	t.Helper()
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if len(rt.seen) == 0 {
		t.Fatal("no request recorded")
	}
	return rt.seen[len(rt.seen)-1]
}

func (rt *router) all() []seenRequest {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]seenRequest(nil), rt.seen...)
}

func setCookies(values ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, v := range values {
			w.Header().Add("Set-Cookie", v)
		}
		w.WriteHeader(http.StatusOK)
	}
}

// cookieNames parses a Cookie header into name -> value.
func cookieNames(header string) map[string]string {
	out := make(map[string]string)
	if header == "" {
		return out
	}
	for _, part := range strings.Split(header, "; ") {
		name, value, _ := strings.Cut(part, "=")
		out[name] = value
	}
	return out
}

// memPersister keeps the JSON lines form of a store in memory.
type memPersister struct {
	buf bytes.Buffer
}

func (m *memPersister) Save(st *cookiestore.Store) error {
	m.buf.Reset()
	return st.SaveJSON(&m.buf)
}

func (m *memPersister) Load(st *cookiestore.Store) error {
	_, err := st.LoadJSON(bytes.NewReader(m.buf.Bytes()))
	return err
}
