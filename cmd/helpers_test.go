package cmd

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/warpdl/warpsession/internal/config"
	"github.com/warpdl/warpsession/pkg/credman"
)

// setupEnv points the config directory at a fresh temp dir and clears the
// environment overrides.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.ConfigDirEnv, dir)
	for _, k := range []string{
		config.StoreEnv, config.BackendEnv, config.ProxyEnv,
		config.UserAgentEnv, config.DebugEnv,
		credman.KeyEnv, credman.PassphraseEnv,
	} {
		t.Setenv(k, "")
	}
	return dir
}

// run executes the CLI with args and returns what it wrote.
func run(t *testing.T, input string, args ...string) (out, errOut string, err error) {
	t.Helper()
	var bout, berr bytes.Buffer
	oldOut, oldErr, oldIn := stdout, stderr, stdin
	stdout, stderr, stdin = &bout, &berr, strings.NewReader(input)
	defer func() { stdout, stderr, stdin = oldOut, oldErr, oldIn }()

	err = Execute(append([]string{"warpsession"}, args...), BuildArgs{Version: "test", BuildType: "test"})
	return bout.String(), berr.String(), err
}

// newSite serves /login, which sets a persistent and a session cookie and
// echoes the request body, and /me, which echoes the request cookies and a
// few headers.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s3cret", Path: "/", MaxAge: 3600})
		http.SetCookie(w, &http.Cookie{Name: "tmp", Value: "x", Path: "/"})
		body, _ := io.ReadAll(r.Body)
		fmt.Fprintf(w, "method=%s type=%s body=%s", r.Method, r.Header.Get("Content-Type"), body)
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen", "1")
		fmt.Fprintf(w, "cookie=%s ua=%s test=%s", r.Header.Get("Cookie"), r.UserAgent(), r.Header.Get("X-Test"))
	})
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "hop", Value: "1", Path: "/", MaxAge: 3600})
		http.Redirect(w, r, "/me", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
