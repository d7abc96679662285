package cookies

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/warpdl/warpsession/pkg/cookiestore"
	"github.com/warpdl/warpsession/pkg/logger"
)

func TestImport_Firefox(t *testing.T) {
	future := time.Now().Add(24 * time.Hour).Unix()
	past := time.Now().Add(-time.Hour).Unix()
	path := createFirefoxFixture(t, t.TempDir(), []firefoxRow{
		{"sid", "abc123", ".example.com", "/", future, 1, 1},
		{"host", "h", "www.example.com", "/app", future, 0, 0},
		{"old", "x", ".example.com", "/", past, 0, 0},
		{"other", "y", ".other.com", "/", future, 0, 0},
	})

	got, src, err := Import(path, "example.com", nil)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if src.Format != FormatFirefox || src.Browser != "Firefox" {
		t.Errorf("unexpected source %+v", src)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(got))
	}
	byName := map[string]*cookiestore.Cookie{}
	for _, c := range got {
		byName[c.Name] = c
	}
	sid := byName["sid"]
	if sid == nil || sid.Domain != "example.com" || sid.HostOnly || !sid.Secure || !sid.HttpOnly {
		t.Errorf("unexpected sid cookie %+v", sid)
	}
	if sid != nil && sid.Expires.Unix() != future {
		t.Errorf("expected expiry %d, got %d", future, sid.Expires.Unix())
	}
	host := byName["host"]
	if host == nil || !host.HostOnly || host.Domain != "www.example.com" || host.Path != "/app" {
		t.Errorf("unexpected host-only cookie %+v", host)
	}
}

func TestImport_Chrome(t *testing.T) {
	future := time.Now().Add(24 * time.Hour).Unix()
	path := createChromeFixture(t, t.TempDir(), []chromeRow{
		{"sid", "abc", ".example.com", "/", unixToChrome(future), 1, 0},
		{"enc", "", ".example.com", "/", unixToChrome(future), 0, 0},
		{"old", "x", ".example.com", "/", unixToChrome(time.Now().Add(-time.Hour).Unix()), 0, 0},
	})

	got, src, err := Import(path, "", nil)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if src.Format != FormatChrome {
		t.Errorf("expected chrome format, got %v", src.Format)
	}
	if len(got) != 1 || got[0].Name != "sid" {
		t.Fatalf("expected only the unencrypted unexpired cookie, got %d", len(got))
	}
	if got[0].Expires.Unix() != future {
		t.Errorf("expected expiry %d, got %d", future, got[0].Expires.Unix())
	}
}

func TestImport_Netscape(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	past := time.Now().Add(-time.Hour).Unix()
	content := cookiestore.NetscapeHeader + "\n" +
		"# comment\n" +
		fmt.Sprintf(".example.com\tTRUE\t/\tFALSE\t%d\ta\t1\n", future) +
		fmt.Sprintf("#HttpOnly_www.example.com\tFALSE\t/\tTRUE\t%d\tb\tsecret-b\n", future) +
		fmt.Sprintf(".example.com\tTRUE\t/\tFALSE\t%d\told\tx\n", past) +
		"broken line with secret-value\n" +
		fmt.Sprintf(".other.com\tTRUE\t/\tFALSE\t%d\tc\t3\n", future) +
		".example.com\tTRUE\t/\tFALSE\t0\tsess\t4\n"
	path := writeFile(t, filepath.Join(t.TempDir(), "cookies.txt"), content)

	log := logger.NewMockLogger()
	got, src, err := Import(path, "www.example.com", log)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if src.Format != FormatNetscape {
		t.Errorf("expected netscape format, got %v", src.Format)
	}
	var names []string
	for _, c := range got {
		names = append(names, c.Name)
	}
	if strings.Join(names, ",") != "a,b,sess" {
		t.Errorf("expected a,b,sess, got %v", names)
	}
	warnings := log.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if strings.Contains(warnings[0], "secret-value") {
		t.Error("warning must not contain line content")
	}
}

func TestImport_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := Import(filepath.Join(dir, "missing"), "", nil); err == nil {
		t.Error("expected error for missing file")
	}
	if _, _, err := Import(dir, "", nil); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("expected directory error, got %v", err)
	}
	empty := writeFile(t, filepath.Join(dir, "empty"), "")
	if _, _, err := Import(empty, "", nil); err == nil {
		t.Error("expected error for empty file")
	}
	junk := writeFile(t, filepath.Join(dir, "junk"), "hello\n")
	if _, _, err := Import(junk, "", nil); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func TestSeed(t *testing.T) {
	future := time.Now().Add(time.Hour)
	st := cookiestore.New(nil)
	n := Seed(st, []*cookiestore.Cookie{
		{Name: "a", Value: "1", Domain: "example.com", Path: "/", Expires: future},
		{Name: "b", Value: "2", Domain: "www.example.com", HostOnly: true, Path: "/"},
	})
	if n != 2 {
		t.Fatalf("expected 2 seeded, got %d", n)
	}
	u, _ := url.Parse("http://www.example.com/")
	if got := st.CookieString(u); got != "a=1; b=2" && got != "b=2; a=1" {
		t.Errorf("unexpected cookie header %q", got)
	}
	u, _ = url.Parse("http://api.example.com/")
	if got := st.CookieString(u); got != "a=1" {
		t.Errorf("expected only domain cookie on sibling host, got %q", got)
	}
}

func TestDomainSelected(t *testing.T) {
	tests := []struct {
		cookie, filter string
		want           bool
	}{
		{"example.com", "", true},
		{"example.com", "example.com", true},
		{".example.com", "example.com", true},
		{"www.example.com", "example.com", true},
		{".example.com", "www.example.com", true},
		{"example.com", "www.example.com", false},
		{"notexample.com", "example.com", false},
		{".other.com", "example.com", false},
	}
	for _, tt := range tests {
		if got := domainSelected(tt.cookie, tt.filter); got != tt.want {
			t.Errorf("domainSelected(%q, %q) = %v, want %v", tt.cookie, tt.filter, got, tt.want)
		}
	}
}

func TestFormat_String(t *testing.T) {
	if FormatFirefox.String() != "firefox" || Format(42).String() != "Format(42)" {
		t.Error("unexpected Format names")
	}
}
