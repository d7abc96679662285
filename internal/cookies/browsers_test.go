package cookies

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/warpdl/warpsession/pkg/logger"
)

func TestParseProfilesIni(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "install section wins",
			content: "[Install1234ABCD]\nDefault=Profiles/abcd.default\n\n" +
				"[Profile0]\nPath=Profiles/other\nDefault=1\n",
			want: "Profiles/abcd.default",
		},
		{
			name: "profile marked default",
			content: "[Profile0]\nPath=Profiles/aaaa.other\n\n" +
				"[Profile1]\nPath=Profiles/bbbb.default\nDefault=1\n",
			want: "Profiles/bbbb.default",
		},
		{
			name:    "last section flushed",
			content: "[General]\nStartWithLastProfile=1\n[Profile0]\nDefault=1\nPath=p0\n",
			want:    "p0",
		},
		{
			name:    "no default",
			content: "[Profile0]\nPath=p0\n",
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			ini := writeFile(t, filepath.Join(dir, "profiles.ini"), tt.content)
			want := ""
			if tt.want != "" {
				want = filepath.Join(dir, filepath.FromSlash(tt.want))
			}
			if got := parseProfilesIni(ini); got != want {
				t.Errorf("want %q, got %q", want, got)
			}
		})
	}
	if got := parseProfilesIni(filepath.Join(t.TempDir(), "missing.ini")); got != "" {
		t.Errorf("expected empty for missing file, got %q", got)
	}
}

func TestDetectWithSpecs_FirefoxProfile(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "Profiles", "x.default")
	if err := os.MkdirAll(profile, 0755); err != nil {
		t.Fatal(err)
	}
	createFirefoxFixture(t, profile, []firefoxRow{
		{"sid", "v", ".example.com", "/", time.Now().Add(time.Hour).Unix(), 0, 0},
	})
	ini := writeFile(t, filepath.Join(dir, "profiles.ini"), "[Profile0]\nPath=Profiles/x.default\nDefault=1\n")

	browsers := []browserPaths{
		{Name: "Chrome", CookiePaths: chromiumCookies(filepath.Join(dir, "nochrome"))},
		{Name: "LibreWolf", ProfileInis: []string{ini}},
	}
	got, src, err := detectFrom("example.com", browsers, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if src.Browser != "LibreWolf" || len(got) != 1 {
		t.Errorf("expected 1 cookie from LibreWolf, got %d from %s", len(got), src.Browser)
	}
}

func TestDetectWithSpecs_SkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, filepath.Join(dir, "bad", "Cookies"), "not a database")
	good := createChromeFixture(t, dir, []chromeRow{
		{"a", "1", ".example.com", "/", unixToChrome(time.Now().Add(time.Hour).Unix()), 0, 0},
	})
	log := logger.NewMockLogger()
	browsers := []browserPaths{
		{Name: "Edge", CookiePaths: []string{bad}},
		{Name: "Brave", CookiePaths: []string{good}},
	}
	_, src, err := detectFrom("", browsers, log)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if src.Browser != "Brave" {
		t.Errorf("expected Brave, got %s", src.Browser)
	}
	if len(log.Warnings()) != 1 {
		t.Errorf("expected a warning for the unreadable store, got %v", log.Warnings())
	}
}

func TestDetectWithSpecs_NoneFound(t *testing.T) {
	browsers := []browserPaths{{Name: "Firefox"}, {Name: "Chrome"}}
	_, _, err := detectFrom("", browsers, logger.NewNopLogger())
	if err == nil || !strings.Contains(err.Error(), "Firefox, Chrome") {
		t.Errorf("expected error listing browsers, got %v", err)
	}
}

func TestSafeCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "cookies.sqlite"), "main")
	writeFile(t, src+"-wal", "wal")

	tmp, cleanup, err := SafeCopy(src)
	if err != nil {
		t.Fatalf("SafeCopy failed: %v", err)
	}
	for name, want := range map[string]string{"cookies.sqlite": "main", "cookies.sqlite-wal": "wal"} {
		data, err := os.ReadFile(filepath.Join(tmp, name))
		if err != nil || string(data) != want {
			t.Errorf("expected %s copied, got %q (%v)", name, data, err)
		}
	}
	if _, err := os.Stat(filepath.Join(tmp, "cookies.sqlite-shm")); !os.IsNotExist(err) {
		t.Error("expected no shm copy")
	}
	cleanup()
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Error("expected temp dir removed by cleanup")
	}
}
