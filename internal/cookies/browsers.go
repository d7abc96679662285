package cookies

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warpdl/warpsession/pkg/cookiestore"
	"github.com/warpdl/warpsession/pkg/logger"
)

// browserPaths lists where one browser keeps its cookies. Firefox-family
// browsers are found through profiles.ini, Chromium-family ones through
// direct cookie file candidates.
type browserPaths struct {
	Name        string
	CookiePaths []string
	ProfileInis []string
}

// chromiumCookies returns the cookie file candidates below a Chromium
// profile directory.
func chromiumCookies(profileDir string) []string {
	return []string{
		filepath.Join(profileDir, "Network", "Cookies"),
		filepath.Join(profileDir, "Cookies"),
	}
}

// candidates expands b into the cookie files to try, in order.
func (b browserPaths) candidates() []string {
	if len(b.ProfileInis) == 0 {
		return b.CookiePaths
	}
	var out []string
	for _, ini := range b.ProfileInis {
		if dir := parseProfilesIni(ini); dir != "" {
			out = append(out, filepath.Join(dir, "cookies.sqlite"))
		}
	}
	return out
}

// parseProfilesIni returns the default profile directory named by a
// Firefox-style profiles.ini. An [Install*] Default= key wins over a
// [Profile*] section marked Default=1. Unreadable files yield "".
func parseProfilesIni(iniPath string) string {
	f, err := os.Open(iniPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	base := filepath.Dir(iniPath)
	resolve := func(p string) string { return filepath.Join(base, filepath.FromSlash(p)) }

	var (
		install, profile string
		section          string
		path             string
		isDefault        bool
	)
	flush := func() {
		if strings.HasPrefix(section, "Profile") && isDefault && profile == "" && path != "" {
			profile = path
		}
	}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			flush()
			section = line[1 : len(line)-1]
			path, isDefault = "", false
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch {
		case strings.HasPrefix(section, "Install") && k == "Default" && install == "":
			install = resolve(v)
		case strings.HasPrefix(section, "Profile") && k == "Path":
			path = resolve(v)
		case strings.HasPrefix(section, "Profile") && k == "Default" && v == "1":
			isDefault = true
		}
	}
	flush()

	if install != "" {
		return install
	}
	return profile
}

// detectFrom imports from the first readable store among browsers.
func detectFrom(domain string, browsers []browserPaths, log logger.Logger) ([]*cookiestore.Cookie, *Source, error) {
	names := make([]string, 0, len(browsers))
	for _, b := range browsers {
		names = append(names, b.Name)
		for _, path := range b.candidates() {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cookies, src, err := Import(path, domain, log)
			if err != nil {
				log.Warning("cookies: cannot read %s store: %v", b.Name, err)
				continue
			}
			src.Browser = b.Name
			return cookies, src, nil
		}
	}
	return nil, nil, fmt.Errorf("no supported browser cookie store found (tried %s)", strings.Join(names, ", "))
}

// DetectBrowser imports from the first browser store found on this machine.
// Firefox-family browsers are tried before Chromium-family ones.
func DetectBrowser(domain string, log logger.Logger) ([]*cookiestore.Cookie, *Source, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return detectFrom(domain, knownBrowsers(), log)
}
