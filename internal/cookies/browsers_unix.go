//go:build unix

package cookies

import (
	"os"
	"path/filepath"
	"runtime"
)

// browsersForHome returns the browsers rooted at home.
func browsersForHome(home string, darwin bool) []browserPaths {
	if darwin {
		support := filepath.Join(home, "Library", "Application Support")
		return []browserPaths{
			{Name: "Firefox", ProfileInis: []string{filepath.Join(support, "Firefox", "profiles.ini")}},
			{Name: "LibreWolf", ProfileInis: []string{filepath.Join(support, "librewolf", "profiles.ini")}},
			{Name: "Chrome", CookiePaths: chromiumCookies(filepath.Join(support, "Google", "Chrome", "Default"))},
			{Name: "Chromium", CookiePaths: chromiumCookies(filepath.Join(support, "Chromium", "Default"))},
			{Name: "Edge", CookiePaths: chromiumCookies(filepath.Join(support, "Microsoft Edge", "Default"))},
			{Name: "Brave", CookiePaths: chromiumCookies(filepath.Join(support, "BraveSoftware", "Brave-Browser", "Default"))},
		}
	}
	config := filepath.Join(home, ".config")
	return []browserPaths{
		{Name: "Firefox", ProfileInis: []string{
			filepath.Join(home, ".mozilla", "firefox", "profiles.ini"),
			filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox", "profiles.ini"),
		}},
		{Name: "LibreWolf", ProfileInis: []string{filepath.Join(home, ".librewolf", "profiles.ini")}},
		{Name: "Chrome", CookiePaths: chromiumCookies(filepath.Join(config, "google-chrome", "Default"))},
		{Name: "Chromium", CookiePaths: chromiumCookies(filepath.Join(config, "chromium", "Default"))},
		{Name: "Edge", CookiePaths: chromiumCookies(filepath.Join(config, "microsoft-edge", "Default"))},
		{Name: "Brave", CookiePaths: chromiumCookies(filepath.Join(config, "BraveSoftware", "Brave-Browser", "Default"))},
	}
}

func knownBrowsers() []browserPaths {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return browsersForHome(home, runtime.GOOS == "darwin")
}
