//go:build windows

package cookies

import (
	"os"
	"path/filepath"
)

// browsersForEnv returns the browsers below the given LOCALAPPDATA
// and APPDATA directories.
func browsersForEnv(localAppData, appData string) []browserPaths {
	userData := func(parts ...string) []string {
		p := append([]string{localAppData}, parts...)
		return chromiumCookies(filepath.Join(append(p, "User Data", "Default")...))
	}
	return []browserPaths{
		{Name: "Firefox", ProfileInis: []string{filepath.Join(appData, "Mozilla", "Firefox", "profiles.ini")}},
		{Name: "LibreWolf", ProfileInis: []string{filepath.Join(appData, "LibreWolf", "profiles.ini")}},
		{Name: "Chrome", CookiePaths: userData("Google", "Chrome")},
		{Name: "Chromium", CookiePaths: userData("Chromium")},
		{Name: "Edge", CookiePaths: userData("Microsoft", "Edge")},
		{Name: "Brave", CookiePaths: userData("BraveSoftware", "Brave-Browser")},
	}
}

func knownBrowsers() []browserPaths {
	return browsersForEnv(os.Getenv("LOCALAPPDATA"), os.Getenv("APPDATA"))
}
