package cookiestore

import "strings"

// defaultPath computes the default-path of a request URI path
// (RFC 6265 section 5.1.4).
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}

// pathMatch reports whether reqPath path-matches cookiePath.
func pathMatch(cookiePath, reqPath string) bool {
	if reqPath == "" {
		reqPath = "/"
	}
	if cookiePath == reqPath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}
