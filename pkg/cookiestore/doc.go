// Package cookiestore implements an RFC 6265 cookie store for warpsession.
//
// A Store accepts raw Set-Cookie header values together with the URL that
// delivered them and answers, for a destination URL, the serialized value of
// the Cookie header to send. Parsing of the header value is delegated to
// net/http.ParseSetCookie; registrable-domain checks use a
// cookiejar.PublicSuffixList such as golang.org/x/net/publicsuffix.List, and
// Domain attributes are normalised with golang.org/x/net/idna.
//
// Cookies are keyed by (domain, path, name). Inserting a cookie with an
// existing key replaces the entry and keeps its creation time; an already
// expired value evicts the entry instead.
//
// Store also implements http.CookieJar, so it can be attached directly to an
// http.Client when the session wrapper is not wanted.
//
// Persistent cookies (those carrying Expires or Max-Age) can be written to
// and read from line-oriented formats with Save and Load. JSON lines and the
// Netscape cookie file format are provided.
//
// Cookie values are sensitive: they never appear in errors produced by this
// package.
package cookiestore
