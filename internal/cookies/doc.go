// Package cookies imports cookies from browser cookie stores into a
// cookiestore.Store. It reads Firefox (moz_cookies) and Chrome (cookies)
// SQLite databases, unencrypted values only, and Netscape cookie files.
//
// Databases are copied to a temporary directory before they are opened so a
// running browser never sees its files locked. Cookie values are never
// logged or written into errors.
package cookies
