package cookiestore

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// Action tells what Insert did with a cookie.
type Action int

const (
	// ActionInserted means a new entry was created.
	ActionInserted Action = iota + 1
	// ActionUpdated means an entry with the same key was replaced.
	ActionUpdated
	// ActionExpiredExisting means an expired value evicted an existing entry.
	ActionExpiredExisting
	// ActionIgnoredExpired means an expired value had nothing to evict.
	ActionIgnoredExpired
)

func (a Action) String() string {
	switch a {
	case ActionInserted:
		return "inserted"
	case ActionUpdated:
		return "updated"
	case ActionExpiredExisting:
		return "expired-existing"
	case ActionIgnoredExpired:
		return "ignored-expired"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Options configures a Store.
type Options struct {
	// PublicSuffixList rejects domain cookies set for a public suffix.
	// Nil disables the check, which is only suitable for tests or
	// controlled environments.
	PublicSuffixList cookiejar.PublicSuffixList
}

// Store holds cookies keyed by (domain, path, name).
// A Store is safe for concurrent use by multiple goroutines.
type Store struct {
	mu      sync.Mutex
	psList  cookiejar.PublicSuffixList
	entries map[string]map[entryKey]*Cookie
	seq     uint64
}

// New returns an empty Store. opts may be nil.
func New(opts *Options) *Store {
	s := &Store{entries: make(map[string]map[entryKey]*Cookie)}
	if opts != nil {
		s.psList = opts.PublicSuffixList
	}
	return s
}

// SetCookieString parses a single raw Set-Cookie header value received
// from u and stores it. The returned error, if any, is a *CookieError.
func (s *Store) SetCookieString(u *url.URL, setCookie string) error {
	c, err := http.ParseSetCookie(setCookie)
	if err != nil {
		return &CookieError{
			Name: rawName(setCookie),
			Host: hostForError(u),
			Err:  fmt.Errorf("%w: %w", ErrMalformed, err),
		}
	}
	_, err = s.Insert(c, u)
	return err
}

// CookieString returns the Cookie header value to send to u, or "" when no
// cookie applies.
func (s *Store) CookieString(u *url.URL) string {
	matches := s.Matches(u)
	if len(matches) == 0 {
		return ""
	}
	parts := make([]string, len(matches))
	for i, c := range matches {
		parts[i] = c.Pair()
	}
	return strings.Join(parts, "; ")
}

// Insert stores c as received in a response from u, applying the storage
// model of RFC 6265 section 5.3. The returned error, if any, is a
// *CookieError.
func (s *Store) Insert(c *http.Cookie, u *url.URL) (Action, error) {
	host, err := canonicalHost(u)
	if err != nil {
		return 0, &CookieError{Name: c.Name, Host: hostForError(u), Err: err}
	}
	if c.Name == "" {
		return 0, &CookieError{Name: c.Name, Host: host, Err: ErrMalformed}
	}
	domain, hostOnly, err := s.domainFor(host, c.Domain)
	if err != nil {
		return 0, &CookieError{Name: c.Name, Host: host, Err: err}
	}
	path := c.Path
	if path == "" || path[0] != '/' {
		path = defaultPath(u.Path)
	}

	now := timeNow()
	var expires time.Time
	expired := false
	switch {
	case c.MaxAge < 0:
		expired = true
	case c.MaxAge > 0:
		expires = maxAgeExpiry(now, c.MaxAge)
	case !c.Expires.IsZero():
		expires = c.Expires
		expired = !expires.After(now)
	}

	nc := &Cookie{
		Name:       c.Name,
		Value:      c.Value,
		Quoted:     c.Quoted,
		Domain:     domain,
		HostOnly:   hostOnly,
		Path:       path,
		Expires:    expires,
		Secure:     c.Secure,
		HttpOnly:   c.HttpOnly,
		SameSite:   c.SameSite,
		Creation:   now,
		LastAccess: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.lookup(nc.key())
	if expired {
		if old != nil {
			s.remove(old.key())
			return ActionExpiredExisting, nil
		}
		return ActionIgnoredExpired, nil
	}
	if old != nil {
		nc.Creation = old.Creation
		nc.seq = old.seq
		s.put(nc)
		return ActionUpdated, nil
	}
	s.seq++
	nc.seq = s.seq
	s.put(nc)
	return ActionInserted, nil
}

func (s *Store) domainFor(host, attr string) (domain string, hostOnly bool, err error) {
	if attr == "" {
		return host, true, nil
	}
	d, err := normalizeDomain(attr)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if d == "" {
		return "", false, ErrEmptyDomain
	}
	if s.psList != nil && isHostName(d) && s.psList.PublicSuffix(d) == d {
		if d == host {
			return host, true, nil
		}
		return "", false, ErrPublicSuffix
	}
	if !domainMatch(d, host) {
		return "", false, ErrDomainMismatch
	}
	return d, false, nil
}

// Matches returns copies of the unexpired cookies to send to u, ordered
// longest path first and then by creation.
func (s *Store) Matches(u *url.URL) []*Cookie {
	host, err := canonicalHost(u)
	if err != nil {
		return nil
	}
	secure := u.Scheme == "https" || u.Scheme == "wss"
	path := u.Path
	if path == "" {
		path = "/"
	}
	now := timeNow()

	s.mu.Lock()
	defer s.mu.Unlock()

	var found []*Cookie
	for _, d := range candidateDomains(host) {
		for _, c := range s.entries[d] {
			if c.sendable(host, path, secure, now) {
				c.LastAccess = now
				found = append(found, c.clone())
			}
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if len(found[i].Path) != len(found[j].Path) {
			return len(found[i].Path) > len(found[j].Path)
		}
		return found[i].seq < found[j].seq
	})
	return found
}

// SetCookies implements http.CookieJar. Rejected cookies are dropped.
func (s *Store) SetCookies(u *url.URL, cookies []*http.Cookie) {
	for _, c := range cookies {
		_, _ = s.Insert(c, u)
	}
}

// Cookies implements http.CookieJar.
func (s *Store) Cookies(u *url.URL) []*http.Cookie {
	matches := s.Matches(u)
	if len(matches) == 0 {
		return nil
	}
	out := make([]*http.Cookie, len(matches))
	for i, c := range matches {
		out[i] = &http.Cookie{Name: c.Name, Value: c.Value, Quoted: c.Quoted}
	}
	return out
}

// Get returns a copy of the cookie stored under (domain, path, name),
// expired or not, or nil.
func (s *Store) Get(domain, path, name string) *Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.lookup(entryKey{domain: strings.ToLower(domain), path: path, name: name})
	if c == nil {
		return nil
	}
	return c.clone()
}

// Remove deletes the cookie stored under (domain, path, name).
func (s *Store) Remove(domain, path, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := entryKey{domain: strings.ToLower(domain), path: path, name: name}
	if s.lookup(k) == nil {
		return false
	}
	s.remove(k)
	return true
}

// RemoveURL deletes every cookie that would be sent to u, secure cookies
// included, and returns how many were removed.
func (s *Store) RemoveURL(u *url.URL) int {
	host, err := canonicalHost(u)
	if err != nil {
		return 0
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	now := timeNow()

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, d := range candidateDomains(host) {
		for k, c := range s.entries[d] {
			if c.sendable(host, path, true, now) {
				s.remove(k)
				n++
			}
		}
	}
	return n
}

// Clear removes every cookie.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]map[entryKey]*Cookie)
}

// Purge removes expired cookies and returns how many were dropped.
func (s *Store) Purge() int {
	now := timeNow()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, byKey := range s.entries {
		for k, c := range byKey {
			if c.Expired(now) {
				s.remove(k)
				n++
			}
		}
	}
	return n
}

// Len returns the number of unexpired cookies.
func (s *Store) Len() int {
	return len(s.Unexpired())
}

// All returns copies of every stored cookie, expired ones included, sorted
// by domain, path and name.
func (s *Store) All() []*Cookie {
	return s.collect(func(*Cookie, time.Time) bool { return true })
}

// Unexpired returns copies of the unexpired cookies.
func (s *Store) Unexpired() []*Cookie {
	return s.collect(func(c *Cookie, now time.Time) bool { return !c.Expired(now) })
}

// Persistent returns copies of the unexpired cookies that carry an expiry.
// These are the cookies written by Save.
func (s *Store) Persistent() []*Cookie {
	return s.collect(func(c *Cookie, now time.Time) bool {
		return c.Persistent() && !c.Expired(now)
	})
}

// Restore adds previously stored cookies, replacing entries with the same
// key. Expired cookies and cookies without name or domain are skipped; the
// number of restored cookies is returned. Cookies are restored in creation
// order so send order survives a save and load.
func (s *Store) Restore(cookies []*Cookie) int {
	ordered := make([]*Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c != nil {
			ordered = append(ordered, c)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Creation.Before(ordered[j].Creation)
	})

	now := timeNow()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range ordered {
		if c.Name == "" || c.Domain == "" || c.Expired(now) {
			continue
		}
		nc := c.clone()
		nc.Domain = strings.ToLower(strings.TrimLeft(nc.Domain, "."))
		if nc.Path == "" || nc.Path[0] != '/' {
			nc.Path = "/"
		}
		if nc.Creation.IsZero() {
			nc.Creation = now
		}
		if nc.LastAccess.IsZero() {
			nc.LastAccess = nc.Creation
		}
		if old := s.lookup(nc.key()); old != nil {
			nc.seq = old.seq
		} else {
			s.seq++
			nc.seq = s.seq
		}
		s.put(nc)
		n++
	}
	return n
}

// maxExpiry caps expiry times that would overflow time.Duration.
var maxExpiry = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

// maxAgeExpiry returns now plus maxAge seconds, saturating at maxExpiry.
func maxAgeExpiry(now time.Time, maxAge int) time.Time {
	if int64(maxAge) > int64(maxExpiry.Sub(now)/time.Second) {
		return maxExpiry
	}
	return now.Add(time.Duration(maxAge) * time.Second)
}

func (s *Store) collect(keep func(*Cookie, time.Time) bool) []*Cookie {
	now := timeNow()
	s.mu.Lock()
	var out []*Cookie
	for _, byKey := range s.entries {
		for _, c := range byKey {
			if keep(c, now) {
				out = append(out, c.clone())
			}
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Domain != b.Domain {
			return a.Domain < b.Domain
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Name < b.Name
	})
	return out
}

func (s *Store) lookup(k entryKey) *Cookie {
	return s.entries[k.domain][k]
}

func (s *Store) put(c *Cookie) {
	byKey := s.entries[c.Domain]
	if byKey == nil {
		byKey = make(map[entryKey]*Cookie)
		s.entries[c.Domain] = byKey
	}
	byKey[c.key()] = c
}

func (s *Store) remove(k entryKey) {
	byKey := s.entries[k.domain]
	delete(byKey, k)
	if len(byKey) == 0 {
		delete(s.entries, k.domain)
	}
}

// rawName extracts the cookie name from a raw header value for error
// reporting. The value part is never returned.
func rawName(setCookie string) string {
	first, _, _ := strings.Cut(setCookie, ";")
	name, _, _ := strings.Cut(first, "=")
	return strings.TrimSpace(name)
}

func hostForError(u *url.URL) string {
	if u == nil {
		return "<nil>"
	}
	return u.Host
}

var _ http.CookieJar = (*Store)(nil)
