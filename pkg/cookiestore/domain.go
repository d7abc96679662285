package cookiestore

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// canonicalHost returns the lower-case ASCII host of u without port or
// IPv6 brackets.
func canonicalHost(u *url.URL) (string, error) {
	if u == nil {
		return "", ErrNoHost
	}
	host := strings.TrimSuffix(u.Hostname(), ".")
	if host == "" {
		return "", ErrNoHost
	}
	if !isHostName(host) {
		return host, nil
	}
	return toASCII(host)
}

// normalizeDomain canonicalises a Domain attribute: surrounding space is
// trimmed, every leading dot stripped and the result lower-cased and
// converted to its IDNA ASCII form. An empty result is not an error; the
// caller decides what an empty domain means.
func normalizeDomain(attr string) (string, error) {
	d := strings.TrimLeft(strings.TrimSpace(attr), ".")
	d = strings.TrimSuffix(d, ".")
	if d == "" {
		return "", nil
	}
	if strings.HasPrefix(d, "[") && strings.HasSuffix(d, "]") {
		d = d[1 : len(d)-1]
	}
	if !isHostName(d) {
		return d, nil
	}
	return toASCII(d)
}

func toASCII(s string) (string, error) {
	s = strings.ToLower(s)
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			a, err := idna.ToASCII(s)
			if err != nil {
				return "", err
			}
			return strings.ToLower(a), nil
		}
	}
	return s, nil
}

// isHostName reports whether host is a host name rather than an IP address.
func isHostName(host string) bool {
	return net.ParseIP(host) == nil
}

// domainMatch implements RFC 6265 section 5.1.3. Suffix matches only apply
// to host names.
func domainMatch(domain, host string) bool {
	if domain == host {
		return true
	}
	if !isHostName(host) {
		return false
	}
	return len(host) > len(domain) &&
		strings.HasSuffix(host, domain) &&
		host[len(host)-len(domain)-1] == '.'
}

// candidateDomains lists host followed by each of its parent domains, the
// only domain keys that can hold cookies sendable to host.
func candidateDomains(host string) []string {
	if !isHostName(host) {
		return []string{host}
	}
	out := []string{host}
	for i := 0; i < len(host); i++ {
		if host[i] == '.' && i+1 < len(host) {
			out = append(out, host[i+1:])
		}
	}
	return out
}
