package httpclient

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/proxy"
)

// ProxyConfig holds the parsed proxy configuration.
type ProxyConfig struct {
	Scheme   string
	Host     string
	Username string
	Password string
}

// URL returns the proxy URL as a string.
func (p *ProxyConfig) URL() string {
	var sb strings.Builder
	sb.WriteString(p.Scheme)
	sb.WriteString("://")
	if p.Username != "" {
		sb.WriteString(p.Username)
		if p.Password != "" {
			sb.WriteString(":")
			sb.WriteString(p.Password)
		}
		sb.WriteString("@")
	}
	sb.WriteString(p.Host)
	return sb.String()
}

// Redacted returns the proxy URL with the password masked, fit for logs.
func (p *ProxyConfig) Redacted() string {
	if p.Password == "" {
		return p.URL()
	}
	cp := *p
	cp.Password = "xxxxx"
	return cp.URL()
}

var (
	ErrEmptyProxyURL     = errors.New("proxy URL cannot be empty")
	ErrUnsupportedScheme = errors.New("unsupported proxy scheme")
	ErrInvalidProxyURL   = errors.New("invalid proxy URL")
)

var supportedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"socks5": true,
}

// ParseProxyURL parses and validates a proxy URL string.
func ParseProxyURL(proxyURL string) (*ProxyConfig, error) {
	if proxyURL == "" {
		return nil, ErrEmptyProxyURL
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, ErrInvalidProxyURL
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, ErrInvalidProxyURL
	}

	if !supportedSchemes[parsed.Scheme] {
		return nil, ErrUnsupportedScheme
	}

	config := &ProxyConfig{
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
	}

	if parsed.User != nil {
		config.Username = parsed.User.Username()
		config.Password, _ = parsed.User.Password()
	}

	return config, nil
}

// newTransport returns a transport routed through proxyURL. An empty
// proxyURL uses the environment (HTTP_PROXY, HTTPS_PROXY, NO_PROXY).
func newTransport(proxyURL string) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL == "" {
		transport.Proxy = http.ProxyFromEnvironment
		return transport, nil
	}

	cfg, err := ParseProxyURL(proxyURL)
	if err != nil {
		return nil, err
	}

	if cfg.Scheme == "socks5" {
		var auth *proxy.Auth
		if cfg.Username != "" {
			auth = &proxy.Auth{
				User:     cfg.Username,
				Password: cfg.Password,
			}
		}
		dialer, err := proxy.SOCKS5("tcp", cfg.Host, auth, proxy.Direct)
		if err != nil {
			return nil, err
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.Dial = dialer.Dial
		}
		return transport, nil
	}

	parsed, _ := url.Parse(proxyURL)
	transport.Proxy = http.ProxyURL(parsed)
	return transport, nil
}
