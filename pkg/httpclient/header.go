package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	// Header keys
	USER_AGENT_KEY = "User-Agent"
	COOKIE_KEY     = "Cookie"

	DEF_USER_AGENT = "warpsession/1.0"
)

// ErrInvalidHeader is returned by ParseHeaderFlags for entries without a colon
// or with an empty key.
var ErrInvalidHeader = errors.New("invalid header")

// Headers represents a list of headers.
type Headers []Header

// Get returns the index of the header with the given key.
// Keys are compared in canonical form.
// If the header is not found, the second return value is false.
func (h Headers) Get(key string) (index int, have bool) {
	key = http.CanonicalHeaderKey(key)
	for i, x := range h {
		if http.CanonicalHeaderKey(x.Key) != key {
			continue
		}
		index = i
		have = true
		break
	}
	return
}

// InitOrUpdate initializes the header with the given key and value.
// If the header is already present, it is not updated.
func (h *Headers) InitOrUpdate(key, value string) {
	_, ok := h.Get(key)
	if ok {
		return
	}
	*h = append(*h, Header{key, value})
}

// Update updates the header with the given key and value.
// If the header is not present, it is initialized.
func (h *Headers) Update(key, value string) {
	i, ok := h.Get(key)
	if ok {
		(*h)[i] = Header{key, value}
		return
	}
	*h = append(*h, Header{key, value})
}

// Set sets the headers in the given http.Header.
func (h Headers) Set(header http.Header) {
	for _, x := range h {
		x.Set(header)
	}
}

// Add adds the headers to the given http.Header.
func (h Headers) Add(header http.Header) {
	for _, x := range h {
		x.Add(header)
	}
}

// Fill sets every header that header does not already carry.
func (h Headers) Fill(header http.Header) {
	for _, x := range h {
		if header.Get(x.Key) != "" {
			continue
		}
		x.Set(header)
	}
}

// Header represents a key-value pair.
type Header struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Set sets the header in the given http.Header.
func (h *Header) Set(header http.Header) {
	header.Set(h.Key, h.Value)
}

// Add adds the header to the given http.Header.
func (h *Header) Add(header http.Header) {
	header.Add(h.Key, h.Value)
}

// ParseHeaderFlags parses "Key: Value" strings as given on the command line.
// Repeated keys are kept in order.
func ParseHeaderFlags(flags []string) (Headers, error) {
	var out Headers
	for _, f := range flags {
		key, value, ok := strings.Cut(f, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHeader, f)
		}
		out = append(out, Header{Key: key, Value: strings.TrimSpace(value)})
	}
	return out, nil
}
