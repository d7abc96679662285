package cookiestore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// EncodeFunc serializes one cookie to a single line (without newline).
type EncodeFunc func(*Cookie) (string, error)

// DecodeFunc parses one line. A nil cookie with a nil error skips the line.
type DecodeFunc func(line string) (*Cookie, error)

// maxLineSize bounds a single encoded cookie line.
const maxLineSize = 1 << 20

// Save writes every persistent, unexpired cookie to w, one per line, in
// the order they were first stored. Session cookies are never written.
func (s *Store) Save(w io.Writer, encode EncodeFunc) error {
	list := s.Persistent()
	sort.SliceStable(list, func(i, j int) bool { return list[i].seq < list[j].seq })
	bw := bufio.NewWriter(w)
	for _, c := range list {
		line, err := encode(c)
		if err != nil {
			return fmt.Errorf("encode cookie %q: %w", c.Name, err)
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads cookies written by Save (or a compatible producer) from r and
// restores the unexpired ones. It returns the number of cookies restored.
func (s *Store) Load(r io.Reader, decode DecodeFunc) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var cookies []*Cookie
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := decode(line)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if c != nil {
			cookies = append(cookies, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return s.Restore(cookies), nil
}

// SaveJSON writes persistent cookies as JSON lines.
func (s *Store) SaveJSON(w io.Writer) error {
	return s.Save(w, EncodeJSON)
}

// LoadJSON reads JSON lines written by SaveJSON.
func (s *Store) LoadJSON(r io.Reader) (int, error) {
	return s.Load(r, DecodeJSON)
}

// NetscapeHeader is the first line of a Netscape cookie file.
const NetscapeHeader = "# Netscape HTTP Cookie File"

// SaveNetscape writes persistent cookies in the Netscape cookie file format,
// readable by curl, wget and browser extensions.
func (s *Store) SaveNetscape(w io.Writer) error {
	if _, err := io.WriteString(w, NetscapeHeader+"\n"); err != nil {
		return err
	}
	return s.Save(w, EncodeNetscape)
}

// LoadNetscape reads a Netscape cookie file.
func (s *Store) LoadNetscape(r io.Reader) (int, error) {
	return s.Load(r, DecodeNetscape)
}

type cookieState struct {
	Name       string    `json:"name"`
	Value      string    `json:"value"`
	Quoted     bool      `json:"quoted,omitempty"`
	Domain     string    `json:"domain"`
	HostOnly   bool      `json:"host_only,omitempty"`
	Path       string    `json:"path"`
	Expires    time.Time `json:"expires"`
	Secure     bool      `json:"secure,omitempty"`
	HttpOnly   bool      `json:"http_only,omitempty"`
	SameSite   string    `json:"same_site,omitempty"`
	Creation   time.Time `json:"creation"`
	LastAccess time.Time `json:"last_access"`
}

var sameSiteNames = map[http.SameSite]string{
	http.SameSiteLaxMode:    "lax",
	http.SameSiteStrictMode: "strict",
	http.SameSiteNoneMode:   "none",
}

// SameSiteName returns the storage name of mode ("lax", "strict", "none"),
// or "" when the attribute was absent.
func SameSiteName(mode http.SameSite) string {
	return sameSiteNames[mode]
}

// ParseSameSite is the inverse of SameSiteName. Unknown names yield
// http.SameSiteDefaultMode.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	}
	return http.SameSiteDefaultMode
}

// EncodeJSON encodes c as a single JSON object.
func EncodeJSON(c *Cookie) (string, error) {
	b, err := json.Marshal(cookieState{
		Name:       c.Name,
		Value:      c.Value,
		Quoted:     c.Quoted,
		Domain:     c.Domain,
		HostOnly:   c.HostOnly,
		Path:       c.Path,
		Expires:    c.Expires.UTC(),
		Secure:     c.Secure,
		HttpOnly:   c.HttpOnly,
		SameSite:   SameSiteName(c.SameSite),
		Creation:   c.Creation.UTC(),
		LastAccess: c.LastAccess.UTC(),
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeJSON decodes a line produced by EncodeJSON.
func DecodeJSON(line string) (*Cookie, error) {
	var st cookieState
	if err := json.Unmarshal([]byte(line), &st); err != nil {
		return nil, err
	}
	return &Cookie{
		Name:       st.Name,
		Value:      st.Value,
		Quoted:     st.Quoted,
		Domain:     st.Domain,
		HostOnly:   st.HostOnly,
		Path:       st.Path,
		Expires:    st.Expires,
		Secure:     st.Secure,
		HttpOnly:   st.HttpOnly,
		SameSite:   ParseSameSite(st.SameSite),
		Creation:   st.Creation,
		LastAccess: st.LastAccess,
	}, nil
}

const netscapeHttpOnlyPrefix = "#HttpOnly_"

// EncodeNetscape encodes c as a tab-separated Netscape cookie line.
func EncodeNetscape(c *Cookie) (string, error) {
	if strings.ContainsAny(c.Value, "\t\n") || strings.ContainsAny(c.Name, "\t\n") {
		return "", fmt.Errorf("%w: tab or newline in cookie", ErrMalformed)
	}
	domain := c.Domain
	includeSub := "FALSE"
	if !c.HostOnly {
		domain = "." + domain
		includeSub = "TRUE"
	}
	if c.HttpOnly {
		domain = netscapeHttpOnlyPrefix + domain
	}
	var expiry int64
	if c.Persistent() {
		expiry = c.Expires.Unix()
	}
	return strings.Join([]string{
		domain,
		includeSub,
		c.Path,
		netscapeBool(c.Secure),
		strconv.FormatInt(expiry, 10),
		c.Name,
		c.Pair()[len(c.Name)+1:],
	}, "\t"), nil
}

// DecodeNetscape decodes a Netscape cookie line. Comment lines, other than
// the #HttpOnly_ prefix, are skipped. An expiry of 0 yields a session cookie.
func DecodeNetscape(line string) (*Cookie, error) {
	httpOnly := false
	if strings.HasPrefix(line, netscapeHttpOnlyPrefix) {
		httpOnly = true
		line = line[len(netscapeHttpOnlyPrefix):]
	} else if strings.HasPrefix(line, "#") {
		return nil, nil
	}
	fields := strings.Split(line, "\t")
	if len(fields) != 7 {
		return nil, fmt.Errorf("%w: expected 7 fields, got %d", ErrMalformed, len(fields))
	}
	expiry, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expiry", ErrMalformed)
	}
	domain := fields[0]
	hostOnly := !strings.HasPrefix(domain, ".") && !strings.EqualFold(fields[1], "TRUE")
	c := &Cookie{
		Name:     fields[5],
		Domain:   strings.ToLower(strings.TrimLeft(domain, ".")),
		HostOnly: hostOnly,
		Path:     fields[2],
		Secure:   strings.EqualFold(fields[3], "TRUE"),
		HttpOnly: httpOnly,
	}
	value := fields[6]
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
		c.Quoted = true
	}
	c.Value = value
	if expiry > 0 {
		c.Expires = time.Unix(expiry, 0).UTC()
	}
	return c, nil
}

func netscapeBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
