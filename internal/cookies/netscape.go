package cookies

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/warpdl/warpsession/pkg/cookiestore"
	"github.com/warpdl/warpsession/pkg/logger"
)

// readNetscape reads a Netscape cookie file. Malformed lines are skipped
// with a warning naming the line number only.
func readNetscape(path, domain string, log logger.Logger) ([]*cookiestore.Cookie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open Netscape cookie file: %w", err)
	}
	defer f.Close()

	now := timeNow()
	var out []*cookiestore.Cookie
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		c, err := cookiestore.DecodeNetscape(line)
		if err != nil {
			log.Warning("cookies: skipping malformed line %d of %s: %v", lineNo, path, err)
			continue
		}
		if c == nil || c.Expired(now) {
			continue
		}
		if domainSelected(domainField(line), domain) {
			out = append(out, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read Netscape cookie file: %w", err)
	}
	return out, nil
}

// domainField returns the raw domain column of a Netscape line, leading dot
// kept.
func domainField(line string) string {
	line = strings.TrimPrefix(line, "#HttpOnly_")
	d, _, _ := strings.Cut(line, "\t")
	return d
}
