package http

import (
	"fmt"
	neturl "net/url"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// ParseTarget turns a URL built by plain string concatenation into one that
// can go on the wire, the way a browser does. Bytes that may not appear in a
// request target are percent-escaped; everything else, reserved characters
// included, is sent as written. A fragment is never sent.
func ParseTarget(raw string) (*neturl.URL, error) {
	u, err := neturl.Parse(EscapeTarget(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}
	if err := validate(u); err != nil {
		return nil, err
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u, nil
}

// EscapeTarget percent-escapes controls, space, non-ASCII bytes, the
// characters "<>\`{}|\^ and any % that does not start an escape.
func EscapeTarget(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '%' && i+2 < len(raw) && isHex(raw[i+1]) && isHex(raw[i+2]) {
			b.WriteByte(c)
			continue
		}
		if mustEscape(c) {
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0F])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func mustEscape(c byte) bool {
	if c <= 0x20 || c >= 0x7F {
		return true
	}
	switch c {
	case '"', '<', '>', '\\', '^', '`', '{', '|', '}', '%':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	return validate(u)
}

func validate(u *neturl.URL) error {
	// Check for valid scheme
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}

	// Check for valid host
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
