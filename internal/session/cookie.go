package session

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"restaurant-api/internal/config"
)

// CookieName is the name of the cookie holding a user's refresh token.
//
// The name is derived from the email and never stored. Changing a user's
// email orphans the cookie issued under the old address: it is no longer
// looked up, and the user has to log in again.
//
// Characters a cookie name cannot carry (whitespace, controls, ';', '=' and
// ',', all legal inside a quoted email local part) are dropped, so the name
// written is the name read back.
func CookieName(email string) string {
	return sanitizeName(email + "_key")
}

// net/http refuses cookie names outside the RFC 6265 token set, and '@' is
// not a token character, so "<email>_key" cookies are written and read here.

// SetCookieHeader renders a Set-Cookie value storing value under name.
func SetCookieHeader(cfg config.CookieConfig, name, value string, now time.Time) string {
	maxAge := int64(cfg.MaxAge / time.Second)
	var b strings.Builder
	b.WriteString(sanitizeName(name))
	b.WriteByte('=')
	b.WriteString(sanitizeValue(value))
	b.WriteString("; Max-Age=")
	b.WriteString(strconv.FormatInt(maxAge, 10))
	b.WriteString("; Path=/")
	b.WriteString("; Expires=")
	b.WriteString(now.Add(cfg.MaxAge).UTC().Format(http.TimeFormat))
	writeFlags(&b, cfg)
	return b.String()
}

// ClearCookieHeader renders a Set-Cookie value that removes name with the
// same security attributes it was set with.
func ClearCookieHeader(cfg config.CookieConfig, name string) string {
	var b strings.Builder
	b.WriteString(sanitizeName(name))
	b.WriteString("=; Max-Age=0; Path=/; Expires=")
	b.WriteString(time.Unix(0, 0).UTC().Format(http.TimeFormat))
	writeFlags(&b, cfg)
	return b.String()
}

func writeFlags(b *strings.Builder, cfg config.CookieConfig) {
	if cfg.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	if cfg.Secure {
		b.WriteString("; Secure")
	}
}

// CookieFromHeader returns a lookup over the request's Cookie headers that
// matches names exactly, after the same sanitizing SetCookieHeader applies.
func CookieFromHeader(h http.Header) CookieReader {
	return func(name string) (string, bool) {
		name = sanitizeName(name)
		for _, line := range h.Values("Cookie") {
			for _, part := range strings.Split(line, ";") {
				k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
				if !ok || strings.TrimSpace(k) != name {
					continue
				}
				v = strings.TrimSpace(v)
				if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
					v = v[1 : len(v)-1]
				}
				return v, true
			}
		}
		return "", false
	}
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f || r == ';' || r == '=' || r == ',' {
			return -1
		}
		return r
	}, s)
}

func sanitizeValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f || r == ';' || r == ',' || r == '"' || r == '\\' {
			return -1
		}
		return r
	}, s)
}
