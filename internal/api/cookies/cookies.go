// Package cookies computes transport attributes for the auth token cookies.
// Attributes depend on the incoming request (origin, forwarded proto), so
// they are recomputed per request rather than configured once.
package cookies

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	AccessToken  = "accessToken"
	RefreshToken = "refreshToken"
)

var expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseExpiry converts a human duration string ("15m", "1h", "7d") into a
// time.Duration. The second return is false for absent or unparseable input,
// which callers treat as "session-length cookie".
func ParseExpiry(s string) (time.Duration, bool) {
	m := expiryPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	switch m[2] {
	case "s":
		return time.Duration(n) * time.Second, true
	case "m":
		return time.Duration(n) * time.Minute, true
	case "h":
		return time.Duration(n) * time.Hour, true
	case "d":
		return time.Duration(n) * 24 * time.Hour, true
	}
	return 0, false
}

// Policy renders cookie attributes. Production forces Secure on any https
// request; otherwise Secure also requires the request to be cross-site
// (origin host differing from the request host), so plain same-host local
// development still works over http.
type Policy struct {
	Production bool
}

// Options computes the attribute template for a token cookie. A zero maxAge
// yields a session cookie. Secure and SameSite=None are coupled: browsers
// reject None without Secure.
func (p Policy) Options(r *http.Request, maxAge time.Duration) http.Cookie {
	secure := p.isSecure(r)
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}

	c := http.Cookie{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
	if maxAge > 0 {
		c.MaxAge = int(maxAge / time.Second)
		c.Expires = time.Now().Add(maxAge)
	}
	return c
}

// Set writes a token cookie with per-request attributes.
func (p Policy) Set(w http.ResponseWriter, r *http.Request, name, value string, maxAge time.Duration) {
	c := p.Options(r, maxAge)
	c.Name = name
	c.Value = value
	http.SetCookie(w, &c)
}

// Clear expires a token cookie using the same attribute computation, so the
// browser matches it against the one previously set.
func (p Policy) Clear(w http.ResponseWriter, r *http.Request, name string) {
	c := p.Options(r, 0)
	c.Name = name
	c.Value = ""
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, &c)
}

func (p Policy) isSecure(r *http.Request) bool {
	if !isHTTPS(r) {
		return false
	}
	return p.Production || isCrossSite(r)
}

func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	proto := r.Header.Get("X-Forwarded-Proto")
	if i := strings.IndexByte(proto, ','); i >= 0 {
		proto = proto[:i]
	}
	return strings.EqualFold(strings.TrimSpace(proto), "https")
}

func isCrossSite(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return !strings.EqualFold(hostOnly(u.Host), hostOnly(r.Host))
}

func hostOnly(hostport string) string {
	if i := strings.LastIndexByte(hostport, ':'); i >= 0 && !strings.Contains(hostport[i:], "]") {
		return hostport[:i]
	}
	return hostport
}
