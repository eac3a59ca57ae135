package httpx

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/dchubs/hub/pkg/slogx"
)

// OriginGuard admits state-changing requests only from allow-listed origins
// or from the server's own origin.
type OriginGuard struct {
	allowed  map[string]struct{}
	onReject func(*http.Request)
}

// NewOriginGuard builds a guard over allowed. Entries that are not absolute
// origins (scheme://host[:port]) are ignored.
func NewOriginGuard(allowed []string, onReject func(*http.Request)) *OriginGuard {
	g := &OriginGuard{
		allowed:  make(map[string]struct{}, len(allowed)),
		onReject: onReject,
	}
	for _, a := range allowed {
		if o, ok := normalizeOrigin(a); ok {
			g.allowed[o] = struct{}{}
		}
	}
	return g
}

// IsAllowed resolves the caller's origin and checks it.
//
// The Origin header wins. Without it the origin is derived from Referer.
// If neither yields an absolute origin the request is refused.
func (g *OriginGuard) IsAllowed(origin, referer, requestOrigin string) bool {
	candidate := origin
	if candidate == "" {
		candidate = referer
	}
	if candidate == "" {
		return false
	}

	o, ok := normalizeOrigin(candidate)
	if !ok {
		return false
	}

	if self, ok := normalizeOrigin(requestOrigin); ok && self == o {
		return true
	}
	_, ok = g.allowed[o]
	return ok
}

// Middleware rejects disallowed requests with 403.
func (g *OriginGuard) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin, referer := r.Header.Get("Origin"), r.Header.Get("Referer")
			if !g.IsAllowed(origin, referer, RequestOrigin(r)) {
				slogx.FromContext(r.Context()).Warn("origin rejected",
					"origin", origin,
					"has_referer", referer != "",
				)
				if g.onReject != nil {
					g.onReject(r)
				}
				WriteError(w, http.StatusForbidden, "Forbidden origin")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestOrigin returns scheme://host for the origin the client addressed,
// trusting X-Forwarded-Proto from the fronting proxy.
func RequestOrigin(r *http.Request) string {
	if r.Host == "" {
		return ""
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	} else if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		first, _, _ := strings.Cut(p, ",")
		scheme = strings.ToLower(strings.TrimSpace(first))
	}
	return scheme + "://" + r.Host
}

// normalizeOrigin reduces an origin or URL to lower-case scheme://host[:port],
// dropping default ports. Anything without both scheme and host fails,
// including the opaque "null" origin.
func normalizeOrigin(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" || u.Opaque != "" {
		return "", false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return scheme + "://" + host, true
}
