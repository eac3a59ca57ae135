package httpx

import (
	"net/http"
	"time"

	"github.com/dchubs/hub/pkg/cryptox"
	"github.com/dchubs/hub/pkg/slogx"
)

const (
	DefaultCSRFCookieName = "csrfToken"
	DefaultCSRFHeaderName = "x-csrf-token"
	DefaultCSRFMaxAge     = time.Hour
)

// CSRFConfig configures the double-submit cookie.
type CSRFConfig struct {
	CookieName string
	HeaderName string
	Domain     string // empty: host-only cookie
	Secure     bool
	MaxAge     time.Duration
	SameSite   http.SameSite // Lax unless set to Strict

	// OnReject, when set, is called for every rejected request.
	OnReject func(*http.Request)
}

// CSRFGuard implements the double-submit pattern: the token lives in a cookie
// readable by page script, and the client echoes it in a header. A request
// passes only when both are present and equal.
type CSRFGuard struct {
	cfg CSRFConfig
}

// NewCSRFGuard fills defaults into cfg.
func NewCSRFGuard(cfg CSRFConfig) *CSRFGuard {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCSRFCookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultCSRFHeaderName
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultCSRFMaxAge
	}
	if cfg.SameSite != http.SameSiteStrictMode {
		cfg.SameSite = http.SameSiteLaxMode
	}
	return &CSRFGuard{cfg: cfg}
}

// CookieName is the cookie Issue sets.
func (g *CSRFGuard) CookieName() string { return g.cfg.CookieName }

// HeaderName is the header Check expects the token in.
func (g *CSRFGuard) HeaderName() string { return g.cfg.HeaderName }

// Issue mints a 256-bit token and sets it as a cookie on w.
func (g *CSRFGuard) Issue(w http.ResponseWriter) (string, error) {
	tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     g.cfg.CookieName,
		Value:    tok,
		Path:     "/",
		Domain:   g.cfg.Domain,
		MaxAge:   int(g.cfg.MaxAge / time.Second),
		Expires:  time.Now().Add(g.cfg.MaxAge).UTC(),
		Secure:   g.cfg.Secure,
		HttpOnly: false, // page script must read it to echo it back
		SameSite: g.cfg.SameSite,
	})
	return tok, nil
}

// Check reports whether header and cookie are both non-empty and equal.
func (g *CSRFGuard) Check(header, cookie string) bool {
	if header == "" || cookie == "" {
		return false
	}
	return cryptox.EqualString(header, cookie)
}

// CheckRequest applies Check to the header and cookie of r.
func (g *CSRFGuard) CheckRequest(r *http.Request) bool {
	var cookie string
	if c, err := r.Cookie(g.cfg.CookieName); err == nil {
		cookie = c.Value
	}
	return g.Check(r.Header.Get(g.cfg.HeaderName), cookie)
}

// Middleware rejects requests failing CheckRequest with 403. It never
// issues a replacement token.
func (g *CSRFGuard) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.CheckRequest(r) {
				slogx.FromContext(r.Context()).Warn("csrf check failed")
				if g.cfg.OnReject != nil {
					g.cfg.OnReject(r)
				}
				WriteError(w, http.StatusForbidden, "Invalid CSRF token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
