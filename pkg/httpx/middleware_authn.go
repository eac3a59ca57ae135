package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/dchubs/hub/pkg/jwtx"
	"github.com/dchubs/hub/pkg/slogx"
)

// SessionCookieName carries the browser session token minted at login.
const SessionCookieName = "dchubs_session"

// Authenticator verifies an API access token, including any server-side
// revocation state.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (jwtx.Claims, error)
}

// SessionMiddleware authenticates a browser session, read from the
// dchubs_session cookie or an "Authorization: Session <token>" header.
func SessionMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := sessionToken(r)
			if raw == "" {
				WriteError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			claims, err := v.Verify(raw, jwtx.KindSession)
			if err != nil {
				slogx.FromContext(r.Context()).Info("session verify failed", "err", err)
				WriteError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if tok, ok := authorizationToken(r, "Session"); ok {
		return tok
	}
	return ""
}

// AuthnMiddleware authenticates "Authorization: Bearer <access token>".
func AuthnMiddleware(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := authorizationToken(r, "Bearer")
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := a.Authenticate(r.Context(), raw)
			if err != nil {
				slogx.FromContext(r.Context()).Info("access token rejected", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// authorizationToken extracts the credentials of an Authorization header
// using scheme (case-insensitive, RFC 7235).
func authorizationToken(r *http.Request, scheme string) (string, bool) {
	h := r.Header.Get("Authorization")
	prefix, tok, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(prefix, scheme) {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// RFC 6750 error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "Not authenticated")
}
