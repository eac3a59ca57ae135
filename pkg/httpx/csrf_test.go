package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dchubs/hub/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCSRFGuard_Check(t *testing.T) {
	g := httpx.NewCSRFGuard(httpx.CSRFConfig{})

	tests := []struct {
		name   string
		header string
		cookie string
		want   bool
	}{
		{"match", "tok-123", "tok-123", true},
		{"mismatch", "abc", "xyz", false},
		{"missing header", "", "tok-123", false},
		{"missing cookie", "tok-123", "", false},
		{"both missing", "", "", false},
		{"prefix only", "tok-12", "tok-123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, g.Check(tt.header, tt.cookie))
		})
	}
}

func TestCSRFGuard_Issue(t *testing.T) {
	g := httpx.NewCSRFGuard(httpx.CSRFConfig{Domain: "dchubs.org", Secure: true})

	rec := httptest.NewRecorder()
	tok, err := g.Issue(rec)
	require.NoError(t, err)
	require.Len(t, tok, 43, "256 bits base64url")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	require.Equal(t, httpx.DefaultCSRFCookieName, c.Name)
	require.Equal(t, tok, c.Value)
	require.Equal(t, "/", c.Path)
	require.Equal(t, "dchubs.org", c.Domain)
	require.Equal(t, int(time.Hour/time.Second), c.MaxAge)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.True(t, c.Secure)
	require.False(t, c.HttpOnly, "client script must be able to read it")

	again, err := g.Issue(httptest.NewRecorder())
	require.NoError(t, err)
	require.NotEqual(t, tok, again)
}

func TestCSRFGuard_Middleware(t *testing.T) {
	var rejected int
	g := httpx.NewCSRFGuard(httpx.CSRFConfig{OnReject: func(*http.Request) { rejected++ }})
	h := httpx.Chain(okHandler(), g.Middleware())

	t.Run("valid token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("x-csrf-token", "same")
		req.AddCookie(&http.Cookie{Name: "csrfToken", Value: "same"})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("mismatch is rejected without reissue", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("x-csrf-token", "abc")
		req.AddCookie(&http.Cookie{Name: "csrfToken", Value: "xyz"})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "Invalid CSRF token", body["error"])
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("missing cookie is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("x-csrf-token", "abc")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	require.Equal(t, 2, rejected)
}
