package hubsdk

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeHub mimics the guarded endpoints closely enough to exercise the
// client's cookie and header handling.
func fakeHub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/csrf", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrfToken", Value: "tok-1", Path: "/"})
		_ = json.NewEncoder(w).Encode(CSRFResponse{CSRFToken: "tok-1"})
	})
	mux.HandleFunc("POST /v1/votes/notify", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("csrfToken")
		if err != nil || c.Value != r.Header.Get("x-csrf-token") {
			ErrInvalidCSRF.WriteError(w)
			return
		}
		if r.Header.Get("Origin") == "" {
			ErrForbiddenOrigin.WriteError(w)
			return
		}

		var req VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ErrInvalidJSON.WriteError(w)
			return
		}
		switch req.TargetID {
		case "skip":
			_ = json.NewEncoder(w).Encode(VoteResponse{Success: true, Skipped: true})
		case "broken":
			(&DeliveryError{Reason: "upstream_status", UpstreamStatus: 500, UpstreamBody: "try later"}).WriteError(w)
		case "missing":
			ErrTargetNotFound.WriteError(w)
		default:
			_ = json.NewEncoder(w).Encode(VoteResponse{Success: true})
		}
	})
	mux.HandleFunc("POST /v1/tokens/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Token != "refresh-1" {
			ErrInvalidToken.WriteError(w)
			return
		}
		exp := time.Now().Add(time.Hour)
		_ = json.NewEncoder(w).Encode(TokenPairResponse{AccessToken: "access-2", RefreshToken: "refresh-2", AccessExpiresAt: &exp})
	})
	mux.HandleFunc("GET /v1/tokens/self", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			ErrNotAuthenticated.WriteError(w)
			return
		}
		w.Header().Set(HeaderExpiringSoon, "true")
		_ = json.NewEncoder(w).Encode(SelfResponse{Subject: "user-1"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNotifyVote(t *testing.T) {
	srv := fakeHub(t)
	client := NewClient(srv.URL + "/")
	ctx := t.Context()

	vote := func(id string) VoteRequest {
		return VoteRequest{Type: "bot", TargetID: id, User: VoteUser{ID: "1", Username: "u"}}
	}

	res, err := client.NotifyVote(ctx, vote("ok"))
	require.NoError(t, err)
	require.True(t, res.Success)
	require.False(t, res.Skipped)

	res, err = client.NotifyVote(ctx, vote("skip"))
	require.NoError(t, err)
	require.True(t, res.Skipped)

	_, err = client.NotifyVote(ctx, vote("broken"))
	var derr *DeliveryError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "upstream_status", derr.Reason)
	require.Equal(t, 500, derr.UpstreamStatus)
	require.Equal(t, "try later", derr.UpstreamBody)

	_, err = client.NotifyVote(ctx, vote("missing"))
	require.ErrorIs(t, err, ErrTargetNotFound)
}

func TestNotifyVoteWithStaleCSRF(t *testing.T) {
	srv := fakeHub(t)
	client := NewClient(srv.URL)
	client.csrf = "stale"

	_, err := client.NotifyVote(t.Context(), VoteRequest{Type: "bot", TargetID: "ok"})
	require.ErrorIs(t, err, ErrInvalidCSRF)

	_, err = client.CSRF(t.Context())
	require.NoError(t, err)
	_, err = client.NotifyVote(t.Context(), VoteRequest{Type: "bot", TargetID: "ok"})
	require.NoError(t, err)
}

func TestSessionRefreshesExpiredToken(t *testing.T) {
	srv := fakeHub(t)
	client := NewClient(srv.URL)

	past := time.Now().Add(-time.Minute)
	s := newSession(client, &TokenPairResponse{AccessToken: "access-1", RefreshToken: "refresh-1", AccessExpiresAt: &past})

	self, err := s.Self(t.Context())
	require.NoError(t, err)
	require.Equal(t, "user-1", self.Subject)
	require.True(t, self.ExpiringSoon)
	require.Equal(t, "access-2", s.AccessToken())
	require.Equal(t, "refresh-2", s.RefreshToken())

	// refresh-2 is unknown to the fake, so a forced rotation fails.
	err = s.Refresh(t.Context())
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	resp := func(code int) *http.Response { return &http.Response{StatusCode: code} }

	require.NoError(t, parseErrorResponse(resp(http.StatusOK), nil))

	err := parseErrorResponse(resp(http.StatusForbidden), []byte(`{"error":"Forbidden origin"}`))
	require.ErrorIs(t, err, ErrForbiddenOrigin)
	require.False(t, errors.Is(err, ErrInvalidCSRF))

	err = parseErrorResponse(resp(http.StatusBadGateway), []byte(`{"success":false,"reason":"timeout"}`))
	var derr *DeliveryError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "timeout", derr.Reason)
	require.Zero(t, derr.UpstreamStatus)

	err = parseErrorResponse(resp(http.StatusServiceUnavailable), []byte("<html>"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}
