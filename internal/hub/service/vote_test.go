package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dchubs/hub/internal/hub/domain"
	"github.com/dchubs/hub/pkg/cryptox"
	"github.com/dchubs/hub/pkg/slogx"
	"github.com/dchubs/hub/pkg/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type received struct {
	header http.Header
	body   []byte
}

// receiver records every request and answers with status.
func receiver(t *testing.T, status int) (*httptest.Server, *atomic.Int32, chan received) {
	t.Helper()

	var hits atomic.Int32
	ch := make(chan received, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		ch <- received{header: r.Header.Clone(), body: body}
		w.WriteHeader(status)
		_, _ = w.Write([]byte("upstream says no"))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits, ch
}

func newVoteService(t *testing.T, client *http.Client, timeout time.Duration) (*VoteService, *TargetService, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg, "hub")
	require.NoError(t, err)

	targets := &TargetService{Store: newTestStore(t)}
	return &VoteService{
		Targets: targets,
		Sender:  webhook.NewSender(webhook.SenderOptions{Client: client, Timeout: timeout}),
		Metrics: metrics,
		SiteURL: "https://dchubs.org",
	}, targets, reg
}

func voteFor(typ domain.TargetType, id string) domain.VoteRequest {
	return domain.VoteRequest{
		Type:     typ,
		TargetID: id,
		User:     domain.Actor{ID: "1001", Username: "voter", Avatar: "abc"},
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestDispatchSkipsTargetWithoutCallback(t *testing.T) {
	ctx := context.Background()
	_, hits, _ := receiver(t, http.StatusOK)
	svc, targets, reg := newVoteService(t, nil, time.Second)

	require.NoError(t, targets.Put(ctx, domain.VoteTarget{Type: domain.TargetBot, ID: "42", Name: "Quiet"}))

	res, err := svc.Dispatch(ctx, voteFor(domain.TargetBot, "42"))
	require.NoError(t, err)
	require.True(t, res.Skipped)
	require.Zero(t, hits.Load())
	require.Equal(t, float64(1), counterValue(t, reg, "hub_webhook_deliveries_total", resultSkipped))
}

func TestDispatchSignsGenericPayload(t *testing.T) {
	ctx := context.Background()
	srv, _, got := receiver(t, http.StatusNoContent)
	svc, targets, reg := newVoteService(t, nil, time.Second)

	require.NoError(t, targets.Put(ctx, domain.VoteTarget{
		Type: domain.TargetBot, ID: "42", Name: "Helper", CallbackURL: srv.URL + "/hook", SharedSecret: "hook-secret",
	}))

	res, err := svc.Dispatch(ctx, voteFor(domain.TargetBot, "42"))
	require.NoError(t, err)
	require.False(t, res.Skipped)
	require.True(t, res.Signed)
	require.Equal(t, http.StatusNoContent, res.Status)
	require.NotEmpty(t, res.DeliveryID)

	r := <-got
	require.Equal(t, "application/json", r.header.Get("Content-Type"))
	ts, sig := r.header.Get(webhook.HeaderTimestamp), r.header.Get(webhook.HeaderSignature)
	require.NotEmpty(t, ts)
	require.NotEmpty(t, sig)
	require.NoError(t, cryptox.VerifyWebhook([]byte("hook-secret"), ts, r.body, sig, time.Minute, time.Now()))

	var payload webhook.GenericPayload
	require.NoError(t, json.Unmarshal(r.body, &payload))
	require.Equal(t, "vote", payload.Type)
	require.Equal(t, "bot", payload.TargetType)
	require.Equal(t, "42", payload.TargetID)
	require.Equal(t, "voter", payload.User.Username)

	require.Equal(t, float64(1), counterValue(t, reg, "hub_webhook_deliveries_total", resultDelivered))
}

func TestDispatchUnsignedWithoutSecret(t *testing.T) {
	ctx := context.Background()
	srv, _, got := receiver(t, http.StatusOK)
	svc, targets, _ := newVoteService(t, nil, time.Second)

	require.NoError(t, targets.Put(ctx, domain.VoteTarget{Type: domain.TargetServer, ID: "7", CallbackURL: srv.URL}))

	res, err := svc.Dispatch(ctx, voteFor(domain.TargetServer, "7"))
	require.NoError(t, err)
	require.False(t, res.Signed)

	r := <-got
	require.Empty(t, r.header.Get(webhook.HeaderSignature))
	require.Empty(t, r.header.Get(webhook.HeaderTimestamp))
}

func TestDispatchDiscordEmbedIsNeverSigned(t *testing.T) {
	ctx := context.Background()
	srv, _, got := receiver(t, http.StatusNoContent)

	// Route the discord.com callback to the local receiver.
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		r.URL.Scheme = target.Scheme
		r.URL.Host = target.Host
		return http.DefaultTransport.RoundTrip(r)
	})}

	svc, targets, _ := newVoteService(t, client, time.Second)
	require.NoError(t, targets.Put(ctx, domain.VoteTarget{
		Type: domain.TargetServer, ID: "7", Name: "Guild",
		CallbackURL:  "https://discord.com/api/webhooks/123/abc",
		SharedSecret: "ignored",
	}))

	res, err := svc.Dispatch(ctx, voteFor(domain.TargetServer, "7"))
	require.NoError(t, err)
	require.False(t, res.Signed)

	r := <-got
	require.Empty(t, r.header.Get(webhook.HeaderSignature))

	var payload webhook.DiscordPayload
	require.NoError(t, json.Unmarshal(r.body, &payload))
	require.Len(t, payload.Embeds, 1)
	require.Equal(t, "New vote for Guild", payload.Embeds[0].Title)
	require.Equal(t, "https://dchubs.org/servers/7", payload.Embeds[0].URL)
}

func TestDispatchFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		svc, _, _ := newVoteService(t, nil, time.Second)

		var verr *domain.ValidationError
		_, err := svc.Dispatch(ctx, domain.VoteRequest{Type: "bot"})
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "targetId", verr.Field)
	})

	t.Run("unknown target", func(t *testing.T) {
		svc, _, _ := newVoteService(t, nil, time.Second)
		_, err := svc.Dispatch(ctx, voteFor(domain.TargetBot, "nope"))
		require.ErrorIs(t, err, ErrTargetNotFound)
	})

	t.Run("upstream status", func(t *testing.T) {
		srv, hits, _ := receiver(t, http.StatusInternalServerError)
		svc, targets, reg := newVoteService(t, nil, time.Second)
		require.NoError(t, targets.Put(ctx, domain.VoteTarget{
			Type: domain.TargetBot, ID: "1", CallbackURL: srv.URL, SharedSecret: "hook-secret",
		}))

		var logs bytes.Buffer
		logCtx := slogx.WithContext(ctx, slog.New(slog.NewJSONHandler(&logs, nil)))

		_, err := svc.Dispatch(logCtx, voteFor(domain.TargetBot, "1"))
		var derr *DeliveryError
		require.ErrorAs(t, err, &derr)
		require.Equal(t, ReasonUpstreamStatus, derr.Reason)
		require.Equal(t, http.StatusInternalServerError, derr.UpstreamStatus)
		require.Equal(t, "upstream says no", derr.UpstreamBody)
		require.NotContains(t, derr.Error(), "hook-secret")

		var entry map[string]any
		for line := range strings.SplitSeq(strings.TrimSpace(logs.String()), "\n") {
			require.NoError(t, json.Unmarshal([]byte(line), &entry))
			if entry["msg"] == "vote delivery failed" {
				break
			}
		}
		require.Equal(t, "vote delivery failed", entry["msg"])
		require.Equal(t, "upstream_status", entry["reason"])
		require.Equal(t, float64(http.StatusInternalServerError), entry["upstream_status"])
		require.Equal(t, "upstream says no", entry["upstream_body"])
		require.NotContains(t, logs.String(), "hook-secret")

		// Exactly one attempt.
		require.Equal(t, int32(1), hits.Load())
		require.Equal(t, float64(1), counterValue(t, reg, "hub_webhook_deliveries_total", resultFailed))
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		svc, targets, _ := newVoteService(t, nil, 50*time.Millisecond)
		require.NoError(t, targets.Put(ctx, domain.VoteTarget{Type: domain.TargetBot, ID: "1", CallbackURL: srv.URL}))

		_, err := svc.Dispatch(ctx, voteFor(domain.TargetBot, "1"))
		var derr *DeliveryError
		require.ErrorAs(t, err, &derr)
		require.Equal(t, ReasonTimeout, derr.Reason)
		require.Zero(t, derr.UpstreamStatus)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		svc, targets, _ := newVoteService(t, nil, time.Second)
		require.NoError(t, targets.Put(ctx, domain.VoteTarget{Type: domain.TargetBot, ID: "1", CallbackURL: addr}))

		_, err := svc.Dispatch(ctx, voteFor(domain.TargetBot, "1"))
		var derr *DeliveryError
		require.ErrorAs(t, err, &derr)
		require.Equal(t, ReasonUnreachable, derr.Reason)
	})

	t.Run("invalid callback", func(t *testing.T) {
		svc, targets, _ := newVoteService(t, nil, time.Second)
		require.NoError(t, targets.Put(ctx, domain.VoteTarget{Type: domain.TargetBot, ID: "1", CallbackURL: "ftp://example.com"}))

		_, err := svc.Dispatch(ctx, voteFor(domain.TargetBot, "1"))
		var derr *DeliveryError
		require.ErrorAs(t, err, &derr)
		require.Equal(t, ReasonInvalidCallback, derr.Reason)
		require.False(t, strings.Contains(derr.Error(), "ftp"))
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
