package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignWebhook_MatchesReference(t *testing.T) {
	secret := []byte("shared-secret")
	ts := "1700000000000"
	body := []byte(`{"type":"vote","targetId":"42"}`)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(ts + "." + string(body)))
	want := hex.EncodeToString(mac.Sum(nil))

	require.Equal(t, want, SignWebhook(secret, ts, body))
}

func TestSignWebhook_Deterministic(t *testing.T) {
	secret := []byte("shared-secret")
	body := []byte(`{"a":1}`)

	require.Equal(t, SignWebhook(secret, "1", body), SignWebhook(secret, "1", body))
}

func TestSignWebhook_SensitiveToEveryInput(t *testing.T) {
	secret := []byte("shared-secret")
	ts := "1700000000000"
	body := []byte(`{"a":1}`)
	base := SignWebhook(secret, ts, body)

	t.Run("secret", func(t *testing.T) {
		require.NotEqual(t, base, SignWebhook([]byte("shared-secreu"), ts, body))
	})
	t.Run("timestamp", func(t *testing.T) {
		require.NotEqual(t, base, SignWebhook(secret, "1700000000001", body))
	})
	t.Run("body", func(t *testing.T) {
		require.NotEqual(t, base, SignWebhook(secret, ts, []byte(`{"a":2}`)))
	})
	t.Run("whitespace in body", func(t *testing.T) {
		require.NotEqual(t, base, SignWebhook(secret, ts, []byte(`{"a": 1}`)))
	})
}

func TestVerifyWebhook(t *testing.T) {
	secret := []byte("shared-secret")
	now := time.UnixMilli(1_700_000_000_000)
	ts := WebhookTimestamp(now)
	body := []byte(`{"type":"vote"}`)
	sig := SignWebhook(secret, ts, body)

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, VerifyWebhook(secret, ts, body, sig, 5*time.Minute, now.Add(time.Minute)))
	})

	t.Run("tampered body", func(t *testing.T) {
		err := VerifyWebhook(secret, ts, []byte(`{"type":"votes"}`), sig, 0, now)
		require.ErrorIs(t, err, ErrWebhookSignature)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		err := VerifyWebhook(secret, ts, body, sig, 5*time.Minute, now.Add(10*time.Minute))
		require.ErrorIs(t, err, ErrWebhookSignature)
	})

	t.Run("unparsable timestamp with window", func(t *testing.T) {
		err := VerifyWebhook(secret, "yesterday", body, SignWebhook(secret, "yesterday", body), time.Minute, now)
		require.ErrorIs(t, err, ErrWebhookSignature)
	})

	t.Run("no window ignores age", func(t *testing.T) {
		require.NoError(t, VerifyWebhook(secret, ts, body, sig, 0, now.Add(24*time.Hour)))
	})
}

func TestWebhookTimestamp(t *testing.T) {
	require.Equal(t, "1700000000123", WebhookTimestamp(time.UnixMilli(1_700_000_000_123)))
}
