package jwtx_test

import (
	"testing"
	"time"

	"github.com/dchubs/hub/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestIsExpiringSoon(t *testing.T) {
	now := time.Now().UTC()
	s, _ := newSignerVerifier(t, now) // access TTL 15m

	pair, err := s.IssuePair("user-1")
	require.NoError(t, err)

	require.False(t, jwtx.IsExpiringSoon(pair.AccessToken, 5*time.Minute, now))
	require.True(t, jwtx.IsExpiringSoon(pair.AccessToken, 20*time.Minute, now))
	require.True(t, jwtx.IsExpiringSoon(pair.AccessToken, 5*time.Minute, now.Add(12*time.Minute)))
	require.True(t, jwtx.IsExpiringSoon(pair.AccessToken, 0, now.Add(time.Hour)), "already expired counts as expiring")
}

func TestIsExpiringSoon_DoesNotVerify(t *testing.T) {
	now := time.Now().UTC()
	other := testKeys
	other.Access = []byte("ffffffffffffffffffffffffffffffff-other-access")

	s, err := jwtx.NewSigner(other, jwtx.SignerOptions{AccessTTL: time.Minute, Now: fixedClock(now)})
	require.NoError(t, err)

	tok, _, err := s.Sign(jwtx.KindAccess, "user-1", time.Minute)
	require.NoError(t, err)

	// Still answers for a token we could never verify: this is a hint, not authz.
	require.True(t, jwtx.IsExpiringSoon(tok, 5*time.Minute, now))
}

func TestIsExpiringSoon_Garbage(t *testing.T) {
	require.False(t, jwtx.IsExpiringSoon("", time.Hour, time.Now()))
	require.False(t, jwtx.IsExpiringSoon("not-a-token", time.Hour, time.Now()))
}

func TestIsExpiringSoon_NoExpiry(t *testing.T) {
	now := time.Now()
	s, err := jwtx.NewSigner(testKeys, jwtx.SignerOptions{Now: fixedClock(now)})
	require.NoError(t, err)

	tok, _, err := s.Sign(jwtx.KindAccess, "user-1", 0)
	require.NoError(t, err)
	require.False(t, jwtx.IsExpiringSoon(tok, time.Hour, now))
}
