package service

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dchubs/hub/internal/hub/domain"
	"github.com/dchubs/hub/internal/hub/store"
	"github.com/dchubs/hub/internal/hub/store/drivers/sqlite"
	"github.com/dchubs/hub/pkg/cryptox"
	"github.com/dchubs/hub/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testKeys = jwtx.Keys{
	Access:  []byte(strings.Repeat("a", 32)),
	Refresh: []byte(strings.Repeat("r", 32)),
	Session: []byte(strings.Repeat("s", 32)),
}

// clock is a settable time source shared by signer, verifier and services.
type clock struct{ t atomic.Int64 }

func newClock(t time.Time) *clock {
	c := &clock{}
	c.set(t)
	return c
}

func (c *clock) set(t time.Time)         { c.t.Store(t.UnixNano()) }
func (c *clock) advance(d time.Duration) { c.t.Add(int64(d)) }
func (c *clock) now() time.Time          { return time.Unix(0, c.t.Load()).UTC() }

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	sealer, err := cryptox.NewSealer([]byte(strings.Repeat("k", 32)), "hub/store")
	require.NoError(t, err)
	return store.NewSealedStore(st, sealer)
}

func newTokenService(t *testing.T, st store.Store, c *clock) *TokenService {
	t.Helper()

	signer, err := jwtx.NewSigner(testKeys, jwtx.SignerOptions{
		Issuer:     "dchubs-test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		SessionTTL: time.Hour,
		Now:        c.now,
	})
	require.NoError(t, err)

	return &TokenService{
		Store:    st,
		Signer:   signer,
		Verifier: jwtx.NewVerifierHS256(testKeys, jwtx.VerifyOptions{Issuer: "dchubs-test", Now: c.now}),
		Now:      c.now,
	}
}

// countingStore counts target reads that reach the store.
type countingStore struct {
	store.Store
	reads atomic.Int32
}

func (s *countingStore) Targets() store.Targets {
	return &countingTargets{Targets: s.Store.Targets(), reads: &s.reads}
}

type countingTargets struct {
	store.Targets
	reads *atomic.Int32
}

func (c *countingTargets) Get(ctx context.Context, typ domain.TargetType, id string) (domain.VoteTarget, error) {
	c.reads.Add(1)
	return c.Targets.Get(ctx, typ, id)
}
