package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dchubs/hub/internal/hub/store"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingDeletesExpiredPairs(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	c := newClock(time.Now())
	tokens := newTokenService(t, st, c)

	_, err := tokens.IssuePair(ctx, "stale")
	require.NoError(t, err)

	c.advance(23 * time.Hour)
	_, err = tokens.IssuePair(ctx, "fresh")
	require.NoError(t, err)

	c.advance(2 * time.Hour)

	hk := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	hk.Now = c.now
	hk.cleanup()

	_, err = st.TokenPairs().Get(ctx, "stale")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.TokenPairs().Get(ctx, "fresh")
	require.NoError(t, err)
}

func TestHousekeepingStartStop(t *testing.T) {
	hk := NewHousekeepingService(newTestStore(t), slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}
