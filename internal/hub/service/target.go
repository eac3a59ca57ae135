package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dchubs/hub/internal/hub/cache"
	"github.com/dchubs/hub/internal/hub/domain"
	"github.com/dchubs/hub/internal/hub/store"
	"github.com/dchubs/hub/pkg/cryptox"
	"github.com/dchubs/hub/pkg/slogx"
	"golang.org/x/sync/singleflight"
)

const DefaultTargetTTL = time.Minute

// targetLoadTimeout bounds a shared store read. The read outlives any single
// caller's context because other callers may be waiting on it.
const targetLoadTimeout = 5 * time.Second

// TargetService resolves vote targets through a short-lived cache. Misses
// for the same target are collapsed into one store read, and unknown targets
// are never cached.
type TargetService struct {
	Store store.Store
	Cache cache.Cache // optional
	TTL   time.Duration

	// Sealer, when set, encrypts cache entries. Entries carry the shared
	// secret, so set it whenever the cache lives outside the process.
	Sealer *cryptox.Sealer

	group singleflight.Group
}

type cachedTarget struct {
	Type         domain.TargetType `json:"type"`
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	CallbackURL  string            `json:"callbackUrl"`
	SharedSecret string            `json:"sharedSecret"`
}

func targetKey(typ domain.TargetType, id string) string {
	return "target:" + string(typ) + ":" + id
}

// Resolve returns the target or ErrTargetNotFound.
func (s *TargetService) Resolve(ctx context.Context, typ domain.TargetType, id string) (domain.VoteTarget, error) {
	key := targetKey(typ, id)

	if t, ok := s.fromCache(ctx, key); ok {
		return t, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), targetLoadTimeout)
		defer cancel()

		t, err := s.Store.Targets().Get(loadCtx, typ, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.VoteTarget{}, ErrTargetNotFound
			}
			return domain.VoteTarget{}, fmt.Errorf("load target: %w", err)
		}
		s.toCache(loadCtx, key, t)
		return t, nil
	})

	select {
	case <-ctx.Done():
		return domain.VoteTarget{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.VoteTarget{}, res.Err
		}
		return res.Val.(domain.VoteTarget), nil
	}
}

// Put writes t through to the store and drops any cached copy.
func (s *TargetService) Put(ctx context.Context, t domain.VoteTarget) error {
	if !t.Type.Valid() || t.ID == "" {
		return &domain.ValidationError{Field: "target", Reason: "type and id required"}
	}
	if err := s.Store.Targets().Put(ctx, t); err != nil {
		return err
	}
	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, targetKey(t.Type, t.ID)); err != nil {
			slogx.FromContext(ctx).Warn("target cache invalidation failed", slog.Any("error", err))
		}
	}
	return nil
}

func (s *TargetService) fromCache(ctx context.Context, key string) (domain.VoteTarget, bool) {
	if s.Cache == nil {
		return domain.VoteTarget{}, false
	}

	raw, err := s.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			slogx.FromContext(ctx).Warn("target cache read failed", slog.Any("error", err))
		}
		return domain.VoteTarget{}, false
	}

	if s.Sealer != nil {
		if raw, err = s.Sealer.Open(string(raw), []byte(key)); err != nil {
			slogx.FromContext(ctx).Warn("target cache entry unreadable", slog.Any("error", err))
			return domain.VoteTarget{}, false
		}
	}

	var c cachedTarget
	if err := json.Unmarshal(raw, &c); err != nil {
		return domain.VoteTarget{}, false
	}
	return domain.VoteTarget{
		Type:         c.Type,
		ID:           c.ID,
		Name:         c.Name,
		CallbackURL:  c.CallbackURL,
		SharedSecret: c.SharedSecret,
	}, true
}

func (s *TargetService) toCache(ctx context.Context, key string, t domain.VoteTarget) {
	if s.Cache == nil {
		return
	}

	raw, err := json.Marshal(cachedTarget{
		Type:         t.Type,
		ID:           t.ID,
		Name:         t.Name,
		CallbackURL:  t.CallbackURL,
		SharedSecret: t.SharedSecret,
	})
	if err != nil {
		return
	}
	if s.Sealer != nil {
		sealed, err := s.Sealer.Seal(raw, []byte(key))
		if err != nil {
			return
		}
		raw = []byte(sealed)
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultTargetTTL
	}
	if err := s.Cache.Set(ctx, key, raw, ttl); err != nil {
		slogx.FromContext(ctx).Warn("target cache write failed", slog.Any("error", err))
	}
}
