package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dchubs/hub/internal/hub/domain"
	"github.com/dchubs/hub/pkg/cryptox"
)

// NewSealedStore wraps st so that tokens and target secrets are encrypted
// before they reach the driver. Each ciphertext is bound to its row through
// the AEAD additional data, so a value copied between rows fails to open.
func NewSealedStore(st Store, sealer *cryptox.Sealer) Store {
	return &sealedStore{Store: st, sealer: sealer}
}

type sealedStore struct {
	Store
	sealer *cryptox.Sealer
}

func (s *sealedStore) TokenPairs() TokenPairs {
	return &sealedTokenPairs{inner: s.Store.TokenPairs(), sealer: s.sealer}
}

func (s *sealedStore) Targets() Targets {
	return &sealedTargets{inner: s.Store.Targets(), sealer: s.sealer}
}

func (s *sealedStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.Store.WithTx(ctx, func(tx Tx) error {
		return fn(&sealedTx{inner: tx, sealer: s.sealer})
	})
}

type sealedTx struct {
	inner  Tx
	sealer *cryptox.Sealer
}

func (t *sealedTx) TokenPairs() TokenPairs {
	return &sealedTokenPairs{inner: t.inner.TokenPairs(), sealer: t.sealer}
}

func (t *sealedTx) Targets() Targets {
	return &sealedTargets{inner: t.inner.Targets(), sealer: t.sealer}
}

type sealedTokenPairs struct {
	inner  TokenPairs
	sealer *cryptox.Sealer
}

func tokenAAD(kind, subjectID string) []byte {
	return []byte("token_pairs:" + kind + ":" + subjectID)
}

func (r *sealedTokenPairs) Upsert(ctx context.Context, p domain.TokenPair) error {
	var err error
	if p.AccessToken, err = r.sealer.Seal([]byte(p.AccessToken), tokenAAD("access", p.SubjectID)); err != nil {
		return fmt.Errorf("seal access token: %w", err)
	}
	if p.RefreshToken, err = r.sealer.Seal([]byte(p.RefreshToken), tokenAAD("refresh", p.SubjectID)); err != nil {
		return fmt.Errorf("seal refresh token: %w", err)
	}
	return r.inner.Upsert(ctx, p)
}

func (r *sealedTokenPairs) Get(ctx context.Context, subjectID string) (domain.TokenPair, error) {
	p, err := r.inner.Get(ctx, subjectID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	access, err := r.sealer.Open(p.AccessToken, tokenAAD("access", subjectID))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("open access token: %w", err)
	}
	refresh, err := r.sealer.Open(p.RefreshToken, tokenAAD("refresh", subjectID))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("open refresh token: %w", err)
	}

	p.AccessToken, p.RefreshToken = string(access), string(refresh)
	return p, nil
}

func (r *sealedTokenPairs) Delete(ctx context.Context, subjectID string) error {
	return r.inner.Delete(ctx, subjectID)
}

func (r *sealedTokenPairs) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.inner.DeleteExpired(ctx, now)
}

type sealedTargets struct {
	inner  Targets
	sealer *cryptox.Sealer
}

func targetAAD(typ domain.TargetType, id string) []byte {
	return []byte("vote_targets:" + string(typ) + ":" + id)
}

func (r *sealedTargets) Get(ctx context.Context, typ domain.TargetType, id string) (domain.VoteTarget, error) {
	t, err := r.inner.Get(ctx, typ, id)
	if err != nil {
		return domain.VoteTarget{}, err
	}
	if t.SharedSecret == "" {
		return t, nil
	}

	secret, err := r.sealer.Open(t.SharedSecret, targetAAD(typ, id))
	if err != nil {
		return domain.VoteTarget{}, fmt.Errorf("open shared secret: %w", err)
	}
	t.SharedSecret = string(secret)
	return t, nil
}

func (r *sealedTargets) Put(ctx context.Context, t domain.VoteTarget) error {
	if t.SharedSecret != "" {
		sealed, err := r.sealer.Seal([]byte(t.SharedSecret), targetAAD(t.Type, t.ID))
		if err != nil {
			return fmt.Errorf("seal shared secret: %w", err)
		}
		t.SharedSecret = sealed
	}
	return r.inner.Put(ctx, t)
}
