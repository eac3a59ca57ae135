package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dchubs/hub/internal/hub/domain"
	"github.com/dchubs/hub/internal/hub/store"
	"github.com/dchubs/hub/pkg/cryptox"
	"github.com/dchubs/hub/pkg/jwtx"
	"github.com/dchubs/hub/pkg/slogx"
)

// DefaultExpiringSoon is how close to expiry an access token must be before
// clients are told to rotate.
const DefaultExpiringSoon = 10 * time.Minute

// TokenService issues, rotates and checks API token pairs. The store is the
// source of truth: a pair that is no longer current fails even while its
// signature and expiry are fine.
type TokenService struct {
	Store    store.Store
	Signer   *jwtx.Signer
	Verifier jwtx.Verifier

	ExpiringSoonThreshold time.Duration
	Now                   func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssuePair mints a new pair for subject and makes it current, superseding
// any previous pair.
func (s *TokenService) IssuePair(ctx context.Context, subject string) (domain.TokenPair, error) {
	pair, err := s.mint(subject)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if err := s.Store.TokenPairs().Upsert(ctx, pair); err != nil {
		return domain.TokenPair{}, fmt.Errorf("store token pair: %w", err)
	}

	slogx.FromContext(ctx).Info("token pair issued",
		slog.String("subject", subject),
		slog.String("access_fp", cryptox.ShortFingerprint(pair.AccessToken)),
	)
	return pair, nil
}

// Refresh exchanges the subject's current refresh token for a new pair.
// Expired, forged, superseded or unknown tokens yield ErrUnauthenticated and
// leave the store untouched.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(refreshToken, jwtx.KindRefresh)
	if err != nil {
		l.Info("refresh token rejected", slog.String("reason", err.Error()))
		return domain.TokenPair{}, ErrUnauthenticated
	}
	subject := claims.Subject

	var result domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.TokenPairs().Get(ctx, subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUnauthenticated
			}
			return err
		}
		if !cryptox.EqualString(current.RefreshToken, refreshToken) {
			return ErrUnauthenticated
		}

		pair, err := s.mint(subject)
		if err != nil {
			return err
		}
		if err := tx.TokenPairs().Upsert(ctx, pair); err != nil {
			return err
		}
		result = pair
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			l.Info("refresh token is not current", slog.String("subject", subject))
		}
		return domain.TokenPair{}, err
	}

	l.Info("token pair rotated", slog.String("subject", subject))
	return result, nil
}

// Authenticate verifies an access token and checks it is the subject's
// current one.
func (s *TokenService) Authenticate(ctx context.Context, accessToken string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(accessToken, jwtx.KindAccess)
	if err != nil {
		return jwtx.Claims{}, ErrUnauthenticated
	}

	current, err := s.Store.TokenPairs().Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.Claims{}, ErrUnauthenticated
		}
		return jwtx.Claims{}, err
	}
	if !cryptox.EqualString(current.AccessToken, accessToken) {
		return jwtx.Claims{}, ErrUnauthenticated
	}
	return claims, nil
}

// Revoke drops the subject's pair. Both tokens stop working immediately.
func (s *TokenService) Revoke(ctx context.Context, subject string) error {
	if err := s.Store.TokenPairs().Delete(ctx, subject); err != nil {
		return fmt.Errorf("revoke token pair: %w", err)
	}
	slogx.FromContext(ctx).Info("token pair revoked", slog.String("subject", subject))
	return nil
}

// ExpiringSoon is a client hint only; see jwtx.IsExpiringSoon.
func (s *TokenService) ExpiringSoon(token string) bool {
	threshold := s.ExpiringSoonThreshold
	if threshold <= 0 {
		threshold = DefaultExpiringSoon
	}
	return jwtx.IsExpiringSoon(token, threshold, s.now())
}

func (s *TokenService) mint(subject string) (domain.TokenPair, error) {
	p, err := s.Signer.IssuePair(subject)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}
	return domain.TokenPair{
		SubjectID:        p.Subject,
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		IssuedAt:         p.IssuedAt,
		AccessExpiresAt:  p.AccessExpiresAt,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}, nil
}
