package sqlite

import (
	"context"
	"time"

	"github.com/dchubs/hub/internal/hub/domain"
	"github.com/dchubs/hub/internal/hub/store/drivers/sqlite/gen"
)

type tokenPairsRepo struct {
	q   *gen.Queries
	now func() time.Time
}

func (r *tokenPairsRepo) Upsert(ctx context.Context, p domain.TokenPair) error {
	return r.q.UpsertTokenPair(ctx, gen.UpsertTokenPairParams{
		SubjectID:        p.SubjectID,
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		IssuedAt:         p.IssuedAt.Unix(),
		AccessExpiresAt:  unixOrNull(p.AccessExpiresAt),
		RefreshExpiresAt: unixOrNull(p.RefreshExpiresAt),
		UpdatedAt:        r.now().Unix(),
	})
}

func (r *tokenPairsRepo) Get(ctx context.Context, subjectID string) (domain.TokenPair, error) {
	row, err := r.q.GetTokenPair(ctx, subjectID)
	if err != nil {
		return domain.TokenPair{}, mapNotFound(err)
	}
	return mapTokenPair(row), nil
}

func (r *tokenPairsRepo) Delete(ctx context.Context, subjectID string) error {
	return r.q.DeleteTokenPair(ctx, subjectID)
}

func (r *tokenPairsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredTokenPairs(ctx, unixOrNull(now))
}

func mapTokenPair(row gen.TokenPair) domain.TokenPair {
	return domain.TokenPair{
		SubjectID:        row.SubjectID,
		AccessToken:      row.AccessToken,
		RefreshToken:     row.RefreshToken,
		IssuedAt:         fromUnix(row.IssuedAt),
		AccessExpiresAt:  timeOrZero(row.AccessExpiresAt),
		RefreshExpiresAt: timeOrZero(row.RefreshExpiresAt),
		UpdatedAt:        fromUnix(row.UpdatedAt),
	}
}
