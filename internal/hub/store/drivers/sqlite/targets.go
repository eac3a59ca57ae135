package sqlite

import (
	"context"
	"time"

	"github.com/dchubs/hub/internal/hub/domain"
	"github.com/dchubs/hub/internal/hub/store/drivers/sqlite/gen"
)

type targetsRepo struct {
	q   *gen.Queries
	now func() time.Time
}

func (r *targetsRepo) Get(ctx context.Context, typ domain.TargetType, id string) (domain.VoteTarget, error) {
	row, err := r.q.GetVoteTarget(ctx, gen.GetVoteTargetParams{
		TargetType: string(typ),
		TargetID:   id,
	})
	if err != nil {
		return domain.VoteTarget{}, mapNotFound(err)
	}
	return mapVoteTarget(row), nil
}

// Put inserts or updates t. created_at is kept on update.
func (r *targetsRepo) Put(ctx context.Context, t domain.VoteTarget) error {
	now := r.now().Unix()
	return r.q.PutVoteTarget(ctx, gen.PutVoteTargetParams{
		TargetType:   string(t.Type),
		TargetID:     t.ID,
		Name:         t.Name,
		CallbackUrl:  t.CallbackURL,
		SharedSecret: t.SharedSecret,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func mapVoteTarget(row gen.VoteTarget) domain.VoteTarget {
	return domain.VoteTarget{
		Type:         domain.TargetType(row.TargetType),
		ID:           row.TargetID,
		Name:         row.Name,
		CallbackURL:  row.CallbackUrl,
		SharedSecret: row.SharedSecret,
		CreatedAt:    fromUnix(row.CreatedAt),
		UpdatedAt:    fromUnix(row.UpdatedAt),
	}
}
