package sqlite

import (
	"time"

	"github.com/dchubs/hub/internal/hub/store"
	"github.com/dchubs/hub/internal/hub/store/drivers/sqlite/gen"
)

// txStore exposes the repos bound to one transaction. Nested transactions
// are not offered.
type txStore struct {
	q   *gen.Queries
	now func() time.Time
}

func (t *txStore) TokenPairs() store.TokenPairs { return &tokenPairsRepo{q: t.q, now: t.now} }
func (t *txStore) Targets() store.Targets       { return &targetsRepo{q: t.q, now: t.now} }
