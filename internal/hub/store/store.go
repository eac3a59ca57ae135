package store

import (
	"context"
	"errors"
	"time"

	"github.com/dchubs/hub/internal/hub/domain"
)

var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories.
type Store interface {
	TokenPairs() TokenPairs
	Targets() Targets

	ApplyMigrations() error

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	TokenPairs() TokenPairs
	Targets() Targets
}

// TokenPairs holds the current pair of every subject.
//
// Writes are last-writer-wins: two rotations racing for one subject both
// succeed and whichever commits last becomes current. The loser's tokens then
// fail the revocation check on next use.
type TokenPairs interface {
	// Upsert replaces the subject's pair.
	Upsert(ctx context.Context, p domain.TokenPair) error

	// Get returns the subject's pair or ErrNotFound.
	Get(ctx context.Context, subjectID string) (domain.TokenPair, error)

	// Delete removes the subject's pair. Deleting a missing pair is not an error.
	Delete(ctx context.Context, subjectID string) error

	// DeleteExpired removes pairs whose refresh token expired before now and
	// returns how many went.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Targets holds vote targets. Listing CRUD lives elsewhere; this service only
// reads targets and seeds them from the CLI.
type Targets interface {
	Get(ctx context.Context, typ domain.TargetType, id string) (domain.VoteTarget, error)
	Put(ctx context.Context, t domain.VoteTarget) error
}
