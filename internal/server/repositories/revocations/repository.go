// Package revocations persists the revoked token ledger in PostgreSQL.
package revocations

import (
	"context"
	"time"
)

// Repository stores one row per revoked token id.
type Repository interface {
	// Insert records tokenID. Inserting an existing id is not an error.
	Insert(ctx context.Context, tokenID string, expiresAt time.Time) error

	Exists(ctx context.Context, tokenID string) (bool, error)

	// PruneExpired deletes records whose token expired at or before now.
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}
