// Package revocation records logged-out token ids so that a token dies
// before its natural expiry. Revocation is per token, never per account.
package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/techelevate/platform/internal/clock"
)

// Ledger stores revoked token ids. Insert must be idempotent: inserting an
// id that is already present succeeds without changing anything.
type Ledger interface {
	Insert(ctx context.Context, tokenID string, expiresAt time.Time) error
	Exists(ctx context.Context, tokenID string) (bool, error)
}

// Pruner is implemented by ledgers that need explicit garbage collection of
// records whose token has expired anyway.
type Pruner interface {
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// Manager is the revocation entry point used by the account service.
type Manager struct {
	ledger Ledger
	clock  clock.Clock
}

func NewManager(l Ledger, c clock.Clock) *Manager {
	if c == nil {
		c = clock.Real()
	}
	return &Manager{ledger: l, clock: c}
}

// Revoke marks tokenID as dead. expiresAt is the token's own expiry and
// bounds how long the record has to be kept.
func (m *Manager) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return fmt.Errorf("revoke: empty token id")
	}
	if err := m.ledger.Insert(ctx, tokenID, expiresAt); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked. Errors must be treated as
// a rejection by the caller.
func (m *Manager) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	ok, err := m.ledger.Exists(ctx, tokenID)
	if err != nil {
		return false, fmt.Errorf("revocation lookup: %w", err)
	}
	return ok, nil
}

// Prune drops records of tokens that have expired. Ledgers that evict on
// their own report zero.
func (m *Manager) Prune(ctx context.Context) (int64, error) {
	p, ok := m.ledger.(Pruner)
	if !ok {
		return 0, nil
	}
	return p.PruneExpired(ctx, m.clock.Now())
}
