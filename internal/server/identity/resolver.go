package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/techelevate/platform/internal/common"
)

// AccountFinder loads an account from the table selected by subject.Role.
// It returns common.ErrorNotFound when the row does not exist.
type AccountFinder interface {
	FindByID(ctx context.Context, subject Subject) (*Account, error)
}

// Resolver maps a verified subject to an active account. The role is
// authoritative: only the table it names is consulted.
type Resolver struct {
	accounts AccountFinder
}

func NewResolver(accounts AccountFinder) *Resolver {
	return &Resolver{accounts: accounts}
}

// Resolve returns common.ErrAccountNotFound for missing rows and
// common.ErrAccountDeactivated for inactive ones. Storage failures are
// returned wrapped and still reject the request.
func (r *Resolver) Resolve(ctx context.Context, subject Subject) (*Account, error) {
	if !subject.Role.Valid() {
		return nil, common.ErrMalformedCredential
	}

	account, err := r.accounts.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("resolve %s: %w", subject, err)
	}

	if account.Subject() != subject {
		return nil, common.ErrAccountNotFound
	}
	if !account.Active {
		return nil, common.ErrAccountDeactivated
	}

	return account, nil
}
