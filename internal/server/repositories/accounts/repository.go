// Package accounts stores administrators and members. Each role has its own
// table and its own id sequence; every method selects the table from the
// role it is given and never looks at the other one.
package accounts

import (
	"context"

	"github.com/techelevate/platform/internal/server/identity"
)

type Repository interface {
	// Create inserts a, filling ID and CreatedAt. Duplicate email or username
	// within the role yields common.ConflictError.
	Create(ctx context.Context, a *identity.Account) (*identity.Account, error)
	FindByID(ctx context.Context, s identity.Subject) (*identity.Account, error)
	FindByEmail(ctx context.Context, role identity.Role, email string) (*identity.Account, error)
	List(ctx context.Context, role identity.Role) ([]*identity.Account, error)
	UpdateProfile(ctx context.Context, a *identity.Account) error
	UpdatePassword(ctx context.Context, s identity.Subject, hash []byte) error
	SetActive(ctx context.Context, s identity.Subject, active bool) error
	SetProfilePicture(ctx context.Context, s identity.Subject, key string) error
	Delete(ctx context.Context, s identity.Subject) error
}
