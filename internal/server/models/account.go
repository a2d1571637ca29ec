package models

import (
	"github.com/techelevate/platform/internal/server/access"
	"github.com/techelevate/platform/internal/server/identity"
)

// AccountResource lets the guard reason about an account. An account owns
// itself, so only its holder may edit the profile.
type AccountResource struct {
	*identity.Account
}

func (a AccountResource) Kind() access.Kind       { return access.KindAccount }
func (a AccountResource) Owner() identity.Subject { return a.Account.Subject() }
func (a AccountResource) Public() bool            { return false }
