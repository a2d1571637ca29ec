// Package access decides whether an actor may perform an action on a
// resource. The guard only decides; callers perform the mutation.
package access

import (
	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/server/identity"
)

type Action string

const (
	Read     Action = "read"
	Create   Action = "create"
	Update   Action = "update"
	Delete   Action = "delete"
	Moderate Action = "moderate"
)

type Kind string

const (
	KindPost          Kind = "post"
	KindComment       Kind = "comment"
	KindCategory      Kind = "category"
	KindContent       Kind = "content"
	KindSubscription  Kind = "subscription"
	KindWishlistEntry Kind = "wishlist_entry"
	KindShare         Kind = "share"
	KindAccount       Kind = "account"
)

// Resource is anything the guard can reason about. Owner is fixed when the
// resource is created and never changes.
type Resource interface {
	Kind() Kind
	Owner() identity.Subject
	Public() bool
}

// Guard applies the platform's access rules. The zero value is usable.
type Guard struct {
	adminCreate map[Kind]bool
}

// NewGuard returns a guard where categories and content items can only be
// created by administrators.
func NewGuard() *Guard {
	return &Guard{adminCreate: map[Kind]bool{
		KindCategory: true,
		KindContent:  true,
	}}
}

// RequiresAdministratorToCreate reports whether creating kind is restricted.
func (g *Guard) RequiresAdministratorToCreate(kind Kind) bool {
	return g.adminCreate[kind]
}

// Authorize returns nil to allow, or a *common.DenyError. A nil actor is an
// anonymous caller. For Create, resource describes the thing about to be
// created; its Owner is ignored.
func (g *Guard) Authorize(actor *identity.Subject, action Action, resource Resource) error {
	switch action {
	case Read:
		if resource.Public() {
			return nil
		}
		return owns(actor, resource)

	case Create:
		if actor == nil {
			return common.Deny(common.ReasonUnauthenticated)
		}
		if g.adminCreate[resource.Kind()] && !actor.IsAdministrator() {
			return common.Deny(common.ReasonAdministratorRequired)
		}
		return nil

	case Update, Delete:
		return owns(actor, resource)

	case Moderate:
		if actor == nil {
			return common.Deny(common.ReasonUnauthenticated)
		}
		if !actor.IsAdministrator() {
			return common.Deny(common.ReasonAdministratorRequired)
		}
		return nil

	default:
		return common.Deny(common.ReasonUnknownAction)
	}
}

// owns requires an exact (role, id) match. Seniority plays no part.
func owns(actor *identity.Subject, resource Resource) error {
	if actor == nil {
		return common.Deny(common.ReasonUnauthenticated)
	}
	if *actor != resource.Owner() {
		return common.Deny(common.ReasonNotOwner)
	}
	return nil
}

// Draft describes a resource that does not exist yet, for Create checks.
type Draft Kind

func (d Draft) Kind() Kind               { return Kind(d) }
func (d Draft) Owner() identity.Subject { return identity.Subject{} }
func (d Draft) Public() bool            { return false }
