// Package identity models who is acting: the two account classes, the
// (role, id) subject that names an account unambiguously, and the resolver
// that turns a verified claim into a live account.
package identity

import (
	"fmt"
	"strconv"
	"time"

	"github.com/techelevate/platform/internal/common"
)

// Role selects one of the two disjoint account tables.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleMember        Role = "member"
)

// ParseRole accepts only the two known roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdministrator, RoleMember:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", common.ErrValidation, s)
	}
}

func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleMember
}

// Subject identifies an account. Administrator 7 and Member 7 are different
// subjects; the id is meaningless without its role.
type Subject struct {
	Role Role
	ID   int64
}

// Administrator and Member build subjects for the respective table.
func Administrator(id int64) Subject { return Subject{Role: RoleAdministrator, ID: id} }
func Member(id int64) Subject        { return Subject{Role: RoleMember, ID: id} }

func (s Subject) IsAdministrator() bool { return s.Role == RoleAdministrator }

func (s Subject) String() string {
	return string(s.Role) + ":" + strconv.FormatInt(s.ID, 10)
}

// Account is a row of either account table.
type Account struct {
	ID                int64
	Role              Role
	Email             string
	Username          string
	DisplayName       string
	PasswordHash      []byte
	Active            bool
	ProfilePictureKey string
	CreatedAt         time.Time
}

func (a *Account) Subject() Subject {
	return Subject{Role: a.Role, ID: a.ID}
}
