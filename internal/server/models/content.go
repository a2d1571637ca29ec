package models

import (
	"time"

	"github.com/techelevate/platform/internal/server/access"
	"github.com/techelevate/platform/internal/server/identity"
)

// Content moderation states. Only approved items are public.
const (
	ContentPending  = "pending"
	ContentApproved = "approved"
	ContentRejected = "rejected"
)

// ValidContentStatus reports whether s is a known moderation state.
func ValidContentStatus(s string) bool {
	return s == ContentPending || s == ContentApproved || s == ContentRejected
}

// Content is an editorial item published by an administrator.
type Content struct {
	ID        int64
	Creator   identity.Subject
	Title     string
	Body      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Content) Kind() access.Kind       { return access.KindContent }
func (c *Content) Owner() identity.Subject { return c.Creator }
func (c *Content) Public() bool            { return c.Status == ContentApproved }
