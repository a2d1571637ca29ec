// Package models defines the platform's persisted resources. Every owned
// resource records its creator as an identity.Subject and satisfies
// access.Resource.
package models

import (
	"time"

	"github.com/techelevate/platform/internal/server/access"
	"github.com/techelevate/platform/internal/server/identity"
)

// Post moderation states.
const (
	PostPending  = "pending"
	PostApproved = "approved"
	PostFlagged  = "flagged"
)

type Post struct {
	ID         int64
	Author     identity.Subject
	CategoryID *int64
	Title      string
	Body       string
	Status     string
	Likes      int64
	Dislikes   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Post) Kind() access.Kind       { return access.KindPost }
func (p *Post) Owner() identity.Subject { return p.Author }
func (p *Post) Public() bool            { return true }

type Comment struct {
	ID        int64
	PostID    int64
	ParentID  *int64
	Author    identity.Subject
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Comment) Kind() access.Kind       { return access.KindComment }
func (c *Comment) Owner() identity.Subject { return c.Author }
func (c *Comment) Public() bool            { return true }

type Category struct {
	ID          int64
	Creator     identity.Subject
	Name        string
	Description string
	CreatedAt   time.Time
}

func (c *Category) Kind() access.Kind       { return access.KindCategory }
func (c *Category) Owner() identity.Subject { return c.Creator }
func (c *Category) Public() bool            { return true }
