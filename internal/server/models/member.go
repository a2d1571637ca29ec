package models

import (
	"time"

	"github.com/techelevate/platform/internal/server/access"
	"github.com/techelevate/platform/internal/server/identity"
)

// Subscription follows a category.
type Subscription struct {
	ID         int64
	Subscriber identity.Subject
	CategoryID int64
	CreatedAt  time.Time
}

func (s *Subscription) Kind() access.Kind       { return access.KindSubscription }
func (s *Subscription) Owner() identity.Subject { return s.Subscriber }
func (s *Subscription) Public() bool            { return false }

// WishlistEntry bookmarks a post.
type WishlistEntry struct {
	ID        int64
	Holder    identity.Subject
	PostID    int64
	CreatedAt time.Time
}

func (w *WishlistEntry) Kind() access.Kind       { return access.KindWishlistEntry }
func (w *WishlistEntry) Owner() identity.Subject { return w.Holder }
func (w *WishlistEntry) Public() bool            { return false }

// Share sends a post to another member.
type Share struct {
	ID        int64
	Sender    identity.Subject
	Recipient identity.Subject
	PostID    int64
	Message   string
	CreatedAt time.Time
}

func (s *Share) Kind() access.Kind       { return access.KindShare }
func (s *Share) Owner() identity.Subject { return s.Sender }
func (s *Share) Public() bool            { return false }
