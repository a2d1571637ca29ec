// Package wishlist stores bookmarked posts.
package wishlist

import (
	"context"

	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
)

type Repository interface {
	// Create fails with common.ConflictError{Field: "post"} when the post is
	// already on the owner's wishlist.
	Create(ctx context.Context, w *models.WishlistEntry) (*models.WishlistEntry, error)
	Get(ctx context.Context, id int64) (*models.WishlistEntry, error)
	ListByOwner(ctx context.Context, owner identity.Subject) ([]*models.WishlistEntry, error)
	Delete(ctx context.Context, id int64) error
}
