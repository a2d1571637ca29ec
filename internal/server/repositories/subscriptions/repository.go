// Package subscriptions stores category subscriptions.
package subscriptions

import (
	"context"

	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
)

type Repository interface {
	// Create fails with common.ConflictError{Field: "category"} when the
	// owner already follows the category.
	Create(ctx context.Context, s *models.Subscription) (*models.Subscription, error)
	Get(ctx context.Context, id int64) (*models.Subscription, error)
	ListByOwner(ctx context.Context, owner identity.Subject) ([]*models.Subscription, error)
	Delete(ctx context.Context, id int64) error
}
