// Package shares stores posts shared between accounts.
package shares

import (
	"context"

	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Share) (*models.Share, error)
	Get(ctx context.Context, id int64) (*models.Share, error)
	ListBySender(ctx context.Context, sender identity.Subject) ([]*models.Share, error)
	ListByRecipient(ctx context.Context, recipient identity.Subject) ([]*models.Share, error)
	Delete(ctx context.Context, id int64) error
}
