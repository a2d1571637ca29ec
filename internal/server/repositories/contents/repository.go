// Package contents stores editorial content items and their moderation
// status.
package contents

import (
	"context"

	"github.com/techelevate/platform/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Content) (*models.Content, error)
	Get(ctx context.Context, id int64) (*models.Content, error)
	// ListByStatus returns items in the given status, newest first.
	ListByStatus(ctx context.Context, status string) ([]*models.Content, error)
	Update(ctx context.Context, c *models.Content) error
	SetStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}
