// Package posts stores member and administrator posts.
package posts

import (
	"context"

	"github.com/techelevate/platform/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	// List returns posts newest first, optionally limited to one category.
	List(ctx context.Context, categoryID *int64) ([]*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	SetStatus(ctx context.Context, id int64, status string) error
	// React increments the like or dislike counter.
	React(ctx context.Context, id int64, like bool) error
	Delete(ctx context.Context, id int64) error
}
