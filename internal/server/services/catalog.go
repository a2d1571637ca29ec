package services

import (
	"context"
	"fmt"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/server/access"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
)

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"max=500"`
}

type ContentInput struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required,max=50000"`
}

func (s *ContentService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.repomanager.Categories(s.db).List(ctx)
}

// CreateCategory is limited to administrators by the guard.
func (s *ContentService) CreateCategory(ctx context.Context, actor *identity.Subject, in CategoryInput) (*models.Category, error) {
	if err := s.guard.Authorize(actor, access.Create, access.Draft(access.KindCategory)); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	return s.repomanager.Categories(s.db).Create(ctx, &models.Category{
		Creator:     *actor,
		Name:        in.Name,
		Description: in.Description,
	})
}

// UpdateCategory follows the owner rule: another administrator is denied.
func (s *ContentService) UpdateCategory(ctx context.Context, actor *identity.Subject, id int64, in CategoryInput) (*models.Category, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	repo := s.repomanager.Categories(s.db)

	c, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, access.Update, c); err != nil {
		return nil, err
	}

	c.Name, c.Description = in.Name, in.Description
	if err := repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContentService) DeleteCategory(ctx context.Context, actor *identity.Subject, id int64) error {
	return s.deleteCategory(ctx, actor, id, access.Delete)
}

// ModerateDeleteCategory removes any category on behalf of an administrator.
func (s *ContentService) ModerateDeleteCategory(ctx context.Context, actor *identity.Subject, id int64) error {
	return s.deleteCategory(ctx, actor, id, access.Moderate)
}

func (s *ContentService) deleteCategory(ctx context.Context, actor *identity.Subject, id int64, action access.Action) error {
	repo := s.repomanager.Categories(s.db)

	c, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, action, c); err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "category deleted", "by", actor.String(), "category", id, "action", string(action))
	return nil
}

// ListPublishedContent returns approved items only.
func (s *ContentService) ListPublishedContent(ctx context.Context) ([]*models.Content, error) {
	return s.repomanager.Contents(s.db).ListByStatus(ctx, models.ContentApproved)
}

// ListContentByStatus is the moderation queue view.
func (s *ContentService) ListContentByStatus(ctx context.Context, actor *identity.Subject, status string) ([]*models.Content, error) {
	if !models.ValidContentStatus(status) {
		return nil, fmt.Errorf("%w: unknown content status %q", common.ErrValidation, status)
	}
	if err := s.guard.Authorize(actor, access.Moderate, access.Draft(access.KindContent)); err != nil {
		return nil, err
	}
	return s.repomanager.Contents(s.db).ListByStatus(ctx, status)
}

// GetContent returns approved items to anyone and unpublished ones to
// their creator.
func (s *ContentService) GetContent(ctx context.Context, actor *identity.Subject, id int64) (*models.Content, error) {
	c, err := s.repomanager.Contents(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, access.Read, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContentService) CreateContent(ctx context.Context, actor *identity.Subject, in ContentInput) (*models.Content, error) {
	if err := s.guard.Authorize(actor, access.Create, access.Draft(access.KindContent)); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	return s.repomanager.Contents(s.db).Create(ctx, &models.Content{
		Creator: *actor,
		Title:   in.Title,
		Body:    in.Body,
		Status:  models.ContentPending,
	})
}

func (s *ContentService) UpdateContent(ctx context.Context, actor *identity.Subject, id int64, in ContentInput) (*models.Content, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	repo := s.repomanager.Contents(s.db)

	c, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, access.Update, c); err != nil {
		return nil, err
	}

	c.Title, c.Body = in.Title, in.Body
	if err := repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContentService) SetContentStatus(ctx context.Context, actor *identity.Subject, id int64, status string) error {
	if !models.ValidContentStatus(status) {
		return fmt.Errorf("%w: unknown content status %q", common.ErrValidation, status)
	}
	repo := s.repomanager.Contents(s.db)

	c, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, access.Moderate, c); err != nil {
		return err
	}
	if err := repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info(ctx, "content moderated", "by", actor.String(), "content", id, "status", status)
	return nil
}

func (s *ContentService) DeleteContent(ctx context.Context, actor *identity.Subject, id int64) error {
	repo := s.repomanager.Contents(s.db)

	c, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, access.Delete, c); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
