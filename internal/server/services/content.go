package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/logging"
	"github.com/techelevate/platform/internal/server/access"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
	"github.com/techelevate/platform/internal/server/repositories/repomanager"
)

// ContentService loads a resource, asks the guard, then mutates. It never
// decides access on its own.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *access.Guard
	logger      logging.Logger
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager, guard *access.Guard, logger logging.Logger) *ContentService {
	if guard == nil {
		guard = access.NewGuard()
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	return &ContentService{db: db, repomanager: m, guard: guard, logger: logger.With("module", "content")}
}

type PostInput struct {
	Title      string `json:"title" validate:"required,max=200"`
	Body       string `json:"body" validate:"required,max=20000"`
	CategoryID *int64 `json:"category_id" validate:"omitempty,gt=0"`
}

type CommentInput struct {
	Body     string `json:"body" validate:"required,max=5000"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

func (s *ContentService) ListPosts(ctx context.Context, categoryID *int64) ([]*models.Post, error) {
	return s.repomanager.Posts(s.db).List(ctx, categoryID)
}

func (s *ContentService) GetPost(ctx context.Context, actor *identity.Subject, id int64) (*models.Post, error) {
	p, err := s.repomanager.Posts(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, access.Read, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ContentService) CreatePost(ctx context.Context, actor *identity.Subject, in PostInput) (*models.Post, error) {
	if err := s.guard.Authorize(actor, access.Create, access.Draft(access.KindPost)); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if _, err := s.repomanager.Categories(s.db).Get(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	return s.repomanager.Posts(s.db).Create(ctx, &models.Post{
		Author:     *actor,
		CategoryID: in.CategoryID,
		Title:      in.Title,
		Body:       in.Body,
		Status:     models.PostPending,
	})
}

func (s *ContentService) UpdatePost(ctx context.Context, actor *identity.Subject, id int64, in PostInput) (*models.Post, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	repo := s.repomanager.Posts(s.db)

	p, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, access.Update, p); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if _, err := s.repomanager.Categories(s.db).Get(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	p.Title, p.Body, p.CategoryID = in.Title, in.Body, in.CategoryID
	if err := repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ContentService) DeletePost(ctx context.Context, actor *identity.Subject, id int64) error {
	repo := s.repomanager.Posts(s.db)

	p, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, access.Delete, p); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}

// SetPostStatus approves or flags a post.
func (s *ContentService) SetPostStatus(ctx context.Context, actor *identity.Subject, id int64, status string) error {
	if status != models.PostApproved && status != models.PostFlagged && status != models.PostPending {
		return fmt.Errorf("%w: unknown post status %q", common.ErrValidation, status)
	}
	repo := s.repomanager.Posts(s.db)

	p, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, access.Moderate, p); err != nil {
		return err
	}
	if err := repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info(ctx, "post moderated", "by", actor.String(), "post", id, "status", status)
	return nil
}

// React adds a like or a dislike. Any signed-in account may react.
func (s *ContentService) React(ctx context.Context, actor *identity.Subject, id int64, like bool) error {
	if actor == nil {
		return common.Deny(common.ReasonUnauthenticated)
	}
	repo := s.repomanager.Posts(s.db)

	p, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, access.Read, p); err != nil {
		return err
	}
	return repo.React(ctx, id, like)
}

func (s *ContentService) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	if _, err := s.repomanager.Posts(s.db).Get(ctx, postID); err != nil {
		return nil, err
	}
	return s.repomanager.Comments(s.db).ListByPost(ctx, postID)
}

// CreateComment adds a comment to postID. A reply names its parent, which
// must belong to the same post.
func (s *ContentService) CreateComment(ctx context.Context, actor *identity.Subject, postID int64, in CommentInput) (*models.Comment, error) {
	if err := s.guard.Authorize(actor, access.Create, access.Draft(access.KindComment)); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Posts(s.db).Get(ctx, postID); err != nil {
		return nil, err
	}

	repo := s.repomanager.Comments(s.db)
	if in.ParentID != nil {
		parent, err := repo.Get(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", common.ErrValidation)
		}
	}

	return repo.Create(ctx, &models.Comment{
		PostID:   postID,
		ParentID: in.ParentID,
		Author:   *actor,
		Body:     in.Body,
	})
}

func (s *ContentService) UpdateComment(ctx context.Context, actor *identity.Subject, id int64, body string) (*models.Comment, error) {
	in := CommentInput{Body: body}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	repo := s.repomanager.Comments(s.db)

	c, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(actor, access.Update, c); err != nil {
		return nil, err
	}

	c.Body = in.Body
	if err := repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContentService) DeleteComment(ctx context.Context, actor *identity.Subject, id int64) error {
	repo := s.repomanager.Comments(s.db)

	c, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, access.Delete, c); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
