package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/server/access"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
)

type ShareInput struct {
	RecipientID int64  `json:"recipient_id" validate:"gt=0"`
	PostID      int64  `json:"post_id" validate:"gt=0"`
	Message     string `json:"message" validate:"max=500"`
}

func (s *ContentService) ListSubscriptions(ctx context.Context, actor *identity.Subject) ([]*models.Subscription, error) {
	if actor == nil {
		return nil, common.Deny(common.ReasonUnauthenticated)
	}
	return s.repomanager.Subscriptions(s.db).ListByOwner(ctx, *actor)
}

// Subscribe follows a category. Following it twice is a conflict on
// "category".
func (s *ContentService) Subscribe(ctx context.Context, actor *identity.Subject, categoryID int64) (*models.Subscription, error) {
	if err := s.guard.Authorize(actor, access.Create, access.Draft(access.KindSubscription)); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Categories(s.db).Get(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.repomanager.Subscriptions(s.db).Create(ctx, &models.Subscription{Subscriber: *actor, CategoryID: categoryID})
}

func (s *ContentService) Unsubscribe(ctx context.Context, actor *identity.Subject, id int64) error {
	repo := s.repomanager.Subscriptions(s.db)

	sub, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, access.Delete, sub); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}

func (s *ContentService) ListWishlist(ctx context.Context, actor *identity.Subject) ([]*models.WishlistEntry, error) {
	if actor == nil {
		return nil, common.Deny(common.ReasonUnauthenticated)
	}
	return s.repomanager.Wishlist(s.db).ListByOwner(ctx, *actor)
}

func (s *ContentService) AddToWishlist(ctx context.Context, actor *identity.Subject, postID int64) (*models.WishlistEntry, error) {
	if err := s.guard.Authorize(actor, access.Create, access.Draft(access.KindWishlistEntry)); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Posts(s.db).Get(ctx, postID); err != nil {
		return nil, err
	}
	return s.repomanager.Wishlist(s.db).Create(ctx, &models.WishlistEntry{Holder: *actor, PostID: postID})
}

func (s *ContentService) RemoveFromWishlist(ctx context.Context, actor *identity.Subject, id int64) error {
	repo := s.repomanager.Wishlist(s.db)

	w, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, access.Delete, w); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}

func (s *ContentService) ListSentShares(ctx context.Context, actor *identity.Subject) ([]*models.Share, error) {
	if actor == nil {
		return nil, common.Deny(common.ReasonUnauthenticated)
	}
	return s.repomanager.Shares(s.db).ListBySender(ctx, *actor)
}

func (s *ContentService) ListReceivedShares(ctx context.Context, actor *identity.Subject) ([]*models.Share, error) {
	if actor == nil {
		return nil, common.Deny(common.ReasonUnauthenticated)
	}
	return s.repomanager.Shares(s.db).ListByRecipient(ctx, *actor)
}

// SharePost sends a post to a member. The recipient must be an existing,
// active member other than the sender.
func (s *ContentService) SharePost(ctx context.Context, actor *identity.Subject, in ShareInput) (*models.Share, error) {
	if err := s.guard.Authorize(actor, access.Create, access.Draft(access.KindShare)); err != nil {
		return nil, err
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	recipient := identity.Member(in.RecipientID)
	if *actor == recipient {
		return nil, fmt.Errorf("%w: cannot share with yourself", common.ErrValidation)
	}
	a, err := s.repomanager.Accounts(s.db).FindByID(ctx, recipient)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: recipient not found", common.ErrValidation)
		}
		return nil, err
	}
	if !a.Active {
		return nil, fmt.Errorf("%w: recipient not found", common.ErrValidation)
	}
	if _, err := s.repomanager.Posts(s.db).Get(ctx, in.PostID); err != nil {
		return nil, err
	}

	return s.repomanager.Shares(s.db).Create(ctx, &models.Share{
		Sender:    *actor,
		Recipient: recipient,
		PostID:    in.PostID,
		Message:   in.Message,
	})
}

func (s *ContentService) DeleteShare(ctx context.Context, actor *identity.Subject, id int64) error {
	repo := s.repomanager.Shares(s.db)

	sh, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(actor, access.Delete, sh); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
