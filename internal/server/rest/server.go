// Package rest exposes the platform over HTTP with gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techelevate/platform/internal/logging"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
	"github.com/techelevate/platform/internal/server/services"
)

// Accounts is the part of services.AccountService served over HTTP.
type Accounts interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.Session, error)
	Login(ctx context.Context, role identity.Role, email, password string) (*services.Session, error)
	Logout(ctx context.Context, p *services.Principal) error
	Authenticate(ctx context.Context, token string) (*services.Principal, error)
	Profile(ctx context.Context, actor *identity.Subject, target identity.Subject) (*identity.Account, error)
	UpdateProfile(ctx context.Context, actor *identity.Subject, target identity.Subject, in services.ProfileInput) (*identity.Account, error)
	ChangePassword(ctx context.Context, actor *identity.Subject, in services.PasswordInput) error
	SetActive(ctx context.Context, actor *identity.Subject, target identity.Subject, active bool) error
	DeleteAccount(ctx context.Context, actor *identity.Subject, target identity.Subject) error
	CreateAdministrator(ctx context.Context, actor *identity.Subject, in services.RegisterInput) (*identity.Account, error)
	ListAccounts(ctx context.Context, actor *identity.Subject, role identity.Role) ([]*identity.Account, error)
	ProfilePictureUploadURL(ctx context.Context, actor *identity.Subject, target identity.Subject) (*services.PictureUpload, error)
	ProfilePictureURL(ctx context.Context, actor *identity.Subject, target identity.Subject) (string, error)
}

// Content is the part of services.ContentService served over HTTP.
type Content interface {
	ListPosts(ctx context.Context, categoryID *int64) ([]*models.Post, error)
	GetPost(ctx context.Context, actor *identity.Subject, id int64) (*models.Post, error)
	CreatePost(ctx context.Context, actor *identity.Subject, in services.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, actor *identity.Subject, id int64, in services.PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, actor *identity.Subject, id int64) error
	SetPostStatus(ctx context.Context, actor *identity.Subject, id int64, status string) error
	React(ctx context.Context, actor *identity.Subject, id int64, like bool) error

	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)
	CreateComment(ctx context.Context, actor *identity.Subject, postID int64, in services.CommentInput) (*models.Comment, error)
	UpdateComment(ctx context.Context, actor *identity.Subject, id int64, body string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor *identity.Subject, id int64) error

	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateCategory(ctx context.Context, actor *identity.Subject, in services.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, actor *identity.Subject, id int64, in services.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, actor *identity.Subject, id int64) error
	ModerateDeleteCategory(ctx context.Context, actor *identity.Subject, id int64) error

	ListPublishedContent(ctx context.Context) ([]*models.Content, error)
	ListContentByStatus(ctx context.Context, actor *identity.Subject, status string) ([]*models.Content, error)
	GetContent(ctx context.Context, actor *identity.Subject, id int64) (*models.Content, error)
	CreateContent(ctx context.Context, actor *identity.Subject, in services.ContentInput) (*models.Content, error)
	UpdateContent(ctx context.Context, actor *identity.Subject, id int64, in services.ContentInput) (*models.Content, error)
	SetContentStatus(ctx context.Context, actor *identity.Subject, id int64, status string) error
	DeleteContent(ctx context.Context, actor *identity.Subject, id int64) error

	ListSubscriptions(ctx context.Context, actor *identity.Subject) ([]*models.Subscription, error)
	Subscribe(ctx context.Context, actor *identity.Subject, categoryID int64) (*models.Subscription, error)
	Unsubscribe(ctx context.Context, actor *identity.Subject, id int64) error

	ListWishlist(ctx context.Context, actor *identity.Subject) ([]*models.WishlistEntry, error)
	AddToWishlist(ctx context.Context, actor *identity.Subject, postID int64) (*models.WishlistEntry, error)
	RemoveFromWishlist(ctx context.Context, actor *identity.Subject, id int64) error

	ListSentShares(ctx context.Context, actor *identity.Subject) ([]*models.Share, error)
	ListReceivedShares(ctx context.Context, actor *identity.Subject) ([]*models.Share, error)
	SharePost(ctx context.Context, actor *identity.Subject, in services.ShareInput) (*models.Share, error)
	DeleteShare(ctx context.Context, actor *identity.Subject, id int64) error
}

type Server struct {
	address  string
	logger   logging.Logger
	accounts Accounts
	content  Content
	engine   *gin.Engine
}

func NewServer(address string, l logging.Logger, accounts Accounts, content Content) *Server {
	s := &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		accounts: accounts,
		content:  content,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the configured gin engine.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
