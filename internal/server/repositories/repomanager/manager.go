package repomanager

import (
	"context"
	"database/sql"

	"github.com/techelevate/platform/internal/dbx"
	"github.com/techelevate/platform/internal/server/repositories/accounts"
	"github.com/techelevate/platform/internal/server/repositories/categories"
	"github.com/techelevate/platform/internal/server/repositories/comments"
	"github.com/techelevate/platform/internal/server/repositories/contents"
	"github.com/techelevate/platform/internal/server/repositories/posts"
	"github.com/techelevate/platform/internal/server/repositories/revocations"
	"github.com/techelevate/platform/internal/server/repositories/shares"
	"github.com/techelevate/platform/internal/server/repositories/subscriptions"
	"github.com/techelevate/platform/internal/server/repositories/wishlist"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Revocations(db dbx.DBTX) revocations.Repository
	Posts(db dbx.DBTX) posts.Repository
	Comments(db dbx.DBTX) comments.Repository
	Categories(db dbx.DBTX) categories.Repository
	Contents(db dbx.DBTX) contents.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
	Wishlist(db dbx.DBTX) wishlist.Repository
	Shares(db dbx.DBTX) shares.Repository
}
