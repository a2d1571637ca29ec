package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
)

var ts = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+subscriptions\s*\(owner_role,\s*owner_id,\s*category_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`
	mock.ExpectQuery(q).
		WithArgs("member", int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), ts))

	s, err := repo.Create(context.Background(), &models.Subscription{Subscriber: identity.Member(7), CategoryID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(11), s.ID)
	assert.Equal(t, ts, s.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+subscriptions`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_subscriptions_owner_category"})

	_, err := repo.Create(context.Background(), &models.Subscription{Subscriber: identity.Member(7), CategoryID: 3})
	var ce *common.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "category", ce.Field)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+subscriptions`).WillReturnError(errors.New("boom"))

	_, err := repo.Create(context.Background(), &models.Subscription{Subscriber: identity.Member(7), CategoryID: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
	assert.NotErrorIs(t, err, common.ErrConflict)
}

func TestGetListDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cols := []string{"id", "owner_role", "owner_id", "category_id", "created_at"}
	mock.ExpectQuery(`(?s)FROM\s+subscriptions\s+WHERE\s+id\s*=\s*\$1$`).WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(11), "member", int64(7), int64(3), ts))
	mock.ExpectQuery(`(?s)FROM\s+subscriptions\s+WHERE\s+id\s*=\s*\$1$`).WithArgs(int64(12)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`(?s)FROM\s+subscriptions\s+WHERE\s+owner_role\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2\s+ORDER\s+BY\s+id$`).
		WithArgs("administrator", int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(20), "administrator", int64(7), int64(3), ts))
	mock.ExpectExec(`DELETE\s+FROM\s+subscriptions`).WithArgs(int64(11)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+subscriptions`).WithArgs(int64(11)).WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	s, err := repo.Get(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, identity.Member(7), s.Owner())

	_, err = repo.Get(ctx, 12)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	list, err := repo.ListByOwner(ctx, identity.Administrator(7))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, identity.Administrator(7), list[0].Subscriber)

	require.NoError(t, repo.Delete(ctx, 11))
	assert.ErrorIs(t, repo.Delete(ctx, 11), common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
