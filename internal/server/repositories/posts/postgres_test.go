package posts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func postRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner_role", "owner_id", "category_id", "title", "body", "status", "likes", "dislikes", "created_at", "updated_at"})
}

func TestCreate_StoresOwnerRoleAndID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cat := int64(4)
	q := `(?s)^INSERT\s+INTO\s+posts\s*\(owner_role,\s*owner_id,\s*category_id,\s*title,\s*body,\s*status\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	mock.ExpectQuery(q).
		WithArgs("member", int64(7), int64(4), "Hello", "World", models.PostPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), ts, ts))

	p := &models.Post{Author: identity.Member(7), CategoryID: &cat, Title: "Hello", Body: "World", Status: models.PostPending}
	got, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, ts, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+posts`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Post{Author: identity.Member(1)})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*owner_role,.*FROM\s+posts\s+WHERE\s+id\s*=\s*\$1$`
	mock.ExpectQuery(q).WithArgs(int64(11)).
		WillReturnRows(postRows().AddRow(int64(11), "administrator", int64(7), nil, "T", "B", "approved", int64(3), int64(1), ts, ts))
	mock.ExpectQuery(q).WithArgs(int64(12)).WillReturnError(sql.ErrNoRows)

	p, err := repo.Get(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, identity.Administrator(7), p.Owner())
	assert.Nil(t, p.CategoryID)
	assert.Equal(t, int64(3), p.Likes)

	_, err = repo.Get(context.Background(), 12)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_ByCategory(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cat := int64(2)
	mock.ExpectQuery(`(?s)FROM\s+posts\s+WHERE\s+\(\$1::BIGINT\s+IS\s+NULL\s+OR\s+category_id\s*=\s*\$1\)\s+ORDER\s+BY`).
		WithArgs(int64(2)).
		WillReturnRows(postRows().
			AddRow(int64(2), "member", int64(1), int64(2), "b", "b", "pending", int64(0), int64(0), ts, ts).
			AddRow(int64(1), "member", int64(2), int64(2), "a", "a", "pending", int64(0), int64(0), ts, ts))

	got, err := repo.List(context.Background(), &cat)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].CategoryID)
	assert.Equal(t, int64(2), *got[0].CategoryID)
	assert.Equal(t, identity.Member(2), got[1].Author)
}

func TestList_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+posts`).
		WillReturnRows(postRows().AddRow("x", "member", int64(1), nil, "a", "a", "pending", int64(0), int64(0), ts, ts))

	_, err := repo.List(context.Background(), nil)
	require.Error(t, err)
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+posts\s+SET\s+title\s*=\s*\$1,\s*body\s*=\s*\$2,\s*category_id\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$4$`).
		WithArgs("T2", "B2", nil, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), &models.Post{ID: 11, Title: "T2", Body: "B2"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusReactDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+posts\s+SET\s+status\s*=\s*\$1`).WithArgs("flagged", int64(11)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+posts\s+SET\s+likes\s*=\s*likes\s*\+\s*1`).WithArgs(int64(11)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+posts\s+SET\s+dislikes\s*=\s*dislikes\s*\+\s*1`).WithArgs(int64(11)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1`).WithArgs(int64(11)).WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	require.NoError(t, repo.SetStatus(ctx, 11, "flagged"))
	require.NoError(t, repo.React(ctx, 11, true))
	require.NoError(t, repo.React(ctx, 11, false))
	assert.ErrorIs(t, repo.Delete(ctx, 11), common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
