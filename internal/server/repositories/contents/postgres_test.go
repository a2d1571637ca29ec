package contents

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

func contentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner_role", "owner_id", "title", "body", "status", "created_at", "updated_at"})
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+contents\s*\(owner_role,\s*owner_id,\s*title,\s*body,\s*status\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	mock.ExpectQuery(q).
		WithArgs("administrator", int64(1), "Guide", "text", models.ContentPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(2), ts, ts))

	c, err := repo.Create(context.Background(), &models.Content{Creator: identity.Administrator(1), Title: "Guide", Body: "text", Status: models.ContentPending})
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.ID)
	assert.False(t, c.Public())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+contents`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Content{Creator: identity.Administrator(1)})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetAndListByStatus(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+contents\s+WHERE\s+id\s*=\s*\$1$`).WithArgs(int64(2)).
		WillReturnRows(contentRows().AddRow(int64(2), "administrator", int64(1), "Guide", "text", "approved", ts, ts))
	mock.ExpectQuery(`(?s)FROM\s+contents\s+WHERE\s+id\s*=\s*\$1$`).WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`(?s)FROM\s+contents\s+WHERE\s+status\s*=\s*\$1\s+ORDER\s+BY`).WithArgs("approved").
		WillReturnRows(contentRows().AddRow(int64(2), "administrator", int64(1), "Guide", "text", "approved", ts, ts))

	ctx := context.Background()
	c, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	assert.True(t, c.Public())

	_, err = repo.Get(ctx, 3)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	list, err := repo.ListByStatus(ctx, models.ContentApproved)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateSetStatusDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+contents\s+SET\s+title\s*=\s*\$1,\s*body\s*=\s*\$2`).
		WithArgs("t", "b", int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+contents\s+SET\s+status\s*=\s*\$1`).
		WithArgs("rejected", int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+contents`).
		WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	require.NoError(t, repo.Update(ctx, &models.Content{ID: 2, Title: "t", Body: "b"}))
	require.NoError(t, repo.SetStatus(ctx, 2, models.ContentRejected))
	assert.ErrorIs(t, repo.Delete(ctx, 2), common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
