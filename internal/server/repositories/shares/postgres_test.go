package shares

import (
	"context"
	"database/sql"
	"errors"
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

var cols = []string{"id", "owner_role", "owner_id", "recipient_role", "recipient_id", "post_id", "message", "created_at"}

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

	q := `(?s)^INSERT\s+INTO\s+shares\s*\(owner_role,\s*owner_id,\s*recipient_role,\s*recipient_id,\s*post_id,\s*message\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id,\s*created_at\s*$`
	mock.ExpectQuery(q).
		WithArgs("administrator", int64(1), "member", int64(7), int64(42), "read this").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), ts))

	s, err := repo.Create(context.Background(), &models.Share{
		Sender:    identity.Administrator(1),
		Recipient: identity.Member(7),
		PostID:    42,
		Message:   "read this",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), s.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+shares`).WillReturnError(errors.New("fk violation"))

	_, err := repo.Create(context.Background(), &models.Share{Sender: identity.Member(1), Recipient: identity.Member(7), PostID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+shares\s+WHERE\s+id\s*=\s*\$1$`).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(9), "member", int64(1), "member", int64(7), int64(42), "", ts))
	mock.ExpectQuery(`(?s)FROM\s+shares\s+WHERE\s+id\s*=\s*\$1$`).WithArgs(int64(10)).
		WillReturnError(sql.ErrNoRows)

	s, err := repo.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, identity.Member(1), s.Owner())
	assert.Equal(t, identity.Member(7), s.Recipient)

	_, err = repo.Get(context.Background(), 10)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListBySenderAndRecipient(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)WHERE\s+owner_role\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC$`).
		WithArgs("member", int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(9), "member", int64(1), "member", int64(7), int64(42), "", ts))
	mock.ExpectQuery(`(?s)WHERE\s+recipient_role\s*=\s*\$1\s+AND\s+recipient_id\s*=\s*\$2`).
		WithArgs("member", int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(9), "member", int64(1), "member", int64(7), int64(42), "", ts).
			AddRow(int64(3), "administrator", int64(1), "member", int64(7), int64(40), "hi", ts))

	ctx := context.Background()
	sent, err := repo.ListBySender(ctx, identity.Member(1))
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	received, err := repo.ListByRecipient(ctx, identity.Member(7))
	require.NoError(t, err)
	require.Len(t, received, 2)
	assert.Equal(t, identity.Administrator(1), received[1].Sender)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+shares\s+WHERE\s+id\s*=\s*\$1$`).WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 9), common.ErrorNotFound)
}
