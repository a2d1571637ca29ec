package shares

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/dbx"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/models"
)

const columns = `id, owner_role, owner_id, recipient_role, recipient_id, post_id, message, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scan(row interface{ Scan(...any) error }) (*models.Share, error) {
	s := &models.Share{}
	err := row.Scan(&s.ID, &s.Sender.Role, &s.Sender.ID, &s.Recipient.Role, &s.Recipient.ID, &s.PostID, &s.Message, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Share) (*models.Share, error) {
	query :=
		`INSERT INTO shares (owner_role, owner_id, recipient_role, recipient_id, post_id, message)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		string(s.Sender.Role), s.Sender.ID, string(s.Recipient.Role), s.Recipient.ID, s.PostID, s.Message).
		Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Share, error) {
	s, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM shares WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) list(ctx context.Context, where string, who identity.Subject) ([]*models.Share, error) {
	query := `SELECT ` + columns + ` FROM shares WHERE ` + where + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, string(who.Role), who.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Share
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) ListBySender(ctx context.Context, sender identity.Subject) ([]*models.Share, error) {
	return r.list(ctx, `owner_role = $1 AND owner_id = $2`, sender)
}

func (r *PostgresRepository) ListByRecipient(ctx context.Context, recipient identity.Subject) ([]*models.Share, error) {
	return r.list(ctx, `recipient_role = $1 AND recipient_id = $2`, recipient)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM shares WHERE id = $1`, id)
}
