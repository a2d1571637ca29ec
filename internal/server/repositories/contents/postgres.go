package contents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/dbx"
	"github.com/techelevate/platform/internal/server/models"
)

const columns = `id, owner_role, owner_id, title, body, status, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scan(row interface{ Scan(...any) error }) (*models.Content, error) {
	c := &models.Content{}
	err := row.Scan(&c.ID, &c.Creator.Role, &c.Creator.ID, &c.Title, &c.Body, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Content) (*models.Content, error) {
	query :=
		`INSERT INTO contents (owner_role, owner_id, title, body, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		string(c.Creator.Role), c.Creator.ID, c.Title, c.Body, c.Status).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Content, error) {
	c, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM contents WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, status string) ([]*models.Content, error) {
	query := `SELECT ` + columns + ` FROM contents WHERE status = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Content
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Content) error {
	return dbx.ExecOne(ctx, r.db,
		`UPDATE contents SET title = $1, body = $2, updated_at = now() WHERE id = $3`, c.Title, c.Body, c.ID)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, status string) error {
	return dbx.ExecOne(ctx, r.db,
		`UPDATE contents SET status = $1, updated_at = now() WHERE id = $2`, status, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM contents WHERE id = $1`, id)
}
