package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/dbx"
	"github.com/techelevate/platform/internal/server/models"
)

const columns = `id, post_id, parent_id, owner_role, owner_id, body, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scan(row interface{ Scan(...any) error }) (*models.Comment, error) {
	c := &models.Comment{}
	var parent sql.NullInt64
	err := row.Scan(&c.ID, &c.PostID, &parent, &c.Author.Role, &c.Author.ID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		c.ParentID = &parent.Int64
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	query :=
		`INSERT INTO comments (post_id, parent_id, owner_role, owner_id, body)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		c.PostID, c.ParentID, string(c.Author.Role), c.Author.ID, c.Body).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Comment, error) {
	query := `SELECT ` + columns + ` FROM comments WHERE id = $1`

	c, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `SELECT ` + columns + ` FROM comments WHERE post_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Comment
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

func (r *PostgresRepository) Update(ctx context.Context, c *models.Comment) error {
	return dbx.ExecOne(ctx, r.db,
		`UPDATE comments SET body = $1, updated_at = now() WHERE id = $2`, c.Body, c.ID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM comments WHERE id = $1`, id)
}
