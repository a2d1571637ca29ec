package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/dbx"
	"github.com/techelevate/platform/internal/server/models"
)

const columns = `id, owner_role, owner_id, category_id, title, body, status, likes, dislikes, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scan(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	var category sql.NullInt64
	err := row.Scan(&p.ID, &p.Author.Role, &p.Author.ID, &category, &p.Title, &p.Body,
		&p.Status, &p.Likes, &p.Dislikes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if category.Valid {
		p.CategoryID = &category.Int64
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (owner_role, owner_id, category_id, title, body, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		string(p.Author.Role), p.Author.ID, p.CategoryID, p.Title, p.Body, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + columns + ` FROM posts WHERE id = $1`

	p, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, categoryID *int64) ([]*models.Post, error) {
	query := `SELECT ` + columns + ` FROM posts WHERE ($1::BIGINT IS NULL OR category_id = $1) ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Post
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Post) error {
	return dbx.ExecOne(ctx, r.db,
		`UPDATE posts SET title = $1, body = $2, category_id = $3, updated_at = now() WHERE id = $4`,
		p.Title, p.Body, p.CategoryID, p.ID)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, status string) error {
	return dbx.ExecOne(ctx, r.db,
		`UPDATE posts SET status = $1, updated_at = now() WHERE id = $2`, status, id)
}

func (r *PostgresRepository) React(ctx context.Context, id int64, like bool) error {
	query := `UPDATE posts SET dislikes = dislikes + 1 WHERE id = $1`
	if like {
		query = `UPDATE posts SET likes = likes + 1 WHERE id = $1`
	}
	return dbx.ExecOne(ctx, r.db, query, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM posts WHERE id = $1`, id)
}
