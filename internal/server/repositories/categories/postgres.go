package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/dbx"
	"github.com/techelevate/platform/internal/server/models"
)

const columns = `id, owner_role, owner_id, name, description, created_at`

var conflictFields = map[string]string{"uq_categories_name": "name"}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scan(row interface{ Scan(...any) error }) (*models.Category, error) {
	c := &models.Category{}
	if err := row.Scan(&c.ID, &c.Creator.Role, &c.Creator.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	query :=
		`INSERT INTO categories (owner_role, owner_id, name, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		string(c.Creator.Role), c.Creator.ID, c.Name, c.Description).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if conflict := dbx.ConflictFrom(err, conflictFields); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT ` + columns + ` FROM categories WHERE id = $1`

	c, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Category
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

func (r *PostgresRepository) Update(ctx context.Context, c *models.Category) error {
	err := dbx.ExecOne(ctx, r.db,
		`UPDATE categories SET name = $1, description = $2 WHERE id = $3`, c.Name, c.Description, c.ID)
	if conflict := dbx.ConflictFrom(err, conflictFields); conflict != nil {
		return conflict
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM categories WHERE id = $1`, id)
}
