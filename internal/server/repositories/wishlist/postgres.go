package wishlist

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

const columns = `id, owner_role, owner_id, post_id, created_at`

var conflictFields = map[string]string{"uq_wishlist_entries_owner_post": "post"}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scan(row interface{ Scan(...any) error }) (*models.WishlistEntry, error) {
	w := &models.WishlistEntry{}
	if err := row.Scan(&w.ID, &w.Holder.Role, &w.Holder.ID, &w.PostID, &w.CreatedAt); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *PostgresRepository) Create(ctx context.Context, w *models.WishlistEntry) (*models.WishlistEntry, error) {
	query :=
		`INSERT INTO wishlist_entries (owner_role, owner_id, post_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		string(w.Holder.Role), w.Holder.ID, w.PostID).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		if conflict := dbx.ConflictFrom(err, conflictFields); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.WishlistEntry, error) {
	w, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM wishlist_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner identity.Subject) ([]*models.WishlistEntry, error) {
	query := `SELECT ` + columns + ` FROM wishlist_entries WHERE owner_role = $1 AND owner_id = $2 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, string(owner.Role), owner.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.WishlistEntry
	for rows.Next() {
		w, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM wishlist_entries WHERE id = $1`, id)
}
