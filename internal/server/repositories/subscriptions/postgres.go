package subscriptions

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

const columns = `id, owner_role, owner_id, category_id, created_at`

var conflictFields = map[string]string{"uq_subscriptions_owner_category": "category"}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scan(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	s := &models.Subscription{}
	if err := row.Scan(&s.ID, &s.Subscriber.Role, &s.Subscriber.ID, &s.CategoryID, &s.CreatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Subscription) (*models.Subscription, error) {
	query :=
		`INSERT INTO subscriptions (owner_role, owner_id, category_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		string(s.Subscriber.Role), s.Subscriber.ID, s.CategoryID).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if conflict := dbx.ConflictFrom(err, conflictFields); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Subscription, error) {
	s, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM subscriptions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner identity.Subject) ([]*models.Subscription, error) {
	query := `SELECT ` + columns + ` FROM subscriptions WHERE owner_role = $1 AND owner_id = $2 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, string(owner.Role), owner.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Subscription
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

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.ExecOne(ctx, r.db, `DELETE FROM subscriptions WHERE id = $1`, id)
}
