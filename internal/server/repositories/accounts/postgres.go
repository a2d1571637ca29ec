package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/dbx"
	"github.com/techelevate/platform/internal/server/identity"
)

var tables = map[identity.Role]string{
	identity.RoleAdministrator: "administrators",
	identity.RoleMember:        "members",
}

var conflictFields = map[string]string{
	"uq_administrators_email":    "email",
	"uq_administrators_username": "username",
	"uq_members_email":           "email",
	"uq_members_username":        "username",
}

const columns = `id, email, username, display_name, password_hash, active, profile_picture_key, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func table(role identity.Role) (string, error) {
	t, ok := tables[role]
	if !ok {
		return "", fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}
	return t, nil
}

func scan(row interface{ Scan(...any) error }, role identity.Role) (*identity.Account, error) {
	a := &identity.Account{Role: role}
	err := row.Scan(&a.ID, &a.Email, &a.Username, &a.DisplayName, &a.PasswordHash, &a.Active, &a.ProfilePictureKey, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func wrap(err error) error {
	if conflict := dbx.ConflictFrom(err, conflictFields); conflict != nil {
		return conflict
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, a *identity.Account) (*identity.Account, error) {
	t, err := table(a.Role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (email, username, display_name, password_hash, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`, t)

	err = r.db.QueryRowContext(ctx, query,
		a.Email, a.Username, a.DisplayName, a.PasswordHash, a.Active).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, wrap(err)
	}

	return a, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, s identity.Subject) (*identity.Account, error) {
	t, err := table(s.Role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, columns, t)

	a, err := scan(r.db.QueryRowContext(ctx, query, s.ID), s.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, role identity.Role, email string) (*identity.Account, error) {
	t, err := table(role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE email = $1`, columns, t)

	a, err := scan(r.db.QueryRowContext(ctx, query, email), role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context, role identity.Role) ([]*identity.Account, error) {
	t, err := table(role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, columns, t)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*identity.Account
	for rows.Next() {
		a, err := scan(rows, role)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// exec runs an UPDATE/DELETE that must touch exactly one row of the
// subject's table.
func (r *PostgresRepository) exec(ctx context.Context, s identity.Subject, format string, args ...any) error {
	t, err := table(s.Role)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, fmt.Sprintf(format, t), append(args, s.ID)...)
	if err != nil {
		return wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, a *identity.Account) error {
	return r.exec(ctx, a.Subject(),
		`UPDATE %s SET email = $1, username = $2, display_name = $3 WHERE id = $4`,
		a.Email, a.Username, a.DisplayName)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, s identity.Subject, hash []byte) error {
	return r.exec(ctx, s, `UPDATE %s SET password_hash = $1 WHERE id = $2`, hash)
}

func (r *PostgresRepository) SetActive(ctx context.Context, s identity.Subject, active bool) error {
	return r.exec(ctx, s, `UPDATE %s SET active = $1 WHERE id = $2`, active)
}

func (r *PostgresRepository) SetProfilePicture(ctx context.Context, s identity.Subject, key string) error {
	return r.exec(ctx, s, `UPDATE %s SET profile_picture_key = $1 WHERE id = $2`, key)
}

func (r *PostgresRepository) Delete(ctx context.Context, s identity.Subject) error {
	return r.exec(ctx, s, `DELETE FROM %s WHERE id = $1`)
}
