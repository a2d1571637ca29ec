package dbx

import (
	"context"
	"fmt"

	"github.com/techelevate/platform/internal/common"
)

// ExecOne runs a statement that targets a single row by key. It returns
// common.ErrorNotFound when no row matched and wraps driver failures as
// "db error".
func ExecOne(ctx context.Context, db DBTX, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
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
