package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/E-Rombi/route-go/internal/repositories"
)

// Postgres error classes we map onto the store taxonomy.
const (
	codeUndefinedTable  = "42P01"
	codeUndefinedColumn = "42703"
)

// classify wraps driver errors with the repository sentinels so callers can
// distinguish "retry later" from "run the migration".
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUndefinedTable, codeUndefinedColumn:
			return fmt.Errorf("%w: %s", repositories.ErrSchemaMismatch, pgErr.Message)
		}
		return err
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", repositories.ErrConnection, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", repositories.ErrConnection, err)
	}
	return err
}
