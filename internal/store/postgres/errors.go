package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrDatabaseExists   = errors.New("database already exists")
	ErrDatabaseNotFound = errors.New("database does not exist")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAuthentication   = errors.New("authentication failed")
	ErrConnection       = errors.New("database connection error")
)

// mapPostgresError maps PostgreSQL-specific errors to sentinel errors.
// Returns the original error if it's not a PostgreSQL error.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.DuplicateDatabase:
		return fmt.Errorf("%w: %s", ErrDatabaseExists, pgErr.Message)

	case pgerrcode.InvalidCatalogName:
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, pgErr.Message)

	case pgerrcode.InsufficientPrivilege:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, pgErr.Message)

	case pgerrcode.InvalidPassword,
		pgerrcode.InvalidAuthorizationSpecification:
		return fmt.Errorf("%w: %s", ErrAuthentication, pgErr.Message)

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow,
		pgerrcode.SQLClientUnableToEstablishSQLConnection,
		pgerrcode.TooManyConnections:
		return fmt.Errorf("%w: %s", ErrConnection, pgErr.Message)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)

	default:
		return fmt.Errorf("postgres error [%s]: %s (detail: %s, hint: %s): %w",
			pgErr.Code, pgErr.Message, pgErr.Detail, pgErr.Hint, err)
	}
}
