package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ConnectionTestRow is a row of a throwaway connection test table.
type ConnectionTestRow struct {
	ID        int64
	CreatedAt time.Time
	Message   string
}

func (r ConnectionTestRow) String() string {
	return fmt.Sprintf("(%d, %s, %q)", r.ID, r.CreatedAt.Format(time.RFC3339), r.Message)
}

// ServerVersion returns the output of SELECT version().
func (c *Conn) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.conn.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", fmt.Errorf("failed to query server version: %w", mapPostgresError(err))
	}
	return version, nil
}

// DatabaseExists reports whether a database with the given name exists.
func (c *Conn) DatabaseExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := c.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check database %s: %w", name, mapPostgresError(err))
	}
	return exists, nil
}

// CreateDatabase creates a database. It fails with ErrDatabaseExists when the
// database is already there.
func (c *Conn) CreateDatabase(ctx context.Context, name string) error {
	_, err := c.conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize())
	if err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, mapPostgresError(err))
	}
	return nil
}

// ListDatabases returns the names of all non-template databases.
func (c *Conn) ListDatabases(ctx context.Context) ([]string, error) {
	rows, err := c.conn.Query(ctx,
		"SELECT datname FROM pg_database WHERE datistemplate = false ORDER BY datname")
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", mapPostgresError(err))
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read databases: %w", mapPostgresError(err))
	}
	return names, nil
}

// CurrentUsers returns current_user and session_user.
func (c *Conn) CurrentUsers(ctx context.Context) (current, session string, err error) {
	err = c.conn.QueryRow(ctx, "SELECT current_user, session_user").Scan(&current, &session)
	if err != nil {
		return "", "", fmt.Errorf("failed to query current user: %w", mapPostgresError(err))
	}
	return current, session, nil
}

// CreateSchema creates schema if it does not exist.
func (c *Conn) CreateSchema(ctx context.Context, schema string) error {
	_, err := c.conn.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize())
	if err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schema, mapPostgresError(err))
	}
	return nil
}

// CreateTestTable creates a connection test table if it does not exist.
func (c *Conn) CreateTestTable(ctx context.Context, table pgx.Identifier) error {
	_, err := c.conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+table.Sanitize()+` (
		id SERIAL PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		message TEXT
	)`)
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Sanitize(), mapPostgresError(err))
	}
	return nil
}

// InsertTestRow inserts message into a connection test table.
func (c *Conn) InsertTestRow(ctx context.Context, table pgx.Identifier, message string) (ConnectionTestRow, error) {
	row := c.conn.QueryRow(ctx,
		"INSERT INTO "+table.Sanitize()+" (message) VALUES ($1) RETURNING id, created_at, message",
		message)

	r, err := scanTestRow(row)
	if err != nil {
		return ConnectionTestRow{}, fmt.Errorf("failed to insert into %s: %w", table.Sanitize(), mapPostgresError(err))
	}
	return r, nil
}

// LatestTestRow returns the most recently inserted row. It returns
// pgx.ErrNoRows (wrapped) when the table is empty.
func (c *Conn) LatestTestRow(ctx context.Context, table pgx.Identifier) (ConnectionTestRow, error) {
	row := c.conn.QueryRow(ctx,
		"SELECT id, created_at, message FROM "+table.Sanitize()+" ORDER BY id DESC LIMIT 1")

	r, err := scanTestRow(row)
	if err != nil {
		return ConnectionTestRow{}, fmt.Errorf("failed to read from %s: %w", table.Sanitize(), mapPostgresError(err))
	}
	return r, nil
}

func scanTestRow(row pgx.Row) (ConnectionTestRow, error) {
	var (
		r         ConnectionTestRow
		createdAt *time.Time
		message   *string
	)
	if err := row.Scan(&r.ID, &createdAt, &message); err != nil {
		return ConnectionTestRow{}, err
	}
	if createdAt != nil {
		r.CreatedAt = *createdAt
	}
	if message != nil {
		r.Message = *message
	}
	return r, nil
}

// ListTables returns the base tables in schema, sorted by name.
func (c *Conn) ListTables(ctx context.Context, schema string) ([]string, error) {
	rows, err := c.conn.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", mapPostgresError(err))
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", mapPostgresError(err))
	}
	return names, nil
}
