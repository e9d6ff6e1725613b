package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Conn is a single, serially used PostgreSQL connection.
type Conn struct {
	conn *pgx.Conn
}

// Connect validates cfg, opens one connection and pings it.
func Connect(ctx context.Context, cfg ConnConfig) (*Conn, error) {
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connection config: %w", err)
	}

	connConfig, err := pgx.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	connConfig.ConnectTimeout = cfg.ConnectTimeout

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Redacted(), mapPostgresError(err))
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", mapPostgresError(err))
	}

	return &Conn{conn: conn}, nil
}

// Close closes the connection.
func (c *Conn) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}
