package bootstrap

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/wolfeidau/saasframework/internal/store/postgres"
)

// Default names used by the bootstrap flows.
const (
	DefaultDatabase    = "saasframework"
	DefaultSchema      = "saasframework"
	CitusDatabase      = "citus"
	ConnectionTestName = "connection_test"
	CitusTestTableName = "saas_connection_test"
)

// Database is the subset of *postgres.Conn the flows use.
type Database interface {
	ServerVersion(ctx context.Context) (string, error)
	DatabaseExists(ctx context.Context, name string) (bool, error)
	CreateDatabase(ctx context.Context, name string) error
	ListDatabases(ctx context.Context) ([]string, error)
	CurrentUsers(ctx context.Context) (current, session string, err error)
	CreateSchema(ctx context.Context, schema string) error
	CreateTestTable(ctx context.Context, table pgx.Identifier) error
	InsertTestRow(ctx context.Context, table pgx.Identifier, message string) (postgres.ConnectionTestRow, error)
	LatestTestRow(ctx context.Context, table pgx.Identifier) (postgres.ConnectionTestRow, error)
	ListTables(ctx context.Context, schema string) ([]string, error)
	Close(ctx context.Context) error
}

// Connector opens a Database for cfg.
type Connector func(ctx context.Context, cfg postgres.ConnConfig) (Database, error)

// PostgresConnector opens real connections with postgres.Connect.
func PostgresConnector(ctx context.Context, cfg postgres.ConnConfig) (Database, error) {
	conn, err := postgres.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Config holds the connection parameters and target names for a flow.
type Config struct {
	Conn postgres.ConnConfig

	// Database is the database created by CreateDatabase.
	// Default: saasframework
	Database string

	// Schema is the schema created by CheckSchema.
	// Default: saasframework
	Schema string

	// Connect defaults to PostgresConnector.
	Connect Connector
}

func (c *Config) applyDefaults() {
	c.Conn.ApplyDefaults()
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Schema == "" {
		c.Schema = DefaultSchema
	}
	if c.Connect == nil {
		c.Connect = PostgresConnector
	}
}

// Result holds everything a flow discovered, for the caller to print.
type Result struct {
	Version         string
	DatabaseCreated bool
	Databases       []string
	CurrentUser     string
	SessionUser     string
	Row             postgres.ConnectionTestRow
	Tables          []string

	// ConnConfig is the ready-to-use connection for the bootstrapped target.
	ConnConfig postgres.ConnConfig
}
