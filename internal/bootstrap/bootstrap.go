package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/saasframework/internal/store/postgres"
)

// CreateDatabase connects to the maintenance database, creates cfg.Database
// when missing, then reconnects to it and verifies a test table round trip.
func CreateDatabase(ctx context.Context, cfg Config) (*Result, error) {
	cfg.applyDefaults()
	logger := zerolog.Ctx(ctx)
	res := &Result{}

	admin, err := cfg.Connect(ctx, cfg.Conn)
	if err != nil {
		return nil, err
	}

	exists, err := admin.DatabaseExists(ctx, cfg.Database)
	if err == nil && !exists {
		logger.Info().Str("database", cfg.Database).Msg("Creating database")
		err = admin.CreateDatabase(ctx, cfg.Database)
		res.DatabaseCreated = err == nil
	}
	if cerr := admin.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	target := cfg.Conn.WithDatabase(cfg.Database)
	db, err := cfg.Connect(ctx, target)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(ctx, db)

	if res.Version, err = db.ServerVersion(ctx); err != nil {
		return nil, err
	}

	if res.Row, err = roundTrip(ctx, db, pgx.Identifier{ConnectionTestName}, "Database setup successful!"); err != nil {
		return nil, err
	}

	res.ConnConfig = target
	return res, nil
}

// CheckSchema inspects the maintenance database and bootstraps a schema
// inside it, for accounts that may not create databases.
func CheckSchema(ctx context.Context, cfg Config) (*Result, error) {
	cfg.applyDefaults()
	res := &Result{}

	db, err := cfg.Connect(ctx, cfg.Conn)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(ctx, db)

	if res.Databases, err = db.ListDatabases(ctx); err != nil {
		return nil, err
	}

	if res.CurrentUser, res.SessionUser, err = db.CurrentUsers(ctx); err != nil {
		return nil, err
	}

	if err := db.CreateSchema(ctx, cfg.Schema); err != nil {
		return nil, fmt.Errorf("cannot create schema: %w", err)
	}

	if res.Row, err = roundTrip(ctx, db, pgx.Identifier{cfg.Schema, ConnectionTestName}, "Schema setup successful!"); err != nil {
		return nil, err
	}

	res.ConnConfig = cfg.Conn.WithSearchPath(cfg.Schema)
	return res, nil
}

// SetupCitus bootstraps the citus database of a hosted Citus cluster, where
// the default database is the only one available.
func SetupCitus(ctx context.Context, cfg Config) (*Result, error) {
	cfg.applyDefaults()
	res := &Result{}

	target := cfg.Conn.WithDatabase(CitusDatabase)
	db, err := cfg.Connect(ctx, target)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(ctx, db)

	if res.Version, err = db.ServerVersion(ctx); err != nil {
		return nil, err
	}

	if res.Row, err = roundTrip(ctx, db, pgx.Identifier{CitusTestTableName}, "SaaS Framework setup successful!"); err != nil {
		return nil, err
	}

	if res.Tables, err = db.ListTables(ctx, "public"); err != nil {
		return nil, err
	}

	res.ConnConfig = target
	return res, nil
}

// roundTrip creates table, inserts message and reads back the latest row.
func roundTrip(ctx context.Context, db Database, table pgx.Identifier, message string) (row postgres.ConnectionTestRow, err error) {
	if err = db.CreateTestTable(ctx, table); err != nil {
		return row, err
	}

	if _, err = db.InsertTestRow(ctx, table, message); err != nil {
		return row, err
	}

	return db.LatestTestRow(ctx, table)
}

func closeQuietly(ctx context.Context, db Database) {
	if err := db.Close(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to close database connection")
	}
}
