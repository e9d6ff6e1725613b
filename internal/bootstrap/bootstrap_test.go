package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/saasframework/internal/store/postgres"
)

// fakeServer records the state shared by every fakeDB connection.
type fakeServer struct {
	databases   map[string]bool
	schemas     map[string]bool
	tables      map[string][]postgres.ConnectionTestRow
	connects    []string
	closed      int
	failOn      string
	createdDBs  []string
	currentUser string
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		databases:   map[string]bool{"postgres": true, "citus": true},
		schemas:     map[string]bool{"public": true},
		tables:      map[string][]postgres.ConnectionTestRow{},
		currentUser: "citus",
	}
}

func (s *fakeServer) connector(ctx context.Context, cfg postgres.ConnConfig) (Database, error) {
	if s.failOn == "connect:"+cfg.Database {
		return nil, postgres.ErrDatabaseNotFound
	}
	s.connects = append(s.connects, cfg.Database)
	return &fakeDB{srv: s, database: cfg.Database}, nil
}

type fakeDB struct {
	srv      *fakeServer
	database string
}

func (d *fakeDB) fail(op string) error {
	if d.srv.failOn == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (d *fakeDB) key(table pgx.Identifier) string {
	return d.database + "/" + strings.Join(table, ".")
}

func (d *fakeDB) ServerVersion(context.Context) (string, error) {
	return "PostgreSQL 16.4 (Citus 12.1)", d.fail("version")
}

func (d *fakeDB) DatabaseExists(_ context.Context, name string) (bool, error) {
	return d.srv.databases[name], d.fail("exists")
}

func (d *fakeDB) CreateDatabase(_ context.Context, name string) error {
	if err := d.fail("createdb"); err != nil {
		return err
	}
	d.srv.databases[name] = true
	d.srv.createdDBs = append(d.srv.createdDBs, name)
	return nil
}

func (d *fakeDB) ListDatabases(context.Context) ([]string, error) {
	return []string{"citus", "postgres"}, d.fail("listdb")
}

func (d *fakeDB) CurrentUsers(context.Context) (string, string, error) {
	return d.srv.currentUser, d.srv.currentUser, d.fail("users")
}

func (d *fakeDB) CreateSchema(_ context.Context, schema string) error {
	if err := d.fail("schema"); err != nil {
		return err
	}
	d.srv.schemas[schema] = true
	return nil
}

func (d *fakeDB) CreateTestTable(_ context.Context, table pgx.Identifier) error {
	if err := d.fail("table"); err != nil {
		return err
	}
	if _, ok := d.srv.tables[d.key(table)]; !ok {
		d.srv.tables[d.key(table)] = nil
	}
	return nil
}

func (d *fakeDB) InsertTestRow(_ context.Context, table pgx.Identifier, message string) (postgres.ConnectionTestRow, error) {
	if err := d.fail("insert"); err != nil {
		return postgres.ConnectionTestRow{}, err
	}
	rows := d.srv.tables[d.key(table)]
	row := postgres.ConnectionTestRow{ID: int64(len(rows) + 1), CreatedAt: time.Now(), Message: message}
	d.srv.tables[d.key(table)] = append(rows, row)
	return row, nil
}

func (d *fakeDB) LatestTestRow(_ context.Context, table pgx.Identifier) (postgres.ConnectionTestRow, error) {
	rows := d.srv.tables[d.key(table)]
	if len(rows) == 0 {
		return postgres.ConnectionTestRow{}, pgx.ErrNoRows
	}
	return rows[len(rows)-1], nil
}

func (d *fakeDB) ListTables(context.Context, string) ([]string, error) {
	return []string{"saas_connection_test"}, d.fail("tables")
}

func (d *fakeDB) Close(context.Context) error {
	d.srv.closed++
	return nil
}

func testConfig(srv *fakeServer) Config {
	return Config{
		Conn:    postgres.ConnConfig{Host: "db.example.com", User: "citus", Password: "pw"},
		Connect: srv.connector,
	}
}

func TestCreateDatabase(t *testing.T) {
	srv := newFakeServer()

	res, err := CreateDatabase(context.Background(), testConfig(srv))
	require.NoError(t, err)

	require.True(t, res.DatabaseCreated)
	require.Equal(t, []string{"saasframework"}, srv.createdDBs)
	require.Equal(t, []string{"postgres", "saasframework"}, srv.connects)
	require.Equal(t, 2, srv.closed)
	require.Contains(t, res.Version, "PostgreSQL")
	require.Equal(t, "Database setup successful!", res.Row.Message)
	require.Equal(t, "saasframework", res.ConnConfig.Database)
	require.Equal(t,
		"postgresql://citus:pw@db.example.com:5432/saasframework?sslmode=require",
		res.ConnConfig.ConnString())
}

func TestCreateDatabase_alreadyExists(t *testing.T) {
	srv := newFakeServer()
	srv.databases["saasframework"] = true

	res, err := CreateDatabase(context.Background(), testConfig(srv))
	require.NoError(t, err)
	require.False(t, res.DatabaseCreated)
	require.Empty(t, srv.createdDBs)
}

func TestCreateDatabase_createFails(t *testing.T) {
	srv := newFakeServer()
	srv.failOn = "createdb"

	res, err := CreateDatabase(context.Background(), testConfig(srv))
	require.Error(t, err)
	require.Nil(t, res)
	require.Equal(t, 1, srv.closed)
	require.Equal(t, []string{"postgres"}, srv.connects)
}

func TestCreateDatabase_connectFails(t *testing.T) {
	srv := newFakeServer()
	srv.failOn = "connect:postgres"

	_, err := CreateDatabase(context.Background(), testConfig(srv))
	require.ErrorIs(t, err, postgres.ErrDatabaseNotFound)
}

func TestCheckSchema(t *testing.T) {
	srv := newFakeServer()

	res, err := CheckSchema(context.Background(), testConfig(srv))
	require.NoError(t, err)

	require.Equal(t, []string{"citus", "postgres"}, res.Databases)
	require.Equal(t, "citus", res.CurrentUser)
	require.Equal(t, "citus", res.SessionUser)
	require.True(t, srv.schemas["saasframework"])
	require.Equal(t, "Schema setup successful!", res.Row.Message)
	require.Len(t, srv.tables["postgres/saasframework.connection_test"], 1)
	require.Equal(t, "saasframework", res.ConnConfig.SearchPath)
	require.Equal(t, 1, srv.closed)
}

func TestCheckSchema_schemaFails(t *testing.T) {
	srv := newFakeServer()
	srv.failOn = "schema"

	_, err := CheckSchema(context.Background(), testConfig(srv))
	require.ErrorContains(t, err, "cannot create schema")
	require.Equal(t, 1, srv.closed)
}

func TestSetupCitus(t *testing.T) {
	srv := newFakeServer()

	res, err := SetupCitus(context.Background(), testConfig(srv))
	require.NoError(t, err)

	require.Equal(t, []string{"citus"}, srv.connects)
	require.Equal(t, "SaaS Framework setup successful!", res.Row.Message)
	require.Equal(t, []string{"saas_connection_test"}, res.Tables)
	require.Equal(t, "citus", res.ConnConfig.Database)
	require.Equal(t, 1, srv.closed)
}

func TestSetupCitus_insertFails(t *testing.T) {
	srv := newFakeServer()
	srv.failOn = "insert"

	res, err := SetupCitus(context.Background(), testConfig(srv))
	require.EqualError(t, err, "insert failed")
	require.Nil(t, res)
	require.Equal(t, 1, srv.closed)
}

func TestSetupCitus_repeatedRunsAppendRows(t *testing.T) {
	srv := newFakeServer()
	cfg := testConfig(srv)

	_, err := SetupCitus(context.Background(), cfg)
	require.NoError(t, err)
	res, err := SetupCitus(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, int64(2), res.Row.ID)
}
