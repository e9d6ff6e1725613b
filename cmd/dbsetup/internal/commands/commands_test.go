package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/saasframework/internal/bootstrap"
	"github.com/wolfeidau/saasframework/internal/store/postgres"
)

func TestConnFlagsParse(t *testing.T) {
	t.Setenv("PGPASSWORD", "s3cret!")

	var cli struct {
		Create CreateCmd `cmd:""`
	}
	parser, err := kong.New(&cli)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"create", "--host", "db.example.com", "--sslmode", "disable"})
	require.NoError(t, err)

	cfg, err := cli.Create.connConfig()
	require.NoError(t, err)
	require.Equal(t, "db.example.com", cfg.Host)
	require.Equal(t, uint16(5432), cfg.Port)
	require.Equal(t, "citus", cfg.User)
	require.Equal(t, "s3cret!", cfg.Password)
	require.Equal(t, "disable", cfg.SSLMode)
	require.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}

func TestConnFlagsRejectsUnknownSSLMode(t *testing.T) {
	var cli struct {
		Check CheckCmd `cmd:""`
	}
	parser, err := kong.New(&cli)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"check", "--host", "db", "--sslmode", "sometimes"})
	require.Error(t, err)
}

func TestConnString(t *testing.T) {
	cfg := postgres.ConnConfig{Host: "db", Port: 5432, Database: "citus", User: "citus", Password: "pw", SSLMode: "require"}

	flags := &ConnFlags{}
	require.Equal(t, "postgresql://citus:xxxxx@db:5432/citus?sslmode=require", flags.connString(cfg))

	flags.Reveal = true
	require.Equal(t, "postgresql://citus:pw@db:5432/citus?sslmode=require", flags.connString(cfg))
}

func TestPrintCitus(t *testing.T) {
	var buf bytes.Buffer
	printCitus(&buf, &bootstrap.Result{
		Version: "PostgreSQL 16.4",
		Row:     postgres.ConnectionTestRow{ID: 1, Message: "SaaS Framework setup successful!"},
		Tables:  []string{"saas_connection_test"},
	})

	out := buf.String()
	require.Contains(t, out, "Server version: PostgreSQL 16.4")
	require.Contains(t, out, "SaaS Framework setup successful!")
	require.Contains(t, out, "  - saas_connection_test\n")
}

func TestPrintCreate(t *testing.T) {
	var buf bytes.Buffer
	printCreate(&buf, &bootstrap.Result{
		DatabaseCreated: true,
		ConnConfig:      postgres.ConnConfig{Database: "saasframework"},
	})
	require.Contains(t, buf.String(), `Created database "saasframework"`)
}
