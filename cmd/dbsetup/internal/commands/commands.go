package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/saasframework/internal/bootstrap"
	"github.com/wolfeidau/saasframework/internal/logger"
	"github.com/wolfeidau/saasframework/internal/store/postgres"
)

type Globals struct {
	Debug   bool
	Version string
}

// ConnFlags are the connection settings shared by every subcommand.
type ConnFlags struct {
	Host           string        `help:"PostgreSQL host" env:"PGHOST" required:""`
	Port           uint16        `help:"PostgreSQL port" default:"5432" env:"PGPORT"`
	User           string        `help:"PostgreSQL user" default:"citus" env:"PGUSER"`
	Password       string        `help:"PostgreSQL password" env:"PGPASSWORD"`
	SSLMode        string        `name:"sslmode" help:"sslmode connection parameter" default:"require" env:"PGSSLMODE" enum:"disable,allow,prefer,require,verify-ca,verify-full"`
	ConnectTimeout time.Duration `help:"timeout for establishing each connection" default:"10s"`
	Reveal         bool          `help:"print connection strings with the password"`
}

func (f *ConnFlags) connConfig() (postgres.ConnConfig, error) {
	cfg := postgres.ConnConfig{
		Host:           f.Host,
		Port:           f.Port,
		User:           f.User,
		Password:       f.Password,
		SSLMode:        f.SSLMode,
		ConnectTimeout: f.ConnectTimeout,
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid connection settings: %w", err)
	}
	return cfg, nil
}

func (f *ConnFlags) connString(cfg postgres.ConnConfig) string {
	if f.Reveal {
		return cfg.ConnString()
	}
	return cfg.Redacted()
}

// flow is one of the bootstrap entry points.
type flow func(ctx context.Context, cfg bootstrap.Config) (*bootstrap.Result, error)

// runFlow sets up logging, runs fn against the configured server and prints
// the result to stdout.
func runFlow(ctx context.Context, globals *Globals, flags *ConnFlags, name string, fn flow, report func(io.Writer, *bootstrap.Result)) error {
	logger.SetGlobal(logger.Setup(globals.Debug))
	ctx = log.Logger.WithContext(ctx)

	connCfg, err := flags.connConfig()
	if err != nil {
		return err
	}

	log.Info().
		Str("version", globals.Version).
		Str("host", connCfg.Host).
		Uint16("port", connCfg.Port).
		Str("user", connCfg.User).
		Msg("Connecting to PostgreSQL")

	res, err := fn(ctx, bootstrap.Config{Conn: connCfg})
	if err != nil {
		log.Error().Err(err).Str("flow", name).Msg("Database setup failed")
		return fmt.Errorf("%s failed: %w", name, err)
	}

	report(os.Stdout, res)
	fmt.Fprintf(os.Stdout, "\nConnection string:\n  %s\n", flags.connString(res.ConnConfig))

	zerolog.Ctx(ctx).Info().Str("flow", name).Msg("Database setup completed")
	return nil
}

func printRow(w io.Writer, res *bootstrap.Result) {
	fmt.Fprintf(w, "Test row: %s\n", res.Row)
}
