package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/saasframework/cmd/dbsetup/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Create  commands.CreateCmd `cmd:"" help:"Create the saasframework database and verify it"`
		Check   commands.CheckCmd  `cmd:"" help:"Inspect the server and bootstrap a schema in the default database"`
		Citus   commands.CitusCmd  `cmd:"" help:"Bootstrap the citus database of a hosted Citus cluster"`
		Debug   bool               `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Description("Bootstrap PostgreSQL databases for the SaaS framework."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
