package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/saasframework/cmd/demo/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Serve       commands.ServeCmd       `cmd:"" help:"Run the demo web application"`
		Walkthrough commands.WalkthroughCmd `cmd:"" help:"Log in and exercise the auth and RBAC clients"`
		Token       commands.TokenCmd       `cmd:"" help:"Decode a bearer token and optionally verify it"`
		Debug       bool                    `help:"Enable debug mode."`
		Version     kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
