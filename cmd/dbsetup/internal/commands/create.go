package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/wolfeidau/saasframework/internal/bootstrap"
)

type CreateCmd struct {
	ConnFlags `embed:""`
}

func (c *CreateCmd) Run(ctx context.Context, globals *Globals) error {
	return runFlow(ctx, globals, &c.ConnFlags, "create", bootstrap.CreateDatabase, printCreate)
}

func printCreate(w io.Writer, res *bootstrap.Result) {
	if res.DatabaseCreated {
		fmt.Fprintf(w, "Created database %q\n", res.ConnConfig.Database)
	} else {
		fmt.Fprintf(w, "Database %q already exists\n", res.ConnConfig.Database)
	}
	fmt.Fprintf(w, "Server version: %s\n", res.Version)
	printRow(w, res)
}
