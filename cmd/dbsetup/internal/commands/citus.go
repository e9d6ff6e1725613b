package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/wolfeidau/saasframework/internal/bootstrap"
)

type CitusCmd struct {
	ConnFlags `embed:""`
}

func (c *CitusCmd) Run(ctx context.Context, globals *Globals) error {
	return runFlow(ctx, globals, &c.ConnFlags, "citus", bootstrap.SetupCitus, printCitus)
}

func printCitus(w io.Writer, res *bootstrap.Result) {
	fmt.Fprintf(w, "Server version: %s\n", res.Version)
	printRow(w, res)
	fmt.Fprintln(w, "Tables in public schema:")
	for _, name := range res.Tables {
		fmt.Fprintf(w, "  - %s\n", name)
	}
}
