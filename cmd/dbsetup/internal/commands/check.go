package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/wolfeidau/saasframework/internal/bootstrap"
)

type CheckCmd struct {
	ConnFlags `embed:""`
}

func (c *CheckCmd) Run(ctx context.Context, globals *Globals) error {
	return runFlow(ctx, globals, &c.ConnFlags, "check", bootstrap.CheckSchema, printCheck)
}

func printCheck(w io.Writer, res *bootstrap.Result) {
	fmt.Fprintln(w, "Databases:")
	for _, name := range res.Databases {
		fmt.Fprintf(w, "  - %s\n", name)
	}
	fmt.Fprintf(w, "Current user: %s\n", res.CurrentUser)
	fmt.Fprintf(w, "Session user: %s\n", res.SessionUser)
	fmt.Fprintf(w, "Schema: %s\n", res.ConnConfig.SearchPath)
	printRow(w, res)
}
