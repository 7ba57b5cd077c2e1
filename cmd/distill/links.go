package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/distill"
)

// Run executes the links command.
func (c *LinksCmd) Run(deps *Dependencies) error {
	opts := c.options(distill.FormatHTML, false)

	page, err := deps.Service.Links(deps.Ctx, c.URL, opts, c.Offset, c.PageSize, c.Search)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	out, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(out))
	return nil
}
