package main

import (
	"fmt"

	"github.com/fwojciec/distill"
)

// Run executes the content command.
func (c *ContentCmd) Run(deps *Dependencies) error {
	opts := c.options(distill.OutputFormat(c.Format), !c.NoClean)
	opts.MaxLength = c.MaxLength
	opts.SearchPattern = c.Search

	content, err := deps.Service.Content(deps.Ctx, c.URL, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, content)
	return nil
}
