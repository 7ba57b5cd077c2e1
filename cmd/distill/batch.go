package main

import (
	"fmt"

	"github.com/fwojciec/distill"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	opts := c.options(distill.OutputFormat(c.Format), true)

	results, err := deps.Service.ContentAll(deps.Ctx, c.URLs, opts, c.Concurrency)
	if err != nil {
		return err
	}

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", r.URL, distill.ErrorMessage(r.Err))
			continue
		}
		fmt.Fprintf(deps.Stdout, "## Page: %s\n%s\n\n", r.URL, r.Content)
	}

	if failures == len(results) && failures > 0 {
		return fmt.Errorf("all %d fetches failed", failures)
	}
	return nil
}
