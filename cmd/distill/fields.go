package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/distill"
)

// Run executes the fields command.
func (c *FieldsCmd) Run(deps *Dependencies) error {
	var fields map[string]distill.FieldSpec
	if err := json.Unmarshal([]byte(c.Spec), &fields); err != nil {
		return distill.Errorf(distill.EINVALID, "invalid field spec JSON: %v", err)
	}

	opts := c.options(distill.FormatHTML, true)

	values, err := deps.Service.Fields(deps.Ctx, c.URL, opts, fields)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	out, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(out))
	return nil
}
