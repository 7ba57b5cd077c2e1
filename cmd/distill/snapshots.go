package main

import (
	"fmt"

	"github.com/fwojciec/distill"
)

// Run executes the snapshots command.
func (c *SnapshotsCmd) Run(deps *Dependencies) error {
	if deps.Snapshots == nil {
		return distill.Errorf(distill.EINVALID, "no snapshot store configured; pass --store")
	}

	filter := distill.SnapshotFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	snaps, err := deps.Snapshots.FindSnapshots(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	if len(snaps) == 0 {
		fmt.Fprintln(deps.Stdout, "No snapshots recorded.")
		return nil
	}

	for _, s := range snaps {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d bytes  %s\n",
			s.ID, s.FetchedAt.Format("2006-01-02 15:04:05"), s.ContentHash, len(s.HTML), s.URL)
	}
	return nil
}
