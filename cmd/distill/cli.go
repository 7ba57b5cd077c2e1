package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/fetch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Service   *fetch.Service
	Snapshots distill.SnapshotService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Content   ContentCmd   `cmd:"" help:"Fetch a page and print it as Markdown or cleaned HTML"`
	Fields    FieldsCmd    `cmd:"" help:"Extract selector-addressed fields from a page as JSON"`
	Links     LinksCmd     `cmd:"" help:"Harvest page hyperlinks as JSON"`
	Batch     BatchCmd     `cmd:"" help:"Fetch several pages concurrently"`
	Snapshots SnapshotsCmd `cmd:"" help:"List recorded page snapshots"`

	Store     string `help:"SQLite file used to record fetched snapshots" type:"path" env:"DISTILL_STORE"`
	Extractor string `default:"trafilatura" enum:"trafilatura,readability" help:"Main-content extraction engine"`
}

// FetchFlags are the navigation flags shared by fetching commands.
type FetchFlags struct {
	Timeout    time.Duration `short:"t" default:"30s" help:"Navigation and readiness timeout"`
	Wait       string        `default:"load" enum:"load,domcontentloaded,networkidle,commit" help:"Navigation wait condition"`
	WaitNav    bool          `help:"Wait for an extra navigation after load (client-side redirects)"`
	NavTimeout time.Duration `default:"10s" help:"Timeout for the extra navigation wait"`
	BlockMedia bool          `help:"Block image, media and font resources"`
	Debug      bool          `help:"Verbose diagnostics"`
}

// options converts the flags into FetchOptions with the given format.
func (f *FetchFlags) options(format distill.OutputFormat, clean bool) distill.FetchOptions {
	return distill.FetchOptions{
		Timeout:           f.Timeout,
		WaitCondition:     distill.WaitCondition(f.Wait),
		Format:            format,
		CleanContent:      clean,
		WaitForNavigation: f.WaitNav,
		NavigationTimeout: f.NavTimeout,
		BlockMedia:        f.BlockMedia,
		Debug:             f.Debug,
	}
}

// ContentCmd is the "content" subcommand.
type ContentCmd struct {
	FetchFlags
	URL       string `arg:"" help:"Page URL to fetch"`
	Format    string `default:"markdown" enum:"markdown,html" help:"Output format"`
	NoClean   bool   `help:"Skip the sanitizer pass"`
	MaxLength int    `short:"m" help:"Truncate output to this many characters (0 = unlimited)"`
	Search    string `short:"s" help:"Keep only output lines matching this pattern"`
}

// FieldsCmd is the "fields" subcommand.
type FieldsCmd struct {
	FetchFlags
	URL  string `arg:"" help:"Page URL to fetch"`
	Spec string `arg:"" help:"JSON object mapping field names to specs ({\"name\": {\"selector\": ...}})"`
}

// LinksCmd is the "links" subcommand.
type LinksCmd struct {
	FetchFlags
	URL      string `arg:"" help:"Page URL to fetch"`
	Offset   int    `help:"Pagination offset"`
	PageSize int    `default:"100" help:"Links per page"`
	Search   string `short:"s" help:"Keep only links whose URL or title matches this pattern"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	FetchFlags
	URLs        []string `arg:"" help:"Page URLs to fetch"`
	Format      string   `default:"markdown" enum:"markdown,html" help:"Output format"`
	Concurrency int      `short:"c" default:"3" help:"Concurrent fetch limit"`
	RPS         float64  `default:"1" help:"Requests per second per domain"`
}

// SnapshotsCmd is the "snapshots" subcommand.
type SnapshotsCmd struct {
	URL   string `help:"Filter snapshots by URL"`
	Limit int    `default:"20" help:"Maximum snapshots to list"`
}
