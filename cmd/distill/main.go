package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/fetch"
	"github.com/fwojciec/distill/format"
	dgoquery "github.com/fwojciec/distill/goquery"
	"github.com/fwojciec/distill/htmltomarkdown"
	"github.com/fwojciec/distill/readability"
	drod "github.com/fwojciec/distill/rod"
	dslog "github.com/fwojciec/distill/slog"
	"github.com/fwojciec/distill/sqlite"
	"github.com/fwojciec/distill/stabilize"
	"github.com/fwojciec/distill/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, opened only when a store path is configured.
	DB *sqlite.DB

	// Browser page source, started only for fetching commands.
	Source *drod.Source
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Source != nil {
		_ = m.Source.Close()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("distill"),
		kong.Description("Reduce a browser-rendered page to Markdown, cleaned HTML, fields or links"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'distill --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel(cli)}))

	if cli.Store != "" {
		m.DB = sqlite.NewDB(cli.Store)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open snapshot store at %q: %w", cli.Store, err)
		}
		deps.Snapshots = sqlite.NewSnapshotService(m.DB)
	}

	if cmd != "snapshots" {
		manager, err := drod.NewManager()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.Source = drod.NewSource(manager)

		var extractor distill.Extractor = trafilatura.NewExtractor()
		if cli.Extractor == "readability" {
			extractor = readability.NewExtractor()
		}

		sanitizer := dslog.NewLoggingSanitizer(dgoquery.NewSanitizer(), logger)
		formatter := format.New(
			sanitizer,
			extractor,
			htmltomarkdown.NewConverter(),
			format.WithLogger(logger),
		)

		opts := []fetch.ServiceOption{}
		if cmd == "batch" && cli.Batch.RPS > 0 {
			opts = append(opts, fetch.WithDomainLimiter(fetch.NewDomainLimiter(cli.Batch.RPS)))
		}
		if deps.Snapshots != nil {
			opts = append(opts, fetch.WithSnapshotStore(deps.Snapshots))
		}

		deps.Service = fetch.NewService(
			drod.NewLoggingSource(m.Source, logger),
			stabilize.New(stabilize.WithLogger(logger)),
			formatter,
			sanitizer,
			dgoquery.NewFieldExtractor(),
			dgoquery.NewLinkHarvester(),
			opts...,
		)
	}

	return kongCtx.Run(deps)
}

// logLevel picks the slog level from whichever command's debug flag is set.
func logLevel(cli *CLI) slog.Level {
	if cli.Content.Debug || cli.Fields.Debug || cli.Links.Debug || cli.Batch.Debug {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
