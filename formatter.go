package distill

import "context"

// RefreshFunc re-snapshots a live page after a recovery action (such
// as dismissing a first-paint overlay) and returns the fresh HTML.
// Formatters call it at most once per request, and only when the
// cleaned content is suspiciously small.
type RefreshFunc func(ctx context.Context) (string, error)

// Formatter turns settled HTML into the requested output format,
// applying sanitization, line filtering and truncation per the options.
type Formatter interface {
	// Format produces Markdown or HTML from the snapshot HTML.
	// refresh may be nil when no live page handle is available.
	Format(ctx context.Context, html string, baseURL string, opts FetchOptions, refresh RefreshFunc) (string, error)
}
