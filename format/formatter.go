// Package format implements the content formatting pipeline: optional
// sanitization with a modal-dismissal retry, main-content extraction,
// Markdown conversion, line filtering and truncation.
package format

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fwojciec/distill"
)

// Ensure Formatter implements distill.Formatter at compile time.
var _ distill.Formatter = (*Formatter)(nil)

// DefaultMinContentLength is the threshold below which cleaned content
// is considered suspicious: a first-paint overlay (consent banner, age
// gate) has likely blanked the extractable content.
const DefaultMinContentLength = 100

// Formatter produces Markdown or HTML from settled page markup.
// Formatter holds no per-request state and is safe for concurrent use.
type Formatter struct {
	sanitizer  distill.Sanitizer
	extractor  distill.Extractor
	converter  distill.Converter
	minContent int
	logger     *slog.Logger
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithMinContentLength overrides the suspicious-content threshold.
func WithMinContentLength(n int) Option {
	return func(f *Formatter) { f.minContent = n }
}

// WithLogger sets the logger for pipeline diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Formatter) { f.logger = logger }
}

// New creates a Formatter from its pipeline stages.
func New(sanitizer distill.Sanitizer, extractor distill.Extractor, converter distill.Converter, opts ...Option) *Formatter {
	f := &Formatter{
		sanitizer:  sanitizer,
		extractor:  extractor,
		converter:  converter,
		minContent: DefaultMinContentLength,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format runs the pipeline over settled HTML. refresh, when non-nil,
// is invoked once if cleaning left suspiciously little content, giving
// the live page a chance to dismiss an overlay and re-snapshot.
func (f *Formatter) Format(ctx context.Context, html string, baseURL string, opts distill.FetchOptions, refresh distill.RefreshFunc) (string, error) {
	cleaned := html
	if opts.CleanContent {
		cleaned = f.sanitizer.Clean(html, baseURL)
		if len(strings.TrimSpace(cleaned)) < f.minContent && refresh != nil {
			f.logger.Debug("cleaned content below threshold, refreshing page",
				"url", baseURL,
				"bytes", len(cleaned),
			)
			refreshed, err := refresh(ctx)
			if err == nil && refreshed != "" {
				html = refreshed
				cleaned = f.sanitizer.Clean(refreshed, baseURL)
			}
		}
	}

	var out string
	switch opts.Format {
	case distill.FormatMarkdown:
		md, err := f.toMarkdown(html, cleaned)
		if err != nil {
			return "", err
		}
		out = md
		if opts.SearchPattern != "" {
			filtered, err := FilterLines(out, opts.SearchPattern)
			if err != nil {
				return "", err
			}
			out = filtered
		}
	default:
		out = cleaned
	}

	return Truncate(out, opts.MaxLength), nil
}

// toMarkdown extracts the primary article subtree from the original
// HTML and converts it to Markdown. Extraction runs over the original
// document because the extractor needs full document context the
// sanitizer may have removed. An empty extraction falls back to the
// cleaned HTML directly.
func (f *Formatter) toMarkdown(original, cleaned string) (string, error) {
	source := cleaned
	if result, err := f.extractor.Extract(original); err == nil && strings.TrimSpace(result.ContentHTML) != "" {
		source = result.ContentHTML
	}
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	return f.converter.Convert(source)
}

// FilterLines keeps only lines matching the search pattern,
// case-insensitive unless the pattern carries its own inline flags.
func FilterLines(text, pattern string) (string, error) {
	re, err := distill.CompileSearchPattern(pattern)
	if err != nil {
		return "", err
	}
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if re.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}

// Truncate cuts s to exactly maxLength characters. No suffix marker,
// no word-boundary logic; zero means no truncation.
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 || len(s) <= maxLength {
		return s
	}
	return s[:maxLength]
}
