package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure LoggingSource implements distill.PageSource.
var _ distill.PageSource = (*LoggingSource)(nil)

// LoggingSource wraps a PageSource with debug logging.
type LoggingSource struct {
	next   distill.PageSource
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next distill.PageSource, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// NewPage logs page-handle creation and delegates to the wrapped source.
func (s *LoggingSource) NewPage(ctx context.Context, opts distill.FetchOptions) (page distill.Page, err error) {
	defer func(begin time.Time) {
		s.logger.Info("new page",
			"block_media", opts.BlockMedia,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.NewPage(ctx, opts)
}

// Close delegates to the wrapped source.
func (s *LoggingSource) Close() error {
	return s.next.Close()
}
