// Package slog provides logging decorators for distill interfaces.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure LoggingSanitizer implements distill.Sanitizer.
var _ distill.Sanitizer = (*LoggingSanitizer)(nil)

// LoggingSanitizer wraps a Sanitizer with a size-reduction metric:
// before/after character counts per clean. Diagnostic only, not part
// of the functional contract.
type LoggingSanitizer struct {
	next   distill.Sanitizer
	logger *slog.Logger
}

// NewLoggingSanitizer creates a new LoggingSanitizer.
func NewLoggingSanitizer(next distill.Sanitizer, logger *slog.Logger) *LoggingSanitizer {
	return &LoggingSanitizer{next: next, logger: logger}
}

// Clean delegates to the wrapped sanitizer and logs the reduction.
func (s *LoggingSanitizer) Clean(html string, baseURL string) string {
	begin := time.Now()
	out := s.next.Clean(html, baseURL)
	s.logger.Info("sanitize",
		"url", baseURL,
		"before", len(html),
		"after", len(out),
		"duration", time.Since(begin),
	)
	return out
}
