// Package stabilize implements the page-stability protocol: given a
// live page handle, it produces a settled (title, HTML) snapshot or
// fails with a typed condition. It guards extraction against a DOM
// that is still settling or whose execution context is torn down by a
// client-side redirect mid-call.
package stabilize

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/distill"
)

// Protocol timing and retry bounds.
const (
	// DefaultSettleDelay absorbs late-firing DOM mutations after the
	// document reports readyState "complete".
	DefaultSettleDelay = 500 * time.Millisecond

	// DefaultRetryDelay is the pause before re-settling after the
	// execution context was invalidated.
	DefaultRetryDelay = 250 * time.Millisecond

	// DefaultSnapshotAttempts bounds the capture retry loop.
	DefaultSnapshotAttempts = 3

	// DefaultDismissAttempts bounds modal-dismissal key presses.
	DefaultDismissAttempts = 2

	// DefaultDismissDelay is the settle pause after each dismissal key.
	DefaultDismissDelay = 300 * time.Millisecond
)

// Stabilizer runs the snapshot protocol over a distill.Page handle.
// Stabilizer holds no per-request state and is safe for concurrent use,
// provided each request owns its own page handle.
type Stabilizer struct {
	settleDelay      time.Duration
	retryDelay       time.Duration
	snapshotAttempts int
	dismissAttempts  int
	dismissDelay     time.Duration
	logger           *slog.Logger
}

// Option configures a Stabilizer.
type Option func(*Stabilizer)

// WithSettleDelay overrides the post-readiness settle delay.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Stabilizer) { s.settleDelay = d }
}

// WithRetryDelay overrides the pause between snapshot retries.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Stabilizer) { s.retryDelay = d }
}

// WithSnapshotAttempts overrides the snapshot retry bound.
func WithSnapshotAttempts(n int) Option {
	return func(s *Stabilizer) { s.snapshotAttempts = n }
}

// WithDismissDelays overrides modal-dismissal attempt count and pause.
func WithDismissDelays(attempts int, delay time.Duration) Option {
	return func(s *Stabilizer) {
		s.dismissAttempts = attempts
		s.dismissDelay = delay
	}
}

// WithLogger sets the logger for non-fatal protocol events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stabilizer) { s.logger = logger }
}

// New creates a Stabilizer with production timing defaults.
func New(opts ...Option) *Stabilizer {
	s := &Stabilizer{
		settleDelay:      DefaultSettleDelay,
		retryDelay:       DefaultRetryDelay,
		snapshotAttempts: DefaultSnapshotAttempts,
		dismissAttempts:  DefaultDismissAttempts,
		dismissDelay:     DefaultDismissDelay,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot navigates the page to the URL and captures a settled
// (title, HTML) snapshot.
//
// A navigation timeout is not immediately fatal: whatever DOM is
// present is captured best-effort, and only an empty result lets the
// timeout propagate. Failure to reach readyState "complete" is logged,
// not fatal. An empty final snapshot is the caller's EEMPTY condition,
// not an error here.
func (s *Stabilizer) Snapshot(ctx context.Context, page distill.Page, url string, opts distill.FetchOptions) (*distill.Snapshot, error) {
	navErr := page.Navigate(ctx, url, opts.WaitCondition, opts.Timeout)
	if navErr != nil {
		if distill.ErrorCode(navErr) != distill.ETIMEOUT {
			return nil, navErr
		}
		// Late extraction: the load signal never fired, but content may
		// already be in the DOM.
		snap, err := s.capture(ctx, page, url, opts)
		if err == nil && strings.TrimSpace(snap.HTML) != "" {
			s.logger.Warn("navigation timed out, recovered partial DOM",
				"url", url,
				"bytes", len(snap.HTML),
			)
			return snap, nil
		}
		return nil, navErr
	}

	if opts.WaitForNavigation {
		// Accommodates client-side redirects and anti-automation
		// challenges that navigate again after the initial load. A
		// timeout here is non-fatal.
		if !page.RaceNavigation(ctx, opts.NavigationTimeout) {
			s.logger.Debug("no extra navigation before timeout", "url", url)
		}
	}

	s.settle(ctx, page, url, opts.Timeout)

	return s.capture(ctx, page, url, opts)
}

// Refresh dismisses on-screen modals with bounded cancel-key presses,
// re-settles and re-captures the page. Used when the cleaned content of
// a first snapshot is suspiciously small (consent banner, age gate).
func (s *Stabilizer) Refresh(ctx context.Context, page distill.Page, url string, opts distill.FetchOptions) (string, error) {
	for i := 0; i < s.dismissAttempts; i++ {
		if err := page.PressKey(ctx, "Escape"); err != nil {
			s.logger.Debug("modal dismiss key failed", "url", url, "err", err)
			break
		}
		if err := page.Sleep(ctx, s.dismissDelay); err != nil {
			return "", err
		}
	}

	s.settle(ctx, page, url, opts.Timeout)

	snap, err := s.capture(ctx, page, url, opts)
	if err != nil {
		return "", err
	}
	return snap.HTML, nil
}

// settle waits for document readiness plus a fixed delay for late DOM
// mutations. Readiness failure is logged, never fatal: extraction
// proceeds with best-effort content.
func (s *Stabilizer) settle(ctx context.Context, page distill.Page, url string, timeout time.Duration) {
	if err := page.WaitReadyState(ctx, timeout); err != nil {
		s.logger.Warn("document never reached complete state",
			"url", url,
			"err", err,
		)
	}
	_ = page.Sleep(ctx, s.settleDelay)
}

// capture fetches title and HTML with a bounded retry loop. Only an
// invalidated execution context (a navigation occurred concurrently) is
// retried; any other failure aborts immediately. Exhausting retries
// returns the last known, possibly empty, values.
func (s *Stabilizer) capture(ctx context.Context, page distill.Page, url string, opts distill.FetchOptions) (*distill.Snapshot, error) {
	snap := &distill.Snapshot{URL: url}

	for attempt := 1; attempt <= s.snapshotAttempts; attempt++ {
		title, err := page.Title(ctx)
		if err == nil {
			snap.Title = title
			var html string
			html, err = page.HTML(ctx)
			if err == nil {
				snap.HTML = html
				return snap, nil
			}
		}

		if distill.ErrorCode(err) != distill.ECONTEXTLOST {
			return nil, err
		}

		s.logger.Debug("execution context invalidated, retrying capture",
			"url", url,
			"attempt", attempt,
		)

		if attempt == s.snapshotAttempts {
			break
		}
		if serr := page.Sleep(ctx, s.retryDelay); serr != nil {
			return nil, serr
		}
		s.settle(ctx, page, url, opts.Timeout)
	}

	// Retries exhausted: return last known values. Callers treat empty
	// HTML as a distinct failure condition.
	return snap, nil
}
