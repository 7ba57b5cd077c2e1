package distill

import (
	"context"
	"time"
)

// Snapshot is a settled capture of a page's title and markup.
type Snapshot struct {
	URL   string
	Title string
	HTML  string
}

// Page is the browser collaborator contract. The core never manages
// browser process lifecycle, context creation, or resource blocking;
// it only drives a handle it is given. Every blocking method takes a
// context; a torn-down handle must behave like a timeout, never a hang.
type Page interface {
	// Navigate loads the URL and waits for the given condition.
	// Timeout-classified failures return ETIMEOUT.
	Navigate(ctx context.Context, url string, wait WaitCondition, timeout time.Duration) error

	// Title returns the current document title.
	Title(ctx context.Context) (string, error)

	// HTML returns the full current document markup. A concurrent
	// navigation that invalidates the execution context returns
	// ECONTEXTLOST.
	HTML(ctx context.Context) (string, error)

	// WaitReadyState polls until document.readyState is "complete"
	// or the timeout elapses (ETIMEOUT).
	WaitReadyState(ctx context.Context, timeout time.Duration) error

	// PressKey dispatches a key press to the page (e.g., "Escape").
	PressKey(ctx context.Context, key string) error

	// Sleep suspends for the duration, honoring context cancellation.
	Sleep(ctx context.Context, d time.Duration) error

	// RaceNavigation waits for a navigation-completion signal, giving
	// up after timeout. Reports whether a navigation completed.
	RaceNavigation(ctx context.Context, timeout time.Duration) bool

	// Close releases the page handle.
	Close() error
}

// PageSource hands out page handles, one per request. A handle must
// never be shared by two concurrent pipelines.
type PageSource interface {
	// NewPage returns a fresh page handle configured per the options.
	NewPage(ctx context.Context, opts FetchOptions) (Page, error)

	// Close releases the underlying browser resources.
	Close() error
}
