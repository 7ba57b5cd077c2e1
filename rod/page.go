// Package rod implements the distill browser collaborator interfaces
// using Chrome browser automation via go-rod.
package rod

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Page implements distill.Page at compile time.
var _ distill.Page = (*Page)(nil)

// readyStatePollInterval is the pause between readyState probes.
const readyStatePollInterval = 100 * time.Millisecond

// keymap translates key names from the Page contract to CDP keys.
var keymap = map[string]input.Key{
	"Escape": input.Escape,
	"Enter":  input.Enter,
	"Tab":    input.Tab,
}

// Page drives a single rod page handle. One Page must never be shared
// by two concurrent request pipelines.
type Page struct {
	page *rod.Page
}

// NewPage wraps a rod page.
func NewPage(p *rod.Page) *Page {
	return &Page{page: p}
}

// Navigate loads the URL and waits for the configured condition.
func (p *Page) Navigate(ctx context.Context, url string, wait distill.WaitCondition, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	page := p.page.Context(tctx)

	// Subscribe before navigating so a fast-firing event is not missed.
	var waitFn func() error
	switch wait {
	case distill.WaitDOMContentLoaded:
		w := page.WaitEvent(&proto.PageDomContentEventFired{})
		waitFn = func() error { w(); return tctx.Err() }
	case distill.WaitNetworkIdle:
		w := page.WaitRequestIdle(300*time.Millisecond, nil, nil, nil)
		waitFn = func() error { w(); return tctx.Err() }
	case distill.WaitCommit:
		waitFn = func() error { return nil }
	default: // load
		waitFn = page.WaitLoad
	}

	if err := page.Navigate(url); err != nil {
		return classify(err)
	}
	if err := waitFn(); err != nil {
		return classify(err)
	}
	return nil
}

// Title returns the current document title.
func (p *Page) Title(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", classify(err)
	}
	return info.Title, nil
}

// HTML returns the full current document markup.
func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", classify(err)
	}
	return html, nil
}

// WaitReadyState polls document.readyState until "complete" or timeout.
func (p *Page) WaitReadyState(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		res, err := p.page.Context(ctx).Eval(`() => document.readyState`)
		if err != nil {
			return classify(err)
		}
		if res.Value.Str() == "complete" {
			return nil
		}
		if time.Now().After(deadline) {
			return distill.Errorf(distill.ETIMEOUT, "document not ready after %s", timeout)
		}
		if err := p.Sleep(ctx, readyStatePollInterval); err != nil {
			return err
		}
	}
}

// PressKey dispatches a key press to the page.
func (p *Page) PressKey(ctx context.Context, key string) error {
	k, ok := keymap[key]
	if !ok {
		return distill.Errorf(distill.EINVALID, "unsupported key %q", key)
	}
	if err := p.page.Context(ctx).Keyboard.Press(k); err != nil {
		return classify(err)
	}
	return nil
}

// Sleep suspends for the duration, honoring context cancellation.
func (p *Page) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return classify(ctx.Err())
	case <-time.After(d):
		return nil
	}
}

// RaceNavigation waits for a navigation lifecycle event, giving up
// after timeout. Reports whether a navigation completed in time.
func (p *Page) RaceNavigation(ctx context.Context, timeout time.Duration) bool {
	begin := time.Now()
	wait := p.page.Context(ctx).Timeout(timeout).
		WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	wait()
	return time.Since(begin) < timeout
}

// Close releases the page handle.
func (p *Page) Close() error {
	return p.page.Close()
}

// classify maps rod and context errors onto distill error codes.
// Teardown of the page handle surfaces as ETIMEOUT, per the contract
// that a destroyed handle behaves like a timeout rather than a hang.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return distill.Errorf(distill.ETIMEOUT, "browser call timed out: %v", err)
	}
	var cdpErr *cdp.Error
	if errors.As(err, &cdpErr) {
		msg := cdpErr.Message
		if strings.Contains(msg, "Cannot find context") ||
			strings.Contains(msg, "Execution context was destroyed") ||
			strings.Contains(msg, "Inspected target navigated or closed") {
			return distill.Errorf(distill.ECONTEXTLOST, "execution context invalidated: %s", msg)
		}
	}
	return err
}
