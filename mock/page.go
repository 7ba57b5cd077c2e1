// Package mock provides function-field mock implementations of the
// distill interfaces for testing.
package mock

import (
	"context"
	"time"

	"github.com/fwojciec/distill"
)

var _ distill.Page = (*Page)(nil)

// Page is a mock implementation of distill.Page. Unset function fields
// fall back to benign defaults so tests only wire what they assert on.
type Page struct {
	NavigateFn       func(ctx context.Context, url string, wait distill.WaitCondition, timeout time.Duration) error
	TitleFn          func(ctx context.Context) (string, error)
	HTMLFn           func(ctx context.Context) (string, error)
	WaitReadyStateFn func(ctx context.Context, timeout time.Duration) error
	PressKeyFn       func(ctx context.Context, key string) error
	SleepFn          func(ctx context.Context, d time.Duration) error
	RaceNavigationFn func(ctx context.Context, timeout time.Duration) bool
	CloseFn          func() error
}

func (p *Page) Navigate(ctx context.Context, url string, wait distill.WaitCondition, timeout time.Duration) error {
	if p.NavigateFn == nil {
		return nil
	}
	return p.NavigateFn(ctx, url, wait, timeout)
}

func (p *Page) Title(ctx context.Context) (string, error) {
	if p.TitleFn == nil {
		return "", nil
	}
	return p.TitleFn(ctx)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	if p.HTMLFn == nil {
		return "", nil
	}
	return p.HTMLFn(ctx)
}

func (p *Page) WaitReadyState(ctx context.Context, timeout time.Duration) error {
	if p.WaitReadyStateFn == nil {
		return nil
	}
	return p.WaitReadyStateFn(ctx, timeout)
}

func (p *Page) PressKey(ctx context.Context, key string) error {
	if p.PressKeyFn == nil {
		return nil
	}
	return p.PressKeyFn(ctx, key)
}

func (p *Page) Sleep(ctx context.Context, d time.Duration) error {
	if p.SleepFn == nil {
		return nil
	}
	return p.SleepFn(ctx, d)
}

func (p *Page) RaceNavigation(ctx context.Context, timeout time.Duration) bool {
	if p.RaceNavigationFn == nil {
		return false
	}
	return p.RaceNavigationFn(ctx, timeout)
}

func (p *Page) Close() error {
	if p.CloseFn == nil {
		return nil
	}
	return p.CloseFn()
}

var _ distill.PageSource = (*PageSource)(nil)

// PageSource is a mock implementation of distill.PageSource.
type PageSource struct {
	NewPageFn func(ctx context.Context, opts distill.FetchOptions) (distill.Page, error)
	CloseFn   func() error
}

func (s *PageSource) NewPage(ctx context.Context, opts distill.FetchOptions) (distill.Page, error) {
	return s.NewPageFn(ctx, opts)
}

func (s *PageSource) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
