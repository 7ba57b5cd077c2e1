package rod

import (
	"context"
	"fmt"

	"github.com/fwojciec/distill"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Source implements distill.PageSource at compile time.
var _ distill.PageSource = (*Source)(nil)

// blockedResourceTypes are the request types dropped when a request
// asks for media blocking.
var blockedResourceTypes = map[proto.NetworkResourceType]bool{
	proto.NetworkResourceTypeImage: true,
	proto.NetworkResourceTypeMedia: true,
	proto.NetworkResourceTypeFont:  true,
}

// Source hands out page handles backed by a managed Chrome process,
// one per request.
type Source struct {
	manager *Manager
}

// NewSource creates a Source over a browser Manager.
func NewSource(manager *Manager) *Source {
	return &Source{manager: manager}
}

// NewPage opens a fresh browser page. When the options ask for media
// blocking, a hijack router drops image, media and font requests before
// they hit the network.
func (s *Source) NewPage(ctx context.Context, opts distill.FetchOptions) (distill.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := s.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	if opts.BlockMedia {
		if err := blockMedia(page); err != nil {
			_ = page.Close()
			return nil, err
		}
	}

	s.manager.PageServed()
	return NewPage(page), nil
}

// Close releases the underlying browser.
func (s *Source) Close() error {
	return s.manager.Close()
}

// blockMedia installs a hijack router that fails image, media and font
// requests with a client-side block.
func blockMedia(page *rod.Page) error {
	router := page.HijackRequests()
	err := router.Add("*", "", func(h *rod.Hijack) {
		if blockedResourceTypes[h.Request.Type()] {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		return fmt.Errorf("installing resource blocker: %w", err)
	}
	go router.Run()
	return nil
}
