// Package fetch composes the distill pipeline at the request level:
// it obtains a page handle, runs the stabilization protocol, and
// dispatches to the content formatter, field extractor or link
// harvester depending on the requested mode.
package fetch

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/stabilize"
)

// Service runs fetch requests end to end. All components are request-
// scoped or stateless, so a single Service serves concurrent requests
// without locking; each request gets its own page handle.
type Service struct {
	source     distill.PageSource
	stabilizer *stabilize.Stabilizer
	formatter  distill.Formatter
	sanitizer  distill.Sanitizer
	fields     distill.FieldExtractor
	links      distill.LinkHarvester
	limiter    *DomainLimiter
	store      distill.SnapshotService
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithDomainLimiter enables per-domain rate limiting.
func WithDomainLimiter(limiter *DomainLimiter) ServiceOption {
	return func(s *Service) { s.limiter = limiter }
}

// WithSnapshotStore records every settled snapshot for replay and
// debugging. Recording is best-effort: a store failure never fails
// the request.
func WithSnapshotStore(store distill.SnapshotService) ServiceOption {
	return func(s *Service) { s.store = store }
}

// NewService creates a Service from its components.
func NewService(
	source distill.PageSource,
	stabilizer *stabilize.Stabilizer,
	formatter distill.Formatter,
	sanitizer distill.Sanitizer,
	fields distill.FieldExtractor,
	links distill.LinkHarvester,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		source:     source,
		stabilizer: stabilizer,
		formatter:  formatter,
		sanitizer:  sanitizer,
		fields:     fields,
		links:      links,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Content fetches the page and returns it as Markdown or cleaned HTML
// per the options.
func (s *Service) Content(ctx context.Context, pageURL string, opts distill.FetchOptions) (string, error) {
	page, snap, err := s.snapshot(ctx, pageURL, opts)
	if err != nil {
		return "", err
	}
	defer page.Close()

	refresh := func(ctx context.Context) (string, error) {
		return s.stabilizer.Refresh(ctx, page, pageURL, opts)
	}
	return s.formatter.Format(ctx, snap.HTML, pageURL, opts, refresh)
}

// Fields fetches the page, sanitizes it and resolves the field specs.
// Partial success (some fields nil) is success, not an error.
func (s *Service) Fields(ctx context.Context, pageURL string, opts distill.FetchOptions, fields map[string]distill.FieldSpec) (distill.FieldValues, error) {
	if len(fields) == 0 {
		return nil, distill.Errorf(distill.EINVALID, "at least one field spec required")
	}
	for name, spec := range fields {
		if err := spec.Validate(); err != nil {
			return nil, distill.Errorf(distill.EINVALID, "field %q: %s", name, distill.ErrorMessage(err))
		}
	}

	page, snap, err := s.snapshot(ctx, pageURL, opts)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	cleaned := s.sanitizer.Clean(snap.HTML, pageURL)
	return s.fields.Extract(cleaned, pageURL, fields)
}

// Links fetches the page and harvests its hyperlinks. The harvester
// runs over the raw snapshot: it needs original anchor and attribute
// structure, not the cleaned tree.
func (s *Service) Links(ctx context.Context, pageURL string, opts distill.FetchOptions, offset, pageSize int, pattern string) (*distill.LinkPage, error) {
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		re, err = distill.CompileSearchPattern(pattern)
		if err != nil {
			return nil, err
		}
	}

	page, snap, err := s.snapshot(ctx, pageURL, opts)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	return s.links.Harvest(snap.HTML, pageURL, offset, pageSize, re)
}

// snapshot validates the request, acquires a page handle and runs the
// stabilization protocol. Callers own the returned page and must close
// it. Empty settled HTML is surfaced as EEMPTY, distinct from a timeout.
func (s *Service) snapshot(ctx context.Context, pageURL string, opts distill.FetchOptions) (distill.Page, *distill.Snapshot, error) {
	if pageURL == "" {
		return nil, nil, distill.Errorf(distill.EINVALID, "URL required")
	}
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	if s.limiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			return nil, nil, distill.Errorf(distill.EINVALID, "invalid URL %q: %v", pageURL, err)
		}
		if err := s.limiter.Wait(ctx, u.Host); err != nil {
			return nil, nil, err
		}
	}

	page, err := s.source.NewPage(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	snap, err := s.stabilizer.Snapshot(ctx, page, pageURL, opts)
	if err != nil {
		_ = page.Close()
		return nil, nil, distill.Errorf(distill.ErrorCode(err), "fetching %s: %s", pageURL, distill.ErrorMessage(err))
	}
	if strings.TrimSpace(snap.HTML) == "" {
		_ = page.Close()
		return nil, nil, distill.Errorf(distill.EEMPTY, "no content extracted from %s", pageURL)
	}

	if s.store != nil {
		_ = s.store.CreateSnapshot(ctx, &distill.StoredSnapshot{
			URL:   pageURL,
			Title: snap.Title,
			HTML:  snap.HTML,
		})
	}

	return page, snap, nil
}
