package mock

import (
	"context"
	"regexp"

	"github.com/fwojciec/distill"
)

var _ distill.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of distill.Sanitizer.
type Sanitizer struct {
	CleanFn func(html string, baseURL string) string
}

func (s *Sanitizer) Clean(html string, baseURL string) string {
	return s.CleanFn(html, baseURL)
}

var _ distill.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of distill.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*distill.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*distill.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ distill.Converter = (*Converter)(nil)

// Converter is a mock implementation of distill.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ distill.Formatter = (*Formatter)(nil)

// Formatter is a mock implementation of distill.Formatter.
type Formatter struct {
	FormatFn func(ctx context.Context, html string, baseURL string, opts distill.FetchOptions, refresh distill.RefreshFunc) (string, error)
}

func (f *Formatter) Format(ctx context.Context, html string, baseURL string, opts distill.FetchOptions, refresh distill.RefreshFunc) (string, error) {
	return f.FormatFn(ctx, html, baseURL, opts, refresh)
}

var _ distill.FieldExtractor = (*FieldExtractor)(nil)

// FieldExtractor is a mock implementation of distill.FieldExtractor.
type FieldExtractor struct {
	ExtractFn func(html string, baseURL string, fields map[string]distill.FieldSpec) (distill.FieldValues, error)
}

func (e *FieldExtractor) Extract(html string, baseURL string, fields map[string]distill.FieldSpec) (distill.FieldValues, error) {
	return e.ExtractFn(html, baseURL, fields)
}

var _ distill.LinkHarvester = (*LinkHarvester)(nil)

// LinkHarvester is a mock implementation of distill.LinkHarvester.
type LinkHarvester struct {
	HarvestFn func(html string, baseURL string, offset, pageSize int, pattern *regexp.Regexp) (*distill.LinkPage, error)
}

func (h *LinkHarvester) Harvest(html string, baseURL string, offset, pageSize int, pattern *regexp.Regexp) (*distill.LinkPage, error) {
	return h.HarvestFn(html, baseURL, offset, pageSize, pattern)
}

var _ distill.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of distill.SnapshotService.
type SnapshotService struct {
	CreateSnapshotFn   func(ctx context.Context, snap *distill.StoredSnapshot) error
	FindSnapshotByIDFn func(ctx context.Context, id string) (*distill.StoredSnapshot, error)
	FindSnapshotsFn    func(ctx context.Context, filter distill.SnapshotFilter) ([]*distill.StoredSnapshot, error)
	DeleteSnapshotFn   func(ctx context.Context, id string) error
}

func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *distill.StoredSnapshot) error {
	return s.CreateSnapshotFn(ctx, snap)
}

func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*distill.StoredSnapshot, error) {
	return s.FindSnapshotByIDFn(ctx, id)
}

func (s *SnapshotService) FindSnapshots(ctx context.Context, filter distill.SnapshotFilter) ([]*distill.StoredSnapshot, error) {
	return s.FindSnapshotsFn(ctx, filter)
}

func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	return s.DeleteSnapshotFn(ctx, id)
}
