package distill

import "regexp"

// DefaultLinkPageSize is the pagination window for harvested links.
const DefaultLinkPageSize = 100

// Link is a harvested hyperlink. URL is absolute; Title may be empty.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// LinkPage is one contiguous page of harvested links.
// Count always equals len(Links).
type LinkPage struct {
	Origin  string `json:"origin"`
	Count   int    `json:"count"`
	HasMore bool   `json:"hasMore"`
	Links   []Link `json:"links"`
}

// LinkHarvester collects, normalizes and paginates hyperlinks from a
// raw (unsanitized) page snapshot. It needs the original anchor and
// attribute structure, so it never runs on sanitized markup.
type LinkHarvester interface {
	// Harvest returns the links at [offset, offset+pageSize) after
	// normalization, asset filtering and deduplication. Links keep
	// first-seen document order, so consecutive pages of a static
	// snapshot are disjoint and order-consistent. A non-nil pattern
	// keeps only links whose URL or title matches.
	Harvest(html string, baseURL string, offset, pageSize int, pattern *regexp.Regexp) (*LinkPage, error)
}
