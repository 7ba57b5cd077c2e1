package goquery

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

// Ensure LinkHarvester implements distill.LinkHarvester at compile time.
var _ distill.LinkHarvester = (*LinkHarvester)(nil)

// assetExtensions lists path extensions of non-page resources excluded
// from harvesting, query string and fragment ignored.
var assetExtensions = map[string]bool{
	// images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".svg": true, ".ico": true, ".bmp": true, ".avif": true,
	// video and audio
	".mp4": true, ".webm": true, ".avi": true, ".mov": true, ".mkv": true,
	".mp3": true, ".wav": true, ".ogg": true, ".flac": true, ".m4a": true,
	// documents and archives
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".zip": true, ".rar": true, ".7z": true,
	".tar": true, ".gz": true,
	// fonts
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	// stylesheet, script and data files
	".css": true, ".js": true, ".json": true, ".xml": true, ".rss": true,
	".atom": true,
}

// Two fixed patterns for onclick-based navigation targets. This is a
// bounded heuristic over free-text script snippets, not a JavaScript
// analyzer; dynamic non-literal targets are not discoverable.
var onclickPatterns = []*regexp.Regexp{
	regexp.MustCompile(`window\.open\(\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`location(?:\.href)?\s*=\s*['"]([^'"]+)['"]`),
}

// LinkHarvester collects hyperlinks from raw page markup.
// LinkHarvester is stateless and safe for concurrent use.
type LinkHarvester struct{}

// NewLinkHarvester creates a new LinkHarvester.
func NewLinkHarvester() *LinkHarvester {
	return &LinkHarvester{}
}

// Harvest collects links from anchors, SVG anchors, image-map areas,
// data-href carriers and literal onclick targets; resolves them against
// the base URL; filters non-page assets; deduplicates on the final
// absolute URL (first occurrence wins, so first-seen document order is
// preserved); optionally filters by pattern; and returns the contiguous
// page at [offset, offset+pageSize).
func (h *LinkHarvester) Harvest(html string, baseURL string, offset, pageSize int, pattern *regexp.Regexp) (*distill.LinkPage, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "failed to parse HTML: %v", err)
	}

	if pageSize <= 0 {
		pageSize = distill.DefaultLinkPageSize
	}
	if offset < 0 {
		offset = 0
	}

	// Track seen URLs with their index so the first occurrence wins
	// while a later duplicate can still be skipped in O(1).
	seen := make(map[string]int)
	var links []distill.Link

	add := func(href, title string) {
		href = strings.TrimSpace(href)
		if rejectHref(href) {
			return
		}
		resolved := resolveHref(base, href)
		if resolved == "" || isAssetURL(resolved) {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = len(links)
		links = append(links, distill.Link{URL: resolved, Title: strings.TrimSpace(title)})
	}

	// Collection sources in fixed order. Standard anchors go first so
	// their titles win over duplicates from secondary sources.
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		add(href, sel.Text())
	})
	doc.Find("svg a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			href, _ = sel.Attr("xlink:href")
		}
		add(href, sel.Text())
	})
	doc.Find("area[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		alt, _ := sel.Attr("alt")
		add(href, alt)
	})
	doc.Find("[data-href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("data-href")
		add(href, sel.Text())
	})
	doc.Find("[onclick]").Each(func(_ int, sel *goquery.Selection) {
		onclick, _ := sel.Attr("onclick")
		for _, re := range onclickPatterns {
			if m := re.FindStringSubmatch(onclick); m != nil {
				add(m[1], sel.Text())
				return
			}
		}
	})

	if pattern != nil {
		filtered := links[:0]
		for _, link := range links {
			if pattern.MatchString(link.URL) || pattern.MatchString(link.Title) {
				filtered = append(filtered, link)
			}
		}
		links = filtered
	}

	total := len(links)
	start := offset
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	page := make([]distill.Link, end-start)
	copy(page, links[start:end])

	return &distill.LinkPage{
		Origin:  baseURL,
		Count:   len(page),
		HasMore: offset+pageSize < total,
		Links:   page,
	}, nil
}

// rejectHref reports whether a raw href is unusable up front: empty,
// fragment-only, or a non-navigational scheme.
func rejectHref(href string) bool {
	if href == "" || href == "#" || strings.HasPrefix(href, "#") {
		return true
	}
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "data:")
}

// resolveHref resolves a href to an absolute URL against the base.
// When parsing fails it falls back to manual prefixing for
// protocol-relative and root-relative forms, else passes the href
// through unresolved.
func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		switch {
		case strings.HasPrefix(href, "//"):
			return base.Scheme + ":" + href
		case strings.HasPrefix(href, "/"):
			return base.Scheme + "://" + base.Host + href
		default:
			return href
		}
	}
	return base.ResolveReference(ref).String()
}

// isAssetURL reports whether the URL path, stripped of query string and
// fragment, ends in a known non-page asset extension.
func isAssetURL(raw string) bool {
	s := raw
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	return assetExtensions[strings.ToLower(path.Ext(s))]
}
