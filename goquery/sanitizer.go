// Package goquery provides goquery-backed implementations of the
// distill HTML processing interfaces: the sanitizer, the field
// extractor and the link harvester.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

// Ensure Sanitizer implements distill.Sanitizer at compile time.
var _ distill.Sanitizer = (*Sanitizer)(nil)

// DefaultNoiseSelectors is the ordered denylist of structural noise
// removed by the sanitizer after the non-renderable element kinds.
// A selector that fails to parse or match is skipped; the denylist is
// best-effort, not all-or-nothing.
var DefaultNoiseSelectors = []string{
	// navigation and page chrome
	"header", "footer", "nav", "aside",
	".nav", ".navbar", ".navigation", ".menu", ".sidebar", ".breadcrumb", ".breadcrumbs",
	"#header", "#footer", "#nav", "#navigation", "#sidebar", "#menu",
	// interactive chrome (form controls, but not the form container itself)
	"dialog", ".modal", ".popup", ".overlay", ".lightbox", ".drawer", ".tooltip",
	"button", "input", "select", "textarea", "label", "fieldset",
	".pagination", ".pager", ".page-numbers",
	// promotional and social chrome
	".ad", ".ads", ".advert", ".advertisement", ".banner", ".promo", ".sponsored",
	".social", ".share", ".sharing", ".newsletter", ".subscribe",
	// id-substring heuristics
	`[id*="cookie"]`, `[id*="popup"]`, `[id*="dialog"]`, `[id*="messages"]`, `[id*="promotions"]`,
	// icon fonts and inline vector graphics
	".icon", `[class*="icon-"]`, ".fa", ".fas", ".far", ".material-icons", ".glyphicon",
	"svg",
}

// emptyContainerTags are block/text containers subject to the
// empty-container pass.
var emptyContainerTags = []string{"div", "span", "p", "section", "article", "li", "ul", "ol"}

var (
	commentRE  = regexp.MustCompile(`<!--[\s\S]*?-->`)
	interTagRE = regexp.MustCompile(`>[ \t]+<`)
	blankRunRE = regexp.MustCompile(`\n\s*\n`)
)

// Sanitizer strips scripts, chrome, hidden elements and other noise
// from raw HTML. Sanitizer is stateless and safe for concurrent use.
type Sanitizer struct {
	noise []string
}

// SanitizerOption configures a Sanitizer.
type SanitizerOption func(*Sanitizer)

// WithNoiseSelectors overrides the denylist of noise selectors.
// The slice is applied in order.
func WithNoiseSelectors(selectors []string) SanitizerOption {
	return func(s *Sanitizer) {
		s.noise = selectors
	}
}

// NewSanitizer creates a Sanitizer with the default noise denylist.
func NewSanitizer(opts ...SanitizerOption) *Sanitizer {
	s := &Sanitizer{noise: DefaultNoiseSelectors}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clean returns the sanitized markup. If the input cannot be parsed,
// the original HTML is returned unchanged.
func (s *Sanitizer) Clean(rawHTML string, baseURL string) string {
	// Comments go first, as a textual pass: some payloads embed
	// executable-looking content inside comments that selectors would
	// otherwise touch after parsing.
	stripped := commentRE.ReplaceAllString(rawHTML, "")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(stripped))
	if err != nil {
		return rawHTML
	}

	// Element kinds that carry no renderable body content.
	doc.Find("script, style, meta, noscript, link").Remove()
	doc.Find("head").Remove()

	// Structural noise denylist, in order. goquery treats an invalid
	// selector as matching nothing, which is exactly the best-effort
	// behavior we want here.
	for _, sel := range s.noise {
		doc.Find(sel).Remove()
	}

	removeHidden(doc)
	removeEmptyContainers(doc)
	removeDataURIImages(doc)

	out, err := serializeBody(doc)
	if err != nil {
		return rawHTML
	}
	return normalizeWhitespace(out)
}

// removeHidden drops elements whose inline style or ARIA attributes
// mark them invisible.
func removeHidden(doc *goquery.Document) {
	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		style = strings.ToLower(strings.ReplaceAll(style, " ", ""))
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			sel.Remove()
		}
	})
	doc.Find(`[aria-hidden="true"]`).Remove()
}

// removeEmptyContainers drops containers with no child elements and no
// non-whitespace text. This is a single pass per container kind, not a
// fixed-point closure: nesting empty containers one level deep may
// survive. Known behavior, kept for output determinism.
func removeEmptyContainers(doc *goquery.Document) {
	for _, tag := range emptyContainerTags {
		doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
			if sel.Children().Length() == 0 && strings.TrimSpace(sel.Text()) == "" {
				sel.Remove()
			}
		})
	}
}

// removeDataURIImages drops images whose source is an inline base64
// payload. External http(s) image sources are preserved.
func removeDataURIImages(doc *goquery.Document) {
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if strings.HasPrefix(strings.TrimSpace(src), "data:") {
			sel.Remove()
		}
	})
}

// serializeBody renders the body subtree, falling back to the full
// document when no body exists.
func serializeBody(doc *goquery.Document) (string, error) {
	body := doc.Find("body")
	if body.Length() > 0 {
		return body.Html()
	}
	return doc.Html()
}

// normalizeWhitespace collapses inter-tag whitespace, collapses runs of
// blank lines, strips tabs and trims the result.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\t", "")
	s = interTagRE.ReplaceAllString(s, "><")
	s = blankRunRE.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
