package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

// Ensure FieldExtractor implements distill.FieldExtractor at compile time.
var _ distill.FieldExtractor = (*FieldExtractor)(nil)

// FieldExtractor resolves selector-addressed field specs against HTML.
// FieldExtractor is stateless and safe for concurrent use.
type FieldExtractor struct{}

// NewFieldExtractor creates a new FieldExtractor.
func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{}
}

// Extract resolves every spec independently and returns a value per
// field name. A field whose selector matches nothing, or whose regex
// fails to compile, yields nil for that field only.
func (e *FieldExtractor) Extract(html string, baseURL string, fields map[string]distill.FieldSpec) (distill.FieldValues, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "failed to parse HTML: %v", err)
	}

	values := make(distill.FieldValues, len(fields))
	for name, spec := range fields {
		values[name] = extractField(doc, base, spec)
	}
	return values, nil
}

// extractField resolves a single spec. Never fails; any per-field
// problem collapses to nil.
func extractField(doc *goquery.Document, base *url.URL, spec distill.FieldSpec) any {
	if spec.Selector == "" {
		return nil
	}

	re, ok := compileFieldPattern(spec)
	if !ok {
		return nil
	}

	matches := doc.Find(spec.Selector)
	if matches.Length() == 0 {
		return nil
	}

	if spec.AllMatches {
		var out []string
		matches.Each(func(_ int, sel *goquery.Selection) {
			if v, ok := elementValue(sel, base, spec, re); ok {
				out = append(out, v)
			}
		})
		if len(out) == 0 {
			return nil
		}
		return out
	}

	// First element in document order whose extraction is non-null.
	// Skipping null-yielding elements favors the primary instance over
	// "related item" duplicates that share a selector.
	var result any
	matches.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, ok := elementValue(sel, base, spec, re); ok {
			result = v
			return false
		}
		return true
	})
	return result
}

// compileFieldPattern compiles the spec's regex with its flags.
// Reports false when the pattern is present but invalid.
func compileFieldPattern(spec distill.FieldSpec) (*regexp.Regexp, bool) {
	if spec.Pattern == "" {
		return nil, true
	}
	var flags strings.Builder
	for _, f := range spec.Flags {
		switch f {
		case 'i', 'm', 's':
			flags.WriteRune(f)
		}
	}
	src := spec.Pattern
	if flags.Len() > 0 {
		src = "(?" + flags.String() + ")" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, false
	}
	return re, true
}

// elementValue extracts the value of one matched element.
func elementValue(sel *goquery.Selection, base *url.URL, spec distill.FieldSpec, re *regexp.Regexp) (string, bool) {
	var raw string

	if spec.Attr != "" {
		// Attribute mode: read verbatim, no URL resolution. The one
		// exception is an image src holding an inline data URI, which
		// falls back to the first srcset candidate just like
		// auto-detection does.
		v, exists := sel.Attr(spec.Attr)
		if !exists {
			return "", false
		}
		raw = strings.TrimSpace(v)
		if spec.Attr == "src" && goquery.NodeName(sel) == "img" &&
			(raw == "" || strings.HasPrefix(raw, "data:")) {
			raw = firstSrcsetURL(sel)
		}
	} else {
		raw = autoDetectValue(sel, base)
	}

	if raw == "" {
		return "", false
	}

	if re != nil {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			return "", false
		}
		if re.NumSubexp() > 0 {
			raw = m[1]
		} else {
			raw = m[0]
		}
		if raw == "" {
			return "", false
		}
	}

	return raw, true
}

// autoDetectValue picks the natural value for an element kind: src for
// images and media (with srcset fallback when src is a data URI), href
// for anchors, trimmed text for everything else. URLs are resolved
// against the base.
func autoDetectValue(sel *goquery.Selection, base *url.URL) string {
	switch goquery.NodeName(sel) {
	case "img":
		src, _ := sel.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" || strings.HasPrefix(src, "data:") {
			return resolveOrEmpty(base, firstSrcsetURL(sel))
		}
		return resolveOrEmpty(base, src)
	case "a":
		href, _ := sel.Attr("href")
		return resolveOrEmpty(base, strings.TrimSpace(href))
	case "video", "audio", "source":
		src, _ := sel.Attr("src")
		return resolveOrEmpty(base, strings.TrimSpace(src))
	default:
		return strings.TrimSpace(sel.Text())
	}
}

// firstSrcsetURL returns the first candidate URL from a srcset
// attribute, or "" if there is none.
func firstSrcsetURL(sel *goquery.Selection) string {
	srcset, _ := sel.Attr("srcset")
	for _, candidate := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(candidate))
		if len(fields) > 0 && !strings.HasPrefix(fields[0], "data:") {
			return fields[0]
		}
	}
	return ""
}

// resolveOrEmpty resolves a possibly-relative URL against the base.
func resolveOrEmpty(base *url.URL, raw string) string {
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return base.ResolveReference(ref).String()
}
