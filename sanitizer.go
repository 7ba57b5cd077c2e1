package distill

// Sanitizer reduces raw HTML to its renderable content by stripping
// scripts, chrome, hidden elements and other noise.
type Sanitizer interface {
	// Clean returns the sanitized markup. Clean never fails: if the
	// input cannot be parsed, the original HTML is returned unchanged.
	Clean(html string, baseURL string) string
}
