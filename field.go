package distill

// FieldSpec addresses one named value on a page: a CSS selector plus
// an optional attribute name and regex post-processor.
type FieldSpec struct {
	// Selector is the CSS selector to resolve. Required.
	Selector string `json:"selector"`

	// Attr names an attribute to read verbatim. When empty, the value
	// is auto-detected from the element kind (text, src, href).
	Attr string `json:"attr,omitempty"`

	// Pattern is a regex applied to the extracted text. A match with
	// capture groups yields the first group, otherwise the full match.
	Pattern string `json:"pattern,omitempty"`

	// Flags holds regex flags ("i", "m", "s") applied to Pattern.
	Flags string `json:"flags,omitempty"`

	// AllMatches collects a value from every matched element instead
	// of returning the first non-null one.
	AllMatches bool `json:"allMatches,omitempty"`
}

// Validate returns an error if the spec contains invalid fields.
func (s *FieldSpec) Validate() error {
	if s.Selector == "" {
		return Errorf(EINVALID, "field selector required")
	}
	return nil
}

// FieldValues maps field names to extracted values. Each value is nil,
// a string, or a []string, serializing to null | string | string[].
type FieldValues map[string]any

// FieldExtractor resolves field specs against sanitized HTML. Fields
// are evaluated independently; one field's failure never aborts others.
type FieldExtractor interface {
	// Extract resolves every spec and returns a value per field name.
	// A selector with no matches, or a field whose regex is invalid,
	// yields nil for that field only.
	Extract(html string, baseURL string, fields map[string]FieldSpec) (FieldValues, error)
}
