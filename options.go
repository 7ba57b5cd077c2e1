package distill

import (
	"regexp"
	"strings"
	"time"
)

// WaitCondition selects the navigation event considered "loaded".
type WaitCondition string

// Supported navigation wait conditions.
const (
	WaitLoad             WaitCondition = "load"
	WaitDOMContentLoaded WaitCondition = "domcontentloaded"
	WaitNetworkIdle      WaitCondition = "networkidle"
	WaitCommit           WaitCondition = "commit"
)

// OutputFormat selects the content representation produced for a request.
type OutputFormat string

// Supported output formats.
const (
	FormatHTML     OutputFormat = "html"
	FormatMarkdown OutputFormat = "markdown"
)

// Default timing values for fetch requests.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultNavigationTimeout = 10 * time.Second
)

// FetchOptions configures a single fetch request. Options are immutable
// per request; a zero MaxLength means no truncation, never "truncate to
// zero".
type FetchOptions struct {
	// Timeout bounds navigation and readiness waits. Must be > 0.
	Timeout time.Duration

	// WaitCondition is the navigation event to wait for.
	WaitCondition WaitCondition

	// Format selects the output representation.
	Format OutputFormat

	// CleanContent runs the sanitizer before formatting.
	CleanContent bool

	// MaxLength truncates the output to exactly this many characters.
	// Zero disables truncation.
	MaxLength int

	// WaitForNavigation races an extra navigation-completion signal
	// against NavigationTimeout, accommodating client-side redirects
	// that fire after the initial load.
	WaitForNavigation bool

	// NavigationTimeout bounds the extra navigation wait.
	NavigationTimeout time.Duration

	// BlockMedia disables image, media and font resource loading.
	BlockMedia bool

	// Debug enables verbose diagnostics in implementations.
	Debug bool

	// SearchPattern, when set, filters Markdown output lines (content
	// mode) or harvested links (link mode). Case-insensitive unless the
	// pattern carries its own inline flags.
	SearchPattern string
}

// DefaultFetchOptions returns FetchOptions with production defaults.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		Timeout:           DefaultTimeout,
		WaitCondition:     WaitLoad,
		Format:            FormatMarkdown,
		CleanContent:      true,
		NavigationTimeout: DefaultNavigationTimeout,
	}
}

// Validate returns an error if the options contain invalid fields.
// Validation happens at the request boundary, before any navigation.
func (o *FetchOptions) Validate() error {
	if o.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	switch o.WaitCondition {
	case WaitLoad, WaitDOMContentLoaded, WaitNetworkIdle, WaitCommit:
	default:
		return Errorf(EINVALID, "unknown wait condition %q", o.WaitCondition)
	}
	switch o.Format {
	case FormatHTML, FormatMarkdown:
	default:
		return Errorf(EINVALID, "unknown output format %q", o.Format)
	}
	if o.MaxLength < 0 {
		return Errorf(EINVALID, "max length must not be negative")
	}
	if o.SearchPattern != "" {
		if _, err := CompileSearchPattern(o.SearchPattern); err != nil {
			return err
		}
	}
	return nil
}

// CompileSearchPattern compiles a caller-supplied search pattern.
// Patterns are case-insensitive unless they already begin with an
// inline flag group. A malformed pattern is an EINVALID error.
func CompileSearchPattern(src string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(src, "(?") {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid search pattern: %v", err)
	}
	return re, nil
}
