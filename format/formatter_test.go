package format_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/format"
	"github.com/fwojciec/distill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthroughSanitizer() *mock.Sanitizer {
	return &mock.Sanitizer{CleanFn: func(html, _ string) string { return html }}
}

func emptyExtractor() *mock.Extractor {
	return &mock.Extractor{ExtractFn: func(string) (*distill.ExtractResult, error) {
		return &distill.ExtractResult{}, nil
	}}
}

func TestFormatterFormat(t *testing.T) {
	t.Parallel()

	t.Run("markdown converts the extracted article subtree", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{ExtractFn: func(html string) (*distill.ExtractResult, error) {
			assert.Contains(t, html, "<nav>") // extraction sees the original document
			return &distill.ExtractResult{Title: "T", ContentHTML: "<p>article</p>"}, nil
		}}
		converter := &mock.Converter{ConvertFn: func(html string) (string, error) {
			assert.Equal(t, "<p>article</p>", html)
			return "article", nil
		}}
		f := format.New(passthroughSanitizer(), extractor, converter)

		opts := distill.DefaultFetchOptions()
		out, err := f.Format(context.Background(), "<nav>x</nav><p>article</p>", "https://example.com", opts, nil)

		require.NoError(t, err)
		assert.Equal(t, "article", out)
	})

	t.Run("markdown falls back to cleaned html when extraction is empty", func(t *testing.T) {
		t.Parallel()

		sanitizer := &mock.Sanitizer{CleanFn: func(string, string) string { return "<p>cleaned</p>" }}
		converter := &mock.Converter{ConvertFn: func(html string) (string, error) {
			assert.Equal(t, "<p>cleaned</p>", html)
			return "cleaned", nil
		}}
		f := format.New(sanitizer, emptyExtractor(), converter)

		out, err := f.Format(context.Background(), "<p>raw</p>", "https://example.com", distill.DefaultFetchOptions(), nil)

		require.NoError(t, err)
		assert.Equal(t, "cleaned", out)
	})

	t.Run("html format returns cleaned markup without conversion", func(t *testing.T) {
		t.Parallel()

		sanitizer := &mock.Sanitizer{CleanFn: func(string, string) string { return "<p>cleaned</p>" }}
		converter := &mock.Converter{ConvertFn: func(string) (string, error) {
			t.Fatal("converter must not run for html output")
			return "", nil
		}}
		f := format.New(sanitizer, emptyExtractor(), converter)

		opts := distill.DefaultFetchOptions()
		opts.Format = distill.FormatHTML
		out, err := f.Format(context.Background(), "<p>raw</p>", "https://example.com", opts, nil)

		require.NoError(t, err)
		assert.Equal(t, "<p>cleaned</p>", out)
	})

	t.Run("skips sanitization when cleaning is off", func(t *testing.T) {
		t.Parallel()

		sanitizer := &mock.Sanitizer{CleanFn: func(string, string) string {
			t.Fatal("sanitizer must not run when cleaning is disabled")
			return ""
		}}
		f := format.New(sanitizer, emptyExtractor(), &mock.Converter{})

		opts := distill.DefaultFetchOptions()
		opts.Format = distill.FormatHTML
		opts.CleanContent = false
		out, err := f.Format(context.Background(), "<p>raw</p>", "https://example.com", opts, nil)

		require.NoError(t, err)
		assert.Equal(t, "<p>raw</p>", out)
	})

	t.Run("refreshes once when cleaned content is suspiciously small", func(t *testing.T) {
		t.Parallel()

		var cleanCalls, refreshCalls int
		sanitizer := &mock.Sanitizer{CleanFn: func(html, _ string) string {
			cleanCalls++
			if cleanCalls == 1 {
				return "" // the overlay blanked everything extractable
			}
			return html
		}}
		f := format.New(sanitizer, emptyExtractor(), &mock.Converter{})

		refresh := func(context.Context) (string, error) {
			refreshCalls++
			return "<p>content revealed after dismissing the overlay</p>", nil
		}

		opts := distill.DefaultFetchOptions()
		opts.Format = distill.FormatHTML
		out, err := f.Format(context.Background(), "<div class=overlay></div>", "https://example.com", opts, refresh)

		require.NoError(t, err)
		assert.Equal(t, 1, refreshCalls)
		assert.Equal(t, 2, cleanCalls)
		assert.Equal(t, "<p>content revealed after dismissing the overlay</p>", out)
	})

	t.Run("refresh failure keeps the first snapshot", func(t *testing.T) {
		t.Parallel()

		sanitizer := &mock.Sanitizer{CleanFn: func(string, string) string { return "<p>tiny</p>" }}
		f := format.New(sanitizer, emptyExtractor(), &mock.Converter{})

		refresh := func(context.Context) (string, error) {
			return "", distill.Errorf(distill.ECONTEXTLOST, "page went away")
		}

		opts := distill.DefaultFetchOptions()
		opts.Format = distill.FormatHTML
		out, err := f.Format(context.Background(), "<p>tiny</p>", "https://example.com", opts, refresh)

		require.NoError(t, err)
		assert.Equal(t, "<p>tiny</p>", out)
	})

	t.Run("no refresh when content clears the threshold", func(t *testing.T) {
		t.Parallel()

		long := "<p>" + strings.Repeat("content ", 50) + "</p>"
		f := format.New(passthroughSanitizer(), emptyExtractor(), &mock.Converter{},
			format.WithMinContentLength(100))

		refresh := func(context.Context) (string, error) {
			t.Fatal("refresh must not run for sufficient content")
			return "", nil
		}

		opts := distill.DefaultFetchOptions()
		opts.Format = distill.FormatHTML
		out, err := f.Format(context.Background(), long, "https://example.com", opts, refresh)

		require.NoError(t, err)
		assert.Equal(t, long, out)
	})

	t.Run("search pattern keeps only matching lines", func(t *testing.T) {
		t.Parallel()

		converter := &mock.Converter{ConvertFn: func(string) (string, error) {
			return "# Install\n\nRun the installer.\nUnrelated line.", nil
		}}
		f := format.New(passthroughSanitizer(), emptyExtractor(), converter)

		opts := distill.DefaultFetchOptions()
		opts.SearchPattern = "install"
		out, err := f.Format(context.Background(), "<p>x</p>", "https://example.com", opts, nil)

		require.NoError(t, err)
		assert.Equal(t, "# Install\nRun the installer.", out)
	})

	t.Run("invalid search pattern fails", func(t *testing.T) {
		t.Parallel()

		converter := &mock.Converter{ConvertFn: func(string) (string, error) { return "text", nil }}
		f := format.New(passthroughSanitizer(), emptyExtractor(), converter)

		opts := distill.DefaultFetchOptions()
		opts.SearchPattern = "("
		_, err := f.Format(context.Background(), "<p>x</p>", "https://example.com", opts, nil)

		require.Error(t, err)
	})

	t.Run("max length cuts the output exactly", func(t *testing.T) {
		t.Parallel()

		converter := &mock.Converter{ConvertFn: func(string) (string, error) {
			return strings.Repeat("a", 500), nil
		}}
		f := format.New(passthroughSanitizer(), emptyExtractor(), converter)

		opts := distill.DefaultFetchOptions()
		opts.MaxLength = 120
		out, err := f.Format(context.Background(), "<p>x</p>", "https://example.com", opts, nil)

		require.NoError(t, err)
		assert.Len(t, out, 120)
	})
}

func TestFilterLines(t *testing.T) {
	t.Parallel()

	t.Run("case insensitive by default", func(t *testing.T) {
		t.Parallel()

		out, err := format.FilterLines("ALPHA\nbeta\ngamma", "alpha")

		require.NoError(t, err)
		assert.Equal(t, "ALPHA", out)
	})

	t.Run("inline flags disable the default", func(t *testing.T) {
		t.Parallel()

		out, err := format.FilterLines("ALPHA\nalpha", "(?-i:alpha)")

		require.NoError(t, err)
		assert.Equal(t, "alpha", out)
	})

	t.Run("no matches yields empty output", func(t *testing.T) {
		t.Parallel()

		out, err := format.FilterLines("one\ntwo", "three")

		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", format.Truncate("abc", 0))
	assert.Equal(t, "abc", format.Truncate("abc", 10))
	assert.Equal(t, "ab", format.Truncate("abc", 2))
	assert.Equal(t, "abc", format.Truncate("abc", 3))
}
