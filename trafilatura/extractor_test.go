package trafilatura_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// articleHTML is a small but realistic document: trafilatura needs
// enough body text around the boilerplate to identify the article.
func articleHTML() string {
	para := "The quick brown fox jumps over the lazy dog and keeps on running through the forest. "
	return `<html><head><title>Fox Story</title></head><body>
		<nav><a href="/">Home</a><a href="/about">About</a></nav>
		<article>
			<h1>Fox Story</h1>
			<p>` + strings.Repeat(para, 5) + `</p>
			<p>` + strings.Repeat(para, 5) + `</p>
		</article>
		<footer>Copyright 2026</footer>
	</body></html>`
}

func TestExtractorExtract(t *testing.T) {
	t.Parallel()

	e := trafilatura.NewExtractor()

	t.Run("extracts article content and title", func(t *testing.T) {
		t.Parallel()

		result, err := e.Extract(articleHTML())

		require.NoError(t, err)
		assert.Equal(t, "Fox Story", result.Title)
		assert.Contains(t, result.ContentHTML, "quick brown fox")
		assert.NotContains(t, result.ContentHTML, "Copyright 2026")
	})

	t.Run("empty input is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract("")

		require.Error(t, err)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})
}
