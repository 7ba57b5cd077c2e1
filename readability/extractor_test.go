package readability_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorExtract(t *testing.T) {
	t.Parallel()

	e := readability.NewExtractor()

	t.Run("extracts article content and title", func(t *testing.T) {
		t.Parallel()

		para := "Readability scores paragraphs by text density, so the article needs real sentences. "
		html := `<html><head><title>Density Rules</title></head><body>
			<nav><a href="/">Home</a></nav>
			<article>
				<h1>Density Rules</h1>
				<p>` + strings.Repeat(para, 5) + `</p>
				<p>` + strings.Repeat(para, 5) + `</p>
			</article>
		</body></html>`

		result, err := e.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Density Rules", result.Title)
		assert.Contains(t, result.ContentHTML, "text density")
	})

	t.Run("empty input is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := e.Extract("")

		require.Error(t, err)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})
}
