package htmltomarkdown_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverterConvert(t *testing.T) {
	t.Parallel()

	c := htmltomarkdown.NewConverter()

	t.Run("converts headings and emphasis", func(t *testing.T) {
		t.Parallel()

		md, err := c.Convert("<h1>Title</h1><p>Hello <b>World</b></p>")

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "**World**")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		md, err := c.Convert(`<p>See <a href="https://example.com">the docs</a></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[the docs](https://example.com)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		md, err := c.Convert("<ul><li>one</li><li>two</li></ul>")

		require.NoError(t, err)
		assert.Contains(t, md, "- one")
		assert.Contains(t, md, "- two")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		md, err := c.Convert("<table><tr><th>Name</th></tr><tr><td>Go</td></tr></table>")

		require.NoError(t, err)
		// Cell padding varies, so collapse runs of spaces before matching.
		normalized := strings.Join(strings.Fields(md), " ")
		assert.Contains(t, normalized, "| Name |")
		assert.Contains(t, normalized, "| Go |")
	})

	t.Run("empty input is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := c.Convert("   ")

		require.Error(t, err)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})
}
