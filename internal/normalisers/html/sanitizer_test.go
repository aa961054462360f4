package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const onenotePage = `<html lang="en-US">
<head><title>Groceries</title><style>p { color: red }</style>
<meta name="created" content="2026-10-01T09:00:00.0000000" /></head>
<body data-absolute-enabled="true" style="font-family:Calibri">
<div id="div:{1}" style="position:absolute;left:48px;top:115px">
<h1 style="font-size:20pt">Weekly</h1>
<p id="p:{2}" style="margin-top:0pt">Milk</p>
<script>alert("x")</script>
<img src="https://graph.microsoft.com/v1.0/resources/1/$value" width="300" />
<a href="https://example.com">link</a>
</div>
</body>
</html>`

func TestSanitize_StripsScriptsAndStyles(t *testing.T) {
	out, err := NewSanitizer().Sanitize(onenotePage)

	require.NoError(t, err)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert")
	assert.NotContains(t, out, "<style")
	assert.NotContains(t, out, "<head")
	assert.NotContains(t, out, "<title")
}

func TestSanitize_AppliesInlineStyles(t *testing.T) {
	out, err := NewSanitizer().Sanitize(onenotePage)

	require.NoError(t, err)
	assert.Contains(t, out, `<p id="p:{2}" style="`+ParagraphStyle+`">Milk</p>`)
	assert.Contains(t, out, `<h1 style="`+HeadingStyle+`">Weekly</h1>`)
	assert.Contains(t, out, `style="`+ImageStyle+`"`)
	assert.Contains(t, out, `<a href="https://example.com" style="`+LinkStyle+`">link</a>`)
	assert.NotContains(t, out, "margin-top:0pt")
}

func TestSanitize_KeepsLayoutAndIDs(t *testing.T) {
	out, err := NewSanitizer().Sanitize(onenotePage)

	require.NoError(t, err)
	assert.Contains(t, out, `<div id="div:{1}" style="position:absolute;left:48px;top:115px">`)
	assert.Regexp(t, `^<body[^>]*>`, out)
	assert.Regexp(t, `</body>$`, out)
}

func TestSanitize_Fragment(t *testing.T) {
	out, err := NewSanitizer().Sanitize(`<h2>Title</h2><p>one</p>`)

	require.NoError(t, err)
	assert.Equal(t,
		`<body><h2 style="`+HeadingStyle+`">Title</h2><p style="`+ParagraphStyle+`">one</p></body>`, out)
}

func TestSanitize_Empty(t *testing.T) {
	out, err := NewSanitizer().Sanitize("")

	require.NoError(t, err)
	assert.Equal(t, "<body></body>", out)
}

func TestSanitize_DoesNotStyleDeeperHeadings(t *testing.T) {
	out, err := NewSanitizer().Sanitize(`<h4>small</h4>`)

	require.NoError(t, err)
	assert.Equal(t, "<body><h4>small</h4></body>", out)
}

func TestPassthrough(t *testing.T) {
	var p Passthrough
	src := `<p>raw <script>kept</script></p>`

	out, err := p.Sanitize(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)

	converted, err := p.ToHTML([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, src, converted)
	assert.Equal(t, "html", p.Format())
}
