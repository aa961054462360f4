// Package markdown converts Markdown into HTML fragments for OneNote pages.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/custodia-labs/onenote-cli/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.ContentConverter = (*Converter)(nil)

// Converter renders GitHub-flavoured Markdown as XHTML.
// Raw HTML in the source is kept.
type Converter struct {
	md goldmark.Markdown
}

// New creates a Markdown converter.
func New() *Converter {
	return &Converter{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithXHTML(), gmhtml.WithUnsafe()),
	)}
}

// Format returns "markdown".
func (c *Converter) Format() string {
	return "markdown"
}

// ToHTML renders src.
func (c *Converter) ToHTML(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
