// Package html cleans OneNote page HTML for display and passes HTML
// fragments through unchanged.
package html

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/onenote-cli/internal/core/ports/driven"
)

// Ensure Sanitizer implements the interface.
var _ driven.Sanitizer = (*Sanitizer)(nil)

// Inline styles applied by the sanitizer.
const (
	ParagraphStyle = "margin:6px 0; font-family:Arial; font-size:12pt; color:#333;"
	HeadingStyle   = "margin-top:12px; font-weight:bold; font-family:Arial;"
	ImageStyle     = "max-width:90%; border-radius:8px; margin:8px 0;"
	LinkStyle      = "color:#0066cc; text-decoration:none;"
)

// Sanitizer drops scripts and stylesheets and replaces inline styles on
// text elements with a readable default. The result is the <body> element.
// It is cosmetic only and makes no security guarantee.
type Sanitizer struct {
	styles map[atom.Atom]string
}

// NewSanitizer creates a sanitizer with the default styles.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{styles: map[atom.Atom]string{
		atom.P:   ParagraphStyle,
		atom.H1:  HeadingStyle,
		atom.H2:  HeadingStyle,
		atom.H3:  HeadingStyle,
		atom.Img: ImageStyle,
		atom.A:   LinkStyle,
	}}
}

// Sanitize parses src and renders the cleaned body.
func (s *Sanitizer) Sanitize(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("parse page html: %w", err)
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}
	s.clean(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("render page html: %w", err)
	}
	return buf.String(), nil
}

func (s *Sanitizer) clean(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style) {
			n.RemoveChild(c)
			c = next
			continue
		}
		if c.Type == html.ElementNode {
			if style, ok := s.styles[c.DataAtom]; ok {
				setAttr(c, "style", style)
			}
		}
		s.clean(c)
		c = next
	}
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && strings.EqualFold(n.Attr[i].Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
