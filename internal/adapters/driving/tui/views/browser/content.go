package browser

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/onenote-cli/internal/adapters/driving/tui/styles"
)

var spaceRun = regexp.MustCompile(`\s+`)

// renderText flattens page HTML into wrapped terminal text. Headings are
// styled, list items get a bullet and images are shown by their alt text.
func renderText(s *styles.Styles, src string, width int) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return src
	}

	var b strings.Builder
	writeNode(&b, s, doc)
	text := tidyLines(b.String())
	if width > 0 {
		text = lipgloss.NewStyle().Width(width).Render(text)
	}
	return text
}

func writeNode(b *strings.Builder, s *styles.Styles, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(spaceRun.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Head, atom.Script, atom.Style:
			return
		case atom.Br:
			b.WriteString("\n")
			return
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			b.WriteString("\n")
			b.WriteString(s.Heading.Render(strings.TrimSpace(textContent(n))))
			b.WriteString("\n\n")
			return
		case atom.Img:
			alt := "image"
			if a := attr(n, "alt"); a != "" {
				alt = "image: " + a
			}
			b.WriteString("[" + alt + "]")
			return
		case atom.Li:
			b.WriteString("\n" + s.Bullet.Render("•") + " ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, s, c)
	}

	if n.Type == html.ElementNode && isBlock(n.DataAtom) {
		b.WriteString("\n")
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Ul, atom.Ol, atom.Table, atom.Tr, atom.Blockquote, atom.Pre:
		return true
	}
	return false
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return spaceRun.ReplaceAllString(n.Data, " ")
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// tidyLines trims each line and collapses runs of blank lines.
func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}
