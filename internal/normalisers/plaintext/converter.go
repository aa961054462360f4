// Package plaintext converts plain text into escaped HTML paragraphs.
package plaintext

import (
	"html"
	"strings"

	"github.com/custodia-labs/onenote-cli/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.ContentConverter = (*Converter)(nil)

// Converter wraps each blank-line separated block in a <p> element.
// Single newlines inside a block become <br/>.
type Converter struct{}

// New creates a plain text converter.
func New() *Converter {
	return &Converter{}
}

// Format returns "text".
func (c *Converter) Format() string {
	return "text"
}

// ToHTML escapes src and splits it into paragraphs.
func (c *Converter) ToHTML(src []byte) (string, error) {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")

	var b strings.Builder
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i, line := range lines {
			lines[i] = html.EscapeString(line)
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br/>"))
		b.WriteString("</p>")
	}
	return b.String(), nil
}
