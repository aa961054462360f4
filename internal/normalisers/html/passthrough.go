package html

import "github.com/custodia-labs/onenote-cli/internal/core/ports/driven"

var (
	_ driven.Sanitizer        = Passthrough{}
	_ driven.ContentConverter = Passthrough{}
)

// Passthrough returns its input unchanged. It serves both as a no-op
// sanitizer and as the converter for content that is already HTML.
type Passthrough struct{}

// Sanitize returns src.
func (Passthrough) Sanitize(src string) (string, error) {
	return src, nil
}

// Format returns "html".
func (Passthrough) Format() string {
	return "html"
}

// ToHTML returns src as a string.
func (Passthrough) ToHTML(src []byte) (string, error) {
	return string(src), nil
}
