package driven

// Sanitizer cosmetically cleans page HTML for display.
type Sanitizer interface {
	Sanitize(html string) (string, error)
}

// ContentConverter turns source text of one format into an HTML fragment
// suitable as a page body or patch payload.
type ContentConverter interface {
	// Format is the name used to select the converter (e.g. "markdown").
	Format() string
	ToHTML(src []byte) (string, error)
}

// ConverterRegistry selects a ContentConverter by format name.
type ConverterRegistry interface {
	Get(format string) (ContentConverter, error)
	Formats() []string
}
