package normalisers

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driven"
	"github.com/custodia-labs/onenote-cli/internal/normalisers/html"
	"github.com/custodia-labs/onenote-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/onenote-cli/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ConverterRegistry = (*Registry)(nil)

// DefaultFormat is used when no format is requested.
const DefaultFormat = "html"

// aliases maps alternative format names to registered ones.
var aliases = map[string]string{
	"md":    "markdown",
	"txt":   "text",
	"plain": "text",
	"xhtml": "html",
}

// Registry manages content converter registrations.
type Registry struct {
	mu       sync.RWMutex
	byFormat map[string]driven.ContentConverter
}

// NewRegistry creates a new registry with the default converters.
func NewRegistry() *Registry {
	r := &Registry{
		byFormat: make(map[string]driven.ContentConverter),
	}
	r.Register(html.Passthrough{})
	r.Register(markdown.New())
	r.Register(plaintext.New())
	return r
}

// Register adds a converter, replacing any with the same format.
func (r *Registry) Register(c driven.ContentConverter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byFormat[strings.ToLower(c.Format())] = c
}

// Get returns the converter for format. An empty format selects DefaultFormat.
func (r *Registry) Get(format string) (driven.ContentConverter, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	if name == "" {
		name = DefaultFormat
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}

	r.mu.RLock()
	c, ok := r.byFormat[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &domain.ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unsupported format %q (want one of %s)", format, strings.Join(r.Formats(), ", ")),
		}
	}
	return c, nil
}

// Formats returns the registered format names in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]string, 0, len(r.byFormat))
	for f := range r.byFormat {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
