// Package messages defines the tea.Msg values exchanged between TUI views
// and the commands that call the notes service.
package messages

import "github.com/custodia-labs/onenote-cli/internal/core/domain"

// ErrorOccurred reports a failure that is not tied to a specific load.
type ErrorOccurred struct {
	Err error
}

// NotebooksLoaded carries the result of listing notebooks.
type NotebooksLoaded struct {
	Notebooks []domain.Notebook
	Err       error
}

// SectionsLoaded carries the result of listing a notebook's sections.
type SectionsLoaded struct {
	NotebookID string
	Sections   []domain.Section
	Err        error
}

// PagesLoaded carries the result of listing a section's pages.
type PagesLoaded struct {
	SectionID string
	Pages     []domain.Page
	Err       error
}

// PageLoaded carries the cleaned HTML of a page.
type PageLoaded struct {
	PageID string
	HTML   string
	Err    error
}

// PageCreated reports the outcome of creating a page.
type PageCreated struct {
	SectionID string
	Page      *domain.Page
	Err       error
}
