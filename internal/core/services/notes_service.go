package services

import (
	"context"
	"errors"
	"strings"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driven"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driving"
)

// Ensure NotesService implements the interface.
var _ driving.NotesService = (*NotesService)(nil)

// NotesService reads and edits OneNote pages through the remote API.
// Fragments are converted to HTML by the registered content converters
// before they are sent.
type NotesService struct {
	api        driven.NotesAPI
	sanitizer  driven.Sanitizer
	converters driven.ConverterRegistry
}

// NewNotesService creates a notes service.
func NewNotesService(
	api driven.NotesAPI,
	sanitizer driven.Sanitizer,
	converters driven.ConverterRegistry,
) *NotesService {
	return &NotesService{
		api:        api,
		sanitizer:  sanitizer,
		converters: converters,
	}
}

// ListNotebooks returns the signed-in user's notebooks.
func (s *NotesService) ListNotebooks(ctx context.Context) ([]domain.Notebook, error) {
	return s.api.ListNotebooks(ctx)
}

// ListSections returns the sections of a notebook.
func (s *NotesService) ListSections(ctx context.Context, notebookID string) ([]domain.Section, error) {
	return s.api.ListSections(ctx, notebookID)
}

// ListPages returns the pages of a section.
func (s *NotesService) ListPages(ctx context.Context, sectionID string) ([]domain.Page, error) {
	return s.api.ListPages(ctx, sectionID)
}

// GetPage returns page metadata.
func (s *NotesService) GetPage(ctx context.Context, pageID string) (*domain.Page, error) {
	return s.api.GetPageMetadata(ctx, pageID)
}

// ShowPage returns page HTML, optionally with element IDs and cleaned up
// for display.
func (s *NotesService) ShowPage(ctx context.Context, pageID string, opts driving.ShowOptions) (string, error) {
	content, err := s.api.GetPageContent(ctx, pageID, opts.IncludeIDs)
	if err != nil {
		return "", err
	}
	if !opts.Sanitize || s.sanitizer == nil {
		return content, nil
	}
	return s.sanitizer.Sanitize(content)
}

// CreatePage creates a page in a section from content in the given format.
func (s *NotesService) CreatePage(
	ctx context.Context, sectionID, title string, body []byte, format string,
) (*domain.Page, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "must not be empty"}
	}
	bodyHTML, err := s.toHTML(body, format)
	if err != nil {
		return nil, err
	}
	return s.api.CreatePage(ctx, sectionID, title, bodyHTML)
}

// DeletePage deletes a page.
func (s *NotesService) DeletePage(ctx context.Context, pageID string) error {
	return s.api.DeletePage(ctx, pageID)
}

// ReplaceBody replaces the page body.
func (s *NotesService) ReplaceBody(
	ctx context.Context, pageID string, fragment []byte, format string,
) (*domain.PatchResult, error) {
	content, err := s.toHTML(fragment, format)
	if err != nil {
		return nil, err
	}
	return s.api.ReplaceBody(ctx, pageID, content)
}

// AppendToBody appends to the page body.
func (s *NotesService) AppendToBody(
	ctx context.Context, pageID string, fragment []byte, format string,
) (*domain.PatchResult, error) {
	content, err := s.toHTML(fragment, format)
	if err != nil {
		return nil, err
	}
	return s.api.AppendToBody(ctx, pageID, content)
}

// PrependToBody prepends to the page body.
func (s *NotesService) PrependToBody(
	ctx context.Context, pageID string, fragment []byte, format string,
) (*domain.PatchResult, error) {
	content, err := s.toHTML(fragment, format)
	if err != nil {
		return nil, err
	}
	return s.api.PrependToBody(ctx, pageID, content)
}

// ReplaceTitle renames a page.
func (s *NotesService) ReplaceTitle(ctx context.Context, pageID, title string) (*domain.PatchResult, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "must not be empty"}
	}
	return s.api.ReplaceTitle(ctx, pageID, title)
}

// ReplaceElement replaces one element of a page.
func (s *NotesService) ReplaceElement(
	ctx context.Context, pageID, elementID string, fragment []byte, format string,
) (*domain.PatchResult, error) {
	content, err := s.toHTML(fragment, format)
	if err != nil {
		return nil, err
	}
	return s.api.ReplaceElement(ctx, pageID, elementID, content)
}

// DeleteElement removes one element of a page.
func (s *NotesService) DeleteElement(ctx context.Context, pageID, elementID string) (*domain.PatchResult, error) {
	return s.api.DeleteElement(ctx, pageID, elementID)
}

// InsertHTML inserts content before or after an element.
// The position is checked before the content is converted.
func (s *NotesService) InsertHTML(
	ctx context.Context, pageID, elementID string, fragment []byte, format, position string,
) (*domain.PatchResult, error) {
	if _, err := domain.ParsePosition(position); err != nil {
		return nil, err
	}
	content, err := s.toHTML(fragment, format)
	if err != nil {
		return nil, err
	}
	return s.api.InsertHTML(ctx, pageID, elementID, content, position)
}

// ApplyOperations sends a caller-built operation list as one patch.
func (s *NotesService) ApplyOperations(
	ctx context.Context, pageID string, ops []domain.PatchOperation,
) (*domain.PatchResult, error) {
	return s.api.PatchContent(ctx, pageID, ops)
}

// Formats lists the accepted content formats.
func (s *NotesService) Formats() []string {
	if s.converters == nil {
		return []string{"html"}
	}
	return s.converters.Formats()
}

func (s *NotesService) toHTML(src []byte, format string) (string, error) {
	if s.converters == nil {
		if format != "" && !strings.EqualFold(format, "html") {
			return "", &domain.ValidationError{Field: "format", Message: "no content converters configured"}
		}
		return string(src), nil
	}
	c, err := s.converters.Get(format)
	if err != nil {
		return "", err
	}
	out, err := c.ToHTML(src)
	if err != nil {
		return "", errors.Join(domain.ErrInvalidInput, err)
	}
	return out, nil
}
