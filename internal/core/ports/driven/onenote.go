package driven

import (
	"context"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
)

// NotesAPI is the remote notebook API the notes service drives.
type NotesAPI interface {
	ListNotebooks(ctx context.Context) ([]domain.Notebook, error)
	ListSections(ctx context.Context, notebookID string) ([]domain.Section, error)
	ListPages(ctx context.Context, sectionID string) ([]domain.Page, error)
	GetPageMetadata(ctx context.Context, pageID string) (*domain.Page, error)
	GetPageContent(ctx context.Context, pageID string, includeIDs bool) (string, error)
	CreatePage(ctx context.Context, sectionID, title, bodyHTML string) (*domain.Page, error)
	DeletePage(ctx context.Context, pageID string) error

	// PatchContent applies ops under an If-Match precondition on the page's
	// current ETag.
	PatchContent(ctx context.Context, pageID string, ops []domain.PatchOperation) (*domain.PatchResult, error)
	ReplaceBody(ctx context.Context, pageID, fragment string) (*domain.PatchResult, error)
	AppendToBody(ctx context.Context, pageID, fragment string) (*domain.PatchResult, error)
	PrependToBody(ctx context.Context, pageID, fragment string) (*domain.PatchResult, error)
	ReplaceTitle(ctx context.Context, pageID, title string) (*domain.PatchResult, error)
	ReplaceElement(ctx context.Context, pageID, elementID, fragment string) (*domain.PatchResult, error)
	DeleteElement(ctx context.Context, pageID, elementID string) (*domain.PatchResult, error)
	InsertHTML(ctx context.Context, pageID, elementID, fragment, position string) (*domain.PatchResult, error)
}
