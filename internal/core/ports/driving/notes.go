package driving

import (
	"context"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
)

// ShowOptions controls how page content is returned.
type ShowOptions struct {
	// IncludeIDs requests element IDs usable as patch targets.
	IncludeIDs bool
	// Sanitize applies the cosmetic clean-up pass.
	Sanitize bool
}

// NotesService is the application surface used by the CLI and MCP adapters.
type NotesService interface {
	ListNotebooks(ctx context.Context) ([]domain.Notebook, error)
	ListSections(ctx context.Context, notebookID string) ([]domain.Section, error)
	ListPages(ctx context.Context, sectionID string) ([]domain.Page, error)
	GetPage(ctx context.Context, pageID string) (*domain.Page, error)
	ShowPage(ctx context.Context, pageID string, opts ShowOptions) (string, error)
	CreatePage(ctx context.Context, sectionID, title string, body []byte, format string) (*domain.Page, error)
	DeletePage(ctx context.Context, pageID string) error

	ReplaceBody(ctx context.Context, pageID string, fragment []byte, format string) (*domain.PatchResult, error)
	AppendToBody(ctx context.Context, pageID string, fragment []byte, format string) (*domain.PatchResult, error)
	PrependToBody(ctx context.Context, pageID string, fragment []byte, format string) (*domain.PatchResult, error)
	ReplaceTitle(ctx context.Context, pageID, title string) (*domain.PatchResult, error)
	ReplaceElement(ctx context.Context, pageID, elementID string, fragment []byte, format string) (*domain.PatchResult, error)
	DeleteElement(ctx context.Context, pageID, elementID string) (*domain.PatchResult, error)
	InsertHTML(ctx context.Context, pageID, elementID string, fragment []byte, format, position string) (*domain.PatchResult, error)
	ApplyOperations(ctx context.Context, pageID string, ops []domain.PatchOperation) (*domain.PatchResult, error)

	// Formats lists content formats accepted by the fragment methods.
	Formats() []string
}

// AuthService manages the signed-in account.
type AuthService interface {
	GetToken(ctx context.Context) (string, error)
	Accounts() []string
	SignOut(ctx context.Context, account string) error
}
