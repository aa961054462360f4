package cli

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driving"
)

// mockNotesService implements driving.NotesService for testing.
type mockNotesService struct {
	calls    []string
	pageID   string
	element  string
	fragment string
	format   string
	position string
	title    string
	opts     driving.ShowOptions
	ops      []domain.PatchOperation
	etag     string
	err      error
}

var _ driving.NotesService = (*mockNotesService)(nil)

func (m *mockNotesService) patchResult() (*domain.PatchResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.PatchResult{StatusCode: 204, ETag: m.etag}, nil
}

func (m *mockNotesService) ListNotebooks(_ context.Context) ([]domain.Notebook, error) {
	m.calls = append(m.calls, "ListNotebooks")
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Notebook{{ID: "nb-1", DisplayName: "Work"}, {ID: "nb-2", DisplayName: "Home"}}, nil
}

func (m *mockNotesService) ListSections(_ context.Context, notebookID string) ([]domain.Section, error) {
	m.calls = append(m.calls, "ListSections")
	m.pageID = notebookID
	return []domain.Section{{ID: "s-1", DisplayName: "Meetings"}}, m.err
}

func (m *mockNotesService) ListPages(_ context.Context, sectionID string) ([]domain.Page, error) {
	m.calls = append(m.calls, "ListPages")
	m.pageID = sectionID
	return []domain.Page{}, m.err
}

func (m *mockNotesService) GetPage(_ context.Context, pageID string) (*domain.Page, error) {
	m.calls = append(m.calls, "GetPage")
	return &domain.Page{ID: pageID, Title: "Standup", ETag: `"v1"`}, m.err
}

func (m *mockNotesService) ShowPage(_ context.Context, pageID string, opts driving.ShowOptions) (string, error) {
	m.calls = append(m.calls, "ShowPage")
	m.pageID = pageID
	m.opts = opts
	return `<p id="p:{1}">hello</p>`, m.err
}

func (m *mockNotesService) CreatePage(
	_ context.Context, sectionID, title string, body []byte, format string,
) (*domain.Page, error) {
	m.calls = append(m.calls, "CreatePage")
	m.pageID = sectionID
	m.title = title
	m.fragment = string(body)
	m.format = format
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Page{ID: "p-new", Title: title}, nil
}

func (m *mockNotesService) DeletePage(_ context.Context, pageID string) error {
	m.calls = append(m.calls, "DeletePage")
	m.pageID = pageID
	return m.err
}

func (m *mockNotesService) body(call, pageID string, fragment []byte, format string) (*domain.PatchResult, error) {
	m.calls = append(m.calls, call)
	m.pageID = pageID
	m.fragment = string(fragment)
	m.format = format
	return m.patchResult()
}

func (m *mockNotesService) ReplaceBody(
	_ context.Context, pageID string, fragment []byte, format string,
) (*domain.PatchResult, error) {
	return m.body("ReplaceBody", pageID, fragment, format)
}

func (m *mockNotesService) AppendToBody(
	_ context.Context, pageID string, fragment []byte, format string,
) (*domain.PatchResult, error) {
	return m.body("AppendToBody", pageID, fragment, format)
}

func (m *mockNotesService) PrependToBody(
	_ context.Context, pageID string, fragment []byte, format string,
) (*domain.PatchResult, error) {
	return m.body("PrependToBody", pageID, fragment, format)
}

func (m *mockNotesService) ReplaceTitle(_ context.Context, pageID, title string) (*domain.PatchResult, error) {
	m.calls = append(m.calls, "ReplaceTitle")
	m.pageID = pageID
	m.title = title
	return m.patchResult()
}

func (m *mockNotesService) ReplaceElement(
	_ context.Context, pageID, elementID string, fragment []byte, format string,
) (*domain.PatchResult, error) {
	m.element = elementID
	return m.body("ReplaceElement", pageID, fragment, format)
}

func (m *mockNotesService) DeleteElement(_ context.Context, pageID, elementID string) (*domain.PatchResult, error) {
	m.calls = append(m.calls, "DeleteElement")
	m.pageID = pageID
	m.element = elementID
	return m.patchResult()
}

func (m *mockNotesService) InsertHTML(
	_ context.Context, pageID, elementID string, fragment []byte, format, position string,
) (*domain.PatchResult, error) {
	m.element = elementID
	m.position = position
	return m.body("InsertHTML", pageID, fragment, format)
}

func (m *mockNotesService) ApplyOperations(
	_ context.Context, pageID string, ops []domain.PatchOperation,
) (*domain.PatchResult, error) {
	m.calls = append(m.calls, "ApplyOperations")
	m.pageID = pageID
	m.ops = ops
	return m.patchResult()
}

func (m *mockNotesService) Formats() []string {
	return []string{"html", "markdown", "text"}
}

// mockAuthService implements driving.AuthService for testing.
type mockAuthService struct {
	accounts  []string
	signedOut string
	tokenErr  error
	signOut   error
	calls     []string
}

func (m *mockAuthService) GetToken(_ context.Context) (string, error) {
	m.calls = append(m.calls, "GetToken")
	if m.tokenErr != nil {
		return "", m.tokenErr
	}
	if len(m.accounts) == 0 {
		m.accounts = []string{"ada@contoso.com"}
	}
	return "token", nil
}

func (m *mockAuthService) Accounts() []string {
	return m.accounts
}

func (m *mockAuthService) SignOut(_ context.Context, account string) error {
	m.calls = append(m.calls, "SignOut")
	if m.signOut != nil {
		return m.signOut
	}
	m.signedOut = account
	m.accounts = slices.DeleteFunc(m.accounts, func(a string) bool { return a == account })
	return nil
}

// withServices injects mocks for the duration of a test.
func withServices(t *testing.T, notes driving.NotesService, auth driving.AuthService) {
	t.Helper()
	oldNotes, oldAuth, oldLoader := notesService, authService, loader
	notesService, authService, loader = notes, auth, nil
	t.Cleanup(func() {
		notesService, authService, loader = oldNotes, oldAuth, oldLoader
	})
}

// runCommand executes the root command with args and returns its combined output.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
