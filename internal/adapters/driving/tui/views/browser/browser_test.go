package browser

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/onenote-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/onenote-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driving"
)

// MockNotesService implements driving.NotesService for testing.
type MockNotesService struct {
	ListNotebooksFunc func(ctx context.Context) ([]domain.Notebook, error)
	ListSectionsFunc  func(ctx context.Context, notebookID string) ([]domain.Section, error)
	ListPagesFunc     func(ctx context.Context, sectionID string) ([]domain.Page, error)
	ShowPageFunc      func(ctx context.Context, pageID string, opts driving.ShowOptions) (string, error)
	CreatePageFunc    func(ctx context.Context, sectionID, title string, body []byte, format string) (*domain.Page, error)
}

var _ driving.NotesService = (*MockNotesService)(nil)

func (m *MockNotesService) ListNotebooks(ctx context.Context) ([]domain.Notebook, error) {
	if m.ListNotebooksFunc != nil {
		return m.ListNotebooksFunc(ctx)
	}
	return []domain.Notebook{
		{ID: "nb-1", DisplayName: "Work"},
		{ID: "nb-2", DisplayName: "Home"},
	}, nil
}

func (m *MockNotesService) ListSections(ctx context.Context, notebookID string) ([]domain.Section, error) {
	if m.ListSectionsFunc != nil {
		return m.ListSectionsFunc(ctx, notebookID)
	}
	return []domain.Section{{ID: notebookID + "/s-1", DisplayName: "Meetings"}}, nil
}

func (m *MockNotesService) ListPages(ctx context.Context, sectionID string) ([]domain.Page, error) {
	if m.ListPagesFunc != nil {
		return m.ListPagesFunc(ctx, sectionID)
	}
	return []domain.Page{
		{ID: "p-1", Title: "Standup"},
		{ID: "p-2", Title: "Retro"},
	}, nil
}

func (m *MockNotesService) GetPage(_ context.Context, pageID string) (*domain.Page, error) {
	return &domain.Page{ID: pageID}, nil
}

func (m *MockNotesService) ShowPage(ctx context.Context, pageID string, opts driving.ShowOptions) (string, error) {
	if m.ShowPageFunc != nil {
		return m.ShowPageFunc(ctx, pageID, opts)
	}
	return "<h1>Standup</h1><p>Notes</p>", nil
}

func (m *MockNotesService) CreatePage(
	ctx context.Context, sectionID, title string, body []byte, format string,
) (*domain.Page, error) {
	if m.CreatePageFunc != nil {
		return m.CreatePageFunc(ctx, sectionID, title, body, format)
	}
	return &domain.Page{ID: "p-new", Title: title}, nil
}

func (m *MockNotesService) DeletePage(_ context.Context, _ string) error {
	return nil
}

func (m *MockNotesService) ReplaceBody(
	_ context.Context, _ string, _ []byte, _ string,
) (*domain.PatchResult, error) {
	return &domain.PatchResult{}, nil
}

func (m *MockNotesService) AppendToBody(
	_ context.Context, _ string, _ []byte, _ string,
) (*domain.PatchResult, error) {
	return &domain.PatchResult{}, nil
}

func (m *MockNotesService) PrependToBody(
	_ context.Context, _ string, _ []byte, _ string,
) (*domain.PatchResult, error) {
	return &domain.PatchResult{}, nil
}

func (m *MockNotesService) ReplaceTitle(_ context.Context, _, _ string) (*domain.PatchResult, error) {
	return &domain.PatchResult{}, nil
}

func (m *MockNotesService) ReplaceElement(
	_ context.Context, _, _ string, _ []byte, _ string,
) (*domain.PatchResult, error) {
	return &domain.PatchResult{}, nil
}

func (m *MockNotesService) DeleteElement(_ context.Context, _, _ string) (*domain.PatchResult, error) {
	return &domain.PatchResult{}, nil
}

func (m *MockNotesService) InsertHTML(
	_ context.Context, _, _ string, _ []byte, _, _ string,
) (*domain.PatchResult, error) {
	return &domain.PatchResult{}, nil
}

func (m *MockNotesService) ApplyOperations(
	_ context.Context, _ string, _ []domain.PatchOperation,
) (*domain.PatchResult, error) {
	return &domain.PatchResult{}, nil
}

func (m *MockNotesService) Formats() []string {
	return []string{"html"}
}

// newLoadedView returns a sized view with the notebooks already loaded.
func newLoadedView(t *testing.T, notes driving.NotesService) *View {
	t.Helper()
	view := NewView(context.Background(), nil, notes)
	view.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	deliver(t, view, view.Init())
	require.Equal(t, LevelNotebooks, view.Level())
	return view
}

// deliver runs cmd and feeds its message back into the view.
func deliver(t *testing.T, view *View, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	view.Update(cmd())
}

func press(view *View, key tea.KeyType) tea.Cmd {
	_, cmd := view.Update(tea.KeyMsg{Type: key})
	return cmd
}

func typeRune(view *View, r rune) tea.Cmd {
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return cmd
}

// drillToPages opens the first notebook and its first section.
func drillToPages(t *testing.T, view *View) {
	t.Helper()
	deliver(t, view, press(view, tea.KeyEnter))
	require.Equal(t, LevelSections, view.Level())
	deliver(t, view, press(view, tea.KeyEnter))
	require.Equal(t, LevelPages, view.Level())
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	view := NewView(context.Background(), s, &MockNotesService{})

	require.NotNil(t, view)
	assert.Equal(t, LevelNotebooks, view.level)
	assert.Equal(t, s, view.styles)
	assert.False(t, view.ready)
	assert.False(t, view.dialog)
}

func TestNewView_NilParams(t *testing.T) {
	view := NewView(nil, nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.NotNil(t, view.ctx)
}

func TestView_Init(t *testing.T) {
	view := NewView(context.Background(), nil, &MockNotesService{})

	cmd := view.Init()

	require.NotNil(t, cmd)
	loaded, ok := cmd().(messages.NotebooksLoaded)
	require.True(t, ok)
	assert.NoError(t, loaded.Err)
	assert.Len(t, loaded.Notebooks, 2)
	assert.True(t, view.loading)
}

func TestView_Init_NilService(t *testing.T) {
	view := NewView(context.Background(), nil, nil)

	cmd := view.Init()

	require.NotNil(t, cmd)
	errMsg, ok := cmd().(messages.ErrorOccurred)
	require.True(t, ok)
	assert.Error(t, errMsg.Err)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(context.Background(), nil, nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 80, view.width)
	assert.Equal(t, 24, view.height)
}

func TestView_View_NotReady(t *testing.T) {
	view := NewView(context.Background(), nil, nil)

	assert.Equal(t, "Loading...", view.View())
}

func TestView_Update_NotebooksLoaded(t *testing.T) {
	view := newLoadedView(t, &MockNotesService{})

	assert.Len(t, view.list.Items(), 2)
	assert.False(t, view.loading)
	assert.Contains(t, view.View(), "Work")
	assert.Contains(t, view.View(), "OneNote notebooks")
}

func TestView_Update_NotebooksLoaded_Error(t *testing.T) {
	view := NewView(context.Background(), nil, nil)
	view.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	view.Update(messages.NotebooksLoaded{Err: errors.New("graph down")})

	require.Error(t, view.err)
	assert.Contains(t, view.View(), "graph down")
}

func TestView_Update_Enter_OpensSelectedNotebook(t *testing.T) {
	// Given: notebooks loaded and the cursor on the second one
	var opened string
	notes := &MockNotesService{
		ListSectionsFunc: func(_ context.Context, notebookID string) ([]domain.Section, error) {
			opened = notebookID
			return []domain.Section{{ID: "s-1", DisplayName: "Garden"}}, nil
		},
	}
	view := newLoadedView(t, notes)
	press(view, tea.KeyDown)

	// When: enter is pressed and the load completes
	cmd := press(view, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, view.loading)
	deliver(t, view, cmd)

	// Then: the sections of that notebook are shown
	assert.Equal(t, "nb-2", opened)
	assert.Equal(t, LevelSections, view.Level())
	assert.Len(t, view.list.Items(), 1)
	assert.Contains(t, view.View(), "Sections of Home")
}

func TestView_Update_DrillDownToPage(t *testing.T) {
	var gotOpts driving.ShowOptions
	var gotPage string
	notes := &MockNotesService{
		ShowPageFunc: func(_ context.Context, pageID string, opts driving.ShowOptions) (string, error) {
			gotPage, gotOpts = pageID, opts
			return `<html><head><title>t</title></head><body>` +
				`<h1>Standup</h1><p>Ship the release</p><script>alert(1)</script></body></html>`, nil
		},
	}
	view := newLoadedView(t, notes)
	drillToPages(t, view)

	deliver(t, view, press(view, tea.KeyEnter))

	assert.Equal(t, LevelPage, view.Level())
	assert.Equal(t, "p-1", gotPage)
	assert.True(t, gotOpts.Sanitize)
	assert.False(t, gotOpts.IncludeIDs)
	out := view.View()
	assert.Contains(t, out, "Ship the release")
	assert.NotContains(t, out, "alert(1)")
	assert.Contains(t, out, "notebooks / Work / Meetings / Standup")
}

func TestView_Update_PageLoaded_Error(t *testing.T) {
	notes := &MockNotesService{
		ShowPageFunc: func(_ context.Context, _ string, _ driving.ShowOptions) (string, error) {
			return "", &domain.HTTPError{StatusCode: 404, Body: "gone"}
		},
	}
	view := newLoadedView(t, notes)
	drillToPages(t, view)

	deliver(t, view, press(view, tea.KeyEnter))

	assert.Equal(t, LevelPages, view.Level())
	require.Error(t, view.err)
	assert.Equal(t, 404, domain.StatusCode(view.err))
	assert.Empty(t, view.current.id)

	// back now leaves the section rather than cancelling
	press(view, tea.KeyEsc)
	assert.Equal(t, LevelSections, view.Level())
}

func TestView_Update_Back_RestoresParentLevels(t *testing.T) {
	// Given: a page opened from the second notebook
	view := newLoadedView(t, &MockNotesService{})
	press(view, tea.KeyDown)
	drillToPages(t, view)
	press(view, tea.KeyDown)
	deliver(t, view, press(view, tea.KeyEnter))
	require.Equal(t, LevelPage, view.Level())

	// When/Then: each back step shows the cached parent list with its selection
	press(view, tea.KeyEsc)
	assert.Equal(t, LevelPages, view.Level())
	assert.Equal(t, 1, view.list.Index())
	assert.Empty(t, view.current.id)

	press(view, tea.KeyBackspace)
	assert.Equal(t, LevelSections, view.Level())
	assert.Empty(t, view.section.id)

	press(view, tea.KeyEsc)
	assert.Equal(t, LevelNotebooks, view.Level())
	assert.Equal(t, 1, view.list.Index())
	assert.Empty(t, view.notebook.id)

	press(view, tea.KeyEsc)
	assert.Equal(t, LevelNotebooks, view.Level())
}

func TestView_Update_StaleLoadIgnored(t *testing.T) {
	view := newLoadedView(t, &MockNotesService{})
	cmd := press(view, tea.KeyEnter)
	require.NotNil(t, cmd)

	// Back out before the sections arrive
	press(view, tea.KeyEsc)
	assert.Empty(t, view.notebook.id)
	assert.False(t, view.loading)
	view.Update(cmd())

	assert.Equal(t, LevelNotebooks, view.Level())
	assert.Len(t, view.list.Items(), 2)
}

func TestView_Update_Refresh(t *testing.T) {
	calls := 0
	notes := &MockNotesService{
		ListNotebooksFunc: func(_ context.Context) ([]domain.Notebook, error) {
			calls++
			return []domain.Notebook{{ID: "nb-1", DisplayName: "Work"}}, nil
		},
	}
	view := newLoadedView(t, notes)

	deliver(t, view, typeRune(view, 'r'))

	assert.Equal(t, 2, calls)
	assert.Equal(t, LevelNotebooks, view.Level())
}

func TestView_Update_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{name: "q", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newLoadedView(t, &MockNotesService{})

			_, cmd := view.Update(tt.msg)

			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestView_Update_NewPage_OnlyInPages(t *testing.T) {
	view := newLoadedView(t, &MockNotesService{})

	assert.Nil(t, typeRune(view, 'n'))

	assert.False(t, view.dialog)
}

func TestView_Update_NewPage_Create(t *testing.T) {
	// Given: the pages of a section and a recording service
	var gotSection, gotTitle, gotBody, gotFormat string
	pageLists := 0
	notes := &MockNotesService{
		ListPagesFunc: func(_ context.Context, _ string) ([]domain.Page, error) {
			pageLists++
			return []domain.Page{{ID: "p-1", Title: "Standup"}}, nil
		},
		CreatePageFunc: func(
			_ context.Context, sectionID, title string, body []byte, format string,
		) (*domain.Page, error) {
			gotSection, gotTitle, gotBody, gotFormat = sectionID, title, string(body), format
			return &domain.Page{ID: "p-new", Title: title}, nil
		},
	}
	view := newLoadedView(t, notes)
	drillToPages(t, view)

	// When: the dialog is opened, filled and submitted
	typeRune(view, 'n')
	require.True(t, view.dialog)
	view.titleInput.SetValue("Planning")
	view.bodyInput.SetValue("<p>Agenda</p>")
	cmd := press(view, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.False(t, view.dialog)

	created, ok := cmd().(messages.PageCreated)
	require.True(t, ok)
	_, reload := view.Update(created)

	// Then: the page is created in the open section and the list reloads
	assert.Equal(t, "nb-1/s-1", gotSection)
	assert.Equal(t, "Planning", gotTitle)
	assert.Equal(t, "<p>Agenda</p>", gotBody)
	assert.Equal(t, "html", gotFormat)
	assert.Equal(t, `Created page "Planning"`, view.status)
	deliver(t, view, reload)
	assert.Equal(t, 2, pageLists)
	assert.Equal(t, LevelPages, view.Level())
}

func TestView_Update_NewPage_Defaults(t *testing.T) {
	var gotTitle, gotBody string
	notes := &MockNotesService{
		CreatePageFunc: func(
			_ context.Context, _, title string, body []byte, _ string,
		) (*domain.Page, error) {
			gotTitle, gotBody = title, string(body)
			return &domain.Page{Title: title}, nil
		},
	}
	view := newLoadedView(t, notes)
	drillToPages(t, view)
	typeRune(view, 'n')
	view.bodyInput.SetValue("  ")

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, DefaultPageTitle, gotTitle)
	assert.Equal(t, DefaultPageBody, gotBody)
}

func TestView_Update_NewPage_TemplateBody(t *testing.T) {
	view := newLoadedView(t, &MockNotesService{})
	drillToPages(t, view)

	typeRune(view, 'n')

	assert.Equal(t, newPageTemplate, view.bodyInput.Value())
	assert.Empty(t, view.titleInput.Value())
	assert.Contains(t, view.View(), "New page in Meetings")
}

func TestView_Update_NewPage_Cancel(t *testing.T) {
	created := false
	notes := &MockNotesService{
		CreatePageFunc: func(_ context.Context, _, _ string, _ []byte, _ string) (*domain.Page, error) {
			created = true
			return nil, nil
		},
	}
	view := newLoadedView(t, notes)
	drillToPages(t, view)
	typeRune(view, 'n')

	assert.Nil(t, press(view, tea.KeyEsc))

	assert.False(t, view.dialog)
	assert.False(t, created)
	assert.Equal(t, LevelPages, view.Level())
}

func TestView_Update_NewPage_TypingStaysInDialog(t *testing.T) {
	view := newLoadedView(t, &MockNotesService{})
	drillToPages(t, view)
	typeRune(view, 'n')

	// q and r are text while the dialog is open
	typeRune(view, 'q')
	typeRune(view, 'r')

	assert.True(t, view.dialog)
	assert.Equal(t, "qr", view.titleInput.Value())
}

func TestView_Update_NewPage_TabSwitchesField(t *testing.T) {
	view := newLoadedView(t, &MockNotesService{})
	drillToPages(t, view)
	typeRune(view, 'n')

	press(view, tea.KeyTab)
	assert.True(t, view.focusBody)
	assert.True(t, view.bodyInput.Focused())

	// enter adds a line in the content field instead of submitting
	press(view, tea.KeyEnter)
	assert.True(t, view.dialog)

	press(view, tea.KeyShiftTab)
	assert.False(t, view.focusBody)
	assert.True(t, view.titleInput.Focused())
}

func TestView_Update_PageCreated_Error(t *testing.T) {
	view := newLoadedView(t, &MockNotesService{})
	drillToPages(t, view)

	_, cmd := view.Update(messages.PageCreated{
		SectionID: view.section.id,
		Err:       &domain.ValidationError{Field: "title", Message: "must not be empty"},
	})

	assert.Nil(t, cmd)
	require.Error(t, view.err)
	assert.Contains(t, view.View(), "must not be empty")
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "notebooks", LevelNotebooks.String())
	assert.Equal(t, "sections", LevelSections.String())
	assert.Equal(t, "pages", LevelPages.String())
	assert.Equal(t, "page", LevelPage.String())
	assert.Equal(t, "unknown", Level(42).String())
}
