// Package browser implements the interactive notebook browser: a drill-down
// from notebooks to sections to pages, a cleaned page view, and a dialog
// for creating pages in the open section.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/onenote-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/onenote-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driving"
)

// Level is the depth of the drill-down.
type Level int

const (
	LevelNotebooks Level = iota
	LevelSections
	LevelPages
	LevelPage
)

// String returns a lowercase name for the level.
func (l Level) String() string {
	switch l {
	case LevelNotebooks:
		return "notebooks"
	case LevelSections:
		return "sections"
	case LevelPages:
		return "pages"
	case LevelPage:
		return "page"
	default:
		return "unknown"
	}
}

const (
	// DefaultPageTitle is used when the new-page dialog leaves the title empty.
	DefaultPageTitle = "Untitled"
	// DefaultPageBody is used when the new-page dialog leaves the content empty.
	DefaultPageBody = "<p>(empty)</p>"

	newPageTemplate = "<h1>New page</h1><p>Content...</p>"

	// chromeHeight is the number of lines around the list or page body.
	chromeHeight = 4
	dialogHeight = 6
)

var errNoService = errors.New("notes service not configured")

// item is a notebook, section or page in the list.
type item struct {
	id    string
	title string
	desc  string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

// crumb is a parent the user opened.
type crumb struct {
	id   string
	name string
}

// View is the browser model. It implements tea.Model.
type View struct {
	ctx    context.Context
	styles *styles.Styles
	notes  driving.NotesService

	level  Level
	list   list.Model
	page   viewport.Model
	items  map[Level][]list.Item
	cursor map[Level]int

	notebook crumb
	section  crumb
	current  crumb
	pageHTML string

	dialog     bool
	focusBody  bool
	titleInput textinput.Model
	bodyInput  textarea.Model

	loading bool
	status  string
	err     error

	ready  bool
	width  int
	height int
}

// NewView creates a browser over notes. A nil ctx or styles falls back to
// the defaults.
func NewView(ctx context.Context, s *styles.Styles, notes driving.NotesService) *View {
	if ctx == nil {
		ctx = context.Background()
	}
	if s == nil {
		s = styles.DefaultStyles()
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("item", "items")
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Placeholder = "Page title"
	ti.CharLimit = 255

	ta := textarea.New()
	ta.Placeholder = "Simple HTML, e.g. <p>Hello</p>"
	ta.ShowLineNumbers = false

	return &View{
		ctx:        ctx,
		styles:     s,
		notes:      notes,
		level:      LevelNotebooks,
		list:       l,
		page:       viewport.New(0, 0),
		items:      make(map[Level][]list.Item),
		cursor:     make(map[Level]int),
		titleInput: ti,
		bodyInput:  ta,
	}
}

// Init loads the notebooks.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadNotebooks()
}

// Update handles messages and returns the next command.
func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKey(msg)

	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
		return v, nil

	case messages.NotebooksLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		items := make([]list.Item, 0, len(msg.Notebooks))
		for _, nb := range msg.Notebooks {
			items = append(items, item{id: nb.ID, title: nb.DisplayName, desc: modified(nb.LastModifiedDateTime)})
		}
		return v, v.show(LevelNotebooks, items)

	case messages.SectionsLoaded:
		if msg.NotebookID != v.notebook.id {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.fail(msg.Err, LevelSections)
			return v, nil
		}
		items := make([]list.Item, 0, len(msg.Sections))
		for _, s := range msg.Sections {
			items = append(items, item{id: s.ID, title: s.DisplayName, desc: modified(s.LastModifiedDateTime)})
		}
		return v, v.show(LevelSections, items)

	case messages.PagesLoaded:
		if msg.SectionID != v.section.id {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.fail(msg.Err, LevelPages)
			return v, nil
		}
		items := make([]list.Item, 0, len(msg.Pages))
		for _, p := range msg.Pages {
			items = append(items, item{id: p.ID, title: p.Title, desc: modified(p.LastModifiedDateTime)})
		}
		return v, v.show(LevelPages, items)

	case messages.PageLoaded:
		if msg.PageID != v.current.id {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.fail(msg.Err, LevelPage)
			return v, nil
		}
		v.level = LevelPage
		v.pageHTML = msg.HTML
		v.renderPage()
		v.page.GotoTop()
		return v, nil

	case messages.PageCreated:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		if msg.Page != nil {
			v.status = fmt.Sprintf("Created page %q", msg.Page.Title)
		}
		if v.level == LevelPages && msg.SectionID == v.section.id {
			v.saveCursor()
			v.loading = true
			return v, v.loadPages(v.section.id)
		}
		return v, nil
	}

	return v, v.forward(msg)
}

// View renders the browser.
func (v *View) View() string {
	if !v.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.title()))
	b.WriteString("\n")
	b.WriteString(v.styles.Crumb.Render(v.breadcrumb()))
	b.WriteString("\n")
	switch {
	case v.dialog:
		b.WriteString(v.dialogView())
	case v.level == LevelPage:
		b.WriteString(v.page.View())
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n")
	b.WriteString(v.statusLine())
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(v.helpLine()))
	return b.String()
}

// Level reports the current drill-down depth.
func (v *View) Level() Level {
	return v.level
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}
	if v.dialog {
		return v.dialogKey(msg)
	}
	if v.level != LevelPage {
		switch v.list.FilterState() {
		case list.Filtering:
			return v.forward(msg)
		case list.FilterApplied:
			if key == "esc" {
				return v.forward(msg)
			}
		}
	}

	switch key {
	case "q":
		return tea.Quit
	case "enter":
		return v.open()
	case "esc", "backspace":
		return v.back()
	case "r":
		return v.refresh()
	case "n":
		if v.level == LevelPages {
			return v.openDialog()
		}
		return nil
	}
	return v.forward(msg)
}

// open drills into the selected item.
func (v *View) open() tea.Cmd {
	if v.level == LevelPage {
		return nil
	}
	sel, ok := v.list.SelectedItem().(item)
	if !ok {
		return nil
	}
	v.saveCursor()
	v.err = nil
	v.status = ""
	v.loading = true

	switch v.level {
	case LevelNotebooks:
		v.notebook = crumb{id: sel.id, name: sel.title}
		return v.loadSections(sel.id)
	case LevelSections:
		v.section = crumb{id: sel.id, name: sel.title}
		return v.loadPages(sel.id)
	default:
		v.current = crumb{id: sel.id, name: sel.title}
		return v.loadPage(sel.id)
	}
}

// back returns to the parent level without reloading it. While a child is
// still loading, back abandons that load instead.
func (v *View) back() tea.Cmd {
	v.err = nil
	v.loading = false
	if child := v.pending(); child != nil && child.id != "" {
		*child = crumb{}
		return nil
	}
	switch v.level {
	case LevelSections:
		v.notebook = crumb{}
		return v.restore(LevelNotebooks)
	case LevelPages:
		v.section = crumb{}
		return v.restore(LevelSections)
	case LevelPage:
		v.current = crumb{}
		v.pageHTML = ""
		return v.restore(LevelPages)
	}
	return nil
}

// pending returns the crumb of the item being opened from the current level.
// It is only set between open and the matching load message.
func (v *View) pending() *crumb {
	switch v.level {
	case LevelNotebooks:
		return &v.notebook
	case LevelSections:
		return &v.section
	case LevelPages:
		return &v.current
	}
	return nil
}

// fail records err. A failed drill-down clears the crumb it set.
func (v *View) fail(err error, target Level) {
	v.err = err
	if v.level != target {
		if child := v.pending(); child != nil {
			*child = crumb{}
		}
	}
}

// refresh reloads the current level.
func (v *View) refresh() tea.Cmd {
	v.saveCursor()
	v.err = nil
	v.loading = true
	switch v.level {
	case LevelSections:
		return v.loadSections(v.notebook.id)
	case LevelPages:
		return v.loadPages(v.section.id)
	case LevelPage:
		return v.loadPage(v.current.id)
	default:
		return v.loadNotebooks()
	}
}

// show replaces the list with freshly loaded items for level. The cursor
// is kept when reloading the level already on screen.
func (v *View) show(level Level, items []list.Item) tea.Cmd {
	if v.level != level {
		v.cursor[level] = 0
	}
	v.level = level
	v.items[level] = items
	v.err = nil
	return v.setItems(level)
}

// restore shows the cached items of level.
func (v *View) restore(level Level) tea.Cmd {
	v.level = level
	return v.setItems(level)
}

func (v *View) setItems(level Level) tea.Cmd {
	v.list.ResetFilter()
	cmd := v.list.SetItems(v.items[level])
	if n := len(v.items[level]); n > 0 {
		v.list.Select(min(v.cursor[level], n-1))
	}
	return cmd
}

// saveCursor remembers the selected item of the current level.
func (v *View) saveCursor() {
	if v.level == LevelPage {
		return
	}
	sel, ok := v.list.SelectedItem().(item)
	if !ok {
		return
	}
	for i, it := range v.items[v.level] {
		if it.(item).id == sel.id {
			v.cursor[v.level] = i
			return
		}
	}
}

func (v *View) openDialog() tea.Cmd {
	v.dialog = true
	v.focusBody = false
	v.err = nil
	v.status = ""
	v.titleInput.Reset()
	v.bodyInput.SetValue(newPageTemplate)
	v.bodyInput.Blur()
	return v.titleInput.Focus()
}

func (v *View) closeDialog() {
	v.dialog = false
	v.titleInput.Blur()
	v.bodyInput.Blur()
}

func (v *View) dialogKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		v.closeDialog()
		return nil
	case "tab", "shift+tab":
		v.focusBody = !v.focusBody
		if v.focusBody {
			v.titleInput.Blur()
			return v.bodyInput.Focus()
		}
		v.bodyInput.Blur()
		return v.titleInput.Focus()
	case "ctrl+s":
		return v.submitDialog()
	case "enter":
		if !v.focusBody {
			return v.submitDialog()
		}
	}
	return v.forward(msg)
}

// submitDialog creates the page in the open section.
func (v *View) submitDialog() tea.Cmd {
	title := strings.TrimSpace(v.titleInput.Value())
	if title == "" {
		title = DefaultPageTitle
	}
	body := strings.TrimSpace(v.bodyInput.Value())
	if body == "" {
		body = DefaultPageBody
	}
	v.closeDialog()
	v.loading = true
	return v.createPage(v.section.id, title, body)
}

// forward hands msg to the focused component.
func (v *View) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case v.dialog && v.focusBody:
		v.bodyInput, cmd = v.bodyInput.Update(msg)
	case v.dialog:
		v.titleInput, cmd = v.titleInput.Update(msg)
	case v.level == LevelPage:
		v.page, cmd = v.page.Update(msg)
	default:
		v.list, cmd = v.list.Update(msg)
	}
	return cmd
}

func (v *View) resize(width, height int) {
	v.ready = true
	v.width = width
	v.height = height

	body := max(height-chromeHeight, 1)
	v.list.SetSize(width, body)
	v.page.Width = width
	v.page.Height = body
	v.titleInput.Width = max(width-12, 10)
	v.bodyInput.SetWidth(max(width-6, 10))
	v.bodyInput.SetHeight(min(dialogHeight, body))
	if v.level == LevelPage {
		v.renderPage()
	}
}

func (v *View) renderPage() {
	v.page.SetContent(renderText(v.styles, v.pageHTML, v.width))
}

// Commands. Each captures what it needs so it is safe to run off the
// update loop.

func (v *View) loadNotebooks() tea.Cmd {
	notes, ctx := v.notes, v.ctx
	if notes == nil {
		return unavailable
	}
	return func() tea.Msg {
		notebooks, err := notes.ListNotebooks(ctx)
		return messages.NotebooksLoaded{Notebooks: notebooks, Err: err}
	}
}

func (v *View) loadSections(notebookID string) tea.Cmd {
	notes, ctx := v.notes, v.ctx
	if notes == nil {
		return unavailable
	}
	return func() tea.Msg {
		sections, err := notes.ListSections(ctx, notebookID)
		return messages.SectionsLoaded{NotebookID: notebookID, Sections: sections, Err: err}
	}
}

func (v *View) loadPages(sectionID string) tea.Cmd {
	notes, ctx := v.notes, v.ctx
	if notes == nil {
		return unavailable
	}
	return func() tea.Msg {
		pages, err := notes.ListPages(ctx, sectionID)
		return messages.PagesLoaded{SectionID: sectionID, Pages: pages, Err: err}
	}
}

func (v *View) loadPage(pageID string) tea.Cmd {
	notes, ctx := v.notes, v.ctx
	if notes == nil {
		return unavailable
	}
	return func() tea.Msg {
		content, err := notes.ShowPage(ctx, pageID, driving.ShowOptions{Sanitize: true})
		return messages.PageLoaded{PageID: pageID, HTML: content, Err: err}
	}
}

func (v *View) createPage(sectionID, title, body string) tea.Cmd {
	notes, ctx := v.notes, v.ctx
	if notes == nil {
		return unavailable
	}
	return func() tea.Msg {
		page, err := notes.CreatePage(ctx, sectionID, title, []byte(body), "html")
		return messages.PageCreated{SectionID: sectionID, Page: page, Err: err}
	}
}

func unavailable() tea.Msg {
	return messages.ErrorOccurred{Err: errNoService}
}

// Rendering helpers.

func (v *View) title() string {
	switch v.level {
	case LevelSections:
		return "Sections of " + v.notebook.name
	case LevelPages:
		return "Pages of " + v.section.name
	case LevelPage:
		return v.current.name
	default:
		return "OneNote notebooks"
	}
}

func (v *View) breadcrumb() string {
	parts := []string{"notebooks"}
	for _, c := range []crumb{v.notebook, v.section, v.current} {
		if c.name != "" {
			parts = append(parts, c.name)
		}
	}
	return strings.Join(parts, " / ")
}

func (v *View) statusLine() string {
	switch {
	case v.err != nil:
		return v.styles.Error.Render("Error: " + v.err.Error())
	case v.loading:
		return v.styles.Status.Render("Loading...")
	case v.status != "":
		return v.styles.Status.Render(v.status)
	}
	return ""
}

func (v *View) helpLine() string {
	switch {
	case v.dialog:
		return "tab switch field • enter/ctrl+s create • esc cancel"
	case v.level == LevelPage:
		return "↑/↓ scroll • r reload • esc back • q quit"
	case v.level == LevelPages:
		return "enter open • n new page • / filter • r reload • esc back • q quit"
	case v.level == LevelSections:
		return "enter open • / filter • r reload • esc back • q quit"
	}
	return "enter open • / filter • r reload • q quit"
}

func (v *View) dialogView() string {
	form := strings.Join([]string{
		v.styles.Label.Render("New page in " + v.section.name),
		"",
		v.styles.Label.Render("Title:   ") + v.titleInput.View(),
		"",
		v.styles.Label.Render("Content:"),
		v.bodyInput.View(),
	}, "\n")
	return v.styles.Dialog.Render(form)
}

func modified(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return "modified " + t.Local().Format("2006-01-02 15:04")
}
