// Package mcp exposes the notes service as Model Context Protocol tools.
package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/core/ports/driving"
	"github.com/custodia-labs/onenote-cli/internal/logger"
)

// ServerName identifies the server to MCP clients.
const ServerName = "onenote"

// Server serves notes tools to an MCP client.
type Server struct {
	notes  driving.NotesService
	server *mcp.Server
}

// NewServer creates a server with all tools registered.
func NewServer(notes driving.NotesService, version string) *Server {
	s := &Server{
		notes:  notes,
		server: mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil),
	}
	s.registerTools()
	return s
}

// Run serves over stdin/stdout until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over t. It is used with in-memory transports.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_notebooks",
		Description: "List the signed-in user's OneNote notebooks.",
	}, s.listNotebooks)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sections",
		Description: "List the sections of a notebook.",
	}, s.listSections)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_pages",
		Description: "List the pages of a section.",
	}, s.listPages)
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "get_page",
		Description: "Get a page's HTML. Set include_ids to get element IDs usable as patch targets; " +
			"set clean for readable HTML without scripts or stylesheets.",
	}, s.getPage)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "append_to_page",
		Description: "Append content to the end of a page body. Format is html (default), markdown or text.",
	}, s.appendToPage)
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "patch_page",
		Description: "Apply an ordered list of patch operations to a page in one request. " +
			"Targets are body, title or #elementId; actions are replace, append, prepend, insert or delete. " +
			"The edit is rejected with status 412 if the page changed since it was read.",
	}, s.patchPage)
}

// Item is a notebook, section or page in a listing.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Modified string `json:"modified,omitempty"`
	WebURL   string `json:"web_url,omitempty"`
}

// ListOutput is the result of the list tools.
type ListOutput struct {
	Items []Item `json:"items"`
}

// NoInput is the argument type of tools that take no arguments.
type NoInput struct{}

// ParentInput names the notebook or section to list.
type ParentInput struct {
	ID string `json:"id" jsonschema:"ID of the notebook or section"`
}

// GetPageInput selects a page and how it is returned.
type GetPageInput struct {
	PageID     string `json:"page_id" jsonschema:"ID of the page"`
	IncludeIDs bool   `json:"include_ids,omitempty" jsonschema:"include element IDs usable as patch targets"`
	Clean      bool   `json:"clean,omitempty" jsonschema:"strip scripts and apply readable inline styles"`
}

// GetPageOutput holds page HTML.
type GetPageOutput struct {
	PageID  string `json:"page_id"`
	Content string `json:"content"`
}

// AppendInput is the content to append to a page.
type AppendInput struct {
	PageID  string `json:"page_id" jsonschema:"ID of the page"`
	Content string `json:"content" jsonschema:"content to append"`
	Format  string `json:"format,omitempty" jsonschema:"html, markdown or text"`
}

// PatchInput is an operation list for one page.
type PatchInput struct {
	PageID     string                  `json:"page_id" jsonschema:"ID of the page"`
	Operations []domain.PatchOperation `json:"operations" jsonschema:"operations applied in order"`
}

// PatchOutput reports an accepted patch.
type PatchOutput struct {
	PageID     string `json:"page_id"`
	StatusCode int    `json:"status_code"`
	ETag       string `json:"etag,omitempty"`
}

func (s *Server) listNotebooks(
	ctx context.Context, _ *mcp.CallToolRequest, _ NoInput,
) (*mcp.CallToolResult, ListOutput, error) {
	notebooks, err := s.notes.ListNotebooks(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}
	out := ListOutput{Items: make([]Item, 0, len(notebooks))}
	for _, nb := range notebooks {
		out.Items = append(out.Items, Item{
			ID: nb.ID, Name: nb.DisplayName, Modified: timestamp(nb.LastModifiedDateTime), WebURL: nb.Links.WebURL(),
		})
	}
	return nil, out, nil
}

func (s *Server) listSections(
	ctx context.Context, _ *mcp.CallToolRequest, in ParentInput,
) (*mcp.CallToolResult, ListOutput, error) {
	sections, err := s.notes.ListSections(ctx, in.ID)
	if err != nil {
		return nil, ListOutput{}, err
	}
	out := ListOutput{Items: make([]Item, 0, len(sections))}
	for _, sec := range sections {
		out.Items = append(out.Items, Item{
			ID: sec.ID, Name: sec.DisplayName, Modified: timestamp(sec.LastModifiedDateTime),
		})
	}
	return nil, out, nil
}

func (s *Server) listPages(
	ctx context.Context, _ *mcp.CallToolRequest, in ParentInput,
) (*mcp.CallToolResult, ListOutput, error) {
	pages, err := s.notes.ListPages(ctx, in.ID)
	if err != nil {
		return nil, ListOutput{}, err
	}
	out := ListOutput{Items: make([]Item, 0, len(pages))}
	for _, p := range pages {
		out.Items = append(out.Items, Item{
			ID: p.ID, Name: p.Title, Modified: timestamp(p.LastModifiedDateTime), WebURL: p.Links.WebURL(),
		})
	}
	return nil, out, nil
}

func (s *Server) getPage(
	ctx context.Context, _ *mcp.CallToolRequest, in GetPageInput,
) (*mcp.CallToolResult, GetPageOutput, error) {
	content, err := s.notes.ShowPage(ctx, in.PageID, driving.ShowOptions{
		IncludeIDs: in.IncludeIDs,
		Sanitize:   in.Clean,
	})
	if err != nil {
		return nil, GetPageOutput{}, err
	}
	return nil, GetPageOutput{PageID: in.PageID, Content: content}, nil
}

func (s *Server) appendToPage(
	ctx context.Context, _ *mcp.CallToolRequest, in AppendInput,
) (*mcp.CallToolResult, PatchOutput, error) {
	res, err := s.notes.AppendToBody(ctx, in.PageID, []byte(in.Content), in.Format)
	if err != nil {
		return nil, PatchOutput{}, err
	}
	return nil, patchOutput(in.PageID, res), nil
}

func (s *Server) patchPage(
	ctx context.Context, _ *mcp.CallToolRequest, in PatchInput,
) (*mcp.CallToolResult, PatchOutput, error) {
	res, err := s.notes.ApplyOperations(ctx, in.PageID, in.Operations)
	if err != nil {
		return nil, PatchOutput{}, err
	}
	return nil, patchOutput(in.PageID, res), nil
}

func patchOutput(pageID string, res *domain.PatchResult) PatchOutput {
	out := PatchOutput{PageID: pageID}
	if res != nil {
		out.StatusCode = res.StatusCode
		out.ETag = res.ETag
	}
	return out
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
