package onenote

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/onenote-cli/internal/connectors/microsoft"
	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/logger"
)

func pagePath(pageID string) string {
	return "/pages/" + url.PathEscape(pageID)
}

func pageContentPath(pageID string) string {
	return pagePath(pageID) + "/content"
}

func requirePageID(pageID string) error {
	if strings.TrimSpace(pageID) == "" {
		return &domain.ValidationError{Field: "page", Message: "id is required"}
	}
	return nil
}

// GetPageMetadata returns a page's metadata, including its ETag when reported.
func (c *Client) GetPageMetadata(ctx context.Context, pageID string) (*domain.Page, error) {
	if err := requirePageID(pageID); err != nil {
		return nil, err
	}
	var page domain.Page
	if err := c.GetJSON(ctx, pagePath(pageID), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPageContent returns the page HTML. With includeIDs the server adds
// element IDs that can be used as patch targets.
func (c *Client) GetPageContent(ctx context.Context, pageID string, includeIDs bool) (string, error) {
	if err := requirePageID(pageID); err != nil {
		return "", err
	}
	path := pageContentPath(pageID)
	if includeIDs {
		path += "?includeIDs=true"
	}
	return c.GetText(ctx, path)
}

// CreatePage creates a page in a section from a body HTML fragment.
func (c *Client) CreatePage(ctx context.Context, sectionID, title, bodyHTML string) (*domain.Page, error) {
	if sectionID == "" {
		return nil, &domain.ValidationError{Field: "section", Message: "id is required"}
	}

	doc := buildPageDocument(title, bodyHTML)
	headers := http.Header{}
	headers.Set("Content-Type", "application/xhtml+xml")

	raw, err := c.Post(ctx, "/sections/"+url.PathEscape(sectionID)+"/pages", []byte(doc), headers)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return &domain.Page{Title: title}, nil
	}

	var page domain.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode created page: %w", err)
	}
	return &page, nil
}

// buildPageDocument wraps a body fragment in the XHTML document the create
// endpoint expects. The title is escaped; the body is passed through as-is.
func buildPageDocument(title, bodyHTML string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n  <title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n</head>\n<body>\n")
	b.WriteString(bodyHTML)
	b.WriteString("\n</body>\n</html>")
	return b.String()
}

// DeletePage deletes a page.
func (c *Client) DeletePage(ctx context.Context, pageID string) error {
	if err := requirePageID(pageID); err != nil {
		return err
	}
	return c.Delete(ctx, pagePath(pageID))
}

// PageETag resolves the page's current ETag.
// The metadata document is consulted first. When it carries no ETag the
// content endpoint's ETag header is used instead; the two are not assumed to
// describe the same representation, the header is only a fallback.
func (c *Client) PageETag(ctx context.Context, pageID string) (string, error) {
	page, err := c.GetPageMetadata(ctx, pageID)
	if err != nil {
		return "", fmt.Errorf("read page metadata: %w", err)
	}
	if etag := page.CurrentETag(); etag != "" {
		return etag, nil
	}

	logger.Debug("onenote: metadata for page %s has no eTag, falling back to content header", pageID)
	resp, err := c.do(ctx, http.MethodHead, pageContentPath(pageID), nil, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if !microsoft.IsSuccess(resp.StatusCode) {
		return "", fmt.Errorf("read page content headers: %w", microsoft.NewHTTPError(resp))
	}

	if etag := resp.Header.Get("ETag"); etag != "" {
		return etag, nil
	}
	return "", fmt.Errorf("page %s: %w", pageID, domain.ErrEtagUnavailable)
}

// PatchContent applies an ordered list of operations to a page.
// The page's ETag is read immediately before the PATCH and sent as If-Match,
// so the server rejects the whole list with 412 if the page changed. That
// rejection is returned as an HTTPError; nothing is retried.
func (c *Client) PatchContent(
	ctx context.Context, pageID string, ops []domain.PatchOperation,
) (*domain.PatchResult, error) {
	if err := requirePageID(pageID); err != nil {
		return nil, err
	}
	if err := domain.ValidateOperations(ops); err != nil {
		return nil, err
	}
	body, err := domain.EncodeOperations(ops)
	if err != nil {
		return nil, err
	}

	etag, err := c.PageETag(ctx, pageID)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("If-Match", etag)

	resp, err := c.do(ctx, http.MethodPatch, pageContentPath(pageID), body, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !microsoft.IsSuccess(resp.StatusCode) {
		httpErr := microsoft.NewHTTPError(resp)
		if microsoft.IsPreconditionFailed(resp.StatusCode) {
			logger.Debug("onenote: page %s changed since etag %s was read", pageID, etag)
		}
		return nil, httpErr
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return &domain.PatchResult{
		StatusCode: resp.StatusCode,
		ETag:       resp.Header.Get("ETag"),
	}, nil
}

// ReplaceBody replaces the entire page body.
func (c *Client) ReplaceBody(ctx context.Context, pageID, fragment string) (*domain.PatchResult, error) {
	return c.PatchContent(ctx, pageID, []domain.PatchOperation{
		{Target: domain.TargetBody, Action: domain.ActionReplace, Content: fragment},
	})
}

// AppendToBody adds content at the end of the page body.
func (c *Client) AppendToBody(ctx context.Context, pageID, fragment string) (*domain.PatchResult, error) {
	return c.PatchContent(ctx, pageID, []domain.PatchOperation{
		{Target: domain.TargetBody, Action: domain.ActionAppend, Content: fragment},
	})
}

// PrependToBody adds content at the start of the page body.
func (c *Client) PrependToBody(ctx context.Context, pageID, fragment string) (*domain.PatchResult, error) {
	return c.PatchContent(ctx, pageID, []domain.PatchOperation{
		{Target: domain.TargetBody, Action: domain.ActionPrepend, Content: fragment},
	})
}

// ReplaceTitle replaces the page title.
func (c *Client) ReplaceTitle(ctx context.Context, pageID, title string) (*domain.PatchResult, error) {
	return c.PatchContent(ctx, pageID, []domain.PatchOperation{
		{Target: domain.TargetTitle, Action: domain.ActionReplace, Content: html.EscapeString(title)},
	})
}

// ReplaceElement replaces a single element, identified by an ID obtained
// from GetPageContent with includeIDs.
func (c *Client) ReplaceElement(
	ctx context.Context, pageID, elementID, fragment string,
) (*domain.PatchResult, error) {
	return c.PatchContent(ctx, pageID, []domain.PatchOperation{
		{Target: domain.ElementTarget(elementID), Action: domain.ActionReplace, Content: fragment},
	})
}

// DeleteElement removes a single element.
func (c *Client) DeleteElement(ctx context.Context, pageID, elementID string) (*domain.PatchResult, error) {
	return c.PatchContent(ctx, pageID, []domain.PatchOperation{
		{Target: domain.ElementTarget(elementID), Action: domain.ActionDelete},
	})
}

// InsertHTML inserts content before or after an element.
// Any other position is rejected before a request is made.
func (c *Client) InsertHTML(
	ctx context.Context, pageID, elementID, fragment, position string,
) (*domain.PatchResult, error) {
	pos, err := domain.ParsePosition(position)
	if err != nil {
		return nil, err
	}
	return c.PatchContent(ctx, pageID, []domain.PatchOperation{
		{Target: domain.ElementTarget(elementID), Action: domain.ActionInsert, Position: pos, Content: fragment},
	})
}
