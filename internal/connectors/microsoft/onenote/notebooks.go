package onenote

import (
	"context"
	"net/url"

	"github.com/custodia-labs/onenote-cli/internal/core/domain"
	"github.com/custodia-labs/onenote-cli/internal/logger"
)

// maxListPages bounds how many @odata.nextLink hops a listing follows.
const maxListPages = 100

// listResponse is a Graph collection page.
type listResponse[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// ListNotebooks returns the user's notebooks.
func (c *Client) ListNotebooks(ctx context.Context) ([]domain.Notebook, error) {
	return listAll[domain.Notebook](ctx, c, "/notebooks")
}

// ListSections returns the sections of a notebook.
func (c *Client) ListSections(ctx context.Context, notebookID string) ([]domain.Section, error) {
	if notebookID == "" {
		return nil, &domain.ValidationError{Field: "notebook", Message: "id is required"}
	}
	return listAll[domain.Section](ctx, c, "/notebooks/"+url.PathEscape(notebookID)+"/sections")
}

// ListPages returns the pages of a section.
func (c *Client) ListPages(ctx context.Context, sectionID string) ([]domain.Page, error) {
	if sectionID == "" {
		return nil, &domain.ValidationError{Field: "section", Message: "id is required"}
	}
	return listAll[domain.Page](ctx, c, "/sections/"+url.PathEscape(sectionID)+"/pages")
}

// listAll fetches a collection, following @odata.nextLink until exhausted.
func listAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	items := make([]T, 0)
	next := path

	for page := 0; next != ""; page++ {
		if page >= maxListPages {
			logger.Warn("onenote: listing %s truncated after %d pages", path, maxListPages)
			break
		}

		var resp listResponse[T]
		if err := c.GetJSON(ctx, next, &resp); err != nil {
			return nil, err
		}

		items = append(items, resp.Value...)
		next = resp.NextLink
	}

	return items, nil
}
