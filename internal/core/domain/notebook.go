package domain

import "time"

// Notebook is a OneNote notebook.
type Notebook struct {
	ID                   string    `json:"id"`
	DisplayName          string    `json:"displayName"`
	IsDefault            bool      `json:"isDefault,omitempty"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime"`
	Links                Links     `json:"links"`
}

// Section is a section within a notebook.
type Section struct {
	ID                   string    `json:"id"`
	DisplayName          string    `json:"displayName"`
	IsDefault            bool      `json:"isDefault,omitempty"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime"`
}

// Page is a page within a section. ETag identifies the current content version.
type Page struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime"`
	ContentURL           string    `json:"contentUrl,omitempty"`
	Level                int       `json:"level,omitempty"`
	Order                int       `json:"order,omitempty"`
	Links                Links     `json:"links"`
	ETag                 string    `json:"eTag,omitempty"`
	ODataETag            string    `json:"@odata.etag,omitempty"`
}

// CurrentETag returns the entity tag reported in the page metadata.
// Graph exposes it as eTag or @odata.etag depending on the endpoint version.
func (p *Page) CurrentETag() string {
	if p.ETag != "" {
		return p.ETag
	}
	return p.ODataETag
}

// Links holds the client and web URLs Graph reports for a resource.
type Links struct {
	OneNoteClientURL struct {
		Href string `json:"href"`
	} `json:"oneNoteClientUrl"`
	OneNoteWebURL struct {
		Href string `json:"href"`
	} `json:"oneNoteWebUrl"`
}

// WebURL returns the browser link for the resource, if any.
func (l Links) WebURL() string {
	return l.OneNoteWebURL.Href
}
