// Package onenote is a Microsoft Graph client for OneNote notebooks,
// sections, and pages.
//
// Every request fetches a bearer token from the injected TokenProvider, so
// token expiry is rechecked per call. Page content is mutated with PatchContent,
// which reads the page's current ETag immediately before sending the patch and
// presents it as If-Match. A stale ETag yields a 412 HTTPError; the client never
// re-reads or resubmits on its own.
package onenote
