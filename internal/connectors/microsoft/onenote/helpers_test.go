package onenote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/custodia-labs/onenote-cli/internal/core/ports/driven"
)

const testBasePath = "/v1.0/me/onenote"

// staticToken implements driven.TokenProvider with a fixed token.
type staticToken string

func (s staticToken) GetToken(_ context.Context) (string, error) {
	return string(s), nil
}

// countingToken counts GetToken calls.
type countingToken struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingToken) GetToken(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "tok", nil
}

func (c *countingToken) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

var errNoToken = errors.New("no token")

// recordedRequest is a request observed by fakeGraph.
type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

// fakeGraph records every request before delegating to handler.
type fakeGraph struct {
	mu       sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
}

func newFakeGraph(t *testing.T, handler http.HandlerFunc) *fakeGraph {
	t.Helper()
	fg := &fakeGraph{}
	fg.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fg.mu.Lock()
		fg.requests = append(fg.requests, recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     string(body),
		})
		fg.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(fg.server.Close)
	return fg
}

func (fg *fakeGraph) Requests() []recordedRequest {
	fg.mu.Lock()
	defer fg.mu.Unlock()
	out := make([]recordedRequest, len(fg.requests))
	copy(out, fg.requests)
	return out
}

func (fg *fakeGraph) client(tp driven.TokenProvider) *Client {
	return New(&Config{
		BaseURL:    fg.server.URL + testBasePath,
		HTTPClient: fg.server.Client(),
	}, tp)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
