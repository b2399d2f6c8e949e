package api

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/teamlens/internal/errors"
	"github.com/diogo/teamlens/internal/models"
)

// fakeResponse is one canned answer of fakeDoer
type fakeResponse struct {
	status      int
	body        string
	contentType string
	err         error
}

// fakeDoer answers requests by "METHOD path" and records what it saw
type fakeDoer struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	requests  []*fhttp.Request
	bodies    []string
}

func newFakeDoer() *fakeDoer {
	return &fakeDoer{responses: make(map[string]fakeResponse)}
}

func (f *fakeDoer) on(method, path string, resp fakeResponse) {
	f.responses[method+" "+path] = resp
}

func (f *fakeDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(b))
	} else {
		f.bodies = append(f.bodies, "")
	}

	resp, ok := f.responses[req.Method+" "+req.URL.Path]
	if !ok {
		resp = fakeResponse{status: 404, body: `{"detail":"Not Found"}`}
	}
	if resp.err != nil {
		return nil, resp.err
	}

	header := fhttp.Header{}
	if resp.contentType == "" {
		resp.contentType = "application/json"
	}
	header.Set("Content-Type", resp.contentType)

	return &fhttp.Response{
		StatusCode: resp.status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(resp.body)),
		Request:    req,
	}, nil
}

func (f *fakeDoer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestClient(t *testing.T, doer *fakeDoer, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(doer)}, opts...)
	client, err := NewClient("http://insights.test:8000/", opts...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantURL string
		wantErr bool
	}{
		{"trailing slash", "http://localhost:8000/", "http://localhost:8000", false},
		{"https with path", "https://api.example.com/v1", "https://api.example.com/v1", false},
		{"empty", "  ", "", true},
		{"no scheme", "localhost:8000", "", true},
		{"ftp", "ftp://host", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, WithHTTPClient(newFakeDoer()))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && client.ServerURL() != tt.wantURL {
				t.Errorf("ServerURL() = %q, want %q", client.ServerURL(), tt.wantURL)
			}
		})
	}

	if _, err := NewClient(""); !errors.Is(err, apierrors.ErrNoServer) {
		t.Errorf("empty URL should return ErrNoServer, got %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	client := newTestClient(t, newFakeDoer(),
		WithTimeout(5*time.Second),
		WithProxy("http://proxy:3128"),
		WithCacheTTL(0),
	)

	if client.timeout != 5*time.Second {
		t.Errorf("timeout = %v", client.timeout)
	}
	if client.proxy != "http://proxy:3128" {
		t.Errorf("proxy = %q", client.proxy)
	}
	if client.Cache().TTL() != 0 {
		t.Errorf("cache ttl = %v", client.Cache().TTL())
	}
}

func TestDoRequestHeaders(t *testing.T) {
	doer := newFakeDoer()
	doer.on("GET", "/users/42", fakeResponse{status: 200, body: `{"id":"42","name":"Ana"}`})
	client := newTestClient(t, doer)

	if _, err := client.GetEmployee(context.Background(), "42"); err != nil {
		t.Fatalf("GetEmployee() error = %v", err)
	}

	req := doer.requests[0]
	if req.URL.String() != "http://insights.test:8000/users/42" {
		t.Errorf("URL = %s", req.URL.String())
	}
	if req.Header.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", req.Header.Get("Accept"))
	}
	if req.Header.Get(models.HeaderRequestID) == "" {
		t.Error("missing request id header")
	}
}

func TestDoRequestErrors(t *testing.T) {
	tests := []struct {
		name  string
		resp  fakeResponse
		check func(error) bool
	}{
		{
			name:  "not found",
			resp:  fakeResponse{status: 404, body: "missing"},
			check: apierrors.IsNotFound,
		},
		{
			name:  "server error",
			resp:  fakeResponse{status: 500, body: "boom"},
			check: apierrors.IsServerError,
		},
		{
			name:  "transport failure",
			resp:  fakeResponse{err: errors.New("connection refused")},
			check: apierrors.IsNetworkError,
		},
		{
			name: "invalid json",
			resp: fakeResponse{status: 200, body: "<html>"},
			check: func(err error) bool {
				return errors.Is(err, apierrors.ErrInvalidResponse)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := newFakeDoer()
			doer.on("GET", "/users/7", tt.resp)
			client := newTestClient(t, doer)

			_, err := client.GetEmployee(context.Background(), "7")
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error kind: %v", err)
			}
		})
	}
}

func TestDoRequestKeepsErrorBody(t *testing.T) {
	doer := newFakeDoer()
	doer.on("POST", "/chat", fakeResponse{status: 422, body: "  question too long  "})
	client := newTestClient(t, doer)

	_, err := client.GetChatResponse(context.Background(), "1", "why?")
	if got := apierrors.GetResponseBody(err); got != "question too long" {
		t.Errorf("GetResponseBody() = %q", got)
	}
	if got := apierrors.GetEndpoint(err); got != models.PathChat {
		t.Errorf("GetEndpoint() = %q", got)
	}
}

func TestClosedClient(t *testing.T) {
	doer := newFakeDoer()
	client := newTestClient(t, doer)
	client.Close()

	if !client.IsClosed() {
		t.Error("IsClosed() should be true after Close")
	}
	if _, err := client.ListEmployees(context.Background()); !errors.Is(err, apierrors.ErrClientClosed) {
		t.Errorf("expected ErrClientClosed, got %v", err)
	}
	if doer.count() != 0 {
		t.Error("closed client must not send requests")
	}
}

func TestCanceledContext(t *testing.T) {
	doer := newFakeDoer()
	doer.on("POST", "/chat", fakeResponse{err: context.Canceled})
	client := newTestClient(t, doer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetChatResponse(ctx, "1", "q")
	if !apierrors.IsCanceled(err) {
		t.Errorf("expected canceled error, got %v", err)
	}
}
