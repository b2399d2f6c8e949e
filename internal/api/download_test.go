package api

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	apierrors "github.com/diogo/teamlens/internal/errors"
	"github.com/diogo/teamlens/internal/models"
)

func TestDownloadGraph(t *testing.T) {
	doer := newFakeDoer()
	doer.on("GET", "/graphs/u1_time.png", fakeResponse{status: 200, body: "PNGDATA", contentType: "image/png"})
	client := newTestClient(t, doer)

	dir := t.TempDir()
	user := models.User{ID: "u1", TimeGraph: "/graphs/u1_time.png"}

	path, err := client.DownloadGraph(context.Background(), user, user.Graphs()[0], GraphDownloadOptions{Directory: dir})
	if err != nil {
		t.Fatalf("DownloadGraph() error = %v", err)
	}

	if filepath.Base(path) != "u1_time.png" {
		t.Errorf("filename = %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "PNGDATA" {
		t.Errorf("content = %q", data)
	}
}

func TestDownloadGraphAbsoluteURL(t *testing.T) {
	doer := newFakeDoer()
	doer.on("GET", "/c.jpg", fakeResponse{status: 200, body: "JPG", contentType: "image/jpeg"})
	client := newTestClient(t, doer)

	user := models.User{ID: "u2", ClustersGraph: "https://cdn.example.com/c.jpg"}
	path, err := client.DownloadGraph(context.Background(), user, user.Graphs()[0], GraphDownloadOptions{Directory: t.TempDir()})
	if err != nil {
		t.Fatalf("DownloadGraph() error = %v", err)
	}
	if filepath.Base(path) != "u2_clusters.jpg" {
		t.Errorf("filename = %s", filepath.Base(path))
	}
	if doer.requests[0].URL.Host != "cdn.example.com" {
		t.Errorf("absolute URL should be fetched as-is, got %s", doer.requests[0].URL)
	}
}

func TestDownloadGraphDataURI(t *testing.T) {
	doer := newFakeDoer()
	client := newTestClient(t, doer)

	payload := base64.StdEncoding.EncodeToString([]byte("GIF89a"))
	user := models.User{ID: "u3", TimeGraph: "data:image/gif;base64," + payload}

	path, err := client.DownloadGraph(context.Background(), user, user.Graphs()[0], GraphDownloadOptions{
		Directory: t.TempDir(),
		Filename:  "custom.gif",
	})
	if err != nil {
		t.Fatalf("DownloadGraph() error = %v", err)
	}
	if filepath.Base(path) != "custom.gif" {
		t.Errorf("filename = %s", filepath.Base(path))
	}
	data, _ := os.ReadFile(path)
	if string(data) != "GIF89a" {
		t.Errorf("content = %q", data)
	}
	if doer.count() != 0 {
		t.Error("data URIs must not hit the network")
	}
}

func TestDownloadGraphErrors(t *testing.T) {
	doer := newFakeDoer()
	doer.on("GET", "/missing.png", fakeResponse{status: 404})
	doer.on("GET", "/page.png", fakeResponse{status: 200, body: "<html>", contentType: "text/html"})
	client := newTestClient(t, doer)
	ctx := context.Background()
	opts := GraphDownloadOptions{Directory: t.TempDir()}

	tests := []struct {
		name  string
		graph models.Graph
	}{
		{"no url", models.Graph{Kind: models.GraphTime}},
		{"bad status", models.Graph{Kind: models.GraphTime, URL: "/missing.png"}},
		{"not an image", models.Graph{Kind: models.GraphTime, URL: "/page.png"}},
		{"data uri not image", models.Graph{Kind: models.GraphTime, URL: "data:text/plain,hello"}},
		{"bad base64", models.Graph{Kind: models.GraphTime, URL: "data:image/png;base64,***"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.DownloadGraph(ctx, models.User{ID: "u"}, tt.graph, opts)
			if err == nil {
				t.Fatal("expected error")
			}
			var dlErr *apierrors.DownloadError
			if !errors.As(err, &dlErr) {
				t.Errorf("expected DownloadError, got %T", err)
			}
		})
	}
}

func TestDownloadAllGraphs(t *testing.T) {
	doer := newFakeDoer()
	doer.on("GET", "/t.png", fakeResponse{status: 200, body: "T", contentType: "image/png"})
	client := newTestClient(t, doer)

	user := models.User{ID: "u", TimeGraph: "/t.png", ClustersGraph: "/gone.png"}
	paths, err := client.DownloadAllGraphs(context.Background(), user, GraphDownloadOptions{Directory: t.TempDir()})
	if err != nil {
		t.Fatalf("partial success should not fail: %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("got %d paths, want 1", len(paths))
	}

	none := models.User{ID: "n", TimeGraph: "/gone.png"}
	if _, err := client.DownloadAllGraphs(context.Background(), none, GraphDownloadOptions{Directory: t.TempDir()}); err == nil {
		t.Error("expected error when nothing downloads")
	}
}

func TestGraphFilename(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/png", "u_time.png"},
		{"image/jpeg", "u_time.jpg"},
		{"image/webp", "u_time.webp"},
		{"image/svg+xml", "u_time.svg"},
		{"", "u_time.png"},
	}
	for _, tt := range tests {
		if got := graphFilename("u", "time", tt.contentType); got != tt.want {
			t.Errorf("graphFilename(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}

	if got := sanitizeFilename(` a/b:c?.png `); got != "a_b_c_.png" {
		t.Errorf("sanitizeFilename() = %q", got)
	}
}
