package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/teamlens/internal/errors"
	"github.com/diogo/teamlens/internal/logger"
	"github.com/diogo/teamlens/internal/models"
)

// maxGraphSize bounds a downloaded graph image
const maxGraphSize = 32 << 20

// GraphDownloadOptions configures graph download behavior
type GraphDownloadOptions struct {
	// Directory is the destination directory (default: ~/.teamlens/graphs)
	Directory string
	// Filename is the output filename (derived from user and graph kind if empty)
	Filename string
}

// DefaultDownloadOptions returns the default download options
func DefaultDownloadOptions() GraphDownloadOptions {
	homeDir, _ := os.UserHomeDir()
	return GraphDownloadOptions{
		Directory: filepath.Join(homeDir, ".teamlens", "graphs"),
	}
}

// DownloadGraph saves one of the user's graph images to disk and returns its absolute path.
// Absolute URLs, server-relative paths and data: URIs are all accepted.
func (c *Client) DownloadGraph(ctx context.Context, user models.User, graph models.Graph, opts GraphDownloadOptions) (string, error) {
	if graph.URL == "" {
		return "", apierrors.NewDownloadError("user has no "+graph.Kind+" graph", user.ID)
	}
	if opts.Directory == "" {
		opts.Directory = DefaultDownloadOptions().Directory
	}

	var (
		data        []byte
		contentType string
		err         error
	)
	if strings.HasPrefix(graph.URL, "data:") {
		data, contentType, err = decodeDataURI(graph.URL)
	} else {
		data, contentType, err = c.fetchGraph(ctx, c.resolve(graph.URL))
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(opts.Directory, 0o755); err != nil {
		return "", apierrors.NewDownloadError("failed to create directory: "+err.Error(), graph.URL)
	}

	filename := opts.Filename
	if filename == "" {
		filename = graphFilename(user.ID, graph.Kind, contentType)
	}
	destPath := filepath.Join(opts.Directory, sanitizeFilename(filename))

	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return "", apierrors.NewDownloadError("failed to save file: "+err.Error(), graph.URL)
	}

	c.log.Debug("graph saved", logger.Fields{"user": user.ID, "kind": graph.Kind, "path": destPath})

	absPath, err := filepath.Abs(destPath)
	if err != nil {
		return destPath, nil
	}
	return absPath, nil
}

// DownloadAllGraphs saves every graph the user has.
// Paths of successful downloads are returned even when some fail.
func (c *Client) DownloadAllGraphs(ctx context.Context, user models.User, opts GraphDownloadOptions) ([]string, error) {
	var paths []string
	var lastError error

	for _, graph := range user.Graphs() {
		graphOpts := opts
		graphOpts.Filename = ""
		path, err := c.DownloadGraph(ctx, user, graph, graphOpts)
		if err != nil {
			lastError = err
			continue
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 && lastError != nil {
		return nil, lastError
	}
	return paths, nil
}

// fetchGraph downloads an image over HTTP
func (c *Client) fetchGraph(ctx context.Context, url string) ([]byte, string, error) {
	if c.IsClosed() {
		return nil, "", apierrors.ErrClientClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, url, nil)
	if err != nil {
		return nil, "", apierrors.NewDownloadError("failed to create request: "+err.Error(), url)
	}
	req.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("User-Agent", models.DefaultHeaders()["User-Agent"])

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", apierrors.NewDownloadNetworkError(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != fhttp.StatusOK {
		return nil, "", apierrors.NewDownloadErrorWithStatus(url, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "image") {
		return nil, "", apierrors.NewDownloadError("response is not an image: "+contentType, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGraphSize))
	if err != nil {
		return nil, "", apierrors.NewDownloadError("failed to read response: "+err.Error(), url)
	}
	return body, contentType, nil
}

var dataURIPattern = regexp.MustCompile(`^data:([^;,]+)?(;base64)?,(.*)$`)

// decodeDataURI extracts the payload and media type of an inline image
func decodeDataURI(uri string) ([]byte, string, error) {
	m := dataURIPattern.FindStringSubmatch(uri)
	if m == nil {
		return nil, "", apierrors.NewDownloadError("malformed data URI", "data:")
	}
	contentType := m[1]
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", apierrors.NewDownloadError("data URI is not an image: "+contentType, "data:")
	}
	if m[2] == "" {
		return []byte(m[3]), contentType, nil
	}
	data, err := base64.StdEncoding.DecodeString(m[3])
	if err != nil {
		return nil, "", apierrors.NewDownloadError("invalid base64 payload: "+err.Error(), "data:")
	}
	return data, contentType, nil
}

// graphFilename builds <user>_<kind>.<ext> from the content type
func graphFilename(userID, kind, contentType string) string {
	ext := ".png"
	switch {
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		ext = ".jpg"
	case strings.Contains(contentType, "gif"):
		ext = ".gif"
	case strings.Contains(contentType, "webp"):
		ext = ".webp"
	case strings.Contains(contentType, "svg"):
		ext = ".svg"
	}
	return fmt.Sprintf("%s_%s%s", userID, kind, ext)
}

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// sanitizeFilename removes invalid characters from filenames
func sanitizeFilename(name string) string {
	return strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(name, "_"))
}
