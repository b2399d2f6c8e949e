package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"

	apierrors "github.com/diogo/teamlens/internal/errors"
	"github.com/diogo/teamlens/internal/logger"
	"github.com/diogo/teamlens/internal/models"
)

// maxErrorBody bounds how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// maxBody bounds a successful response body
const maxBody = 8 << 20

// Doer executes HTTP requests. tls_client.HttpClient satisfies it.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

// Client talks to the employee insight service
type Client struct {
	httpClient Doer
	baseURL    string
	timeout    time.Duration
	proxy      string
	cacheTTL   time.Duration
	cache      *EmployeeCache
	log        *logger.Logger
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the transport (used by tests)
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout bounds every request; zero disables the bound
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithProxy routes requests through a proxy URL
func WithProxy(proxy string) ClientOption {
	return func(c *Client) {
		c.proxy = proxy
	}
}

// WithCacheTTL sets how long employee records are reused; zero disables caching
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithLogger sets the logger for request tracing
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for the service at serverURL
func NewClient(serverURL string, opts ...ClientOption) (*Client, error) {
	base, err := normalizeServerURL(serverURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		baseURL:  base,
		timeout:  2 * time.Minute,
		cacheTTL: 5 * time.Minute,
		log:      logger.Discard(),
	}

	for _, opt := range opts {
		opt(client)
	}

	client.cache = NewEmployeeCache(client.cacheTTL)

	if client.httpClient == nil {
		httpClient, err := newTLSClient(client.timeout, client.proxy)
		if err != nil {
			return nil, err
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// newTLSClient builds the default transport
func newTLSClient(timeout time.Duration, proxy string) (tls_client.HttpClient, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}
	if timeout > 0 {
		options = append(options, tls_client.WithTimeoutSeconds(int(timeout.Seconds())))
	}
	if proxy != "" {
		options = append(options, tls_client.WithProxyUrl(proxy))
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return httpClient, nil
}

// normalizeServerURL validates the base URL and strips a trailing slash
func normalizeServerURL(serverURL string) (string, error) {
	serverURL = strings.TrimSpace(serverURL)
	if serverURL == "" {
		return "", apierrors.ErrNoServer
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: expected http(s)://host[:port]", serverURL)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// ServerURL returns the normalized base URL
func (c *Client) ServerURL() string {
	return c.baseURL
}

// Close marks the client closed; later requests fail with ErrClientClosed
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Cache exposes the employee cache
func (c *Client) Cache() *EmployeeCache {
	return c.cache
}

// resolve turns a path or a relative reference into an absolute URL
func (c *Client) resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return c.baseURL + ref
}

// doRequest performs one request and returns the body of a 2xx answer.
// operation names the call in errors and logs.
func (c *Client) doRequest(ctx context.Context, operation, method, endpoint string, body io.Reader) ([]byte, error) {
	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.resolve(endpoint)
	req, err := fhttp.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	requestID := uuid.New().String()
	req.Header.Set(models.HeaderRequestID, requestID)

	log := c.log.With(logger.Fields{"request_id": requestID, "op": operation, "endpoint": endpoint})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", logger.Fields{"error": err.Error()})
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apierrors.NewTimeoutError(operation)
		}
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("unexpected status", logger.Fields{"status": resp.StatusCode})
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, operation+" failed", strings.TrimSpace(string(errorBody)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apierrors.NewTimeoutError(operation)
		}
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, endpoint, err)
	}

	log.Debug("request done", logger.Fields{"status": resp.StatusCode, "duration_ms": time.Since(start).Milliseconds()})
	return data, nil
}
