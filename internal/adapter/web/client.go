package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vertextoedge/magpi-downloader/internal/domain"
	"github.com/vertextoedge/magpi-downloader/internal/port"
)

// Client fetches metadata pages and streams issue files over HTTP
type Client struct {
	pageClient     *http.Client
	downloadClient *http.Client
	userAgent      string
}

// Ensure Client implements port.PageClient
var _ port.PageClient = (*Client)(nil)

// ClientConfig contains optional client configuration
type ClientConfig struct {
	// MetadataTimeout bounds a whole metadata page request (0 = no limit)
	MetadataTimeout time.Duration

	// DownloadTimeout bounds a whole file download including the body (0 = no limit)
	DownloadTimeout time.Duration

	// UserAgent is sent only when set
	UserAgent string
}

// NewClient creates a new HTTP client
func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = &ClientConfig{MetadataTimeout: 30 * time.Second}
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	downloadTransport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,

		// PDFs are already compressed
		DisableCompression: true,

		// Response header timeout (not total download timeout)
		ResponseHeaderTimeout: 30 * time.Second,
	}

	return &Client{
		pageClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.MetadataTimeout,
		},
		downloadClient: &http.Client{
			Transport: downloadTransport,
			Timeout:   cfg.DownloadTimeout,
		},
		userAgent: cfg.UserAgent,
	}
}

// FetchPage retrieves the whole document at url
func (c *Client) FetchPage(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, c.pageClient, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// OpenStream starts a streamed GET; the caller closes the returned body
func (c *Client) OpenStream(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := c.get(ctx, c.downloadClient, url)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) get(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	if url == "" {
		return nil, domain.ErrEmptyURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d from %s", domain.ErrUnexpectedStatus, resp.StatusCode, url)
	}

	return resp, nil
}
