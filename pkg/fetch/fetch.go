package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Maximum size accepted for a remote text body (subtitle or plain-text
// import). Media payloads are never fetched through this package; their URLs
// are handed to the client as direct locators.
const maxTextBody = 10 * 1024 * 1024

// Client fetches remote text bodies for the import path. No authentication
// and no retry: a failed fetch is surfaced to the user as-is.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a fetch client with the given timeout.
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Text fetches the body of the given URL as a string.
func (c *Client) Text(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL %s: %w", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTextBody+1))
	if err != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	if len(body) > maxTextBody {
		return "", fmt.Errorf("body of %s exceeds %d bytes", url, maxTextBody)
	}

	return string(body), nil
}
