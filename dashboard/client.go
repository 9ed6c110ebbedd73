// Package dashboard implements the pantry dashboard client: it polls
// the read API, keeps explicit per-panel view state, and renders each
// panel to markup with pure functions.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pantry-monitor/models"
)

// Client fetches the four panel resources from the pantry API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the given server origin.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// BaseURL returns the configured server origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("dashboard: build request %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dashboard: fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dashboard: fetch %s: server returned %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("dashboard: decode %s: %w", path, err)
	}
	return nil
}

// FetchStatistics retrieves the statistics snapshot.
func (c *Client) FetchStatistics(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	if err := c.getJSON(ctx, "/api/statistics", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FetchInventory retrieves the full current inventory.
func (c *Client) FetchInventory(ctx context.Context) ([]*models.Item, error) {
	var items []*models.Item
	if err := c.getJSON(ctx, "/api/inventory", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FetchRecentScans retrieves the recent scans, newest first.
func (c *Client) FetchRecentScans(ctx context.Context) ([]*models.Scan, error) {
	var scans []*models.Scan
	if err := c.getJSON(ctx, "/api/recent-scans", &scans); err != nil {
		return nil, err
	}
	return scans, nil
}

// FetchLatestImage retrieves the latest-image metadata.
func (c *Client) FetchLatestImage(ctx context.Context) (*models.LatestImage, error) {
	var info models.LatestImage
	if err := c.getJSON(ctx, "/api/latest-image", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ImageURL returns the current-image URL with a cache-busting query
// parameter derived from the given instant.
func (c *Client) ImageURL(at time.Time) string {
	return fmt.Sprintf("%s/image/current.jpg?t=%d", c.baseURL, at.UnixMilli())
}

// FetchCurrentImage downloads the current camera image, bypassing
// caches via the cache-busting parameter.
func (c *Client) FetchCurrentImage(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(time.Now()), nil)
	if err != nil {
		return nil, fmt.Errorf("dashboard: build image request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboard: fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dashboard: fetch image: server returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
