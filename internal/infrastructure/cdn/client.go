package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"blogcms-backend/internal/config"
)

// Purger invalidates edge-cached post pages
type Purger interface {
	PurgePost(ctx context.Context, slug string) error
}

// Client calls the CDN purge endpoint over HTTP.
// An empty purge URL disables purging (local development).
type Client struct {
	httpClient *http.Client
	purgeURL   string
	apiToken   string
	siteURL    string
}

func NewClient(cfg config.CDNConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		purgeURL:   cfg.PurgeURL,
		apiToken:   cfg.APIToken,
		siteURL:    cfg.SiteURL,
	}
}

// PurgePost purges the public post page and its listing root from the edge
func (c *Client) PurgePost(ctx context.Context, slug string) error {
	if c.purgeURL == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"files": []string{
			fmt.Sprintf("%s/posts/%s", c.siteURL, slug),
			fmt.Sprintf("%s/posts", c.siteURL),
		},
	})
	if err != nil {
		return fmt.Errorf("marshal purge payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.purgeURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build purge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("purge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("purge endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
