// Package trustscore is the HTTP client for the creator trust score service.
package trustscore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client implements ports.TrustScoreProvider.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new trust score client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type scoreResponse struct {
	CreatorID string `json:"creator_id"`
	Score     *int   `json:"score"`
}

// GetTrustScore returns the provider's raw score. Range clamping is the caller's job.
func (c *Client) GetTrustScore(ctx context.Context, creatorID string) (int, error) {
	endpoint := c.BaseURL + "/v1/creators/" + url.PathEscape(creatorID) + "/trust-score"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("create trust score request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute trust score request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read trust score response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("trust score provider returned status %d", resp.StatusCode)
	}

	var out scoreResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("decode trust score response: %w", err)
	}
	if out.Score == nil {
		return 0, fmt.Errorf("trust score missing for creator %s", creatorID)
	}
	return *out.Score, nil
}
