package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Suggestion is what the barista assistant proposes for a given set of
// taste preferences.
type Suggestion struct {
	ShortCode string `json:"short_code"`
	Name      string `json:"name"`
	Reason    string `json:"reason,omitempty"`
}

// Client interface for the barista assistant service
type Client interface {
	SuggestDrink(ctx context.Context, tastes []string) (*Suggestion, error)
}

// HTTPClient implements the assistant Client using HTTP
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP assistant client
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = "http://localhost:8086" // Default assistant service URL
	}
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SuggestDrink(ctx context.Context, tastes []string) (*Suggestion, error) {
	endpoint := fmt.Sprintf("%s/assistant/suggestions?tastes=%s",
		c.baseURL, url.QueryEscape(strings.Join(tastes, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assistant service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assistant service returned status %d", resp.StatusCode)
	}

	var suggestion Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestion); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &suggestion, nil
}

// NoopClient is a no-op implementation for testing or when the
// assistant is disabled
type NoopClient struct{}

func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

func (c *NoopClient) SuggestDrink(ctx context.Context, tastes []string) (*Suggestion, error) {
	return nil, nil
}
