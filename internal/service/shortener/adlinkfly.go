package shortener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// AdlinkflyClient talks to adlinkfly-like services: most of shortener sites share the API
type AdlinkflyClient struct {
	BaseURL string
	APIKey  string

	client *http.Client
}

func NewAdlinkflyClient(baseURL string, apiKey string, client *http.Client) *AdlinkflyClient {
	return &AdlinkflyClient{BaseURL: baseURL, APIKey: apiKey, client: client}
}

type adlinkflyResponse struct {
	Status       string `json:"status"`
	ShortenedURL string `json:"shortenedUrl"`
	Message      any    `json:"message,omitempty"`
}

func (c *AdlinkflyClient) ShortenURL(ctx context.Context, link string) (string, error) {
	query := url.Values{}
	query.Set("api", c.APIKey)
	query.Set("url", link)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api?"+query.Encode(), nil)
	if err != nil {
		return "", NewError(CodeRequest, 0, fmt.Errorf("failed to create request: %w", err))
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", NewError(CodeRequest, 0, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", NewError(CodeStatus, resp.StatusCode, fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	var data adlinkflyResponse
	err = json.NewDecoder(resp.Body).Decode(&data)
	if err != nil {
		return "", NewError(CodeBadPayload, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	if data.Status == "error" {
		return "", NewError(CodeBadPayload, resp.StatusCode, fmt.Errorf("service error: %v", data.Message))
	}

	return parseShortLink(data.ShortenedURL, resp.StatusCode)
}
