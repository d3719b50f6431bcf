package shortener

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ShareusClient calls 'easy_api' endpoint which responds with short link as plain text
type ShareusClient struct {
	BaseURL string
	APIKey  string

	client *http.Client
}

func NewShareusClient(baseURL string, apiKey string, client *http.Client) *ShareusClient {
	return &ShareusClient{BaseURL: baseURL, APIKey: apiKey, client: client}
}

func (c *ShareusClient) ShortenURL(ctx context.Context, link string) (string, error) {
	query := url.Values{}
	query.Set("key", c.APIKey)
	query.Set("link", link)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/easy_api?"+query.Encode(), nil)
	if err != nil {
		return "", NewError(CodeRequest, 0, fmt.Errorf("failed to create request: %w", err))
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", NewError(CodeRequest, 0, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", NewError(CodeStatus, resp.StatusCode, fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", NewError(CodeRequest, resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	return parseShortLink(strings.TrimSpace(string(body)), resp.StatusCode)
}

// Short link must be absolute http(s) url
func parseShortLink(raw string, statusCode int) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || raw == "" || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", NewError(CodeBadPayload, statusCode, fmt.Errorf("response is not a link: %q", raw))
	}
	return raw, nil
}
