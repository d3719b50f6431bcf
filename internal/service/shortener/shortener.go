// Package shortener turns long verification links into short ones with an external service.
//
// Shortener never fails: on any error it logs and returns the original link,
// so verification is never blocked by the shortening service outage.
package shortener

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/verifylink/internal/logger"
)

const (
	CodeRequest    = "request"
	CodeStatus     = "status"
	CodeBadPayload = "bad-payload"
)

const (
	// Service with plain text response API, any other host is handled as adlinkfly-like one
	ShareusHost = "api.shareus.io"

	defaultTimeout = 5 * time.Second
)

type Error struct {
	Code       string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %s, status_code: %d, error: %v", e.Code, e.StatusCode, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code string, statusCode int, err error) *Error {
	return &Error{
		Code:       code,
		StatusCode: statusCode,
		Err:        err,
	}
}

// Client is a concrete shortening service API
type Client interface {
	ShortenURL(ctx context.Context, link string) (string, error)
}

type Config struct {
	// Shortening service host, like 'api.shareus.io'
	// Empty host disables shortening
	Host string

	// Service API key
	APIKey string

	// Timeout for single shortening request
	// If not set than default is used
	Timeout time.Duration

	// Http client to use; http.DefaultClient if not set
	HTTPClient *http.Client
}

type Shortener struct {
	client  Client
	timeout time.Duration
	logger  logger.Logger
}

// New selects client by configured host
func New(cfg Config, l logger.Logger) *Shortener {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}

	var client Client
	switch cfg.Host {
	case "":
		client = noopClient{}
	case ShareusHost:
		client = NewShareusClient("https://"+cfg.Host, cfg.APIKey, cfg.HTTPClient)
	default:
		client = NewAdlinkflyClient("https://"+cfg.Host, cfg.APIKey, cfg.HTTPClient)
	}

	return NewWithClient(client, cfg.Timeout, l)
}

func NewWithClient(client Client, timeout time.Duration, l logger.Logger) *Shortener {
	return &Shortener{
		client:  client,
		timeout: timeout,
		logger:  l.WithGroup("shortener"),
	}
}

// Shorten returns short link or the original link if shortening failed
func (s *Shortener) Shorten(ctx context.Context, link string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	short, err := s.client.ShortenURL(ctx, link)
	if err != nil {
		s.logger.Warn("Failed to shorten link, fallback to original", "link", link, "error", err)
		return link
	}

	s.logger.Debug("Link shortened", "link", link, "short", short)
	return short
}

type noopClient struct{}

func (noopClient) ShortenURL(_ context.Context, link string) (string, error) {
	return link, nil
}
