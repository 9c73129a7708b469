package upcitemdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/shelflife/backend/internal/domain"
)

const (
	// DefaultBaseURL is the free trial endpoint of the UPCItemDB API
	DefaultBaseURL = "https://api.upcitemdb.com/prod/trial"

	defaultTimeout           = 30 * time.Second
	defaultRequestsPerMinute = 6
	maxBodyBytes             = 1 << 20
)

// ClientConfig holds UPCItemDB client settings
type ClientConfig struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerMinute int
	Logger            logrus.FieldLogger
}

// Client handles communication with the UPCItemDB lookup API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	log         logrus.FieldLogger
}

// NewClient creates a new UPCItemDB API client
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = defaultRequestsPerMinute
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Shelflife/1.0"
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	// The trial plan allows a handful of lookups per minute; burst up to that many.
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   cfg.UserAgent,
		rateLimiter: limiter,
		log:         cfg.Logger.WithField("source", domain.SourceUPCItemDB),
	}
}

// Fetch issues a single GET /lookup?upc= request and returns the raw response.
// Non-2xx statuses are returned, not treated as errors.
func (c *Client) Fetch(ctx context.Context, upc string) (*domain.ProviderResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Set("upc", upc)
	reqURL := fmt.Sprintf("%s/lookup?%s", c.baseURL, params.Encode())

	c.log.WithField("upc", upc).Debug("requesting product")

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := domain.ReadProviderBody(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, err
	}

	return &domain.ProviderResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}

	return resp, nil
}
