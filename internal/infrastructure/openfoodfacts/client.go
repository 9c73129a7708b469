package openfoodfacts

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
	// DefaultBaseURL is the public OpenFoodFacts host
	DefaultBaseURL = "https://world.openfoodfacts.org"

	defaultTimeout           = 10 * time.Second
	defaultRequestsPerMinute = 100
	maxBodyBytes             = 2 << 20
)

// ClientConfig holds OpenFoodFacts client settings
type ClientConfig struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerMinute int
	Logger            logrus.FieldLogger
}

// Client reads product documents from the OpenFoodFacts v0 API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	log         logrus.FieldLogger
}

// NewClient creates a new OpenFoodFacts client
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

	// OpenFoodFacts asks for at most 100 product reads per minute
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   cfg.UserAgent,
		rateLimiter: limiter,
		log:         cfg.Logger.WithField("source", domain.SourceOpenFoodFacts),
	}
}

// Fetch issues GET /api/v0/product/{upc}.json and returns the raw response
func (c *Client) Fetch(ctx context.Context, upc string) (*domain.ProviderResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(upc))

	c.log.WithField("upc", upc).Debug("requesting product")

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
	defer resp.Body.Close()

	body, err := domain.ReadProviderBody(resp.Body, maxBodyBytes)
	if err != nil {
		return nil, err
	}

	return &domain.ProviderResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
