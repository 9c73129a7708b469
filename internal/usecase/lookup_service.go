package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/shelflife/backend/internal/domain"
)

const (
	defaultLookupCacheTTL = 6 * time.Hour
	previewLimit          = 256
)

// LookupServiceConfig holds configuration for a lookup service
type LookupServiceConfig struct {
	Source   string
	CacheTTL time.Duration
	Logger   logrus.FieldLogger
}

// LookupService resolves UPCs against one provider with a read-through cache
type LookupService struct {
	source    string
	cache     domain.CacheRepository
	client    domain.ProviderClient
	normalize domain.Normalizer
	cacheTTL  time.Duration
	log       logrus.FieldLogger
}

// NewLookupService creates a lookup service for a single provider
func NewLookupService(
	cache domain.CacheRepository,
	client domain.ProviderClient,
	normalize domain.Normalizer,
	config LookupServiceConfig,
) *LookupService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = defaultLookupCacheTTL
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &LookupService{
		source:    config.Source,
		cache:     cache,
		client:    client,
		normalize: normalize,
		cacheTTL:  cacheTTL,
		log:       logger.WithField("source", config.Source),
	}
}

// Source returns the provider name
func (s *LookupService) Source() string {
	return s.source
}

// Lookup resolves a UPC.
// Flow: validate -> check cache -> fetch provider -> normalize -> cache -> return
//
// Provider failures never surface as errors; they come back as a result with
// Found=false and a Failure category. The only error returned is the caller's
// context error when it is cancelled mid-lookup.
func (s *LookupService) Lookup(ctx context.Context, upc string) (*domain.LookupResult, error) {
	upc = strings.TrimSpace(upc)
	if upc == "" {
		return s.negative(domain.FailureInvalidUPC, 0), nil
	}

	log := s.log.WithField("upc", upc)
	cacheKey := s.cacheKey(upc)

	cached, err := s.getFromCache(ctx, cacheKey)
	if err == nil {
		cached.Cached = true
		return cached, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		log.WithError(err).Warn("cache read failed, falling back to provider")
	}

	resp, err := s.client.Fetch(ctx, upc)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// Transport failures are not cached: they say nothing about the product.
		log.WithError(err).Warn("provider request failed")
		return s.negative(domain.FailureTransport, 0), nil
	}

	result := s.resolve(log, resp)

	if err := s.setInCache(ctx, cacheKey, result); err != nil {
		log.WithError(err).Warn("failed to cache lookup result")
	}

	return result, nil
}

// resolve turns a provider response into a result, logging every negative outcome
func (s *LookupService) resolve(log logrus.FieldLogger, resp *domain.ProviderResponse) *domain.LookupResult {
	log = log.WithField("status", resp.StatusCode)

	if !resp.Succeeded() {
		log.Warn("provider returned non-success status")
		return s.negative(domain.FailureHTTPStatus, resp.StatusCode)
	}

	product, err := s.normalize(resp.Body)
	if err != nil {
		log.WithError(err).WithField("preview", preview(resp.Body)).Error("unexpected provider response")
		return s.negative(domain.FailureParse, resp.StatusCode)
	}

	if !product.Found {
		log.Info("product not found")
		return s.negative(domain.FailureNotFound, resp.StatusCode)
	}

	return &domain.LookupResult{
		Source:     s.source,
		Product:    product,
		StatusCode: resp.StatusCode,
	}
}

func (s *LookupService) negative(failure domain.LookupFailure, status int) *domain.LookupResult {
	return &domain.LookupResult{
		Source:     s.source,
		Product:    domain.NotFound(),
		StatusCode: status,
		Failure:    failure,
	}
}

// cacheKey namespaces the trimmed UPC by provider.
// Format: "lookup:{source}:{upc}"
func (s *LookupService) cacheKey(upc string) string {
	return "lookup:" + s.source + ":" + upc
}

func (s *LookupService) getFromCache(ctx context.Context, key string) (*domain.LookupResult, error) {
	var result domain.LookupResult
	if err := s.cache.Get(ctx, key, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *LookupService) setInCache(ctx context.Context, key string, result *domain.LookupResult) error {
	return s.cache.Set(ctx, key, result, s.cacheTTL)
}

// preview returns at most previewLimit bytes of body, cut on a rune boundary
func preview(body []byte) string {
	if len(body) <= previewLimit {
		return string(body)
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
