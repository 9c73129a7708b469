package domain

import (
	"fmt"
	"io"
)

// Lookup sources
const (
	SourceUPCItemDB     = "upcitemdb"
	SourceOpenFoodFacts = "openfoodfacts"
)

// LookupFailure categorises why a lookup produced no product.
type LookupFailure string

const (
	FailureNone       LookupFailure = ""
	FailureInvalidUPC LookupFailure = "invalid_upc"
	FailureNotFound   LookupFailure = "not_found"
	FailureHTTPStatus LookupFailure = "http_status"
	FailureTransport  LookupFailure = "transport"
	FailureParse      LookupFailure = "parse"
)

// ProductLookupResult is the provider-agnostic product shape produced by
// every normalizer. When Found is false all other fields are zero.
type ProductLookupResult struct {
	Found           bool   `json:"found"`
	Title           string `json:"title,omitempty"`
	Brand           string `json:"brand,omitempty"`
	Category        string `json:"category,omitempty"`
	Model           string `json:"model,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
	Description     string `json:"description,omitempty"`
	NutriScoreGrade string `json:"nutriScoreGrade,omitempty"` // A-E
	EcoScore        *int   `json:"ecoScore,omitempty"`        // 0-100
}

// NotFound returns the empty negative result.
func NotFound() ProductLookupResult {
	return ProductLookupResult{}
}

// LookupResult is what a lookup service returns: the normalized product plus
// metadata about how it was obtained.
type LookupResult struct {
	Source     string              `json:"source"`
	Product    ProductLookupResult `json:"product"`
	StatusCode int                 `json:"statusCode,omitempty"` // upstream HTTP status, 0 if none was received
	Failure    LookupFailure       `json:"failure,omitempty"`
	Cached     bool                `json:"-"`
}

// ProviderResponse is the raw outcome of one outbound provider call.
type ProviderResponse struct {
	StatusCode int
	Body       []byte
}

// Succeeded reports whether the provider answered with a 2xx status.
func (r *ProviderResponse) Succeeded() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ReadProviderBody reads a provider response body of at most limit bytes.
// A longer body is an ErrProviderUnavailable error rather than a truncated
// document, so it is never parsed or cached.
func ReadProviderBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrProviderUnavailable, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: response body exceeds %d bytes", ErrProviderUnavailable, limit)
	}
	return body, nil
}

// Normalizer converts a provider response body into a ProductLookupResult.
// It returns an error only for structurally undecodable documents.
type Normalizer func(body []byte) (ProductLookupResult, error)
