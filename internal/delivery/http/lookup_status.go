package http

import (
	"net/http"

	"github.com/shelflife/backend/internal/domain"
)

// LookupStatus classifies a negative lookup for the client
type LookupStatus string

const (
	StatusNotFound         LookupStatus = "not_found"
	StatusRateLimited      LookupStatus = "rate_limited"
	StatusUnavailable      LookupStatus = "unavailable"
	StatusUnexpectedFormat LookupStatus = "unexpected_format"
	StatusUnknown          LookupStatus = "unknown"
)

var statusMessages = map[LookupStatus]string{
	StatusNotFound:         "Product not found",
	StatusRateLimited:      "Lookup service rate limit reached, try again later",
	StatusUnavailable:      "Lookup service temporarily unavailable",
	StatusUnexpectedFormat: "Lookup service returned an unexpected format",
	StatusUnknown:          "Lookup failed",
}

// classifyLookup maps a lookup failure to a client-facing status.
// Successful lookups have no status.
func classifyLookup(result *domain.LookupResult) LookupStatus {
	switch result.Failure {
	case domain.FailureNone:
		if result.Product.Found {
			return ""
		}
		return StatusNotFound
	case domain.FailureNotFound, domain.FailureInvalidUPC:
		return StatusNotFound
	case domain.FailureTransport:
		return StatusUnavailable
	case domain.FailureParse:
		return StatusUnexpectedFormat
	case domain.FailureHTTPStatus:
		return classifyHTTPStatus(result.StatusCode)
	default:
		return StatusUnknown
	}
}

func classifyHTTPStatus(code int) LookupStatus {
	switch {
	case code == http.StatusNotFound:
		return StatusNotFound
	case code == http.StatusTooManyRequests:
		return StatusRateLimited
	case code >= 500:
		return StatusUnavailable
	default:
		return StatusUnknown
	}
}

// Message returns the human readable text for the status
func (s LookupStatus) Message() string {
	return statusMessages[s]
}
