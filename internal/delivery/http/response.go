package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shelflife/backend/internal/domain"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}

func respondValidation(c *gin.Context, err *domain.ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:  "Invalid request",
		Code:   "validation_failed",
		Fields: err.Fields,
	})
}

// handleError maps domain errors onto HTTP responses
func handleError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		respondValidation(c, validationErr)
	case errors.Is(err, domain.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, "invalid_request", "Invalid request")
	case errors.Is(err, domain.ErrInventoryNotFound):
		respondError(c, http.StatusNotFound, "inventory_not_found", "Inventory entry not found")
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(c, http.StatusNotFound, "product_not_found", "Product not found")
	case errors.Is(err, domain.ErrDuplicateProduct):
		respondError(c, http.StatusConflict, "duplicate_product", "Product was added concurrently, please retry")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, "timeout", "Request timed out")
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body
		c.Abort()
	default:
		logrus.WithError(err).WithField(requestIDKey, c.GetString(requestIDKey)).Error("request failed")
		respondError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
