package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shelflife/backend/internal/domain"
	"github.com/shelflife/backend/internal/usecase"
)

// ProductLookup resolves UPCs against one provider
type ProductLookup interface {
	Source() string
	Lookup(ctx context.Context, upc string) (*domain.LookupResult, error)
}

// InventoryManager handles product and stock bookkeeping
type InventoryManager interface {
	Add(ctx context.Context, req *usecase.AddInventoryRequest) (*domain.Inventory, bool, error)
	Get(ctx context.Context, id uint) (*domain.Inventory, error)
	UpdateStock(ctx context.Context, id uint, req *usecase.UpdateInventoryRequest) (*domain.Inventory, error)
	Delete(ctx context.Context, id uint) error
	DeleteProduct(ctx context.Context, productID uint) error
	List(ctx context.Context, filter domain.InventoryFilter) ([]domain.Inventory, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	inventory InventoryManager
	lookups   map[string]ProductLookup
}

// NewHandler creates a new HTTP handler. Lookups are routed by their source name.
func NewHandler(inventory InventoryManager, lookups ...ProductLookup) *Handler {
	h := &Handler{
		inventory: inventory,
		lookups:   make(map[string]ProductLookup, len(lookups)),
	}
	for _, l := range lookups {
		h.lookups[l.Source()] = l
	}
	return h
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shelflife-backend",
		"version": "1.0.0",
	})
}

// LookupResponse is the flattened lookup result sent to clients
type LookupResponse struct {
	domain.ProductLookupResult
	Source  string       `json:"source"`
	Status  LookupStatus `json:"status,omitempty"`
	Message string       `json:"message,omitempty"`
	Cached  bool         `json:"cached"`
}

// LookupProduct handles GET /lookup/:source/:upc
func (h *Handler) LookupProduct(c *gin.Context) {
	source := c.Param("source")
	lookup, ok := h.lookups[source]
	if !ok {
		respondError(c, http.StatusNotFound, "unknown_source", "Unknown lookup source: "+source)
		return
	}

	upc := strings.TrimSpace(c.Param("upc"))
	if upc == "" {
		respondValidation(c, domain.NewValidationError("upc", "is required"))
		return
	}

	result, err := lookup.Lookup(c.Request.Context(), upc)
	if err != nil {
		handleError(c, err)
		return
	}

	status := classifyLookup(result)
	c.JSON(http.StatusOK, LookupResponse{
		ProductLookupResult: result.Product,
		Source:              result.Source,
		Status:              status,
		Message:             status.Message(),
		Cached:              result.Cached,
	})
}
