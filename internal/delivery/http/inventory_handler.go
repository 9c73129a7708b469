package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shelflife/backend/internal/domain"
	"github.com/shelflife/backend/internal/usecase"
)

// ListInventory handles GET /inventory
func (h *Handler) ListInventory(c *gin.Context) {
	filter := domain.InventoryFilter{
		Search:   c.Query("search"),
		Location: c.Query("location"),
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondValidation(c, domain.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}

	items, err := h.inventory.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetInventory handles GET /inventory/:id
func (h *Handler) GetInventory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	inv, err := h.inventory.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// AddInventory handles POST /inventory.
// Responds 201 when the product is new and 200 when existing stock was merged.
func (h *Handler) AddInventory(c *gin.Context) {
	var req usecase.AddInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	inv, created, err := h.inventory.Add(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, inv)
}

// UpdateInventory handles PATCH /inventory/:id
func (h *Handler) UpdateInventory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req usecase.UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_json", "Request body must be valid JSON")
		return
	}

	inv, err := h.inventory.UpdateStock(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// DeleteInventory handles DELETE /inventory/:id
func (h *Handler) DeleteInventory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.inventory.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteProduct handles DELETE /products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.inventory.DeleteProduct(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// pathID parses the :id parameter, responding 400 when it is not a positive integer
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondValidation(c, domain.NewValidationError("id", "must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
