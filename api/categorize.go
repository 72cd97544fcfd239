package api

import (
	"strings"

	"github.com/Shr3y4sm/SpendSmart/service"

	"github.com/gin-gonic/gin"
)

// CategorizeHandler exposes AI category suggestions for expense items.
type CategorizeHandler struct {
	categorizer *service.Categorizer
}

// NewCategorizeHandler creates a categorize handler.
func NewCategorizeHandler(categorizer *service.Categorizer) *CategorizeHandler {
	return &CategorizeHandler{categorizer: categorizer}
}

// CategorizeRequest carries the item to classify.
type CategorizeRequest struct {
	Item   string  `json:"item"`
	Amount float64 `json:"amount"`
}

// Categorize suggests a category for an expense item.
// @Summary Categorize an expense item
// @Tags categorize
// @Accept json
// @Produce json
// @Param request body CategorizeRequest true "item description"
// @Success 200 {object} Response
// @Failure 400 {object} Response "missing item"
// @Failure 503 {object} Response "AI service not configured"
// @Router /api/categorize [post]
func (h *CategorizeHandler) Categorize(c *gin.Context) {
	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request data")
		return
	}
	req.Item = strings.TrimSpace(req.Item)
	if req.Item == "" {
		BadRequest(c, "Item description is required")
		return
	}
	if !h.categorizer.Enabled() {
		ServiceUnavailable(c, "AI categorization service is not available")
		return
	}

	result := h.categorizer.Categorize(c.Request.Context(), req.Item, req.Amount)
	Success(c, result)
}

// Suggestions returns several candidate categories for an item.
// @Summary Category suggestions
// @Tags categorize
// @Accept json
// @Produce json
// @Param request body CategorizeRequest true "item description"
// @Success 200 {object} Response
// @Failure 400 {object} Response "missing item"
// @Failure 503 {object} Response "AI service not configured"
// @Router /api/categorize/suggestions [post]
func (h *CategorizeHandler) Suggestions(c *gin.Context) {
	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request data")
		return
	}
	req.Item = strings.TrimSpace(req.Item)
	if req.Item == "" {
		BadRequest(c, "Item description is required")
		return
	}
	if !h.categorizer.Enabled() {
		ServiceUnavailable(c, "AI categorization service is not available")
		return
	}

	suggestions := h.categorizer.Suggestions(c.Request.Context(), req.Item)
	Success(c, gin.H{
		"item":        req.Item,
		"suggestions": suggestions,
	})
}
