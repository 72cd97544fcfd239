package api

import (
	"strconv"
	"time"

	"github.com/Shr3y4sm/SpendSmart/database"
	"github.com/Shr3y4sm/SpendSmart/middleware"
	"github.com/Shr3y4sm/SpendSmart/models"
	"github.com/Shr3y4sm/SpendSmart/service"

	"github.com/gin-gonic/gin"
)

// InsightsHandler serves AI-generated spending insights and trends.
type InsightsHandler struct {
	insights *service.InsightsGenerator
}

// NewInsightsHandler creates an insights handler.
func NewInsightsHandler(insights *service.InsightsGenerator) *InsightsHandler {
	return &InsightsHandler{insights: insights}
}

// GetInsights returns a spending analysis report for the given period.
// @Summary Spending insights
// @Tags insights
// @Produce json
// @Param period query string false "week, month or all" default(week)
// @Success 200 {object} Response
// @Failure 401 {object} Response "not logged in"
// @Failure 503 {object} Response "AI service not configured"
// @Router /api/insights [get]
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	if !h.insights.Enabled() {
		ServiceUnavailable(c, "AI insights service is not available")
		return
	}

	period := c.DefaultQuery("period", "week")
	if period != "week" && period != "month" && period != "all" {
		period = "week"
	}

	var expenses []models.Expense
	if err := database.DB.Where("user_id = ?", userID).
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to generate insights"))
		return
	}

	report := h.insights.GenerateInsights(c.Request.Context(), expenses, period)
	Success(c, report)
}

// GetTrends compares recent spending halves to detect direction.
// @Summary Spending trends
// @Tags insights
// @Produce json
// @Param days query int false "window size in days" default(30)
// @Success 200 {object} Response
// @Failure 401 {object} Response "not logged in"
// @Failure 503 {object} Response "AI service not configured"
// @Router /api/insights/trends [get]
func (h *InsightsHandler) GetTrends(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	if !h.insights.Enabled() {
		ServiceUnavailable(c, "AI insights service is not available")
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		days = 30
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	var expenses []models.Expense
	if err := database.DB.
		Where("user_id = ? AND date >= ?", userID, cutoff.Format(models.DateLayout)).
		Order("date ASC").
		Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to analyze trends"))
		return
	}

	report := h.insights.SpendingTrends(expenses, days)
	Success(c, report)
}
