package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/Shr3y4sm/SpendSmart/database"
	"github.com/Shr3y4sm/SpendSmart/middleware"
	"github.com/Shr3y4sm/SpendSmart/models"
	"github.com/Shr3y4sm/SpendSmart/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler serves the monthly budget endpoints.
type BudgetHandler struct {
	now func() time.Time
}

// NewBudgetHandler creates a budget handler.
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{now: time.Now}
}

// SetBudgetRequest is the budget upsert payload.
type SetBudgetRequest struct {
	Amount         float64 `json:"amount" binding:"required" example:"1000"`
	AlertThreshold int     `json:"alert_threshold" binding:"required" example:"80"`
}

// BudgetStatus is the payload of the status endpoint.
type BudgetStatus struct {
	BudgetSet           bool          `json:"budget_set"`
	BudgetAmount        float64       `json:"budget_amount,omitempty"`
	TotalSpent          float64       `json:"total_spent"`
	RemainingAmount     float64       `json:"remaining_amount,omitempty"`
	SpentPercentage     float64       `json:"spent_percentage"`
	RemainingPercentage float64       `json:"remaining_percentage"`
	AlertThreshold      int           `json:"alert_threshold,omitempty"`
	Status              string        `json:"status,omitempty"`
	Alerts              []BudgetAlert `json:"alerts"`
	Month               string        `json:"month"`
	Message             string        `json:"message,omitempty"`
}

// BudgetAlert is one alert entry in the status payload.
type BudgetAlert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

// Get returns the current month's budget, or null when none is set.
// @Summary Get current budget
// @Tags budget
// @Produce json
// @Success 200 {object} Response{data=models.Budget}
// @Failure 401 {object} Response "not logged in"
// @Router /api/budget [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	month := models.MonthKey(h.now())

	var budget models.Budget
	err := database.DB.Where("user_id = ? AND month = ?", userID, month).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Success(c, nil)
			return
		}
		InternalError(c, SafeErrorMessage(err, "Failed to get budget"))
		return
	}

	Success(c, budget)
}

// Set creates or updates the current month's budget. An update keeps the
// sent-flags untouched: changing the amount or threshold never re-arms
// notifications within the same month.
// @Summary Set monthly budget
// @Tags budget
// @Accept json
// @Produce json
// @Param request body SetBudgetRequest true "budget"
// @Success 200 {object} Response{data=models.Budget} "budget saved"
// @Failure 400 {object} Response "invalid amount or threshold"
// @Failure 401 {object} Response "not logged in"
// @Router /api/budget [post]
func (h *BudgetHandler) Set(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Missing required fields: amount and alert_threshold"))
		return
	}

	if req.Amount <= 0 {
		BadRequest(c, "Budget amount must be greater than 0")
		return
	}
	if req.AlertThreshold < 50 || req.AlertThreshold > 100 {
		BadRequest(c, "Alert threshold must be between 50% and 100%")
		return
	}

	month := models.MonthKey(h.now())

	var budget models.Budget
	err := database.DB.Where("user_id = ? AND month = ?", userID, month).First(&budget).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		budget = models.Budget{
			UserID:         userID,
			Amount:         req.Amount,
			AlertThreshold: req.AlertThreshold,
			Month:          month,
		}
		if err := database.DB.Create(&budget).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "Failed to set budget"))
			return
		}
	case err != nil:
		InternalError(c, SafeErrorMessage(err, "Failed to set budget"))
		return
	default:
		updates := map[string]interface{}{
			"amount":          req.Amount,
			"alert_threshold": req.AlertThreshold,
		}
		if err := database.DB.Model(&budget).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "Failed to set budget"))
			return
		}
		budget.Amount = req.Amount
		budget.AlertThreshold = req.AlertThreshold
	}

	SuccessWithMessage(c, "Budget set successfully", budget)
}

// Status reports the current month's budget against actual spend.
// @Summary Budget status
// @Tags budget
// @Produce json
// @Success 200 {object} Response{data=BudgetStatus}
// @Failure 401 {object} Response "not logged in"
// @Router /api/budget/status [get]
func (h *BudgetHandler) Status(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	now := h.now()
	month := models.MonthKey(now)

	var budget models.Budget
	err := database.DB.Where("user_id = ? AND month = ?", userID, month).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Success(c, BudgetStatus{
				BudgetSet: false,
				Month:     month,
				Alerts:    []BudgetAlert{},
				Message:   "No budget set",
			})
			return
		}
		InternalError(c, SafeErrorMessage(err, "Failed to get budget status"))
		return
	}

	totalSpent, _, err := service.MonthlySpend(database.DB, userID, now.Year(), now.Month())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to get budget status"))
		return
	}

	spentPercentage := 0.0
	if budget.Amount > 0 {
		spentPercentage = totalSpent / budget.Amount * 100
	}

	status := "safe"
	alerts := []BudgetAlert{}
	switch {
	case spentPercentage >= 100:
		status = "exceeded"
		alerts = append(alerts, BudgetAlert{
			Type:    "danger",
			Message: fmt.Sprintf("Budget exceeded! You have spent Rs. %.2f out of Rs. %.2f", totalSpent, budget.Amount),
			Icon:    "bi-exclamation-triangle-fill",
		})
	case spentPercentage >= float64(budget.AlertThreshold):
		status = "warning"
		alerts = append(alerts, BudgetAlert{
			Type:    "warning",
			Message: fmt.Sprintf("Budget alert! You have spent %.1f%% of your budget (Rs. %.2f out of Rs. %.2f)", spentPercentage, totalSpent, budget.Amount),
			Icon:    "bi-exclamation-triangle",
		})
	}

	Success(c, BudgetStatus{
		BudgetSet:           true,
		BudgetAmount:        budget.Amount,
		TotalSpent:          totalSpent,
		RemainingAmount:     budget.Amount - totalSpent,
		SpentPercentage:     spentPercentage,
		RemainingPercentage: 100 - spentPercentage,
		AlertThreshold:      budget.AlertThreshold,
		Status:              status,
		Alerts:              alerts,
		Month:               month,
	})
}
