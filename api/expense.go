package api

import (
	"strconv"
	"strings"

	"github.com/Shr3y4sm/SpendSmart/database"
	"github.com/Shr3y4sm/SpendSmart/middleware"
	"github.com/Shr3y4sm/SpendSmart/models"
	"github.com/Shr3y4sm/SpendSmart/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler serves expense CRUD. Every operation is scoped to the
// authenticated user; records owned by someone else answer 404 so their
// existence never leaks.
type ExpenseHandler struct {
	alerts *service.BudgetAlertService
}

// NewExpenseHandler creates an expense handler. alerts runs after writes
// that can raise a month's spend.
func NewExpenseHandler(alerts *service.BudgetAlertService) *ExpenseHandler {
	return &ExpenseHandler{alerts: alerts}
}

// CreateExpenseRequest is the expense creation payload.
type CreateExpenseRequest struct {
	Item     string  `json:"item" binding:"required" example:"Lunch at cafe"`
	Category string  `json:"category" binding:"required" example:"Food & Dining"`
	Amount   float64 `json:"amount" binding:"required" example:"12.50"`
	Date     string  `json:"date" binding:"required" example:"2025-11-03"`
}

// UpdateExpenseRequest is the partial update payload. Absent fields keep
// their stored values; validation runs against the merged record.
type UpdateExpenseRequest struct {
	Item     *string  `json:"item" example:"Lunch at cafe"`
	Category *string  `json:"category" example:"Food & Dining"`
	Amount   *float64 `json:"amount" example:"12.50"`
	Date     *string  `json:"date" example:"2025-11-03"`
}

// validateExpense checks the full record against the validation rules.
func validateExpense(item, category string, amount float64, date string) []string {
	var errs []string

	if strings.TrimSpace(item) == "" {
		errs = append(errs, "Item name must be a non-empty string")
	}
	if amount <= 0 {
		errs = append(errs, "Amount must be greater than 0")
	} else if amount > models.MaxExpenseAmount {
		errs = append(errs, "Amount is too large")
	}
	if _, err := models.ParseDate(date); err != nil {
		errs = append(errs, "Date must be in YYYY-MM-DD format")
	}
	if !models.ValidCategory(category) {
		errs = append(errs, "Invalid category")
	}

	return errs
}

// Create records a new expense.
// @Summary Add an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "expense"
// @Success 201 {object} Response{data=models.Expense} "expense added"
// @Failure 400 {object} Response "validation failed"
// @Failure 401 {object} Response "not logged in"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid expense data"))
		return
	}

	if errs := validateExpense(req.Item, req.Category, req.Amount, req.Date); len(errs) > 0 {
		ValidationFailed(c, errs)
		return
	}
	date, _ := models.ParseDate(req.Date)

	expense := models.Expense{
		UserID:   userID,
		Item:     strings.TrimSpace(req.Item),
		Category: req.Category,
		Amount:   req.Amount,
		Date:     date,
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to save expense"))
		return
	}

	// Alert evaluation runs after the write and never fails the request.
	h.alerts.CheckBudgetAlerts(userID, date.Time)

	Created(c, "Expense added successfully", expense)
}

// List returns all expenses of the current user.
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Success 200 {object} Response{data=[]models.Expense}
// @Failure 401 {object} Response "not logged in"
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var expenses []models.Expense
	if err := database.DB.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load expenses"))
		return
	}

	c.JSON(200, gin.H{
		"success": true,
		"data":    expenses,
		"count":   len(expenses),
	})
}

// Get returns one expense by id.
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Param id path int true "expense id"
// @Success 200 {object} Response{data=models.Expense}
// @Failure 404 {object} Response "expense not found"
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		NotFound(c, "Expense not found")
		return
	}

	var expense models.Expense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		NotFound(c, "Expense not found")
		return
	}

	Success(c, expense)
}

// Update modifies an expense. The merged record is re-validated before the
// write.
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path int true "expense id"
// @Param request body UpdateExpenseRequest true "fields to change"
// @Success 200 {object} Response{data=models.Expense} "expense updated"
// @Failure 400 {object} Response "validation failed"
// @Failure 404 {object} Response "expense not found"
// @Router /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		NotFound(c, "Expense not found")
		return
	}

	var expense models.Expense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		NotFound(c, "Expense not found")
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid expense data"))
		return
	}

	// Merge the partial update onto the stored record, then validate the
	// result as a whole.
	merged := expense
	if req.Item != nil {
		merged.Item = *req.Item
	}
	if req.Category != nil {
		merged.Category = *req.Category
	}
	if req.Amount != nil {
		merged.Amount = *req.Amount
	}
	mergedDate := expense.Date.String()
	if req.Date != nil {
		mergedDate = *req.Date
	}

	if errs := validateExpense(merged.Item, merged.Category, merged.Amount, mergedDate); len(errs) > 0 {
		ValidationFailed(c, errs)
		return
	}
	date, _ := models.ParseDate(mergedDate)

	updates := map[string]interface{}{
		"item":     strings.TrimSpace(merged.Item),
		"category": merged.Category,
		"amount":   merged.Amount,
		"date":     date,
	}
	// Updates writes the map values back into expense, so the response
	// below reflects the saved record.
	if err := database.DB.Model(&expense).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to save changes"))
		return
	}

	// A raised amount or a moved date can push a month over its budget.
	if merged.Amount > 0 && (req.Amount != nil || req.Date != nil) {
		h.alerts.CheckBudgetAlerts(userID, date.Time)
	}

	SuccessWithMessage(c, "Expense updated successfully", expense)
}

// Delete removes an expense.
// @Summary Delete an expense
// @Tags expenses
// @Produce json
// @Param id path int true "expense id"
// @Success 200 {object} Response "expense deleted"
// @Failure 404 {object} Response "expense not found"
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		NotFound(c, "Expense not found")
		return
	}

	var expense models.Expense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		NotFound(c, "Expense not found")
		return
	}

	if err := database.DB.Delete(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to save changes"))
		return
	}

	c.JSON(200, gin.H{
		"success":    true,
		"message":    "Expense deleted successfully",
		"deleted_id": expense.ID,
	})
}

// GetCategories returns the fixed category list.
// @Summary List categories
// @Tags expenses
// @Produce json
// @Success 200 {object} Response{data=[]string}
// @Router /api/categories [get]
func (h *ExpenseHandler) GetCategories(c *gin.Context) {
	Success(c, models.Categories())
}
