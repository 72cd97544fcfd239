package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/Shr3y4sm/SpendSmart/database"
	"github.com/Shr3y4sm/SpendSmart/middleware"
	"github.com/Shr3y4sm/SpendSmart/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler serves expense data downloads.
type ExportHandler struct{}

// NewExportHandler creates an export handler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportRange reads the optional start_date/end_date query range. An empty
// range exports everything the user has recorded.
func (h *ExportHandler) exportRange(c *gin.Context, userID uint) ([]models.Expense, string, string, bool) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")

	query := database.DB.Where("user_id = ?", userID)

	if startStr != "" {
		if _, err := time.ParseInLocation(models.DateLayout, startStr, time.Local); err != nil {
			BadRequest(c, "start_date must be in YYYY-MM-DD format")
			return nil, "", "", false
		}
		query = query.Where("date >= ?", startStr)
	}
	if endStr != "" {
		if _, err := time.ParseInLocation(models.DateLayout, endStr, time.Local); err != nil {
			BadRequest(c, "end_date must be in YYYY-MM-DD format")
			return nil, "", "", false
		}
		query = query.Where("date <= ?", endStr)
	}

	var expenses []models.Expense
	if err := query.Order("date DESC, id DESC").Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to load expenses"))
		return nil, "", "", false
	}
	return expenses, startStr, endStr, true
}

func exportFilename(ext, startStr, endStr string) string {
	if startStr != "" || endStr != "" {
		return fmt.Sprintf("expenses_%s_%s.%s", startStr, endStr, ext)
	}
	return fmt.Sprintf("expenses_%s.%s", time.Now().Format(models.DateLayout), ext)
}

// ExportCSV downloads the user's expenses as a CSV file.
// @Summary Export expenses as CSV
// @Tags export
// @Produce text/csv
// @Param start_date query string false "range start (2024-01-01)"
// @Param end_date query string false "range end (2024-12-31)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} Response "bad date range"
// @Failure 401 {object} Response "not logged in"
// @Router /api/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	expenses, startStr, endStr, ok := h.exportRange(c, userID)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	headers := []string{"ID", "Item", "Category", "Amount", "Date", "Created At"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	for _, expense := range expenses {
		row := []string{
			fmt.Sprintf("%d", expense.ID),
			expense.Item,
			expense.Category,
			fmt.Sprintf("%.2f", expense.Amount),
			expense.Date.String(),
			expense.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "Failed to generate CSV")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	filename := exportFilename("csv", startStr, endStr)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON returns the user's expenses with summary totals.
// @Summary Export expenses as JSON
// @Tags export
// @Produce json
// @Param start_date query string false "range start (2024-01-01)"
// @Param end_date query string false "range end (2024-12-31)"
// @Success 200 {object} Response "export payload"
// @Failure 400 {object} Response "bad date range"
// @Failure 401 {object} Response "not logged in"
// @Router /api/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	expenses, startStr, endStr, ok := h.exportRange(c, userID)
	if !ok {
		return
	}

	var totalAmount float64
	for _, expense := range expenses {
		totalAmount += expense.Amount
	}

	Success(c, gin.H{
		"start_date":   startStr,
		"end_date":     endStr,
		"total_count":  len(expenses),
		"total_amount": totalAmount,
		"expenses":     expenses,
	})
}

// ExportExcel downloads the user's expenses as a styled xlsx workbook.
// @Summary Export expenses as Excel
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string false "range start (2024-01-01)"
// @Param end_date query string false "range end (2024-12-31)"
// @Success 200 {file} file "xlsx file"
// @Failure 400 {object} Response "bad date range"
// @Failure 401 {object} Response "not logged in"
// @Router /api/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	expenses, startStr, endStr, ok := h.exportRange(c, userID)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Expenses"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 20)

	headers := []string{"ID", "Item", "Category", "Amount", "Date", "Created At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var totalAmount float64
	for i, expense := range expenses {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), expense.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), expense.Item)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), expense.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), expense.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), expense.Date.String())
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), expense.CreatedAt.Format("2006-01-02 15:04:05"))

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), dataStyle)
		totalAmount += expense.Amount
	}

	summaryRow := len(expenses) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Total")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow), totalAmount)
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("%d records", len(expenses)))
	f.MergeCell(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("F%d", summaryRow))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), summaryStyle)

	filename := exportFilename("xlsx", startStr, endStr)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate Excel file"})
		return
	}
}
