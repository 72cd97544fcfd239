package api

import (
	"sort"
	"time"

	"github.com/Shr3y4sm/SpendSmart/database"
	"github.com/Shr3y4sm/SpendSmart/middleware"
	"github.com/Shr3y4sm/SpendSmart/models"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves aggregate statistics and chart data.
type StatsHandler struct {
	now func() time.Time
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler() *StatsHandler {
	return &StatsHandler{now: time.Now}
}

// CategoryUsage aggregates one category's records.
type CategoryUsage struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// PieSlice is one pie chart segment formatted for the frontend charts.
type PieSlice struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// TrendPoint is one point of the spending trend series.
type TrendPoint struct {
	Period string  `json:"period"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

var chartColors = []string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0",
	"#9966FF", "#FF9F40", "#FF6384", "#C9CBCF",
}

// GetStats returns overall statistics for the current user.
// @Summary Expense statistics
// @Tags stats
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} Response "not logged in"
// @Router /api/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var expenses []models.Expense
	if err := database.DB.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to calculate statistics"))
		return
	}

	var totalAmount float64
	categories := make(map[string]*CategoryUsage)
	for _, e := range expenses {
		totalAmount += e.Amount
		usage, ok := categories[e.Category]
		if !ok {
			usage = &CategoryUsage{}
			categories[e.Category] = usage
		}
		usage.Count++
		usage.Amount += e.Amount
	}

	recent := expenses
	if len(recent) > 5 {
		recent = recent[:5]
	}

	Success(c, gin.H{
		"total_expenses":  len(expenses),
		"total_amount":    totalAmount,
		"categories":      categories,
		"recent_expenses": recent,
	})
}

// GetVisualizationData returns pie chart and trend series for a period.
// @Summary Chart data
// @Tags stats
// @Produce json
// @Param period query string false "week, month or year" default(month)
// @Success 200 {object} Response
// @Failure 401 {object} Response "not logged in"
// @Router /api/visualization/data [get]
func (h *StatsHandler) GetVisualizationData(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	period := c.DefaultQuery("period", "month")
	if period != "week" && period != "month" && period != "year" {
		period = "month"
	}

	now := h.now()
	var cutoff time.Time
	switch period {
	case "week":
		cutoff = now.AddDate(0, 0, -7)
	case "month":
		cutoff = now.AddDate(0, 0, -30)
	case "year":
		cutoff = now.AddDate(0, 0, -365)
	}

	var expenses []models.Expense
	if err := database.DB.
		Where("user_id = ? AND date >= ?", userID, cutoff.Format(models.DateLayout)).
		Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to generate visualization data"))
		return
	}

	pieData := make(map[string]float64)
	trendsData := make(map[string]float64)
	var totalAmount float64

	for _, e := range expenses {
		pieData[e.Category] += e.Amount
		if period == "year" {
			trendsData[e.Date.MonthKey()] += e.Amount
		} else {
			trendsData[e.Date.String()] += e.Amount
		}
		totalAmount += e.Amount
	}

	// stable slice order for the chart legend
	pieCategories := make([]string, 0, len(pieData))
	for cat := range pieData {
		pieCategories = append(pieCategories, cat)
	}
	sort.Slice(pieCategories, func(i, j int) bool {
		return pieData[pieCategories[i]] > pieData[pieCategories[j]]
	})

	pieChart := []PieSlice{}
	for i, cat := range pieCategories {
		amount := pieData[cat]
		percentage := 0.0
		if totalAmount > 0 {
			percentage = amount / totalAmount * 100
		}
		pieChart = append(pieChart, PieSlice{
			Label:      cat,
			Value:      amount,
			Percentage: percentage,
			Color:      chartColors[i%len(chartColors)],
		})
	}

	trends := h.buildTrends(period, now, trendsData)

	Success(c, gin.H{
		"pie_chart":          pieChart,
		"trends":             trends,
		"category_breakdown": pieData,
		"total_amount":       totalAmount,
		"period":             period,
	})
}

// buildTrends renders the trend series with gaps filled: daily points for
// week/month views, monthly points across the current year for the year
// view.
func (h *StatsHandler) buildTrends(period string, now time.Time, trendsData map[string]float64) []TrendPoint {
	trends := []TrendPoint{}

	switch period {
	case "week", "month":
		days := 7
		if period == "month" {
			days = 30
		}
		start := now.AddDate(0, 0, -(days - 1))
		for d := 0; d < days; d++ {
			day := start.AddDate(0, 0, d)
			key := day.Format(models.DateLayout)
			label := day.Format("Mon 02")
			if period == "month" {
				label = day.Format("02")
			}
			trends = append(trends, TrendPoint{
				Period: key,
				Label:  label,
				Amount: trendsData[key],
			})
		}
	case "year":
		for m := time.January; m <= time.December; m++ {
			month := time.Date(now.Year(), m, 1, 0, 0, 0, 0, time.Local)
			key := month.Format("2006-01")
			trends = append(trends, TrendPoint{
				Period: key,
				Label:  month.Format("Jan"),
				Amount: trendsData[key],
			})
		}
	}

	return trends
}
