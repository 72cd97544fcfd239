package service

import (
	"context"
	"testing"
	"time"

	"github.com/Shr3y4sm/SpendSmart/config"
	"github.com/Shr3y4sm/SpendSmart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var insightsTestNow = time.Date(2025, 8, 20, 12, 0, 0, 0, time.Local)

func newTestInsights() *InsightsGenerator {
	g := NewInsightsGenerator(&config.AIConfig{Enabled: false})
	g.now = func() time.Time { return insightsTestNow }
	return g
}

func expense(item, category string, amount float64, daysAgo int) models.Expense {
	return models.Expense{
		Item:     item,
		Category: category,
		Amount:   amount,
		Date:     models.NewDate(insightsTestNow.AddDate(0, 0, -daysAgo)),
	}
}

func TestGenerateInsights_Empty(t *testing.T) {
	g := newTestInsights()

	report := g.GenerateInsights(context.Background(), nil, "month")

	assert.Zero(t, report.Analytics.TotalAmount)
	assert.NotEmpty(t, report.Insights)
	assert.NotEmpty(t, report.Recommendations)
	assert.Empty(t, report.Alerts)
}

func TestGenerateInsights_Analytics(t *testing.T) {
	g := newTestInsights()

	expenses := []models.Expense{
		expense("groceries", models.CategoryFood, 200, 1),
		expense("dinner", models.CategoryFood, 100, 2),
		expense("bus pass", models.CategoryTransport, 50, 3),
	}

	report := g.GenerateInsights(context.Background(), expenses, "month")

	assert.Equal(t, 350.0, report.Analytics.TotalAmount)
	assert.Equal(t, 3, report.Analytics.TotalExpenses)
	assert.Equal(t, 300.0, report.Analytics.CategoryBreakdown[models.CategoryFood])
	assert.InDelta(t, 85.7, report.Analytics.CategoryPercentages[models.CategoryFood], 0.1)
	require.NotEmpty(t, report.Analytics.TopCategories)
	assert.Equal(t, models.CategoryFood, report.Analytics.TopCategories[0].Category)
	assert.NotEmpty(t, report.Insights)
}

func TestGenerateInsights_PeriodFilter(t *testing.T) {
	g := newTestInsights()

	expenses := []models.Expense{
		expense("recent coffee", models.CategoryFood, 10, 2),
		expense("old furniture", models.CategoryShopping, 500, 60),
	}

	week := g.GenerateInsights(context.Background(), expenses, "week")
	assert.Equal(t, 10.0, week.Analytics.TotalAmount)

	all := g.GenerateInsights(context.Background(), expenses, "all")
	assert.Equal(t, 510.0, all.Analytics.TotalAmount)
}

func TestGenerateInsights_HighSpendingAlert(t *testing.T) {
	g := newTestInsights()

	expenses := []models.Expense{
		expense("rent", models.CategoryBills, 1500, 1),
	}

	report := g.GenerateInsights(context.Background(), expenses, "month")

	require.NotEmpty(t, report.Alerts)
	types := []string{}
	for _, a := range report.Alerts {
		types = append(types, a.Type)
	}
	assert.Contains(t, types, "warning")
	assert.Contains(t, types, "info")
}

func TestSpendingTrends_Increasing(t *testing.T) {
	g := newTestInsights()

	expenses := []models.Expense{
		expense("a", models.CategoryFood, 10, 8),
		expense("b", models.CategoryFood, 10, 6),
		expense("c", models.CategoryFood, 50, 3),
		expense("d", models.CategoryFood, 60, 1),
	}

	report := g.SpendingTrends(expenses, 30)

	assert.Equal(t, "increasing", report.Trend)
	assert.Equal(t, 20.0, report.FirstHalfTotal)
	assert.Equal(t, 110.0, report.SecondHalfTotal)
	assert.Greater(t, report.Change, 10.0)
}

func TestSpendingTrends_Decreasing(t *testing.T) {
	g := newTestInsights()

	expenses := []models.Expense{
		expense("a", models.CategoryFood, 100, 8),
		expense("b", models.CategoryFood, 100, 6),
		expense("c", models.CategoryFood, 10, 3),
		expense("d", models.CategoryFood, 10, 1),
	}

	report := g.SpendingTrends(expenses, 30)

	assert.Equal(t, "decreasing", report.Trend)
	assert.Less(t, report.Change, -10.0)
}

func TestSpendingTrends_Stable(t *testing.T) {
	g := newTestInsights()

	expenses := []models.Expense{
		expense("a", models.CategoryFood, 50, 8),
		expense("b", models.CategoryFood, 52, 1),
	}

	report := g.SpendingTrends(expenses, 30)

	assert.Equal(t, "stable", report.Trend)
}

func TestSpendingTrends_InsufficientData(t *testing.T) {
	g := newTestInsights()

	report := g.SpendingTrends(nil, 30)
	assert.Equal(t, "stable", report.Trend)
	assert.Equal(t, "Insufficient data for trend analysis", report.Message)

	// a single day of data is still insufficient
	report = g.SpendingTrends([]models.Expense{expense("a", models.CategoryFood, 10, 1)}, 30)
	assert.Equal(t, "stable", report.Trend)
}

func TestSpendingTrends_OldExpensesExcluded(t *testing.T) {
	g := newTestInsights()

	expenses := []models.Expense{
		expense("outside window", models.CategoryFood, 1000, 40),
		expense("a", models.CategoryFood, 10, 5),
		expense("b", models.CategoryFood, 12, 1),
	}

	report := g.SpendingTrends(expenses, 30)

	assert.Equal(t, 10.0, report.FirstHalfTotal)
	assert.Equal(t, 12.0, report.SecondHalfTotal)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.2345))
	assert.Equal(t, -1.23, round2(-1.2345))
	assert.Equal(t, 0.0, round2(0))
}
