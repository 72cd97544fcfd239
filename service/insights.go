package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/Shr3y4sm/SpendSmart/config"
	"github.com/Shr3y4sm/SpendSmart/models"
)

// SpendingAnalytics summarizes spending over a period.
type SpendingAnalytics struct {
	TotalAmount         float64            `json:"total_amount"`
	TotalExpenses       int                `json:"total_expenses"`
	CategoryBreakdown   map[string]float64 `json:"category_breakdown"`
	CategoryPercentages map[string]float64 `json:"category_percentages"`
	CategoryCounts      map[string]int     `json:"category_counts"`
	DailySpending       map[string]float64 `json:"daily_spending"`
	AvgDailySpending    float64            `json:"avg_daily_spending"`
	TopCategories       []CategoryTotal    `json:"top_categories"`
	Period              string             `json:"period"`
}

// CategoryTotal pairs a category with its spend.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// InsightsReport is the full payload of the insights endpoint.
type InsightsReport struct {
	Analytics       SpendingAnalytics `json:"analytics"`
	Insights        []string          `json:"insights"`
	Recommendations []string          `json:"recommendations"`
	Patterns        []string          `json:"patterns"`
	Alerts          []SpendingAlert   `json:"alerts"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// SpendingAlert flags a notable spending pattern.
type SpendingAlert struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// TrendReport compares the first and second half of a date range.
type TrendReport struct {
	Trend           string  `json:"trend"`
	Change          float64 `json:"change"`
	Message         string  `json:"message"`
	FirstHalfTotal  float64 `json:"first_half_total,omitempty"`
	SecondHalfTotal float64 `json:"second_half_total,omitempty"`
}

// InsightsGenerator produces spending analytics and, when the AI backend is
// configured, a narrative on top of them. Without a backend it degrades to
// rule-based insights; it never fails.
type InsightsGenerator struct {
	categorizer *Categorizer
	now         func() time.Time
}

// NewInsightsGenerator creates an insights generator sharing the
// categorizer's AI client.
func NewInsightsGenerator(cfg *config.AIConfig) *InsightsGenerator {
	return &InsightsGenerator{
		categorizer: NewCategorizer(cfg),
		now:         time.Now,
	}
}

// Enabled reports whether the AI backend is configured.
func (g *InsightsGenerator) Enabled() bool {
	return g.categorizer.Enabled()
}

// GenerateInsights analyzes expenses for a period ("week", "month" or
// "all").
func (g *InsightsGenerator) GenerateInsights(ctx context.Context, expenses []models.Expense, period string) InsightsReport {
	filtered := g.filterByPeriod(expenses, period)
	if len(filtered) == 0 {
		return g.emptyReport(period)
	}

	analytics := g.calculateAnalytics(filtered, period)

	report := InsightsReport{
		Analytics:   analytics,
		Alerts:      g.spendingAlerts(analytics),
		GeneratedAt: g.now(),
	}

	if g.Enabled() {
		if narrative, err := g.narrativeAI(ctx, analytics, period); err == nil {
			report.Insights = narrative.Insights
			report.Recommendations = narrative.Recommendations
			report.Patterns = narrative.Patterns
			return report
		} else {
			log.Printf("ai insights failed, using rule-based fallback: %v", err)
		}
	}

	fallback := g.fallbackNarrative(analytics)
	report.Insights = fallback.Insights
	report.Recommendations = fallback.Recommendations
	report.Patterns = fallback.Patterns
	return report
}

// SpendingTrends compares the first and second half of the daily series.
func (g *InsightsGenerator) SpendingTrends(expenses []models.Expense, days int) TrendReport {
	if days <= 0 {
		days = 30
	}
	cutoff := models.NewDate(g.now().AddDate(0, 0, -days))

	daily := make(map[string]float64)
	for _, e := range expenses {
		if e.Date.Before(cutoff.Time) {
			continue
		}
		daily[e.Date.String()] += e.Amount
	}

	if len(daily) < 2 {
		return TrendReport{Trend: "stable", Change: 0, Message: "Insufficient data for trend analysis"}
	}

	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	mid := len(dates) / 2
	var firstHalf, secondHalf float64
	for _, d := range dates[:mid] {
		firstHalf += daily[d]
	}
	for _, d := range dates[mid:] {
		secondHalf += daily[d]
	}

	var change float64
	if firstHalf == 0 {
		if secondHalf > 0 {
			change = 100
		}
	} else {
		change = (secondHalf - firstHalf) / firstHalf * 100
	}

	report := TrendReport{
		Change:          round2(change),
		FirstHalfTotal:  round2(firstHalf),
		SecondHalfTotal: round2(secondHalf),
	}
	switch {
	case change > 10:
		report.Trend = "increasing"
		report.Message = fmt.Sprintf("Spending increased by %.1f%%", change)
	case change < -10:
		report.Trend = "decreasing"
		report.Message = fmt.Sprintf("Spending decreased by %.1f%%", -change)
	default:
		report.Trend = "stable"
		report.Message = fmt.Sprintf("Spending is relatively stable (%.1f%% change)", change)
	}
	return report
}

func (g *InsightsGenerator) filterByPeriod(expenses []models.Expense, period string) []models.Expense {
	var cutoff time.Time
	switch period {
	case "week":
		cutoff = g.now().AddDate(0, 0, -7)
	case "month":
		cutoff = g.now().AddDate(0, 0, -30)
	default: // all
		return expenses
	}

	start := models.NewDate(cutoff)
	var filtered []models.Expense
	for _, e := range expenses {
		if !e.Date.Before(start.Time) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func (g *InsightsGenerator) calculateAnalytics(expenses []models.Expense, period string) SpendingAnalytics {
	analytics := SpendingAnalytics{
		CategoryBreakdown:   make(map[string]float64),
		CategoryPercentages: make(map[string]float64),
		CategoryCounts:      make(map[string]int),
		DailySpending:       make(map[string]float64),
		Period:              period,
		TotalExpenses:       len(expenses),
	}

	for _, e := range expenses {
		analytics.TotalAmount += e.Amount
		analytics.CategoryBreakdown[e.Category] += e.Amount
		analytics.CategoryCounts[e.Category]++
		analytics.DailySpending[e.Date.String()] += e.Amount
	}

	for category, amount := range analytics.CategoryBreakdown {
		if analytics.TotalAmount > 0 {
			analytics.CategoryPercentages[category] = amount / analytics.TotalAmount * 100
		}
		analytics.TopCategories = append(analytics.TopCategories, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(analytics.TopCategories, func(i, j int) bool {
		return analytics.TopCategories[i].Amount > analytics.TopCategories[j].Amount
	})
	if len(analytics.TopCategories) > 3 {
		analytics.TopCategories = analytics.TopCategories[:3]
	}

	if len(analytics.DailySpending) > 0 {
		analytics.AvgDailySpending = round2(analytics.TotalAmount / float64(len(analytics.DailySpending)))
	}
	analytics.TotalAmount = round2(analytics.TotalAmount)

	return analytics
}

type narrative struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
	Patterns        []string `json:"patterns"`
}

func (g *InsightsGenerator) narrativeAI(ctx context.Context, analytics SpendingAnalytics, period string) (narrative, error) {
	topParts := ""
	for _, tc := range analytics.TopCategories {
		pct := analytics.CategoryPercentages[tc.Category]
		topParts += fmt.Sprintf("%s: %.1f%%, ", tc.Category, pct)
	}
	breakdown, _ := json.Marshal(analytics.CategoryPercentages)

	prompt := fmt.Sprintf(`Analyze this spending data for the past %s and provide CONCISE financial insights:

Total Spending: $%.2f
Average Daily Spending: $%.2f
Top Categories: %s

Category Breakdown:
%s

IMPORTANT: Keep each point under 100 characters. Be brief and direct.

Provide:
1. 2-3 SHORT key insights (what stands out in spending)
2. 2-3 BRIEF actionable recommendations (how to improve)
3. 1-2 CONCISE patterns (spending behaviors)

Respond in JSON format:
{"insights": ["..."], "recommendations": ["..."], "patterns": ["..."]}`,
		period, analytics.TotalAmount, analytics.AvgDailySpending, topParts, breakdown)

	content, err := g.categorizer.chatCompletion(ctx, prompt)
	if err != nil {
		return narrative{}, err
	}

	jsonStr, err := extractJSON(content, '{', '}')
	if err != nil {
		return narrative{}, err
	}
	var n narrative
	if err := json.Unmarshal([]byte(jsonStr), &n); err != nil {
		return narrative{}, fmt.Errorf("parse ai insights: %w", err)
	}
	if len(n.Insights) == 0 && len(n.Recommendations) == 0 && len(n.Patterns) == 0 {
		return narrative{}, fmt.Errorf("ai insights response was empty")
	}
	return n, nil
}

// fallbackNarrative derives insights from the analytics alone.
func (g *InsightsGenerator) fallbackNarrative(analytics SpendingAnalytics) narrative {
	var n narrative

	if len(analytics.TopCategories) > 0 {
		top := analytics.TopCategories[0]
		n.Insights = append(n.Insights, fmt.Sprintf("You spent %.1f%% of your budget on %s this %s.",
			analytics.CategoryPercentages[top.Category], top.Category, analytics.Period))
		n.Patterns = append(n.Patterns, fmt.Sprintf("Your highest spending category is %s.", top.Category))
	}
	if analytics.TotalAmount > 0 {
		n.Insights = append(n.Insights, fmt.Sprintf("Total spending: $%.2f across %d transactions.",
			analytics.TotalAmount, analytics.TotalExpenses))
	}
	if pct, ok := analytics.CategoryPercentages[models.CategoryFood]; ok && pct > 40 {
		n.Recommendations = append(n.Recommendations, "Consider reducing dining out expenses by cooking more meals at home.")
	}
	if analytics.TotalAmount > 500 {
		n.Recommendations = append(n.Recommendations, "Review your spending to identify areas where you can save money.")
	}

	return n
}

func (g *InsightsGenerator) spendingAlerts(analytics SpendingAnalytics) []SpendingAlert {
	var alerts []SpendingAlert

	if analytics.TotalAmount > 1000 {
		alerts = append(alerts, SpendingAlert{
			Type:     "warning",
			Message:  fmt.Sprintf("High spending detected: $%.2f this period", analytics.TotalAmount),
			Severity: "medium",
		})
	}
	for category, pct := range analytics.CategoryPercentages {
		if pct > 50 {
			alerts = append(alerts, SpendingAlert{
				Type:     "info",
				Message:  fmt.Sprintf("%s represents %.1f%% of your spending", category, pct),
				Severity: "low",
			})
		}
	}
	return alerts
}

func (g *InsightsGenerator) emptyReport(period string) InsightsReport {
	return InsightsReport{
		Analytics: SpendingAnalytics{
			CategoryBreakdown:   map[string]float64{},
			CategoryPercentages: map[string]float64{},
			CategoryCounts:      map[string]int{},
			DailySpending:       map[string]float64{},
			Period:              period,
		},
		Insights:        []string{"No spending data available for analysis"},
		Recommendations: []string{"Start tracking your expenses to get personalized insights"},
		Patterns:        []string{"No patterns detected - add some expenses to see insights"},
		Alerts:          []SpendingAlert{},
		GeneratedAt:     g.now(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
