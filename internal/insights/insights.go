// Package insights derives observations from transaction history: spending
// anomalies, monthly spending trends, category overuse, and budgets at risk.
//
// Detectors are independent and pure; the engine runs them in a fixed order
// (anomaly, trend, overuse, budget risk) and concatenates their output, so
// detector ordering is stable run to run. Each insight carries the raw
// numbers behind it in its Details map.
package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/AldyLoing/FinSight/internal/budget"
	"github.com/AldyLoing/FinSight/internal/models"
	"github.com/AldyLoing/FinSight/internal/stats"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Config holds tuning thresholds for insight detection
type Config struct {
	// AnomalyLookbackDays bounds how far back merchant history reaches
	AnomalyLookbackDays int

	// AnomalyMinSamples is the smallest merchant history that supports a
	// z-score; smaller groups are skipped.
	AnomalyMinSamples int

	// AnomalyZScore is the z-score above which a transaction is anomalous
	AnomalyZScore float64

	// AnomalyCriticalZScore escalates an anomaly from info to warning
	AnomalyCriticalZScore float64

	// TrendMonths is how many trailing full months feed trend and overuse
	// detection. The current partial month is excluded.
	TrendMonths int

	// TrendChangePercent is the month-over-month change that registers as a
	// trend, in percent. Applied symmetrically: rises above it are flagged,
	// falls below its negative are praised.
	TrendChangePercent float64

	// TrendStrongChangePercent escalates a rising trend to a warning
	TrendStrongChangePercent float64

	// OveruseMonthlyAverage is the average monthly category spend above
	// which a review recommendation is emitted.
	OveruseMonthlyAverage decimal.Decimal

	// AsOf anchors "today"; the zero value means time.Now()
	AsOf time.Time
}

// DefaultConfig returns the default insight detection configuration
func DefaultConfig() *Config {
	return &Config{
		AnomalyLookbackDays:      90,
		AnomalyMinSamples:        3,
		AnomalyZScore:            2.5,
		AnomalyCriticalZScore:    3,
		TrendMonths:              3,
		TrendChangePercent:       15,
		TrendStrongChangePercent: 30,
		OveruseMonthlyAverage:    decimal.NewFromInt(500),
	}
}

// Engine runs all insight detectors
type Engine struct {
	config     *Config
	calculator *budget.Calculator
}

// NewEngine creates an Engine with the given configuration
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AnomalyLookbackDays <= 0 {
		config.AnomalyLookbackDays = DefaultConfig().AnomalyLookbackDays
	}
	if config.AnomalyMinSamples < 2 {
		config.AnomalyMinSamples = DefaultConfig().AnomalyMinSamples
	}
	if config.TrendMonths < 2 {
		config.TrendMonths = DefaultConfig().TrendMonths
	}
	return &Engine{
		config:     config,
		calculator: budget.NewCalculator(nil),
	}
}

func (e *Engine) asOf() time.Time {
	if e.config.AsOf.IsZero() {
		return time.Now()
	}
	return e.config.AsOf
}

// Generate runs every detector and returns the combined insights
func (e *Engine) Generate(transactions []*models.Transaction, splits []*models.TransactionSplit, budgets []*models.Budget) []*models.Insight {
	insights := make([]*models.Insight, 0)
	insights = append(insights, e.DetectAnomalies(transactions)...)
	insights = append(insights, e.DetectTrends(transactions)...)
	insights = append(insights, e.DetectCategoryOveruse(transactions, splits)...)
	insights = append(insights, e.DetectBudgetRisks(budgets, transactions, splits)...)
	return insights
}

// DetectAnomalies flags each merchant's most recent expense when its
// magnitude sits far outside that merchant's trailing history. Merchants
// with fewer than AnomalyMinSamples expenses in the window, or without a
// name, are skipped. The outlier itself is part of the baseline, so small
// histories mute the signal rather than amplify it.
func (e *Engine) DetectAnomalies(transactions []*models.Transaction) []*models.Insight {
	cutoff := e.asOf().AddDate(0, 0, -e.config.AnomalyLookbackDays)

	expenses := make([]*models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.IsExpense() && tx.MerchantName() != "" && !tx.OccurredAt.Before(cutoff) {
			expenses = append(expenses, tx)
		}
	}

	byMerchant := stats.GroupBy(expenses, func(tx *models.Transaction) string {
		return tx.MerchantName()
	})

	insights := make([]*models.Insight, 0)
	for merchant, group := range byMerchant {
		if len(group) < e.config.AnomalyMinSamples {
			continue
		}

		latest := group[0]
		for _, tx := range group[1:] {
			if tx.OccurredAt.After(latest.OccurredAt) {
				latest = tx
			}
		}

		amounts := make([]float64, 0, len(group))
		for _, tx := range group {
			amounts = append(amounts, tx.AbsAmount().InexactFloat64())
		}
		summary := stats.Summarize(amounts)
		z := stats.ZScore(latest.AbsAmount().InexactFloat64(), summary.Mean, summary.StdDev)
		if z <= e.config.AnomalyZScore {
			continue
		}

		severity := models.SeverityInfo
		if z > e.config.AnomalyCriticalZScore {
			severity = models.SeverityWarning
		}

		insights = append(insights, e.newInsight(
			models.InsightTypeAnomaly,
			severity,
			fmt.Sprintf("Unusual spending at %s", merchant),
			fmt.Sprintf("A recent charge of %s at %s is well above your usual %s there",
				latest.AbsAmount().StringFixed(2), merchant, decimal.NewFromFloat(summary.Mean).StringFixed(2)),
			map[string]interface{}{
				"merchant":          merchant,
				"transaction_id":    latest.ID,
				"latest_amount":     latest.AbsAmount().InexactFloat64(),
				"average_amount":    summary.Mean,
				"z_score":           z,
				"transaction_count": len(group),
			},
		))
	}

	// Map iteration order is random; pin the output order.
	sortInsightsByTitle(insights)
	return insights
}

// DetectTrends buckets total expense spend into the previous TrendMonths
// full calendar months and compares the most recent full month against the
// oldest. Rises past the change threshold register as warnings or info,
// falls past it as positive insights. A spend-free oldest month gives no
// baseline and no insight.
func (e *Engine) DetectTrends(transactions []*models.Transaction) []*models.Insight {
	now := e.asOf()
	months := e.config.TrendMonths

	monthly := make([]decimal.Decimal, 0, months)
	for i := 1; i <= months; i++ {
		monthStart := models.StartOfMonth(now.AddDate(0, -i, 0))
		monthEnd := monthStart.AddDate(0, 1, 0)

		total := decimal.Zero
		for _, tx := range transactions {
			if tx.IsExpense() && !tx.OccurredAt.Before(monthStart) && tx.OccurredAt.Before(monthEnd) {
				total = total.Add(tx.AbsAmount())
			}
		}
		monthly = append(monthly, total)
	}

	newest := monthly[0]
	oldest := monthly[len(monthly)-1]
	if !oldest.IsPositive() {
		return nil
	}

	changePercent := newest.Sub(oldest).Div(oldest).InexactFloat64() * 100
	breakdown := make([]float64, 0, len(monthly))
	for _, amount := range monthly {
		breakdown = append(breakdown, amount.InexactFloat64())
	}
	details := map[string]interface{}{
		"change_percent":    changePercent,
		"monthly_breakdown": breakdown,
		"latest_month":      newest.InexactFloat64(),
		"oldest_month":      oldest.InexactFloat64(),
	}

	switch {
	case changePercent > e.config.TrendChangePercent:
		severity := models.SeverityInfo
		if changePercent > e.config.TrendStrongChangePercent {
			severity = models.SeverityWarning
		}
		return []*models.Insight{e.newInsight(
			models.InsightTypeTrend,
			severity,
			"Growing monthly spending",
			fmt.Sprintf("Your spending increased by %.1f%% over the past %d months", changePercent, months),
			details,
		)}
	case changePercent < -e.config.TrendChangePercent:
		return []*models.Insight{e.newInsight(
			models.InsightTypeTrend,
			models.SeverityPositive,
			"Decreasing monthly spending",
			fmt.Sprintf("Your spending decreased by %.1f%% over the past %d months", -changePercent, months),
			details,
		)}
	}
	return nil
}

// DetectCategoryOveruse sums split amounts per category over the trailing
// TrendMonths window and recommends reviewing categories whose monthly
// average exceeds the configured level. Splits without a category, or whose
// parent transaction falls outside the window, are ignored.
func (e *Engine) DetectCategoryOveruse(transactions []*models.Transaction, splits []*models.TransactionSplit) []*models.Insight {
	now := e.asOf()
	months := e.config.TrendMonths
	windowStart := models.StartOfMonth(now.AddDate(0, -months, 0))

	byID := make(map[string]*models.Transaction, len(transactions))
	for _, tx := range transactions {
		byID[tx.ID] = tx
	}

	recent := make([]*models.TransactionSplit, 0)
	for _, split := range splits {
		if split.CategoryID == nil {
			continue
		}
		parent, ok := byID[split.TransactionID]
		if !ok || parent.OccurredAt.Before(windowStart) {
			continue
		}
		recent = append(recent, split)
	}

	byCategory := stats.GroupBy(recent, func(s *models.TransactionSplit) string {
		return *s.CategoryID
	})

	monthCount := decimal.NewFromInt(int64(months))
	insights := make([]*models.Insight, 0)
	for categoryID, group := range byCategory {
		total := stats.SumBy(group, func(s *models.TransactionSplit) decimal.Decimal {
			return s.Amount.Abs()
		})
		monthlyAverage := total.Div(monthCount)
		if !monthlyAverage.GreaterThan(e.config.OveruseMonthlyAverage) {
			continue
		}

		insights = append(insights, e.newInsight(
			models.InsightTypeRecommendation,
			models.SeverityInfo,
			fmt.Sprintf("High spending in category %s", categoryID),
			fmt.Sprintf("You're spending an average of %s per month in this category; consider setting a budget",
				monthlyAverage.StringFixed(2)),
			map[string]interface{}{
				"category_id":       categoryID,
				"total_spent":       total.InexactFloat64(),
				"avg_per_month":     monthlyAverage.InexactFloat64(),
				"transaction_count": len(group),
			},
		))
	}

	sortInsightsByTitle(insights)
	return insights
}

// DetectBudgetRisks surfaces budgets that are exceeded or past their alert
// threshold, in budget order.
func (e *Engine) DetectBudgetRisks(budgets []*models.Budget, transactions []*models.Transaction, splits []*models.TransactionSplit) []*models.Insight {
	statuses := e.calculator.StatusAll(budgets, transactions, splits)

	insights := make([]*models.Insight, 0)
	for _, status := range statuses {
		details := map[string]interface{}{
			"budget_id":   status.Budget.ID,
			"budget_name": status.Budget.Name,
			"allocated":   status.Budget.TotalAmount.InexactFloat64(),
			"spent":       status.Spent.InexactFloat64(),
			"percentage":  status.Percentage,
		}

		switch status.Status {
		case budget.StatusExceeded:
			details["overspent"] = status.Spent.Sub(status.Budget.TotalAmount).InexactFloat64()
			insights = append(insights, e.newInsight(
				models.InsightTypeBudget,
				models.SeverityCritical,
				fmt.Sprintf("Budget exceeded: %s", status.Budget.Name),
				fmt.Sprintf("You've spent %s of %s (%.0f%%)",
					status.Spent.StringFixed(2), status.Budget.TotalAmount.StringFixed(2), status.Percentage),
				details,
			))
		case budget.StatusWarning:
			insights = append(insights, e.newInsight(
				models.InsightTypeBudget,
				models.SeverityWarning,
				fmt.Sprintf("Budget nearly used up: %s", status.Budget.Name),
				fmt.Sprintf("You've spent %.0f%% of budget %s", status.Percentage, status.Budget.Name),
				details,
			))
		}
	}
	return insights
}

func (e *Engine) newInsight(insightType models.InsightType, severity models.Severity, title, summary string, details map[string]interface{}) *models.Insight {
	return &models.Insight{
		ID:        uuid.NewString(),
		Type:      insightType,
		Title:     title,
		Summary:   summary,
		Details:   details,
		Severity:  severity,
		CreatedAt: e.asOf(),
	}
}

func sortInsightsByTitle(insights []*models.Insight) {
	sort.Slice(insights, func(i, j int) bool {
		return insights[i].Title < insights[j].Title
	})
}
