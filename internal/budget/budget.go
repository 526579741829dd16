// Package budget computes consumption status for budgets over their periods:
// amount spent, amount remaining, percentage used and an
// on-track/warning/exceeded state.
package budget

import (
	"math"
	"time"

	"github.com/AldyLoing/FinSight/internal/models"
	"github.com/AldyLoing/FinSight/internal/stats"

	"github.com/shopspring/decimal"
)

// Status represents the consumption state of a budget
type Status string

const (
	// StatusOnTrack means spending is below any alert threshold
	StatusOnTrack Status = "on_track"
	// StatusWarning means spending crossed the budget's alert threshold
	StatusWarning Status = "warning"
	// StatusExceeded means spending passed the budget total. Exceeded takes
	// priority over warning regardless of threshold.
	StatusExceeded Status = "exceeded"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// BudgetStatus is the derived consumption report for one budget. Remaining
// may be negative to signal overspend; callers display, the engine does not
// clamp. Percentage is +Inf when the budget total is zero and anything was
// spent.
type BudgetStatus struct {
	Budget     *models.Budget  `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
	Status     Status          `json:"status"`
}

// Violation flags a budget that is at or past its alert threshold
type Violation struct {
	Budget    *models.Budget  `json:"budget"`
	Overspent decimal.Decimal `json:"overspent"`
	Severity  models.Severity `json:"severity"`
}

// Config holds tuning options for budget calculations
type Config struct {
	// SuggestionLookbackMonths is how many trailing whole months feed the
	// adaptive budget suggestion.
	SuggestionLookbackMonths int

	// SuggestionBuffer is the multiplier applied on top of average monthly
	// spend when suggesting a budget amount.
	SuggestionBuffer float64
}

// DefaultConfig returns the default budget configuration
func DefaultConfig() *Config {
	return &Config{
		SuggestionLookbackMonths: 3,
		SuggestionBuffer:         1.1,
	}
}

// Calculator computes budget statuses from transaction history
type Calculator struct {
	config *Config
}

// NewCalculator creates a Calculator with the given configuration
func NewCalculator(config *Config) *Calculator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Calculator{config: config}
}

// Status computes the consumption status of one budget against the full
// transaction and split history.
func (c *Calculator) Status(budget *models.Budget, transactions []*models.Transaction, splits []*models.TransactionSplit) *BudgetStatus {
	start := budget.StartDate
	end := budget.EffectiveEndDate()

	spent := spentInWindow(budget.CategoryID, transactions, splits, start, end)
	remaining := budget.TotalAmount.Sub(spent)

	var percentage float64
	switch {
	case budget.TotalAmount.IsPositive():
		percentage = spent.Div(budget.TotalAmount).InexactFloat64() * 100
	case spent.IsPositive():
		percentage = math.Inf(1)
	default:
		percentage = 0
	}

	status := StatusOnTrack
	if spent.GreaterThan(budget.TotalAmount) {
		status = StatusExceeded
	} else if budget.AlertThreshold != nil && percentage >= *budget.AlertThreshold*100 {
		status = StatusWarning
	}

	return &BudgetStatus{
		Budget:     budget,
		Spent:      spent,
		Remaining:  remaining,
		Percentage: percentage,
		Status:     status,
	}
}

// StatusAll computes statuses for every budget in input order
func (c *Calculator) StatusAll(budgets []*models.Budget, transactions []*models.Transaction, splits []*models.TransactionSplit) []*BudgetStatus {
	statuses := make([]*BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, c.Status(b, transactions, splits))
	}
	return statuses
}

/// SuggestAmount proposes a budget amount from trailing monthly spend: the
// average of the configured lookback months, with the configured buffer
// applied and rounded to a whole unit. A categoryID of nil suggests from all
// expense spend.
func (c *Calculator) SuggestAmount(categoryID *string, transactions []*models.Transaction, splits []*models.TransactionSplit, asOf time.Time) decimal.Decimal {
	months := c.config.SuggestionLookbackMonths
	if months <= 0 {
		return decimal.Zero
	}

	total := decimal.Zero
	for i := 0; i < months; i++ {
		monthStart := models.StartOfMonth(asOf.AddDate(0, -(i + 1), 0))
		monthEnd := models.EndOfMonth(monthStart)
		total = total.Add(spentInWindow(categoryID, transactions, splits, monthStart, monthEnd))
	}

	average := total.Div(decimal.NewFromInt(int64(months)))
	return average.Mul(decimal.NewFromFloat(c.config.SuggestionBuffer)).Round(0)
}

// CarryOver returns the amount rolled into the next period: the previous
// period's unspent remainder when carry-over is enabled, floored at zero.
func CarryOver(budget *models.Budget, previousRemaining decimal.Decimal) decimal.Decimal {
	if !budget.CarryOver {
		return decimal.Zero
	}
	if previousRemaining.IsNegative() {
		return decimal.Zero
	}
	return previousRemaining
}

// DetectViolations extracts the budgets in warning or exceeded state.
// Exceeded budgets are reported as critical, warned ones as warning.
func DetectViolations(statuses []*BudgetStatus) []Violation {
	var violations []Violation
	for _, s := range statuses {
		switch s.Status {
		case StatusExceeded:
			violations = append(violations, Violation{
				Budget:    s.Budget,
				Overspent: s.Spent.Sub(s.Budget.TotalAmount),
				Severity:  models.SeverityCritical,
			})
		case StatusWarning:
			violations = append(violations, Violation{
				Budget:    s.Budget,
				Overspent: decimal.Zero,
				Severity:  models.SeverityWarning,
			})
		}
	}
	return violations
}

// spentInWindow sums the spend attributable to the budget scope inside
// [start, end]. Category scopes sum absolute split amounts whose parent
// transaction is in-window; unscoped budgets sum absolute amounts of all
// expense transactions in-window.
func spentInWindow(categoryID *string, transactions []*models.Transaction, splits []*models.TransactionSplit, start, end time.Time) decimal.Decimal {
	if categoryID == nil {
		inWindow := make([]*models.Transaction, 0)
		for _, tx := range transactions {
			if tx.IsExpense() && !tx.OccurredAt.Before(start) && !tx.OccurredAt.After(end) {
				inWindow = append(inWindow, tx)
			}
		}
		return stats.SumBy(inWindow, func(tx *models.Transaction) decimal.Decimal {
			return tx.AbsAmount()
		})
	}

	byID := make(map[string]*models.Transaction, len(transactions))
	for _, tx := range transactions {
		byID[tx.ID] = tx
	}

	matched := make([]*models.TransactionSplit, 0)
	for _, s := range splits {
		if s.CategoryID == nil || *s.CategoryID != *categoryID {
			continue
		}
		tx, ok := byID[s.TransactionID]
		if !ok {
			continue
		}
		if tx.OccurredAt.Before(start) || tx.OccurredAt.After(end) {
			continue
		}
		matched = append(matched, s)
	}

	return stats.SumBy(matched, func(s *models.TransactionSplit) decimal.Decimal {
		return s.AbsAmount()
	})
}
