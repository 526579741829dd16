// Package forecast projects future account balances from historical
// income and expense velocity.
//
// The projection is deliberately simple: average daily net flow over a
// fixed trailing window, applied day by day across the horizon. Per-day
// confidence decays linearly toward a floor as the day index approaches the
// horizon; it is a display heuristic, not a statistical interval.
package forecast

import (
	"math"
	"time"

	"github.com/AldyLoing/FinSight/internal/models"
	"github.com/AldyLoing/FinSight/internal/stats"

	"github.com/shopspring/decimal"
)

// RiskLevel classifies a forecast by its minimum projected balance
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// String returns the string representation of RiskLevel
func (r RiskLevel) String() string {
	return string(r)
}

// DailyPoint is one projected day of the forecast
type DailyPoint struct {
	Date             time.Time       `json:"date"`
	PredictedBalance decimal.Decimal `json:"predicted_balance"`
	Confidence       float64         `json:"confidence"`
}

// Summary aggregates the forecast outcome
type Summary struct {
	StartingBalance decimal.Decimal `json:"starting_balance"`
	AvgDailyIncome  decimal.Decimal `json:"avg_daily_income"`
	AvgDailyExpense decimal.Decimal `json:"avg_daily_expense"`
	AvgDailyNet     decimal.Decimal `json:"avg_daily_net"`
	HorizonDays     int             `json:"horizon_days"`
	RiskLevel       RiskLevel       `json:"risk_level"`
	MinBalance      decimal.Decimal `json:"min_balance"`
	MaxBalance      decimal.Decimal `json:"max_balance"`
	EndBalance      decimal.Decimal `json:"end_balance"`
}

// Scenarios holds endpoint extrapolations under shifted net flow. These are
// not full re-simulations: optimistic and pessimistic scale the average net
// by ±20% and extrapolate straight to the horizon.
type Scenarios struct {
	Optimistic  decimal.Decimal `json:"optimistic"`
	Realistic   decimal.Decimal `json:"realistic"`
	Pessimistic decimal.Decimal `json:"pessimistic"`
}

// Details carries the per-day projection and scenario endpoints
type Details struct {
	DailyPoints []DailyPoint `json:"daily_points"`
	Scenarios   Scenarios    `json:"scenarios"`
}

// Forecast is the complete cash-flow projection
type Forecast struct {
	HorizonDays int     `json:"horizon_days"`
	Summary     Summary `json:"summary"`
	Details     Details `json:"details"`
}

// EndOfMonthPrediction estimates the balance at the end of the current month
type EndOfMonthPrediction struct {
	PredictedBalance decimal.Decimal `json:"predicted_balance"`
	Confidence       float64         `json:"confidence"`
	DaysRemaining    int             `json:"days_remaining"`
}

// Config holds tuning options for forecasting
type Config struct {
	// HorizonDays is how many future days to project
	HorizonDays int

	// LookbackDays is the fixed trailing window that feeds the velocity
	// averages, independent of the requested horizon.
	LookbackDays int

	// ConfidenceFloor bounds how low per-day confidence may decay
	ConfidenceFloor float64

	// AsOf anchors "today"; the zero value means time.Now()
	AsOf time.Time
}

// DefaultConfig returns the default forecast configuration
func DefaultConfig() *Config {
	return &Config{
		HorizonDays:     90,
		LookbackDays:    90,
		ConfidenceFloor: 0.5,
	}
}

// Forecaster projects future balances from transaction history
type Forecaster struct {
	config *Config
}

// NewForecaster creates a Forecaster with the given configuration
func NewForecaster(config *Config) *Forecaster {
	if config == nil {
		config = DefaultConfig()
	}
	if config.HorizonDays <= 0 {
		config.HorizonDays = DefaultConfig().HorizonDays
	}
	if config.LookbackDays <= 0 {
		config.LookbackDays = DefaultConfig().LookbackDays
	}
	return &Forecaster{config: config}
}

func (f *Forecaster) asOf() time.Time {
	if f.config.AsOf.IsZero() {
		return time.Now()
	}
	return f.config.AsOf
}

// Project builds a day-by-day balance forecast across the configured
// horizon. The starting balance is the sum of non-archived, non-hidden
// account balances; velocity comes from the trailing lookback window.
func (f *Forecaster) Project(transactions []*models.Transaction, accounts []*models.Account) *Forecast {
	now := f.asOf()
	horizon := f.config.HorizonDays
	lookback := decimal.NewFromInt(int64(f.config.LookbackDays))
	cutoff := now.AddDate(0, 0, -f.config.LookbackDays)

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, tx := range transactions {
		if tx.OccurredAt.Before(cutoff) {
			continue
		}
		if tx.IsIncome() {
			totalIncome = totalIncome.Add(tx.Amount)
		} else if tx.IsExpense() {
			totalExpense = totalExpense.Add(tx.AbsAmount())
		}
	}

	avgDailyIncome := totalIncome.Div(lookback)
	avgDailyExpense := totalExpense.Div(lookback)
	avgDailyNet := avgDailyIncome.Sub(avgDailyExpense)

	active := make([]*models.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.IsActive() {
			active = append(active, a)
		}
	}
	startingBalance := stats.SumBy(active, func(a *models.Account) decimal.Decimal {
		return a.Balance
	})

	balance := startingBalance
	minBalance := startingBalance
	maxBalance := startingBalance
	points := make([]DailyPoint, 0, horizon)

	for day := 1; day <= horizon; day++ {
		balance = balance.Add(avgDailyNet)

		confidence := 1 - float64(day)/float64(horizon)*0.5
		if confidence < f.config.ConfidenceFloor {
			confidence = f.config.ConfidenceFloor
		}

		points = append(points, DailyPoint{
			Date:             now.AddDate(0, 0, day),
			PredictedBalance: balance.Round(2),
			Confidence:       confidence,
		})

		if balance.LessThan(minBalance) {
			minBalance = balance
		}
		if balance.GreaterThan(maxBalance) {
			maxBalance = balance
		}
	}

	endBalance := startingBalance
	if len(points) > 0 {
		endBalance = points[len(points)-1].PredictedBalance
	}

	horizonDec := decimal.NewFromInt(int64(horizon))
	optimistic := startingBalance.Add(avgDailyNet.Mul(decimal.NewFromFloat(1.2)).Mul(horizonDec))
	pessimistic := startingBalance.Add(avgDailyNet.Mul(decimal.NewFromFloat(0.8)).Mul(horizonDec))

	return &Forecast{
		HorizonDays: horizon,
		Summary: Summary{
			StartingBalance: startingBalance,
			AvgDailyIncome:  avgDailyIncome.Round(2),
			AvgDailyExpense: avgDailyExpense.Round(2),
			AvgDailyNet:     avgDailyNet.Round(2),
			HorizonDays:     horizon,
			RiskLevel:       classifyRisk(minBalance, startingBalance),
			MinBalance:      minBalance.Round(2),
			MaxBalance:      maxBalance.Round(2),
			EndBalance:      endBalance,
		},
		Details: Details{
			DailyPoints: points,
			Scenarios: Scenarios{
				Optimistic:  optimistic.Round(2),
				Realistic:   endBalance,
				Pessimistic: pessimistic.Round(2),
			},
		},
	}
}

// PredictEndOfMonth forecasts the balance at the end of the current
// calendar month. Confidence shrinks with the number of days left.
func (f *Forecaster) PredictEndOfMonth(transactions []*models.Transaction, accounts []*models.Account) *EndOfMonthPrediction {
	now := f.asOf()
	endOfMonth := models.EndOfMonth(now)
	daysRemaining := int(math.Ceil(endOfMonth.Sub(now).Hours() / 24))
	if daysRemaining < 1 {
		daysRemaining = 1
	}

	scoped := NewForecaster(&Config{
		HorizonDays:     daysRemaining,
		LookbackDays:    f.config.LookbackDays,
		ConfidenceFloor: f.config.ConfidenceFloor,
		AsOf:            now,
	})
	projection := scoped.Project(transactions, accounts)

	confidence := 1 - float64(daysRemaining)/30*0.4
	if confidence < 0.6 {
		confidence = 0.6
	}

	return &EndOfMonthPrediction{
		PredictedBalance: projection.Summary.EndBalance,
		Confidence:       confidence,
		DaysRemaining:    daysRemaining,
	}
}

// classifyRisk grades a forecast by how close the minimum projected balance
// comes to zero relative to the starting balance.
func classifyRisk(minBalance, startingBalance decimal.Decimal) RiskLevel {
	switch {
	case minBalance.IsNegative():
		return RiskCritical
	case minBalance.LessThan(startingBalance.Mul(decimal.NewFromFloat(0.1))):
		return RiskHigh
	case minBalance.LessThan(startingBalance.Mul(decimal.NewFromFloat(0.3))):
		return RiskMedium
	default:
		return RiskLow
	}
}
