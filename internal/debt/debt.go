// Package debt amortizes debts under simple monthly interest and simulates
// multi-debt payoff strategies.
//
// Every simulation is bounded by a hard iteration ceiling (600 months by
// default). The ceiling is a termination guarantee, not a business rule:
// when a payment does not cover accrued interest the balance never shrinks,
// and the simulation must still halt. A ceiling hit is reported as a
// distinct non-convergence outcome (PaidOff == false with a positive
// remaining balance), never as silently truncated data.
package debt

import (
	"fmt"
	"sort"

	"github.com/AldyLoing/FinSight/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultMaxMonths is the hard iteration ceiling for all simulations
const DefaultMaxMonths = 600

var twelve = decimal.NewFromInt(12)

// StrategyType identifies a multi-debt payoff ordering
type StrategyType string

const (
	// StrategySnowball orders debts by ascending balance (smallest first)
	StrategySnowball StrategyType = "snowball"
	// StrategyAvalanche orders debts by descending interest rate (costliest first)
	StrategyAvalanche StrategyType = "avalanche"
)

// String returns the string representation of StrategyType
func (s StrategyType) String() string {
	return string(s)
}

// PaymentBreakdown splits one month's payment into its components
type PaymentBreakdown struct {
	Interest         decimal.Decimal `json:"interest"`
	PrincipalPaid    decimal.Decimal `json:"principal_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// ScheduleEntry records one month of a single-debt amortization. Payment is
// the cash actually moved (principal plus interest), which can be less than
// the nominal payment in the final month.
type ScheduleEntry struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"`
}

// PayoffSimulation is the result of amortizing a single debt. PaidOff is
// false when the iteration ceiling was hit with balance still outstanding;
// callers must treat that as "not payable under current plan" rather than a
// payoff date.
type PayoffSimulation struct {
	Debt             *models.Debt    `json:"debt"`
	ExtraPayment     decimal.Decimal `json:"extra_payment"`
	Months           int             `json:"months"`
	TotalInterest    decimal.Decimal `json:"total_interest"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	PaidOff          bool            `json:"paid_off"`
	Schedule         []ScheduleEntry `json:"schedule"`
}

// DebtMonthEntry records one debt's state after one strategy month. Payment
// is the nominal amount routed to the debt that month (minimum plus any
// extra).
type DebtMonthEntry struct {
	DebtID  string          `json:"debt_id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
	Payment decimal.Decimal `json:"payment"`
}

// MonthSchedule records all debt states for one strategy month
type MonthSchedule struct {
	Month int              `json:"month"`
	Debts []DebtMonthEntry `json:"debts"`
}

// StrategyResult is the outcome of simulating one payoff strategy across a
// debt set.
type StrategyResult struct {
	Strategy          StrategyType    `json:"strategy"`
	Debts             []*models.Debt  `json:"debts"`
	ExtraPayment      decimal.Decimal `json:"extra_payment"`
	MonthsToPayoff    int             `json:"months_to_payoff"`
	TotalInterestPaid decimal.Decimal `json:"total_interest_paid"`
	PaidOff           bool            `json:"paid_off"`
	Schedule          []MonthSchedule `json:"schedule"`
}

// StrategyComparison runs both strategies with the same extra payment and
// recommends the cheaper one. Savings is the absolute interest difference.
// Avalanche mathematically minimizes interest, so the recommendation is a
// derived signal, not a preference.
type StrategyComparison struct {
	Snowball       *StrategyResult `json:"snowball"`
	Avalanche      *StrategyResult `json:"avalanche"`
	Recommendation StrategyType    `json:"recommendation"`
	Savings        decimal.Decimal `json:"savings"`
}

// Config holds tuning options for debt simulations
type Config struct {
	// MaxMonths is the hard iteration ceiling guaranteeing termination
	MaxMonths int
}

// DefaultConfig returns the default simulation configuration
func DefaultConfig() *Config {
	return &Config{MaxMonths: DefaultMaxMonths}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.MaxMonths <= 0 {
		return fmt.Errorf("max months must be positive, got %d", c.MaxMonths)
	}
	return nil
}

// Simulator runs debt amortization and strategy simulations
type Simulator struct {
	config *Config
}

// NewSimulator creates a Simulator with the given configuration
func NewSimulator(config *Config) *Simulator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Simulator{config: config}
}

// CalculatePayment computes one month of simple-interest amortization:
// interest accrues on the open balance at rate/12, the remainder of the
// payment retires principal, clamped to [0, balance].
func CalculatePayment(balance, annualRate, payment decimal.Decimal) PaymentBreakdown {
	monthlyRate := annualRate.Div(twelve)
	interest := balance.Mul(monthlyRate)

	principal := payment.Sub(interest)
	if principal.IsNegative() {
		principal = decimal.Zero
	}
	if principal.GreaterThan(balance) {
		principal = balance
	}

	return PaymentBreakdown{
		Interest:         interest,
		PrincipalPaid:    principal,
		RemainingBalance: balance.Sub(principal),
	}
}

// SimulatePayoff amortizes a single debt month by month under its minimum
// payment plus extraPayment, recording each month until the balance reaches
// zero or the iteration ceiling is hit.
func (s *Simulator) SimulatePayoff(debt *models.Debt, extraPayment decimal.Decimal) *PayoffSimulation {
	balance := debt.CurrentBalance
	payment := debt.MinimumPayment.Add(extraPayment)

	result := &PayoffSimulation{
		Debt:          debt,
		ExtraPayment:  extraPayment,
		TotalInterest: decimal.Zero,
		TotalPaid:     decimal.Zero,
		Schedule:      make([]ScheduleEntry, 0),
	}

	month := 0
	for balance.IsPositive() && month < s.config.MaxMonths {
		month++

		breakdown := CalculatePayment(balance, debt.InterestRate, payment)
		balance = breakdown.RemainingBalance

		cash := breakdown.PrincipalPaid.Add(breakdown.Interest)
		result.TotalInterest = result.TotalInterest.Add(breakdown.Interest)
		result.TotalPaid = result.TotalPaid.Add(cash)
		result.Schedule = append(result.Schedule, ScheduleEntry{
			Month:     month,
			Payment:   cash,
			Principal: breakdown.PrincipalPaid,
			Interest:  breakdown.Interest,
			Balance:   balance,
		})
	}

	result.Months = month
	result.RemainingBalance = balance
	result.PaidOff = balance.IsZero()

	return result
}

// SimulateSnowball simulates paying debts smallest balance first
func (s *Simulator) SimulateSnowball(debts []*models.Debt, extraPayment decimal.Decimal) *StrategyResult {
	ordered := make([]*models.Debt, len(debts))
	copy(ordered, debts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CurrentBalance.LessThan(ordered[j].CurrentBalance)
	})
	return s.simulateStrategy(ordered, extraPayment, StrategySnowball)
}

// SimulateAvalanche simulates paying debts highest interest rate first
func (s *Simulator) SimulateAvalanche(debts []*models.Debt, extraPayment decimal.Decimal) *StrategyResult {
	ordered := make([]*models.Debt, len(debts))
	copy(ordered, debts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].InterestRate.GreaterThan(ordered[j].InterestRate)
	})
	return s.simulateStrategy(ordered, extraPayment, StrategyAvalanche)
}

// CompareStrategies runs snowball and avalanche with identical extra payment
// and recommends avalanche whenever it saves interest, snowball otherwise.
func (s *Simulator) CompareStrategies(debts []*models.Debt, extraPayment decimal.Decimal) *StrategyComparison {
	snowball := s.SimulateSnowball(debts, extraPayment)
	avalanche := s.SimulateAvalanche(debts, extraPayment)

	savings := snowball.TotalInterestPaid.Sub(avalanche.TotalInterestPaid)
	recommendation := StrategySnowball
	if savings.IsPositive() {
		recommendation = StrategyAvalanche
	}

	return &StrategyComparison{
		Snowball:       snowball,
		Avalanche:      avalanche,
		Recommendation: recommendation,
		Savings:        savings.Abs(),
	}
}

// simulateStrategy runs a multi-debt simulation over debts already sorted in
// strategy order. The order is fixed from the initial sort: each month every
// live debt accrues interest and pays its own minimum, and the full extra
// payment is routed to the first debt in order that still carries a balance.
// Paid-off debts permanently drop out and never receive extra.
func (s *Simulator) simulateStrategy(ordered []*models.Debt, extraPayment decimal.Decimal, strategy StrategyType) *StrategyResult {
	type liveDebt struct {
		debt    *models.Debt
		balance decimal.Decimal
	}

	live := make([]*liveDebt, len(ordered))
	for i, d := range ordered {
		live[i] = &liveDebt{debt: d, balance: d.CurrentBalance}
	}

	result := &StrategyResult{
		Strategy:          strategy,
		Debts:             ordered,
		ExtraPayment:      extraPayment,
		TotalInterestPaid: decimal.Zero,
		Schedule:          make([]MonthSchedule, 0),
	}

	anyOutstanding := func() bool {
		for _, d := range live {
			if d.balance.IsPositive() {
				return true
			}
		}
		return false
	}

	month := 0
	for anyOutstanding() && month < s.config.MaxMonths {
		month++

		// Re-scan for the first debt still carrying a balance; the overall
		// order never changes after the initial sort.
		extraTarget := -1
		for i, d := range live {
			if d.balance.IsPositive() {
				extraTarget = i
				break
			}
		}

		entries := make([]DebtMonthEntry, 0, len(live))
		for i, d := range live {
			if !d.balance.IsPositive() {
				entries = append(entries, DebtMonthEntry{
					DebtID:  d.debt.ID,
					Name:    d.debt.Name,
					Balance: decimal.Zero,
					Payment: decimal.Zero,
				})
				continue
			}

			payment := d.debt.MinimumPayment
			if i == extraTarget {
				payment = payment.Add(extraPayment)
			}

			breakdown := CalculatePayment(d.balance, d.debt.InterestRate, payment)
			result.TotalInterestPaid = result.TotalInterestPaid.Add(breakdown.Interest)
			d.balance = breakdown.RemainingBalance

			entries = append(entries, DebtMonthEntry{
				DebtID:  d.debt.ID,
				Name:    d.debt.Name,
				Balance: d.balance,
				Payment: payment,
			})
		}

		result.Schedule = append(result.Schedule, MonthSchedule{Month: month, Debts: entries})
	}

	result.MonthsToPayoff = month
	result.PaidOff = !anyOutstanding()

	return result
}
