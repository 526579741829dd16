package debt

import (
	"testing"

	"github.com/AldyLoing/FinSight/internal/models"

	"github.com/shopspring/decimal"
)

func createTestDebt(id string, balance, rate, minPayment float64) *models.Debt {
	return &models.Debt{
		ID:             id,
		Name:           "Debt " + id,
		CurrentBalance: decimal.NewFromFloat(balance),
		InterestRate:   decimal.NewFromFloat(rate),
		InterestType:   models.InterestTypeSimple,
		MinimumPayment: decimal.NewFromFloat(minPayment),
	}
}

func TestCalculatePayment(t *testing.T) {
	// 1200 at 12% APR accrues 12 of interest per month
	breakdown := CalculatePayment(
		decimal.NewFromInt(1200),
		decimal.NewFromFloat(0.12),
		decimal.NewFromInt(112),
	)

	if !breakdown.Interest.Equal(decimal.NewFromInt(12)) {
		t.Errorf("Expected interest 12, got %s", breakdown.Interest)
	}
	if !breakdown.PrincipalPaid.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected principal 100, got %s", breakdown.PrincipalPaid)
	}
	if !breakdown.RemainingBalance.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("Expected remaining 1100, got %s", breakdown.RemainingBalance)
	}
}

func TestCalculatePayment_PaymentBelowInterest(t *testing.T) {
	// Payment smaller than accrued interest retires no principal
	breakdown := CalculatePayment(
		decimal.NewFromInt(1200),
		decimal.NewFromFloat(0.12),
		decimal.NewFromInt(5),
	)

	if !breakdown.PrincipalPaid.IsZero() {
		t.Errorf("Expected zero principal, got %s", breakdown.PrincipalPaid)
	}
	if !breakdown.RemainingBalance.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected balance unchanged, got %s", breakdown.RemainingBalance)
	}
}

func TestCalculatePayment_FinalMonthClampsToBalance(t *testing.T) {
	breakdown := CalculatePayment(
		decimal.NewFromInt(50),
		decimal.Zero,
		decimal.NewFromInt(500),
	)

	if !breakdown.PrincipalPaid.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected principal clamped to 50, got %s", breakdown.PrincipalPaid)
	}
	if !breakdown.RemainingBalance.IsZero() {
		t.Errorf("Expected zero balance, got %s", breakdown.RemainingBalance)
	}
}

func TestSimulator_SimulatePayoff_Converges(t *testing.T) {
	// Minimum payment comfortably above monthly interest
	debt := createTestDebt("D001", 1000, 0.12, 100)

	result := NewSimulator(nil).SimulatePayoff(debt, decimal.Zero)

	if !result.PaidOff {
		t.Fatal("Expected debt to be paid off")
	}
	if result.Months >= DefaultMaxMonths {
		t.Errorf("Expected payoff before ceiling, took %d months", result.Months)
	}
	if !result.RemainingBalance.IsZero() {
		t.Errorf("Expected zero remaining balance, got %s", result.RemainingBalance)
	}
	if len(result.Schedule) != result.Months {
		t.Errorf("Expected %d schedule entries, got %d", result.Months, len(result.Schedule))
	}

	final := result.Schedule[len(result.Schedule)-1]
	if !final.Balance.IsZero() {
		t.Errorf("Expected final schedule balance 0, got %s", final.Balance)
	}
	if result.TotalInterest.IsNegative() || result.TotalInterest.IsZero() {
		t.Errorf("Expected positive total interest, got %s", result.TotalInterest)
	}
}

func TestSimulator_SimulatePayoff_NonConvergenceHitsCeiling(t *testing.T) {
	// 10000 at 24% APR accrues 200/month; a 200 payment never touches principal
	debt := createTestDebt("D001", 10000, 0.24, 200)

	result := NewSimulator(nil).SimulatePayoff(debt, decimal.Zero)

	if result.PaidOff {
		t.Fatal("Expected non-convergence")
	}
	if result.Months != DefaultMaxMonths {
		t.Errorf("Expected simulation to run exactly to the %d-month ceiling, got %d", DefaultMaxMonths, result.Months)
	}
	if !result.RemainingBalance.IsPositive() {
		t.Errorf("Expected positive remaining balance, got %s", result.RemainingBalance)
	}
}

func TestSimulator_SimulatePayoff_ZeroBalance(t *testing.T) {
	debt := createTestDebt("D001", 0, 0.12, 100)

	result := NewSimulator(nil).SimulatePayoff(debt, decimal.Zero)

	if result.Months != 0 {
		t.Errorf("Expected 0 months for settled debt, got %d", result.Months)
	}
	if !result.PaidOff {
		t.Error("Expected settled debt to report paid off")
	}
	if len(result.Schedule) != 0 {
		t.Errorf("Expected empty schedule, got %d entries", len(result.Schedule))
	}
}

func TestSimulator_SimulatePayoff_ExtraPaymentShortensTerm(t *testing.T) {
	sim := NewSimulator(nil)
	debt := createTestDebt("D001", 5000, 0.18, 150)

	baseline := sim.SimulatePayoff(debt, decimal.Zero)
	accelerated := sim.SimulatePayoff(debt, decimal.NewFromInt(100))

	if accelerated.Months >= baseline.Months {
		t.Errorf("Expected extra payment to shorten term: baseline %d, accelerated %d",
			baseline.Months, accelerated.Months)
	}
	if accelerated.TotalInterest.GreaterThanOrEqual(baseline.TotalInterest) {
		t.Errorf("Expected extra payment to reduce interest: baseline %s, accelerated %s",
			baseline.TotalInterest, accelerated.TotalInterest)
	}
}

func TestSimulator_SnowballOrdersByBalance(t *testing.T) {
	debts := []*models.Debt{
		createTestDebt("big", 9000, 0.05, 200),
		createTestDebt("small", 500, 0.10, 50),
		createTestDebt("medium", 3000, 0.20, 100),
	}

	result := NewSimulator(nil).SimulateSnowball(debts, decimal.Zero)

	if result.Strategy != StrategySnowball {
		t.Errorf("Expected snowball strategy, got %s", result.Strategy)
	}

	order := []string{result.Debts[0].ID, result.Debts[1].ID, result.Debts[2].ID}
	expected := []string{"small", "medium", "big"}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("Expected order %v, got %v", expected, order)
		}
	}
}

func TestSimulator_AvalancheOrdersByRate(t *testing.T) {
	debts := []*models.Debt{
		createTestDebt("cheap", 500, 0.05, 50),
		createTestDebt("costly", 9000, 0.25, 200),
		createTestDebt("middling", 3000, 0.15, 100),
	}

	result := NewSimulator(nil).SimulateAvalanche(debts, decimal.Zero)

	order := []string{result.Debts[0].ID, result.Debts[1].ID, result.Debts[2].ID}
	expected := []string{"costly", "middling", "cheap"}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("Expected order %v, got %v", expected, order)
		}
	}
}

func TestSimulator_ExtraRoutedToFirstRemainingDebt(t *testing.T) {
	debts := []*models.Debt{
		createTestDebt("first", 100, 0, 50),
		createTestDebt("second", 1000, 0, 50),
	}

	result := NewSimulator(nil).SimulateSnowball(debts, decimal.NewFromInt(100))

	// Month 1: first gets 50+100 and is cleared (clamped at 100 balance)
	month1 := result.Schedule[0]
	if !month1.Debts[0].Balance.IsZero() {
		t.Fatalf("Expected first debt cleared in month 1, got %s", month1.Debts[0].Balance)
	}
	if !month1.Debts[1].Payment.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected second debt to pay only its minimum in month 1, got %s", month1.Debts[1].Payment)
	}

	// Month 2: extra must roll to the second debt, and the first receives nothing
	month2 := result.Schedule[1]
	if !month2.Debts[0].Payment.IsZero() {
		t.Errorf("Expected paid-off debt to receive nothing, got %s", month2.Debts[0].Payment)
	}
	if !month2.Debts[1].Payment.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected second debt to receive minimum plus extra, got %s", month2.Debts[1].Payment)
	}

	if !result.PaidOff {
		t.Error("Expected all debts paid off")
	}
}

func TestSimulator_CompareStrategies_AvalancheNeverCostsMore(t *testing.T) {
	debtSets := [][]*models.Debt{
		{
			createTestDebt("a", 2000, 0.22, 60),
			createTestDebt("b", 8000, 0.06, 160),
		},
		{
			createTestDebt("a", 500, 0.30, 25),
			createTestDebt("b", 1500, 0.18, 45),
			createTestDebt("c", 7000, 0.09, 140),
		},
		{
			// Identical rates: strategies tie
			createTestDebt("a", 1000, 0.10, 50),
			createTestDebt("b", 2000, 0.10, 80),
		},
	}

	sim := NewSimulator(nil)
	for _, debts := range debtSets {
		for _, extra := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(100)} {
			comparison := sim.CompareStrategies(debts, extra)

			if comparison.Avalanche.TotalInterestPaid.GreaterThan(comparison.Snowball.TotalInterestPaid) {
				t.Errorf("Avalanche paid more interest than snowball: %s > %s",
					comparison.Avalanche.TotalInterestPaid, comparison.Snowball.TotalInterestPaid)
			}
			if comparison.Savings.IsNegative() {
				t.Errorf("Expected non-negative savings, got %s", comparison.Savings)
			}
		}
	}
}

func TestSimulator_CompareStrategies_Recommendation(t *testing.T) {
	sim := NewSimulator(nil)

	// Big high-rate debt: avalanche clears it first and saves interest
	debts := []*models.Debt{
		createTestDebt("low-rate-small", 1000, 0.05, 100),
		createTestDebt("high-rate-big", 9000, 0.28, 250),
	}

	comparison := sim.CompareStrategies(debts, decimal.NewFromInt(200))
	if comparison.Recommendation != StrategyAvalanche {
		t.Errorf("Expected avalanche recommendation, got %s", comparison.Recommendation)
	}

	// Equal rates: zero savings falls back to snowball
	tied := []*models.Debt{
		createTestDebt("a", 1000, 0.10, 100),
		createTestDebt("b", 2000, 0.10, 100),
	}

	comparison = sim.CompareStrategies(tied, decimal.Zero)
	if comparison.Recommendation != StrategySnowball {
		t.Errorf("Expected snowball recommendation on tie, got %s", comparison.Recommendation)
	}
}

func TestSimulator_StrategyNonConvergence(t *testing.T) {
	// Minimums exactly cover interest and nothing more
	debts := []*models.Debt{
		createTestDebt("a", 10000, 0.24, 200),
	}

	result := NewSimulator(nil).SimulateSnowball(debts, decimal.Zero)

	if result.PaidOff {
		t.Fatal("Expected non-convergence")
	}
	if result.MonthsToPayoff != DefaultMaxMonths {
		t.Errorf("Expected ceiling of %d months, got %d", DefaultMaxMonths, result.MonthsToPayoff)
	}
}

func TestSimulator_StrategyWithNoDebts(t *testing.T) {
	result := NewSimulator(nil).SimulateSnowball(nil, decimal.NewFromInt(100))

	if result.MonthsToPayoff != 0 {
		t.Errorf("Expected 0 months for empty debt set, got %d", result.MonthsToPayoff)
	}
	if !result.PaidOff {
		t.Error("Expected empty debt set to report paid off")
	}
	if !result.TotalInterestPaid.IsZero() {
		t.Errorf("Expected zero interest, got %s", result.TotalInterestPaid)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}

	bad := &Config{MaxMonths: 0}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for zero ceiling")
	}
}
