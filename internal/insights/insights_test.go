package insights

import (
	"fmt"
	"testing"
	"time"

	"github.com/AldyLoing/FinSight/internal/models"

	"github.com/shopspring/decimal"
)

var insightsAsOf = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	config := DefaultConfig()
	config.AsOf = insightsAsOf
	return NewEngine(config)
}

func expenseAt(id, merchant string, amount float64, occurredAt time.Time) *models.Transaction {
	return &models.Transaction{
		ID:         id,
		AccountID:  "acc-1",
		Amount:     decimal.NewFromFloat(-amount),
		Currency:   "USD",
		OccurredAt: occurredAt,
		Merchant:   &merchant,
	}
}

// merchantHistory builds a run of past charges followed by one most-recent
// charge of the given size.
func merchantHistory(merchant string, latestAmount float64, history ...float64) []*models.Transaction {
	txs := make([]*models.Transaction, 0, len(history)+1)
	for i, amount := range history {
		txs = append(txs, expenseAt(
			fmt.Sprintf("%s-%d", merchant, i),
			merchant,
			amount,
			insightsAsOf.AddDate(0, 0, -(len(history)-i)-1),
		))
	}
	txs = append(txs, expenseAt(merchant+"-latest", merchant, latestAmount, insightsAsOf))
	return txs
}

// steadyHistory is ten charges hovering around 50
var steadyHistory = []float64{48, 52, 50, 49, 51, 47, 53, 50, 50, 50}

func TestEngine_DetectAnomalies(t *testing.T) {
	engine := newTestEngine()

	// Ten steady charges around 50, then a 500 charge. The outlier is part
	// of its own baseline, so a history this deep is what pushes the
	// z-score past the warning bar.
	transactions := merchantHistory("Corner Cafe", 500, steadyHistory...)

	insights := engine.DetectAnomalies(transactions)

	if len(insights) != 1 {
		t.Fatalf("Expected 1 anomaly, got %d", len(insights))
	}
	insight := insights[0]
	if insight.Type != models.InsightTypeAnomaly {
		t.Errorf("Expected anomaly type, got %s", insight.Type)
	}
	if insight.Severity != models.SeverityWarning {
		t.Errorf("Expected warning severity for extreme outlier, got %s", insight.Severity)
	}
	if insight.Details["merchant"] != "Corner Cafe" {
		t.Errorf("Expected merchant in details, got %v", insight.Details["merchant"])
	}
	if insight.Details["transaction_id"] != "Corner Cafe-latest" {
		t.Errorf("Expected latest transaction flagged, got %v", insight.Details["transaction_id"])
	}
	if insight.ID == "" {
		t.Error("Expected generated insight ID")
	}
}

func TestEngine_DetectAnomalies_InfoSeverity(t *testing.T) {
	engine := newTestEngine()

	// Seven steady charges plus the outlier: clears 2.5 but not 3.
	transactions := merchantHistory("Bookshop", 500, 48, 52, 50, 49, 51, 47, 53)

	insights := engine.DetectAnomalies(transactions)

	if len(insights) != 1 {
		t.Fatalf("Expected 1 anomaly, got %d", len(insights))
	}
	if insights[0].Severity != models.SeverityInfo {
		t.Errorf("Expected info severity, got %s", insights[0].Severity)
	}
}

func TestEngine_DetectAnomalies_SampleFloor(t *testing.T) {
	engine := newTestEngine()

	// Two transactions are never enough history to call one anomalous.
	transactions := merchantHistory("Rare Shop", 900, 10)

	if insights := engine.DetectAnomalies(transactions); len(insights) != 0 {
		t.Errorf("Expected no anomalies below the sample floor, got %d", len(insights))
	}
}

func TestEngine_DetectAnomalies_SkipsBlankMerchant(t *testing.T) {
	engine := newTestEngine()

	transactions := merchantHistory("  ", 500, steadyHistory...)

	if insights := engine.DetectAnomalies(transactions); len(insights) != 0 {
		t.Errorf("Expected no anomalies for blank merchants, got %d", len(insights))
	}
}

func TestEngine_DetectAnomalies_IgnoresOldHistory(t *testing.T) {
	engine := newTestEngine()

	// The same outlier setup, but the history sits outside the trailing
	// window, leaving too small a sample.
	transactions := merchantHistory("Corner Cafe", 500, steadyHistory...)
	for _, tx := range transactions[:10] {
		tx.OccurredAt = insightsAsOf.AddDate(0, 0, -120)
	}

	if insights := engine.DetectAnomalies(transactions); len(insights) != 0 {
		t.Errorf("Expected no anomalies outside the lookback, got %d", len(insights))
	}
}

func TestEngine_DetectAnomalies_NormalSpendIsQuiet(t *testing.T) {
	engine := newTestEngine()

	transactions := merchantHistory("Grocer", 55, steadyHistory...)

	if insights := engine.DetectAnomalies(transactions); len(insights) != 0 {
		t.Errorf("Expected no anomalies for ordinary spend, got %d", len(insights))
	}
}

func TestEngine_DetectTrends(t *testing.T) {
	tests := []struct {
		name             string
		oldestMonth      float64
		latestMonth      float64
		expectedCount    int
		expectedSeverity models.Severity
	}{
		{"sharp rise is a warning", 1000, 1500, 1, models.SeverityWarning},
		{"moderate rise is info", 1000, 1200, 1, models.SeverityInfo},
		{"sharp fall is positive", 1000, 700, 1, models.SeverityPositive},
		{"small change is quiet", 1000, 1100, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine()

			// Oldest full month is three months back; latest full month is
			// last month. The current month is excluded.
			transactions := []*models.Transaction{
				expenseAt("tx-old", "Store", tt.oldestMonth, insightsAsOf.AddDate(0, -3, 0)),
				expenseAt("tx-new", "Store", tt.latestMonth, insightsAsOf.AddDate(0, -1, 0)),
				expenseAt("tx-current", "Store", 99999, insightsAsOf),
			}

			insights := engine.DetectTrends(transactions)

			if len(insights) != tt.expectedCount {
				t.Fatalf("Expected %d trend insights, got %d", tt.expectedCount, len(insights))
			}
			if tt.expectedCount == 0 {
				return
			}
			if insights[0].Severity != tt.expectedSeverity {
				t.Errorf("Expected severity %s, got %s", tt.expectedSeverity, insights[0].Severity)
			}
			if insights[0].Type != models.InsightTypeTrend {
				t.Errorf("Expected trend type, got %s", insights[0].Type)
			}
		})
	}
}

func TestEngine_DetectTrends_ZeroBaselineSkipped(t *testing.T) {
	engine := newTestEngine()

	// No spend in the oldest month means no baseline to compare against.
	transactions := []*models.Transaction{
		expenseAt("tx-1", "Store", 400, insightsAsOf.AddDate(0, -1, 0)),
	}

	if insights := engine.DetectTrends(transactions); len(insights) != 0 {
		t.Errorf("Expected no trends without a baseline month, got %d", len(insights))
	}
}

func TestEngine_DetectCategoryOveruse(t *testing.T) {
	engine := newTestEngine()

	shopping := "cat-shopping"
	coffee := "cat-coffee"

	transactions := []*models.Transaction{
		expenseAt("tx-1", "Mall", 700, insightsAsOf.AddDate(0, -2, 0)),
		expenseAt("tx-2", "Mall", 600, insightsAsOf.AddDate(0, -1, 0)),
		expenseAt("tx-3", "Mall", 500, insightsAsOf.AddDate(0, 0, -1)),
		expenseAt("tx-4", "Cafe", 300, insightsAsOf.AddDate(0, -1, 0)),
		expenseAt("tx-old", "Mall", 5000, insightsAsOf.AddDate(0, -6, 0)),
	}
	splits := []*models.TransactionSplit{
		// 1800 across 3 months averages 600/month.
		{TransactionID: "tx-1", CategoryID: &shopping, Amount: decimal.NewFromInt(-700)},
		{TransactionID: "tx-2", CategoryID: &shopping, Amount: decimal.NewFromInt(-600)},
		{TransactionID: "tx-3", CategoryID: &shopping, Amount: decimal.NewFromInt(-500)},
		// 300 across 3 months stays quiet.
		{TransactionID: "tx-4", CategoryID: &coffee, Amount: decimal.NewFromInt(-300)},
		// Outside the window; must not count.
		{TransactionID: "tx-old", CategoryID: &shopping, Amount: decimal.NewFromInt(-5000)},
		// No category; must not count.
		{TransactionID: "tx-1", Amount: decimal.NewFromInt(-50)},
	}

	insights := engine.DetectCategoryOveruse(transactions, splits)

	if len(insights) != 1 {
		t.Fatalf("Expected 1 overuse insight, got %d", len(insights))
	}
	insight := insights[0]
	if insight.Type != models.InsightTypeRecommendation {
		t.Errorf("Expected recommendation type, got %s", insight.Type)
	}
	if insight.Severity != models.SeverityInfo {
		t.Errorf("Expected info severity, got %s", insight.Severity)
	}
	if insight.Details["category_id"] != shopping {
		t.Errorf("Expected shopping category, got %v", insight.Details["category_id"])
	}
	if avg := insight.Details["avg_per_month"].(float64); avg != 600 {
		t.Errorf("Expected monthly average 600, got %f", avg)
	}
}

func TestEngine_DetectBudgetRisks(t *testing.T) {
	engine := newTestEngine()

	threshold := 0.8
	budgets := []*models.Budget{
		{
			ID:             "b-1",
			Name:           "Groceries",
			TotalAmount:    decimal.NewFromInt(1000),
			StartDate:      models.StartOfMonth(insightsAsOf),
			AlertThreshold: &threshold,
		},
		{
			ID:          "b-2",
			Name:        "Fun",
			TotalAmount: decimal.NewFromInt(200),
			StartDate:   models.StartOfMonth(insightsAsOf),
		},
	}
	transactions := []*models.Transaction{
		expenseAt("tx-1", "Market", 850, insightsAsOf.AddDate(0, 0, -1)),
	}

	insights := engine.DetectBudgetRisks(budgets, transactions, nil)

	// The uncategorized spend counts toward both budget windows: 850 is a
	// warning against 1000 with a 0.8 threshold and exceeds 200 outright.
	if len(insights) != 2 {
		t.Fatalf("Expected 2 budget insights, got %d", len(insights))
	}
	if insights[0].Severity != models.SeverityWarning {
		t.Errorf("Expected warning for threshold breach, got %s", insights[0].Severity)
	}
	if insights[1].Severity != models.SeverityCritical {
		t.Errorf("Expected critical for exceeded budget, got %s", insights[1].Severity)
	}
	if insights[1].Type != models.InsightTypeBudget {
		t.Errorf("Expected budget insight type, got %s", insights[1].Type)
	}
	if overspent := insights[1].Details["overspent"].(float64); overspent != 650 {
		t.Errorf("Expected overspent 650, got %f", overspent)
	}
}

func TestEngine_GenerateOrdering(t *testing.T) {
	engine := newTestEngine()

	transactions := merchantHistory("Corner Cafe", 500, steadyHistory...)
	transactions = append(transactions,
		expenseAt("tx-t1", "Store", 1000, insightsAsOf.AddDate(0, -3, 0)),
		expenseAt("tx-t2", "Store", 1500, insightsAsOf.AddDate(0, -1, 0)),
	)
	budgets := []*models.Budget{
		{
			ID:          "b-1",
			Name:        "Everything",
			TotalAmount: decimal.NewFromInt(100),
			StartDate:   models.StartOfMonth(insightsAsOf),
		},
	}

	insights := engine.Generate(transactions, nil, budgets)

	if len(insights) < 3 {
		t.Fatalf("Expected at least 3 insights, got %d", len(insights))
	}

	// Detector output is concatenated in a fixed order.
	if insights[0].Type != models.InsightTypeAnomaly {
		t.Errorf("Expected anomaly first, got %s", insights[0].Type)
	}
	if insights[1].Type != models.InsightTypeTrend {
		t.Errorf("Expected trend second, got %s", insights[1].Type)
	}
	if insights[len(insights)-1].Type != models.InsightTypeBudget {
		t.Errorf("Expected budget risk last, got %s", insights[len(insights)-1].Type)
	}

	seen := make(map[string]bool)
	for _, insight := range insights {
		if seen[insight.ID] {
			t.Errorf("Duplicate insight ID %s", insight.ID)
		}
		seen[insight.ID] = true
	}
}
