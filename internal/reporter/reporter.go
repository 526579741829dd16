// Package reporter provides reporting capabilities for analytics results.
//
// This package renders an AnalyticsResult in several output formats:
//   - Console: Human-readable sections for terminal display
//   - JSON: Structured data for programmatic consumption
//   - CSV: Flat records for spreadsheet applications
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/AldyLoing/FinSight/internal/engine"
	"github.com/AldyLoing/FinSight/internal/goals"
	"github.com/AldyLoing/FinSight/internal/models"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	// Output format
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludeBudgets         bool `json:"include_budgets"`
	IncludeDebts           bool `json:"include_debts"`
	IncludeForecast        bool `json:"include_forecast"`
	IncludeGoals           bool `json:"include_goals"`
	IncludeInsights        bool `json:"include_insights"`
	IncludeBalanceDrifts   bool `json:"include_balance_drifts"`
	IncludeProcessingStats bool `json:"include_processing_stats"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`

	// Console options
	MaxListItems int `json:"max_list_items"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:                 FormatConsole,
		IncludeBudgets:         true,
		IncludeDebts:           true,
		IncludeForecast:        true,
		IncludeGoals:           true,
		IncludeInsights:        true,
		IncludeBalanceDrifts:   true,
		IncludeProcessingStats: true,
		CSVDelimiter:           ',',
		CSVHeaders:             true,
		MaxListItems:           10,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}

	if c.MaxListItems <= 0 {
		return fmt.Errorf("max list items must be positive, got %d", c.MaxListItems)
	}

	return nil
}

// ReportGenerator generates analytics reports in various formats
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{
		config: config,
	}, nil
}

// GenerateReport renders an analytics result to the provided writer
func (rg *ReportGenerator) GenerateReport(result *engine.AnalyticsResult, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("analytics result cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(result, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, writer)
	case FormatCSV:
		return rg.generateCSVReport(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// generateConsoleReport generates a human-readable console report
func (rg *ReportGenerator) generateConsoleReport(result *engine.AnalyticsResult, writer io.Writer) error {
	fmt.Fprintf(writer, "FINANCIAL ANALYTICS REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n\n", result.ProcessedAt.Format(time.RFC3339))

	fmt.Fprintf(writer, "=== SUMMARY ===\n")
	rg.printSummary(result.Summary, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== NET WORTH ===\n")
	rg.printNetWorth(result, writer)
	fmt.Fprintf(writer, "\n")

	if rg.config.IncludeBudgets && len(result.BudgetStatuses) > 0 {
		fmt.Fprintf(writer, "=== BUDGETS ===\n")
		rg.printBudgets(result, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeDebts && result.DebtComparison != nil {
		fmt.Fprintf(writer, "=== DEBT PAYOFF ===\n")
		rg.printDebtComparison(result, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeForecast && result.Forecast != nil {
		fmt.Fprintf(writer, "=== CASHFLOW FORECAST ===\n")
		rg.printForecast(result, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeGoals && len(result.GoalSimulations) > 0 {
		fmt.Fprintf(writer, "=== GOALS ===\n")
		rg.printGoals(result.GoalSimulations, result.GoalRecommendations, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeInsights && len(result.Insights) > 0 {
		fmt.Fprintf(writer, "=== INSIGHTS ===\n")
		rg.printInsights(result.Insights, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeBalanceDrifts && len(result.BalanceDrifts) > 0 {
		fmt.Fprintf(writer, "=== BALANCE DRIFTS ===\n")
		rg.printBalanceDrifts(result, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeProcessingStats && result.ProcessingStats != nil {
		fmt.Fprintf(writer, "=== PROCESSING STATISTICS ===\n")
		rg.printProcessingStats(result.ProcessingStats, writer)
	}

	return nil
}

// generateJSONReport generates a structured JSON report
func (rg *ReportGenerator) generateJSONReport(result *engine.AnalyticsResult, writer io.Writer) error {
	filtered := rg.filterResultForOutput(result)

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(filtered)
}

// generateCSVReport generates a CSV report with one flat record per finding
func (rg *ReportGenerator) generateCSVReport(result *engine.AnalyticsResult, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{
			"Type",
			"ID",
			"Name",
			"Amount",
			"Status",
			"Detail",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	if rg.config.IncludeBudgets {
		for _, status := range result.BudgetStatuses {
			record := []string{
				"Budget",
				status.Budget.ID,
				status.Budget.Name,
				status.Spent.StringFixed(2),
				string(status.Status),
				fmt.Sprintf("%.1f%% of %s", status.Percentage, status.Budget.TotalAmount.StringFixed(2)),
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write budget record: %w", err)
			}
		}
	}

	if rg.config.IncludeGoals {
		for _, simulation := range result.GoalSimulations {
			detail := "not achievable with current contribution"
			if simulation.IsAchievable {
				if simulation.CompletionDate != nil {
					detail = fmt.Sprintf("on track for %s", simulation.CompletionDate.Format("2006-01-02"))
				} else {
					detail = "on track"
				}
			}
			record := []string{
				"Goal",
				simulation.Goal.ID,
				simulation.Goal.Name,
				simulation.Goal.CurrentAmount.StringFixed(2),
				fmt.Sprintf("%.1f%%", simulation.ProgressPercent),
				detail,
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write goal record: %w", err)
			}
		}
	}

	if rg.config.IncludeInsights {
		for _, insight := range result.Insights {
			record := []string{
				"Insight",
				insight.ID,
				insight.Title,
				"",
				string(insight.Severity),
				insight.Summary,
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write insight record: %w", err)
			}
		}
	}

	if rg.config.IncludeBalanceDrifts {
		for _, drift := range result.BalanceDrifts {
			record := []string{
				"Balance Drift",
				drift.AccountID,
				drift.AccountName,
				drift.Difference.StringFixed(2),
				"drift",
				fmt.Sprintf("recorded %s, derived %s", drift.RecordedBalance.StringFixed(2), drift.DerivedBalance.StringFixed(2)),
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write drift record: %w", err)
			}
		}
	}

	return nil
}

// Helper methods for console output formatting

func (rg *ReportGenerator) printSummary(summary *engine.ResultSummary, writer io.Writer) {
	fmt.Fprintf(writer, "Transactions: %d\n", summary.TotalTransactions)
	fmt.Fprintf(writer, "Accounts:     %d\n", summary.TotalAccounts)
	fmt.Fprintf(writer, "Budgets:      %d (%d at risk)\n", summary.TotalBudgets, summary.BudgetsAtRisk)
	fmt.Fprintf(writer, "Debts:        %d\n", summary.TotalDebts)
	fmt.Fprintf(writer, "Goals:        %d (%d unmet)\n", summary.TotalGoals, summary.UnmetGoalCount)
	fmt.Fprintf(writer, "Insights:     %d\n", summary.InsightCount)
}

func (rg *ReportGenerator) printNetWorth(result *engine.AnalyticsResult, writer io.Writer) {
	netWorth := result.NetWorth
	fmt.Fprintf(writer, "Assets:      %s\n", netWorth.TotalAssets.StringFixed(2))
	fmt.Fprintf(writer, "Liabilities: %s\n", netWorth.TotalLiabilities.StringFixed(2))
	fmt.Fprintf(writer, "Net Worth:   %s\n", netWorth.NetWorth.StringFixed(2))
}

func (rg *ReportGenerator) printBudgets(result *engine.AnalyticsResult, writer io.Writer) {
	for _, status := range result.BudgetStatuses {
		fmt.Fprintf(writer, "  %-20s %s / %s (%.1f%%) [%s]\n",
			status.Budget.Name,
			status.Spent.StringFixed(2),
			status.Budget.TotalAmount.StringFixed(2),
			status.Percentage,
			strings.ToUpper(string(status.Status)))
	}
}

func (rg *ReportGenerator) printDebtComparison(result *engine.AnalyticsResult, writer io.Writer) {
	comparison := result.DebtComparison

	fmt.Fprintf(writer, "Snowball:  %d months, %s total interest\n",
		comparison.Snowball.MonthsToPayoff,
		comparison.Snowball.TotalInterestPaid.StringFixed(2))
	fmt.Fprintf(writer, "Avalanche: %d months, %s total interest\n",
		comparison.Avalanche.MonthsToPayoff,
		comparison.Avalanche.TotalInterestPaid.StringFixed(2))
	fmt.Fprintf(writer, "Recommended: %s (saves %s in interest)\n",
		comparison.Recommendation,
		comparison.Savings.StringFixed(2))
}

func (rg *ReportGenerator) printForecast(result *engine.AnalyticsResult, writer io.Writer) {
	summary := result.Forecast.Summary

	fmt.Fprintf(writer, "Horizon:          %d days\n", result.Forecast.HorizonDays)
	fmt.Fprintf(writer, "Starting Balance: %s\n", summary.StartingBalance.StringFixed(2))
	fmt.Fprintf(writer, "Projected End:    %s\n", summary.EndBalance.StringFixed(2))
	fmt.Fprintf(writer, "Projected Low:    %s\n", summary.MinBalance.StringFixed(2))
	fmt.Fprintf(writer, "Avg Daily Net:    %s\n", summary.AvgDailyNet.StringFixed(2))
	fmt.Fprintf(writer, "Risk Level:       %s\n", strings.ToUpper(string(summary.RiskLevel)))

	if result.EndOfMonth != nil {
		fmt.Fprintf(writer, "End of Month:     %s (%.0f%% confidence, %d days out)\n",
			result.EndOfMonth.PredictedBalance.StringFixed(2),
			result.EndOfMonth.Confidence*100,
			result.EndOfMonth.DaysRemaining)
	}
}

func (rg *ReportGenerator) printGoals(simulations []*goals.Simulation, recommendations []goals.Recommendation, writer io.Writer) {
	for _, simulation := range simulations {
		line := fmt.Sprintf("  %-20s %.1f%% funded", simulation.Goal.Name, simulation.ProgressPercent)
		if simulation.MonthsToTarget != nil {
			line += fmt.Sprintf(", %d months to go", *simulation.MonthsToTarget)
		}
		if !simulation.IsAchievable {
			line += " [NOT ON TRACK]"
		}
		fmt.Fprintf(writer, "%s\n", line)
	}

	if len(recommendations) > 0 {
		fmt.Fprintf(writer, "\nRecommendations:\n")
		for _, recommendation := range recommendations {
			fmt.Fprintf(writer, "  - %s: %s\n", recommendation.GoalName, recommendation.Message)
		}
	}
}

func (rg *ReportGenerator) printInsights(insights []*models.Insight, writer io.Writer) {
	// Group by severity, most severe first
	severities := []models.Severity{
		models.SeverityCritical,
		models.SeverityWarning,
		models.SeverityInfo,
		models.SeverityPositive,
	}

	groups := make(map[models.Severity][]*models.Insight)
	for _, insight := range insights {
		groups[insight.Severity] = append(groups[insight.Severity], insight)
	}

	for _, severity := range severities {
		group := groups[severity]
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(writer, "%s (%d):\n", strings.ToUpper(string(severity)), len(group))
		for i, insight := range group {
			fmt.Fprintf(writer, "  - %s: %s\n", insight.Title, insight.Summary)

			if i >= rg.config.MaxListItems-1 && len(group) > rg.config.MaxListItems {
				fmt.Fprintf(writer, "  ... and %d more\n", len(group)-rg.config.MaxListItems)
				break
			}
		}
	}
}

func (rg *ReportGenerator) printBalanceDrifts(result *engine.AnalyticsResult, writer io.Writer) {
	for _, drift := range result.BalanceDrifts {
		fmt.Fprintf(writer, "  %s: recorded %s, derived %s (off by %s)\n",
			drift.AccountName,
			drift.RecordedBalance.StringFixed(2),
			drift.DerivedBalance.StringFixed(2),
			drift.Difference.StringFixed(2))
	}
}

func (rg *ReportGenerator) printProcessingStats(stats *engine.ProcessingStats, writer io.Writer) {
	fmt.Fprintf(writer, "Parse Errors:     %d\n", stats.ParseErrors)
	fmt.Fprintf(writer, "Parsing Time:     %v\n", stats.ParsingTime)
	fmt.Fprintf(writer, "Analysis Time:    %v\n", stats.AnalysisTime)
	fmt.Fprintf(writer, "Total Processing: %v\n", stats.TotalProcessingTime)
}

// Helper methods

func (rg *ReportGenerator) filterResultForOutput(result *engine.AnalyticsResult) map[string]interface{} {
	output := map[string]interface{}{
		"summary":      result.Summary,
		"net_worth":    result.NetWorth,
		"processed_at": result.ProcessedAt,
	}

	if rg.config.IncludeBudgets && result.BudgetStatuses != nil {
		output["budget_statuses"] = result.BudgetStatuses
	}

	if rg.config.IncludeDebts && result.DebtComparison != nil {
		output["debt_comparison"] = result.DebtComparison
	}

	if rg.config.IncludeForecast && result.Forecast != nil {
		output["forecast"] = result.Forecast
		if result.EndOfMonth != nil {
			output["end_of_month"] = result.EndOfMonth
		}
	}

	if rg.config.IncludeGoals && result.GoalSimulations != nil {
		output["goal_simulations"] = result.GoalSimulations
		if len(result.GoalRecommendations) > 0 {
			output["goal_recommendations"] = result.GoalRecommendations
		}
	}

	if rg.config.IncludeInsights && result.Insights != nil {
		output["insights"] = result.Insights
	}

	if rg.config.IncludeBalanceDrifts && result.BalanceDrifts != nil {
		output["balance_drifts"] = result.BalanceDrifts
	}

	if rg.config.IncludeProcessingStats && result.ProcessingStats != nil {
		output["processing_stats"] = result.ProcessingStats
	}

	return output
}

// UpdateConfiguration updates the report generator configuration
func (rg *ReportGenerator) UpdateConfiguration(config *ReportConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid report configuration: %w", err)
	}

	rg.config = config
	return nil
}

// GetConfiguration returns the current configuration
func (rg *ReportGenerator) GetConfiguration() *ReportConfig {
	return rg.config
}
