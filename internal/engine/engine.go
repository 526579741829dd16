// Package engine provides high-level orchestration for the analytics pipeline.
//
// This package coordinates the complete analytics workflow, including:
//   - File parsing and dataset loading
//   - Budget status evaluation
//   - Debt payoff strategy comparison
//   - Cashflow forecasting
//   - Goal simulation and insight generation
//
// The AnalyticsService provides the main entry point: load the input files,
// run every analysis over the shared dataset, and compile a single result.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/AldyLoing/FinSight/internal/accounts"
	"github.com/AldyLoing/FinSight/internal/budget"
	"github.com/AldyLoing/FinSight/internal/debt"
	"github.com/AldyLoing/FinSight/internal/forecast"
	"github.com/AldyLoing/FinSight/internal/goals"
	"github.com/AldyLoing/FinSight/internal/insights"
	"github.com/AldyLoing/FinSight/internal/models"
	"github.com/AldyLoing/FinSight/internal/parsers"
	"github.com/AldyLoing/FinSight/pkg/errors"
	"github.com/AldyLoing/FinSight/pkg/logger"

	"github.com/shopspring/decimal"
)

// AnalyticsService orchestrates the complete analytics process
type AnalyticsService struct {
	transactionParser *parsers.TransactionParser
	datasetLoader     *parsers.DatasetLoader
	config            *Config
	logger            logger.Logger
}

// Config holds configuration options for the analytics service
type Config struct {
	// Forecast options
	HorizonDays int

	// Debt options
	ExtraPayment decimal.Decimal

	// AsOf anchors "today" for every time-sensitive analysis;
	// the zero value means time.Now()
	AsOf time.Time

	// Validation options
	ValidateInputs   bool
	CheckSplitTotals bool
}

// DefaultConfig returns a default configuration for the analytics service
func DefaultConfig() *Config {
	return &Config{
		HorizonDays:      90,
		ExtraPayment:     decimal.Zero,
		ValidateInputs:   true,
		CheckSplitTotals: true,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.HorizonDays <= 0 {
		return fmt.Errorf("horizon days must be positive, got %d", c.HorizonDays)
	}

	if c.ExtraPayment.IsNegative() {
		return fmt.Errorf("extra payment cannot be negative, got %s", c.ExtraPayment)
	}

	return nil
}

// AnalyticsRequest represents a request for a full analytics run
type AnalyticsRequest struct {
	TransactionsFile  string
	DatasetFile       string
	TransactionConfig *parsers.TransactionParserConfig
}

// Validate validates the analytics request
func (r *AnalyticsRequest) Validate() error {
	if r.TransactionsFile == "" {
		return fmt.Errorf("transactions file path is required")
	}

	return nil
}

// AnalyticsResult contains the complete results of an analytics run
type AnalyticsResult struct {
	// Summary information
	Summary *ResultSummary `json:"summary"`

	// Analysis results
	BudgetStatuses      []*budget.BudgetStatus         `json:"budget_statuses,omitempty"`
	DebtComparison      *debt.StrategyComparison       `json:"debt_comparison,omitempty"`
	Forecast            *forecast.Forecast             `json:"forecast,omitempty"`
	EndOfMonth          *forecast.EndOfMonthPrediction `json:"end_of_month,omitempty"`
	GoalSimulations     []*goals.Simulation            `json:"goal_simulations,omitempty"`
	GoalRecommendations []goals.Recommendation         `json:"goal_recommendations,omitempty"`
	Insights            []*models.Insight              `json:"insights,omitempty"`

	// Account health
	NetWorth        accounts.NetWorthSummary `json:"net_worth"`
	BalanceDrifts   []accounts.BalanceDrift  `json:"balance_drifts,omitempty"`
	SplitMismatches []models.SplitMismatch   `json:"split_mismatches,omitempty"`

	// Processing information
	ProcessingStats *ProcessingStats `json:"processing_stats,omitempty"`

	// Metadata
	ProcessedAt time.Time `json:"processed_at"`
}

// ResultSummary provides a high-level overview of an analytics run
type ResultSummary struct {
	// Entity counts
	TotalTransactions int `json:"total_transactions"`
	TotalAccounts     int `json:"total_accounts"`
	TotalBudgets      int `json:"total_budgets"`
	TotalDebts        int `json:"total_debts"`
	TotalGoals        int `json:"total_goals"`

	// Headline figures
	NetWorth       decimal.Decimal `json:"net_worth"`
	InsightCount   int             `json:"insight_count"`
	BudgetsAtRisk  int             `json:"budgets_at_risk"`
	UnmetGoalCount int             `json:"unmet_goal_count"`

	// Processing metadata
	ProcessingDuration time.Duration `json:"processing_duration"`
}

// ProcessingStats contains detailed processing statistics
type ProcessingStats struct {
	ParseErrors         int           `json:"parse_errors"`
	ParsingTime         time.Duration `json:"parsing_time"`
	AnalysisTime        time.Duration `json:"analysis_time"`
	TotalProcessingTime time.Duration `json:"total_processing_time"`
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	transactionConfig *parsers.TransactionParserConfig,
	config *Config,
) (*AnalyticsService, error) {

	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "analytics_service", config, err)
	}

	transactionParser, err := parsers.NewTransactionParser(transactionConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction parser: %w", err)
	}

	return &AnalyticsService{
		transactionParser: transactionParser,
		datasetLoader:     parsers.NewDatasetLoader(),
		config:            config,
		logger:            logger.GetGlobalLogger().WithComponent("analytics_service"),
	}, nil
}

// GetConfiguration returns the current configuration
func (as *AnalyticsService) GetConfiguration() *Config {
	return as.config
}

// UpdateConfiguration updates the service configuration
func (as *AnalyticsService) UpdateConfiguration(config *Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	as.config = config
	return nil
}

// RunAnalysis loads the input files and performs the complete analytics run
func (as *AnalyticsService) RunAnalysis(
	ctx context.Context,
	request *AnalyticsRequest,
) (*AnalyticsResult, error) {

	if err := request.Validate(); err != nil {
		return nil, errors.ValidationError(errors.CodeMissingField, "analytics_request", request, err).
			WithSuggestion("Provide at least a transactions file path")
	}

	op := logger.NewOperationLogger("analytics_run", as.logger).
		WithField("transactions_file", request.TransactionsFile)

	startTime := time.Now()

	// Step 1: Parse transactions
	op.Step("parsing transactions")
	parseStart := time.Now()

	transactions, parseStats, err := as.transactionParser.ParseTransactionsWithContext(ctx, request.TransactionsFile)
	if err != nil {
		op.Error(err, "Transaction parsing failed")
		return nil, errors.WrapIfNeeded(err, errors.CategoryParse, errors.CodeInvalidData,
			"failed to parse transactions")
	}

	// Step 2: Load the supporting dataset
	op.Step("loading dataset")
	dataset := &parsers.Dataset{}
	if request.DatasetFile != "" {
		dataset, err = as.datasetLoader.Load(request.DatasetFile)
		if err != nil {
			op.Error(err, "Dataset loading failed")
			return nil, err
		}
	}
	parsingTime := time.Since(parseStart)

	// Step 3: Run the analyses over the loaded data
	op.Step("running analyses")
	analysisStart := time.Now()

	result, err := as.Analyze(ctx, transactions, dataset)
	if err != nil {
		op.Error(err, "Analysis failed")
		return nil, err
	}

	result.ProcessingStats = &ProcessingStats{
		ParseErrors:         parseStats.ErrorCount,
		ParsingTime:         parsingTime,
		AnalysisTime:        time.Since(analysisStart),
		TotalProcessingTime: time.Since(startTime),
	}
	result.Summary.ProcessingDuration = result.ProcessingStats.TotalProcessingTime

	op.WithFields(logger.Fields{
		"transactions": len(transactions),
		"insights":     result.Summary.InsightCount,
	}).Success("Analytics run completed")

	return result, nil
}

// Analyze performs the complete analytics run over in-memory data
func (as *AnalyticsService) Analyze(
	ctx context.Context,
	transactions []*models.Transaction,
	dataset *parsers.Dataset,
) (*AnalyticsResult, error) {

	if dataset == nil {
		dataset = &parsers.Dataset{}
	}

	if as.config.ValidateInputs {
		if err := as.validateInputs(transactions, dataset); err != nil {
			return nil, errors.ValidationError(errors.CodeInvalidData, "dataset", nil, err)
		}
	}

	asOf := as.config.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	result := &AnalyticsResult{
		Summary:     &ResultSummary{},
		ProcessedAt: asOf,
	}

	// Mismatched splits are reported, never fatal
	if as.config.CheckSplitTotals {
		result.SplitMismatches = as.datasetLoader.CheckSplitTotals(transactions, dataset)
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"account_summary", func() error {
			result.NetWorth = accounts.NetWorth(dataset.Accounts)
			result.BalanceDrifts = accounts.Reconcile(dataset.Accounts, transactions, nil)
			return nil
		}},
		{"budget_status", func() error {
			calculator := budget.NewCalculator(nil)
			result.BudgetStatuses = calculator.StatusAll(dataset.Budgets, transactions, dataset.Splits)
			return nil
		}},
		{"debt_comparison", func() error {
			if len(dataset.Debts) == 0 {
				return nil
			}
			simulator := debt.NewSimulator(nil)
			result.DebtComparison = simulator.CompareStrategies(dataset.Debts, as.config.ExtraPayment)
			return nil
		}},
		{"cashflow_forecast", func() error {
			forecaster := forecast.NewForecaster(&forecast.Config{
				HorizonDays: as.config.HorizonDays,
				AsOf:        asOf,
			})
			result.Forecast = forecaster.Project(transactions, dataset.Accounts)
			result.EndOfMonth = forecaster.PredictEndOfMonth(transactions, dataset.Accounts)
			return nil
		}},
		{"goal_simulation", func() error {
			simulator := goals.NewSimulator(&goals.Config{AsOf: asOf})
			result.GoalSimulations = simulator.SimulateAll(dataset.Goals)
			result.GoalRecommendations = simulator.Recommend(dataset.Goals)
			return nil
		}},
		{"insight_generation", func() error {
			engineConfig := insights.DefaultConfig()
			engineConfig.AsOf = asOf
			insightEngine := insights.NewEngine(engineConfig)
			result.Insights = insightEngine.Generate(transactions, dataset.Splits, dataset.Budgets)
			return nil
		}},
	}

	for _, step := range steps {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.CategoryInternal,
				errors.CodeUnexpectedError, "analytics run cancelled")
		default:
		}

		if err := step.run(); err != nil {
			return nil, errors.AnalyticsError(errors.CodeProcessingError, step.name, err)
		}
	}

	as.buildSummary(result, transactions, dataset)

	return result, nil
}

// validateInputs runs entity validation across the in-memory data
func (as *AnalyticsService) validateInputs(transactions []*models.Transaction, dataset *parsers.Dataset) error {
	for _, tx := range transactions {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
	}

	for _, account := range dataset.Accounts {
		if err := account.Validate(); err != nil {
			return fmt.Errorf("account %s: %w", account.ID, err)
		}
	}

	for _, b := range dataset.Budgets {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("budget %s: %w", b.ID, err)
		}
	}

	for _, d := range dataset.Debts {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("debt %s: %w", d.ID, err)
		}
	}

	for _, g := range dataset.Goals {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("goal %s: %w", g.ID, err)
		}
	}

	return nil
}

// buildSummary fills in the headline summary from the compiled results
func (as *AnalyticsService) buildSummary(
	result *AnalyticsResult,
	transactions []*models.Transaction,
	dataset *parsers.Dataset,
) {
	summary := result.Summary

	summary.TotalTransactions = len(transactions)
	summary.TotalAccounts = len(dataset.Accounts)
	summary.TotalBudgets = len(dataset.Budgets)
	summary.TotalDebts = len(dataset.Debts)
	summary.TotalGoals = len(dataset.Goals)

	summary.NetWorth = result.NetWorth.NetWorth
	summary.InsightCount = len(result.Insights)

	for _, status := range result.BudgetStatuses {
		if status.Status != budget.StatusOnTrack {
			summary.BudgetsAtRisk++
		}
	}

	for _, simulation := range result.GoalSimulations {
		if !simulation.Goal.IsMet() {
			summary.UnmetGoalCount++
		}
	}
}
