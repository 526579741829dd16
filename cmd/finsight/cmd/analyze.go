package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AldyLoing/FinSight/cmd/finsight/config"
	"github.com/AldyLoing/FinSight/internal/engine"
	"github.com/AldyLoing/FinSight/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the analyze command
var (
	transactionsFile string
	datasetFile      string
	outputFormat     string
	outputFile       string
	horizonDays      int
	extraPayment     float64
	asOfDate         string
	defaultCurrency  string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analytics suite over finance data",
	Long: `Analyze reads a transaction CSV export and an optional JSON dataset
bundle, then runs every analysis: budget statuses, debt payoff strategy
comparison, cashflow forecast, goal simulations, and spending insights.

This command requires:
- A transaction file (CSV format)
- Optionally, a dataset bundle (JSON) with accounts, splits, budgets,
  debts, and goals

Examples:
  # Basic analysis over transactions only
  finsight analyze --transactions transactions.csv

  # Full analysis with the dataset bundle
  finsight analyze --transactions tx.csv --dataset dataset.json

  # Custom forecast horizon and debt extra payment
  finsight analyze --transactions tx.csv --dataset dataset.json \
    --horizon 180 --extra-payment 250

  # JSON report written to a file
  finsight analyze --transactions tx.csv --dataset dataset.json \
    --output-format json --output-file report.json

  # Reproducible run anchored to a fixed date
  finsight analyze --transactions tx.csv --as-of 2024-06-15`,

	PreRunE: validateAnalyzeFlags,
	RunE:    runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Required flags
	analyzeCmd.Flags().StringVarP(&transactionsFile, "transactions", "t", "", "path to transaction CSV file (required)")

	// Input flags
	analyzeCmd.Flags().StringVarP(&datasetFile, "dataset", "d", "", "path to JSON dataset bundle (accounts, splits, budgets, debts, goals)")
	analyzeCmd.Flags().StringVar(&defaultCurrency, "currency", "USD", "default currency for rows without one")

	// Output flags
	analyzeCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	analyzeCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Analysis flags
	analyzeCmd.Flags().IntVar(&horizonDays, "horizon", 90, "forecast horizon in days")
	analyzeCmd.Flags().Float64Var(&extraPayment, "extra-payment", 0, "extra monthly payment for debt strategies")
	analyzeCmd.Flags().StringVar(&asOfDate, "as-of", "", "anchor date for the analysis (YYYY-MM-DD, default: today)")

	// Mark required flags
	analyzeCmd.MarkFlagRequired("transactions")

	// Bind flags to viper
	viper.BindPFlag("transactions", analyzeCmd.Flags().Lookup("transactions"))
	viper.BindPFlag("dataset", analyzeCmd.Flags().Lookup("dataset"))
	viper.BindPFlag("currency", analyzeCmd.Flags().Lookup("currency"))
	viper.BindPFlag("output-format", analyzeCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", analyzeCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("horizon", analyzeCmd.Flags().Lookup("horizon"))
	viper.BindPFlag("extra-payment", analyzeCmd.Flags().Lookup("extra-payment"))
	viper.BindPFlag("as-of", analyzeCmd.Flags().Lookup("as-of"))
}

func validateAnalyzeFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	transactionsFile = viper.GetString("transactions")
	datasetFile = viper.GetString("dataset")
	defaultCurrency = viper.GetString("currency")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	horizonDays = viper.GetInt("horizon")
	extraPayment = viper.GetFloat64("extra-payment")
	asOfDate = viper.GetString("as-of")

	// Validate required flags
	if transactionsFile == "" {
		return fmt.Errorf("transactions file is required")
	}

	// Validate file existence
	if err := validateFileExists(transactionsFile, "transaction file"); err != nil {
		return err
	}

	if datasetFile != "" {
		if err := validateFileExists(datasetFile, "dataset file"); err != nil {
			return err
		}
	}

	// Validate output format
	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	// Validate analysis options
	if horizonDays <= 0 {
		return fmt.Errorf("forecast horizon must be positive")
	}
	if extraPayment < 0 {
		return fmt.Errorf("extra payment cannot be negative")
	}

	if asOfDate != "" {
		if _, err := time.Parse("2006-01-02", asOfDate); err != nil {
			return fmt.Errorf("invalid as-of date format. Use YYYY-MM-DD: %w", err)
		}
	}

	// Validate output file directory exists if specified
	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	// Check if file is readable
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	errorHandler := NewCLIErrorHandler()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting analysis...\n")
		fmt.Fprintf(os.Stderr, "Transactions file: %s\n", transactionsFile)
		if datasetFile != "" {
			fmt.Fprintf(os.Stderr, "Dataset file: %s\n", datasetFile)
		}
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Output file: %s\n", outputFile)
		}
	}

	// Create configurations
	transactionConfig := config.CreateTransactionParserConfig(defaultCurrency)

	engineConfig, err := config.CreateEngineConfig(horizonDays, extraPayment, asOfDate)
	if err != nil {
		return fmt.Errorf("failed to create engine config: %w", err)
	}

	// Create the analytics service
	service, err := engine.NewAnalyticsService(transactionConfig, engineConfig)
	if err != nil {
		return fmt.Errorf("failed to create analytics service: %w", err)
	}

	// Run the analysis
	request := &engine.AnalyticsRequest{
		TransactionsFile: transactionsFile,
		DatasetFile:      datasetFile,
	}

	result, err := service.RunAnalysis(ctx, request)
	if err != nil {
		exitCode := errorHandler.HandleError(err)
		os.Exit(exitCode)
	}

	// Generate report
	reportConfig := config.CreateReportConfig(outputFormat)
	reportGenerator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	// Determine output destination
	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := reportGenerator.GenerateReport(result, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	// Show completion message
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nAnalysis completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d transactions across %d accounts.\n",
			result.Summary.TotalTransactions, result.Summary.TotalAccounts)
		fmt.Fprintf(os.Stderr, "Generated %d insights, %d budgets at risk, %d unmet goals.\n",
			result.Summary.InsightCount, result.Summary.BudgetsAtRisk, result.Summary.UnmetGoalCount)
		fmt.Fprintf(os.Stderr, "Processing time: %v\n", result.Summary.ProcessingDuration)
	}

	return nil
}
