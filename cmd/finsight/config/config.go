package config

import (
	"fmt"
	"time"

	"github.com/AldyLoing/FinSight/internal/engine"
	"github.com/AldyLoing/FinSight/internal/parsers"
	"github.com/AldyLoing/FinSight/internal/reporter"

	"github.com/shopspring/decimal"
)

// CreateTransactionParserConfig creates a default transaction parser configuration
func CreateTransactionParserConfig(defaultCurrency string) *parsers.TransactionParserConfig {
	config := parsers.DefaultTransactionParserConfig()

	if defaultCurrency != "" {
		config.DefaultCurrency = defaultCurrency
	}

	config.ColumnAliases = map[string]string{
		// Common aliases for transaction exports
		"transaction_id": "id",
		"tx_id":          "id",
		"txn_id":         "id",
		"account":        "account_id",
		"wallet":         "account_id",
		"amt":            "amount",
		"value":          "amount",
		"ccy":            "currency",
		"date":           "occurred_at",
		"datetime":       "occurred_at",
		"timestamp":      "occurred_at",
		"booked_at":      "occurred_at",
		"payee":          "merchant",
		"vendor":         "merchant",
		"description":    "merchant",
	}

	return config
}

// CreateEngineConfig creates an analytics engine configuration from CLI options
func CreateEngineConfig(horizonDays int, extraPayment float64, asOf string) (*engine.Config, error) {
	config := engine.DefaultConfig()

	if horizonDays > 0 {
		config.HorizonDays = horizonDays
	}

	if extraPayment < 0 {
		return nil, fmt.Errorf("extra payment cannot be negative: %v", extraPayment)
	}
	config.ExtraPayment = decimal.NewFromFloat(extraPayment)

	if asOf != "" {
		parsed, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			return nil, fmt.Errorf("invalid as-of date format, use YYYY-MM-DD: %w", err)
		}
		config.AsOf = parsed
	}

	return config, nil
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
	case "json":
		config.Format = reporter.FormatJSON
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
		// CSV is for record data, not run metadata
		config.IncludeProcessingStats = false
		config.IncludeForecast = false
	}

	return config
}
