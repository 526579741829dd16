package parsers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/AldyLoing/FinSight/internal/models"
	"github.com/AldyLoing/FinSight/pkg/errors"
	"github.com/AldyLoing/FinSight/pkg/logger"
)

// TransactionParser handles parsing of transaction CSV exports
type TransactionParser struct {
	*BaseParser
	config *TransactionParserConfig
	logger logger.Logger
}

// NewTransactionParser creates a new transaction parser with the given configuration
func NewTransactionParser(config *TransactionParserConfig) (*TransactionParser, error) {
	if config == nil {
		config = DefaultTransactionParserConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "transaction_parser", config, err)
	}

	parseConfig := DefaultParseConfig()
	parseConfig.HasHeader = config.HasHeader
	parseConfig.Delimiter = config.Delimiter

	return &TransactionParser{
		BaseParser: NewBaseParser(parseConfig),
		config:     config,
		logger:     logger.GetGlobalLogger().WithComponent("transaction_parser"),
	}, nil
}

// ParseTransactions parses a transaction CSV file and returns the transactions
func (tp *TransactionParser) ParseTransactions(filename string) ([]*models.Transaction, *ParseStats, error) {
	return tp.ParseTransactionsWithContext(context.Background(), filename)
}

// ParseTransactionsWithContext parses a transaction CSV file with cancellation support
func (tp *TransactionParser) ParseTransactionsWithContext(ctx context.Context, filename string) ([]*models.Transaction, *ParseStats, error) {
	tp.logger.WithField("file", filename).Info("Starting transaction file parsing")

	file, err := tp.OpenFile(filename)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	tp.configureReader(reader)

	parseContext := NewParseContext()
	stats := NewParseStats()

	if err := tp.ReadHeaders(reader, parseContext); err != nil {
		return nil, stats, errors.ParseError(errors.CodeInvalidFormat, filename, 1, "", "", err)
	}

	if tp.config.HasHeader {
		if err := tp.validateRequiredColumns(parseContext); err != nil {
			return nil, stats, errors.ParseError(errors.CodeMissingColumn, filename, 1, "", "", err).
				WithSuggestion("Check the column mapping configuration against the file headers")
		}
	}

	var transactions []*models.Transaction

	for {
		select {
		case <-ctx.Done():
			return transactions, stats, errors.Wrap(ctx.Err(), errors.CategoryInternal,
				errors.CodeUnexpectedError, "transaction parsing cancelled")
		default:
		}

		record, err := tp.ReadRecord(reader, parseContext)
		if err != nil {
			if err == io.EOF {
				break
			}
			stats.AddError(&ParseError{
				Line:    parseContext.LineNumber,
				Message: "failed to read record",
				Err:     err,
			})
			continue
		}

		stats.RecordsParsed++

		transaction, parseErr := tp.parseTransactionFromRecord(record, parseContext)
		if parseErr != nil {
			stats.AddError(parseErr)
			continue
		}

		stats.RecordsValid++
		transactions = append(transactions, transaction)
	}

	stats.TotalLines = parseContext.LineNumber

	tp.logger.WithFields(logger.Fields{
		"file":          filename,
		"records_valid": stats.RecordsValid,
		"error_count":   stats.ErrorCount,
	}).Info("Completed transaction file parsing")

	return transactions, stats, nil
}

// validateRequiredColumns ensures the mapped required columns exist in the header
func (tp *TransactionParser) validateRequiredColumns(parseContext *ParseContext) error {
	required := []string{"id", "account_id", "amount", "occurred_at"}

	var missing []string
	for _, standardName := range required {
		columnName := tp.config.GetColumnName(standardName)
		if _, found := parseContext.GetColumnIndex(columnName); !found {
			missing = append(missing, columnName)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("required columns not found: %s", strings.Join(missing, ", "))
	}

	return nil
}

// parseTransactionFromRecord converts a CSV record into a transaction
func (tp *TransactionParser) parseTransactionFromRecord(record []string, parseContext *ParseContext) (*models.Transaction, error) {
	getValue := func(standardName string) string {
		columnName := tp.config.GetColumnName(standardName)
		if tp.config.HasHeader {
			if idx, found := parseContext.GetColumnIndex(columnName); found {
				return tp.GetFieldValue(record, idx)
			}
			return ""
		}
		// Without headers, fields follow the default column order
		switch standardName {
		case "id":
			return tp.GetFieldValue(record, 0)
		case "account_id":
			return tp.GetFieldValue(record, 1)
		case "amount":
			return tp.GetFieldValue(record, 2)
		case "currency":
			return tp.GetFieldValue(record, 3)
		case "occurred_at":
			return tp.GetFieldValue(record, 4)
		case "merchant":
			return tp.GetFieldValue(record, 5)
		case "category":
			return tp.GetFieldValue(record, 6)
		case "budget_id":
			return tp.GetFieldValue(record, 7)
		}
		return ""
	}

	id := getValue("id")
	if id == "" {
		return nil, &ParseError{
			Line:    parseContext.LineNumber,
			Field:   tp.config.GetColumnName("id"),
			Message: "transaction ID is required",
		}
	}

	accountID := getValue("account_id")
	if accountID == "" {
		return nil, &ParseError{
			Line:    parseContext.LineNumber,
			Field:   tp.config.GetColumnName("account_id"),
			Value:   id,
			Message: "account ID is required",
		}
	}

	amountStr := getValue("amount")
	if amountStr == "" {
		return nil, &ParseError{
			Line:    parseContext.LineNumber,
			Field:   tp.config.GetColumnName("amount"),
			Value:   id,
			Message: "amount is required",
		}
	}

	occurredAtStr := getValue("occurred_at")
	if occurredAtStr == "" {
		return nil, &ParseError{
			Line:    parseContext.LineNumber,
			Field:   tp.config.GetColumnName("occurred_at"),
			Value:   id,
			Message: "occurrence time is required",
		}
	}

	currency := getValue("currency")
	if currency == "" {
		currency = tp.config.DefaultCurrency
	}

	transaction, err := models.CreateTransactionFromCSV(
		id,
		accountID,
		amountStr,
		currency,
		occurredAtStr,
		getValue("merchant"),
		getValue("category"),
		getValue("budget_id"),
	)
	if err != nil {
		return nil, &ParseError{
			Line:    parseContext.LineNumber,
			Value:   id,
			Message: err.Error(),
			Err:     err,
		}
	}

	return transaction, nil
}

// ValidateTransactionFile performs a quick validation of a transaction file
// by checking the headers and sampling the first few records
func (tp *TransactionParser) ValidateTransactionFile(filename string) error {
	file, err := tp.OpenFile(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	tp.configureReader(reader)

	parseContext := NewParseContext()

	if err := tp.ReadHeaders(reader, parseContext); err != nil {
		return errors.ParseError(errors.CodeInvalidFormat, filename, 1, "", "", err)
	}

	if tp.config.HasHeader {
		if err := tp.validateRequiredColumns(parseContext); err != nil {
			return errors.ParseError(errors.CodeMissingColumn, filename, 1, "", "", err)
		}
	}

	// Sample the first records to catch obvious formatting problems
	for i := 0; i < 10; i++ {
		record, err := tp.ReadRecord(reader, parseContext)
		if err != nil {
			if err == io.EOF {
				break
			}
			return errors.ParseError(errors.CodeInvalidFormat, filename, parseContext.LineNumber, "", "", err)
		}

		if _, parseErr := tp.parseTransactionFromRecord(record, parseContext); parseErr != nil {
			return errors.ParseError(errors.CodeInvalidData, filename, parseContext.LineNumber, "", "", parseErr).
				WithSuggestion("Check the data format of the sampled records")
		}
	}

	return nil
}
