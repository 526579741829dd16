package parsers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AldyLoing/FinSight/internal/models"
	"github.com/AldyLoing/FinSight/pkg/errors"
	"github.com/AldyLoing/FinSight/pkg/logger"
)

// Dataset bundles the supporting entities loaded alongside transactions
type Dataset struct {
	Accounts []*models.Account          `json:"accounts,omitempty"`
	Splits   []*models.TransactionSplit `json:"splits,omitempty"`
	Budgets  []*models.Budget           `json:"budgets,omitempty"`
	Debts    []*models.Debt             `json:"debts,omitempty"`
	Goals    []*models.Goal             `json:"goals,omitempty"`
}

// DatasetLoader loads and validates JSON dataset bundles
type DatasetLoader struct {
	logger logger.Logger
}

// NewDatasetLoader creates a new dataset loader
func NewDatasetLoader() *DatasetLoader {
	return &DatasetLoader{
		logger: logger.GetGlobalLogger().WithComponent("dataset_loader"),
	}
}

// Load reads a JSON dataset bundle from a file and validates its contents
func (dl *DatasetLoader) Load(filename string) (*Dataset, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, errors.FileError(errors.CodeFileNotFound, "", fmt.Errorf("filename cannot be empty"))
	}

	dl.logger.WithField("file", filename).Info("Loading dataset bundle")

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, filename, err).
				WithSuggestion("Check that the dataset file path is correct")
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, filename, err).
				WithSuggestion("Check file permissions")
		}
		return nil, errors.FileError(errors.CodeFileCorrupted, filename, err)
	}

	var dataset Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, filename, 0, "", "", err).
			WithSuggestion("Ensure the dataset file contains valid JSON")
	}

	if err := dl.validate(&dataset); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidData, filename, 0, "", "", err)
	}

	dl.logger.WithFields(logger.Fields{
		"accounts": len(dataset.Accounts),
		"splits":   len(dataset.Splits),
		"budgets":  len(dataset.Budgets),
		"debts":    len(dataset.Debts),
		"goals":    len(dataset.Goals),
	}).Info("Dataset bundle loaded")

	return &dataset, nil
}

// validate runs entity-level validation across the bundle
func (dl *DatasetLoader) validate(dataset *Dataset) error {
	for i, account := range dataset.Accounts {
		if err := account.Validate(); err != nil {
			return fmt.Errorf("account %d (%s): %w", i, account.ID, err)
		}
	}

	for i, split := range dataset.Splits {
		if err := split.Validate(); err != nil {
			return fmt.Errorf("split %d (transaction %s): %w", i, split.TransactionID, err)
		}
	}

	for i, budget := range dataset.Budgets {
		if err := budget.Validate(); err != nil {
			return fmt.Errorf("budget %d (%s): %w", i, budget.ID, err)
		}
	}

	for i, debt := range dataset.Debts {
		if err := debt.Validate(); err != nil {
			return fmt.Errorf("debt %d (%s): %w", i, debt.ID, err)
		}
	}

	for i, goal := range dataset.Goals {
		if err := goal.Validate(); err != nil {
			return fmt.Errorf("goal %d (%s): %w", i, goal.ID, err)
		}
	}

	return nil
}

// CheckSplitTotals logs a warning for every transaction whose splits do not
// sum back to the transaction amount. Mismatches do not fail the load; the
// analytics run proceeds on the transaction amounts.
func (dl *DatasetLoader) CheckSplitTotals(transactions []*models.Transaction, dataset *Dataset) []models.SplitMismatch {
	mismatches := models.ValidateSplitTotals(transactions, dataset.Splits)

	for _, mismatch := range mismatches {
		dl.logger.WithFields(logger.Fields{
			"transaction_id": mismatch.TransactionID,
			"expected":       mismatch.Expected.String(),
			"actual":         mismatch.Actual.String(),
		}).Warn("Split amounts do not sum to transaction amount")
	}

	return mismatches
}
