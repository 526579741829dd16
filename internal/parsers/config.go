package parsers

import (
	"fmt"
	"strings"
)

// TransactionParserConfig holds configuration for parsing transaction CSV files
type TransactionParserConfig struct {
	IDColumn         string            `json:"id_column"`
	AccountIDColumn  string            `json:"account_id_column"`
	AmountColumn     string            `json:"amount_column"`
	CurrencyColumn   string            `json:"currency_column"`
	OccurredAtColumn string            `json:"occurred_at_column"`
	MerchantColumn   string            `json:"merchant_column"`
	CategoryColumn   string            `json:"category_column"`
	BudgetIDColumn   string            `json:"budget_id_column"`
	DefaultCurrency  string            `json:"default_currency"`
	HasHeader        bool              `json:"has_header"`
	Delimiter        rune              `json:"delimiter"`
	ColumnAliases    map[string]string `json:"column_aliases,omitempty"`
}

// Validate checks if the transaction parser configuration is valid
func (tpc *TransactionParserConfig) Validate() error {
	if strings.TrimSpace(tpc.IDColumn) == "" {
		return fmt.Errorf("transaction ID column cannot be empty")
	}

	if strings.TrimSpace(tpc.AccountIDColumn) == "" {
		return fmt.Errorf("account ID column cannot be empty")
	}

	if strings.TrimSpace(tpc.AmountColumn) == "" {
		return fmt.Errorf("amount column cannot be empty")
	}

	if strings.TrimSpace(tpc.OccurredAtColumn) == "" {
		return fmt.Errorf("occurred at column cannot be empty")
	}

	return nil
}

// GetColumnName returns the actual column name, checking aliases first
func (tpc *TransactionParserConfig) GetColumnName(standardName string) string {
	if alias, exists := tpc.ColumnAliases[standardName]; exists {
		return alias
	}

	switch standardName {
	case "id":
		return tpc.IDColumn
	case "account_id":
		return tpc.AccountIDColumn
	case "amount":
		return tpc.AmountColumn
	case "currency":
		return tpc.CurrencyColumn
	case "occurred_at":
		return tpc.OccurredAtColumn
	case "merchant":
		return tpc.MerchantColumn
	case "category":
		return tpc.CategoryColumn
	case "budget_id":
		return tpc.BudgetIDColumn
	default:
		return standardName
	}
}

// DefaultTransactionParserConfig returns a configuration with standard defaults
func DefaultTransactionParserConfig() *TransactionParserConfig {
	return &TransactionParserConfig{
		IDColumn:         "id",
		AccountIDColumn:  "account_id",
		AmountColumn:     "amount",
		CurrencyColumn:   "currency",
		OccurredAtColumn: "occurred_at",
		MerchantColumn:   "merchant",
		CategoryColumn:   "category",
		BudgetIDColumn:   "budget_id",
		DefaultCurrency:  "USD",
		HasHeader:        true,
		Delimiter:        ',',
		ColumnAliases:    make(map[string]string),
	}
}
