package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SplitTolerance is the maximum difference allowed between a transaction's
// amount and the sum of its splits (one cent).
var SplitTolerance = decimal.NewFromFloat(0.01)

// AccountType classifies an account for net-worth purposes
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeBank       AccountType = "bank"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeEwallet    AccountType = "ewallet"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeOther      AccountType = "other"
)

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeCredit, AccountTypeEwallet,
		AccountTypeLoan, AccountTypeInvestment, AccountTypeOther:
		return true
	default:
		return false
	}
}

// IsLiability reports whether balances of this account type count against
// net worth (loans and credit lines) rather than toward it.
func (t AccountType) IsLiability() bool {
	return t == AccountTypeLoan || t == AccountTypeCredit
}

// Transaction represents a single ledger entry. Amount is signed: positive
// amounts are inflows, negative amounts are outflows. All transactions passed
// to one computation are assumed to share a comparable currency unit; the
// engine never converts.
type Transaction struct {
	ID         string          `json:"id" csv:"id"`
	AccountID  string          `json:"account_id" csv:"account_id"`
	Amount     decimal.Decimal `json:"amount" csv:"amount"`
	Currency   string          `json:"currency" csv:"currency"`
	OccurredAt time.Time       `json:"occurred_at" csv:"occurred_at"`
	Merchant   *string         `json:"merchant,omitempty" csv:"merchant"`
	Category   *string         `json:"category,omitempty" csv:"category"`
	BudgetID   *string         `json:"budget_id,omitempty" csv:"budget_id"`
}

// NewTransaction creates a new Transaction instance
func NewTransaction(id, accountID string, amount decimal.Decimal, currency string, occurredAt time.Time) *Transaction {
	return &Transaction{
		ID:         id,
		AccountID:  accountID,
		Amount:     amount,
		Currency:   currency,
		OccurredAt: occurredAt,
	}
}

// Validate performs basic validation on the Transaction
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction ID cannot be empty")
	}

	if strings.TrimSpace(t.AccountID) == "" {
		return fmt.Errorf("transaction account ID cannot be empty")
	}

	if t.OccurredAt.IsZero() {
		return fmt.Errorf("transaction time cannot be zero")
	}

	return nil
}

// IsExpense returns true if the transaction is an outflow (negative amount)
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome returns true if the transaction is an inflow (positive amount)
func (t *Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// AbsAmount returns the absolute value of the transaction amount
func (t *Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// MerchantName returns the merchant, or an empty string when unset
func (t *Transaction) MerchantName() string {
	if t.Merchant == nil {
		return ""
	}
	return strings.TrimSpace(*t.Merchant)
}

// String returns a string representation of the Transaction
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{ID: %s, Account: %s, Amount: %s, At: %s}",
		t.ID, t.AccountID, t.Amount.String(), t.OccurredAt.Format(time.RFC3339))
}

// MarshalJSON implements custom JSON marshaling for Transaction
func (t *Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Amount     string `json:"amount"`
		OccurredAt string `json:"occurred_at"`
		*Alias
	}{
		Amount:     t.Amount.String(),
		OccurredAt: t.OccurredAt.Format(time.RFC3339),
		Alias:      (*Alias)(t),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Transaction
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type Alias Transaction
	aux := &struct {
		Amount     string `json:"amount"`
		OccurredAt string `json:"occurred_at"`
		*Alias
	}{
		Alias: (*Alias)(t),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	t.Amount, err = decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	t.OccurredAt, err = ParseTimeWithFormats(aux.OccurredAt)
	if err != nil {
		return fmt.Errorf("invalid occurred_at format: %w", err)
	}

	return nil
}

// TransactionSplit allocates part of a transaction's amount to a category.
// Splits share the parent's sign convention.
type TransactionSplit struct {
	TransactionID string          `json:"transaction_id"`
	CategoryID    *string         `json:"category_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewTransactionSplit creates a new TransactionSplit instance
func NewTransactionSplit(transactionID string, categoryID *string, amount decimal.Decimal) *TransactionSplit {
	return &TransactionSplit{
		TransactionID: transactionID,
		CategoryID:    categoryID,
		Amount:        amount,
	}
}

// Validate performs basic validation on the TransactionSplit
func (s *TransactionSplit) Validate() error {
	if strings.TrimSpace(s.TransactionID) == "" {
		return fmt.Errorf("split transaction ID cannot be empty")
	}
	return nil
}

// AbsAmount returns the absolute value of the split amount
func (s *TransactionSplit) AbsAmount() decimal.Decimal {
	return s.Amount.Abs()
}

// MarshalJSON implements custom JSON marshaling for TransactionSplit
func (s *TransactionSplit) MarshalJSON() ([]byte, error) {
	type Alias TransactionSplit
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		*Alias
	}{
		Amount: s.Amount.String(),
		Alias:  (*Alias)(s),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for TransactionSplit
func (s *TransactionSplit) UnmarshalJSON(data []byte) error {
	type Alias TransactionSplit
	aux := &struct {
		Amount string `json:"amount"`
		*Alias
	}{
		Alias: (*Alias)(s),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	s.Amount, err = decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid split amount format: %w", err)
	}

	return nil
}

// SplitMismatch describes a transaction whose splits do not add up to its
// amount within SplitTolerance.
type SplitMismatch struct {
	TransactionID string
	Expected      decimal.Decimal
	Actual        decimal.Decimal
	Difference    decimal.Decimal
}

// ValidateSplitTotals checks that the splits of each transaction approximate
// the parent amount within SplitTolerance. Mismatches are reported, never
// enforced; transactions without splits are skipped.
func ValidateSplitTotals(transactions []*Transaction, splits []*TransactionSplit) []SplitMismatch {
	byTx := make(map[string]decimal.Decimal)
	for _, s := range splits {
		byTx[s.TransactionID] = byTx[s.TransactionID].Add(s.Amount)
	}

	var mismatches []SplitMismatch
	for _, tx := range transactions {
		total, ok := byTx[tx.ID]
		if !ok {
			continue
		}
		diff := tx.Amount.Sub(total).Abs()
		if diff.GreaterThan(SplitTolerance) {
			mismatches = append(mismatches, SplitMismatch{
				TransactionID: tx.ID,
				Expected:      tx.Amount,
				Actual:        total,
				Difference:    diff,
			})
		}
	}

	return mismatches
}

// Account represents a balance-holding account snapshot
type Account struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     AccountType     `json:"type"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	Hidden   bool            `json:"hidden,omitempty"`
	Archived bool            `json:"archived,omitempty"`
}

// Validate performs basic validation on the Account
func (a *Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("account ID cannot be empty")
	}

	if !a.Type.IsValid() {
		return fmt.Errorf("invalid account type: %s", a.Type)
	}

	return nil
}

// IsActive reports whether the account counts toward balances and forecasts
func (a *Account) IsActive() bool {
	return !a.Archived && !a.Hidden
}

// MarshalJSON implements custom JSON marshaling for Account
func (a *Account) MarshalJSON() ([]byte, error) {
	type Alias Account
	return json.Marshal(&struct {
		Balance string `json:"balance"`
		*Alias
	}{
		Balance: a.Balance.String(),
		Alias:   (*Alias)(a),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Account
func (a *Account) UnmarshalJSON(data []byte) error {
	type Alias Account
	aux := &struct {
		Balance string `json:"balance"`
		*Alias
	}{
		Alias: (*Alias)(a),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	a.Balance, err = decimal.NewFromString(aux.Balance)
	if err != nil {
		return fmt.Errorf("invalid balance format: %w", err)
	}

	return nil
}

// Budget represents a spending limit over a period. A nil EndDate means the
// period is open-ended and a synthetic end (end of the start month) applies.
// A nil CategoryID scopes the budget to all expenses rather than one category.
type Budget struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CategoryID     *string         `json:"category_id,omitempty"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AlertThreshold *float64        `json:"alert_threshold,omitempty"`
	CarryOver      bool            `json:"carry_over"`
}

// Validate performs basic validation on the Budget
func (b *Budget) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("budget ID cannot be empty")
	}

	if b.StartDate.IsZero() {
		return fmt.Errorf("budget start date cannot be zero")
	}

	if b.TotalAmount.IsNegative() {
		return fmt.Errorf("budget total amount cannot be negative")
	}

	if b.EndDate != nil && b.EndDate.Before(b.StartDate) {
		return fmt.Errorf("budget end date cannot be before start date")
	}

	if b.AlertThreshold != nil && (*b.AlertThreshold < 0 || *b.AlertThreshold > 1) {
		return fmt.Errorf("budget alert threshold must be between 0 and 1")
	}

	return nil
}

// EffectiveEndDate returns the budget window end: the explicit end date when
// set, otherwise the end of the start date's calendar month.
func (b *Budget) EffectiveEndDate() time.Time {
	if b.EndDate != nil {
		return *b.EndDate
	}
	return EndOfMonth(b.StartDate)
}

// MarshalJSON implements custom JSON marshaling for Budget
func (b *Budget) MarshalJSON() ([]byte, error) {
	type Alias Budget
	aux := &struct {
		TotalAmount string  `json:"total_amount"`
		StartDate   string  `json:"start_date"`
		EndDate     *string `json:"end_date,omitempty"`
		*Alias
	}{
		TotalAmount: b.TotalAmount.String(),
		StartDate:   b.StartDate.Format("2006-01-02"),
		Alias:       (*Alias)(b),
	}
	if b.EndDate != nil {
		end := b.EndDate.Format("2006-01-02")
		aux.EndDate = &end
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements custom JSON unmarshaling for Budget
func (b *Budget) UnmarshalJSON(data []byte) error {
	type Alias Budget
	aux := &struct {
		TotalAmount string  `json:"total_amount"`
		StartDate   string  `json:"start_date"`
		EndDate     *string `json:"end_date,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(b),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	b.TotalAmount, err = decimal.NewFromString(aux.TotalAmount)
	if err != nil {
		return fmt.Errorf("invalid total amount format: %w", err)
	}

	b.StartDate, err = ParseTimeWithFormats(aux.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date format: %w", err)
	}

	if aux.EndDate != nil {
		end, err := ParseTimeWithFormats(*aux.EndDate)
		if err != nil {
			return fmt.Errorf("invalid end date format: %w", err)
		}
		b.EndDate = &end
	}

	return nil
}

// InterestType describes how a debt accrues interest
type InterestType string

const (
	// InterestTypeSimple accrues interest each month on the open balance only
	InterestTypeSimple InterestType = "simple"
)

// IsValid checks if the interest type is valid
func (t InterestType) IsValid() bool {
	return t == InterestTypeSimple
}

// Debt represents an outstanding debt balance. InterestRate is an annual
// fraction (0.18 = 18% APR).
type Debt struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	InterestType   InterestType    `json:"interest_type"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
}

// Validate performs basic validation on the Debt
func (d *Debt) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("debt ID cannot be empty")
	}

	if d.CurrentBalance.IsNegative() {
		return fmt.Errorf("debt balance cannot be negative")
	}

	if d.InterestRate.IsNegative() {
		return fmt.Errorf("debt interest rate cannot be negative")
	}

	if d.MinimumPayment.IsNegative() {
		return fmt.Errorf("debt minimum payment cannot be negative")
	}

	if !d.InterestType.IsValid() {
		return fmt.Errorf("invalid interest type: %s", d.InterestType)
	}

	return nil
}

// MonthlyInterest returns one month of interest accrual at the current balance
func (d *Debt) MonthlyInterest() decimal.Decimal {
	return d.CurrentBalance.Mul(d.InterestRate.Div(decimal.NewFromInt(12)))
}

// MarshalJSON implements custom JSON marshaling for Debt
func (d *Debt) MarshalJSON() ([]byte, error) {
	type Alias Debt
	return json.Marshal(&struct {
		CurrentBalance string `json:"current_balance"`
		InterestRate   string `json:"interest_rate"`
		MinimumPayment string `json:"minimum_payment"`
		*Alias
	}{
		CurrentBalance: d.CurrentBalance.String(),
		InterestRate:   d.InterestRate.String(),
		MinimumPayment: d.MinimumPayment.String(),
		Alias:          (*Alias)(d),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Debt
func (d *Debt) UnmarshalJSON(data []byte) error {
	type Alias Debt
	aux := &struct {
		CurrentBalance string `json:"current_balance"`
		InterestRate   string `json:"interest_rate"`
		MinimumPayment string `json:"minimum_payment"`
		*Alias
	}{
		Alias: (*Alias)(d),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if d.CurrentBalance, err = decimal.NewFromString(aux.CurrentBalance); err != nil {
		return fmt.Errorf("invalid current balance format: %w", err)
	}
	if d.InterestRate, err = decimal.NewFromString(aux.InterestRate); err != nil {
		return fmt.Errorf("invalid interest rate format: %w", err)
	}
	if d.MinimumPayment, err = decimal.NewFromString(aux.MinimumPayment); err != nil {
		return fmt.Errorf("invalid minimum payment format: %w", err)
	}

	if d.InterestType == "" {
		d.InterestType = InterestTypeSimple
	}

	return nil
}

// Goal represents a savings target funded by a fixed monthly contribution
type Goal struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	TargetAmount        decimal.Decimal `json:"target_amount"`
	CurrentAmount       decimal.Decimal `json:"current_amount"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	TargetDate          *time.Time      `json:"target_date,omitempty"`
}

// Validate performs basic validation on the Goal
func (g *Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("goal ID cannot be empty")
	}

	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("goal target amount must be positive")
	}

	if g.CurrentAmount.IsNegative() {
		return fmt.Errorf("goal current amount cannot be negative")
	}

	if g.MonthlyContribution.IsNegative() {
		return fmt.Errorf("goal monthly contribution cannot be negative")
	}

	return nil
}

// Remaining returns the amount still needed to reach the target
func (g *Goal) Remaining() decimal.Decimal {
	return g.TargetAmount.Sub(g.CurrentAmount)
}

// IsMet reports whether the goal has already been reached
func (g *Goal) IsMet() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// MarshalJSON implements custom JSON marshaling for Goal
func (g *Goal) MarshalJSON() ([]byte, error) {
	type Alias Goal
	aux := &struct {
		TargetAmount        string  `json:"target_amount"`
		CurrentAmount       string  `json:"current_amount"`
		MonthlyContribution string  `json:"monthly_contribution"`
		TargetDate          *string `json:"target_date,omitempty"`
		*Alias
	}{
		TargetAmount:        g.TargetAmount.String(),
		CurrentAmount:       g.CurrentAmount.String(),
		MonthlyContribution: g.MonthlyContribution.String(),
		Alias:               (*Alias)(g),
	}
	if g.TargetDate != nil {
		target := g.TargetDate.Format("2006-01-02")
		aux.TargetDate = &target
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements custom JSON unmarshaling for Goal
func (g *Goal) UnmarshalJSON(data []byte) error {
	type Alias Goal
	aux := &struct {
		TargetAmount        string  `json:"target_amount"`
		CurrentAmount       string  `json:"current_amount"`
		MonthlyContribution string  `json:"monthly_contribution"`
		TargetDate          *string `json:"target_date,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(g),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if g.TargetAmount, err = decimal.NewFromString(aux.TargetAmount); err != nil {
		return fmt.Errorf("invalid target amount format: %w", err)
	}
	if g.CurrentAmount, err = decimal.NewFromString(aux.CurrentAmount); err != nil {
		return fmt.Errorf("invalid current amount format: %w", err)
	}
	if g.MonthlyContribution, err = decimal.NewFromString(aux.MonthlyContribution); err != nil {
		return fmt.Errorf("invalid monthly contribution format: %w", err)
	}

	if aux.TargetDate != nil {
		target, err := ParseTimeWithFormats(*aux.TargetDate)
		if err != nil {
			return fmt.Errorf("invalid target date format: %w", err)
		}
		g.TargetDate = &target
	}

	return nil
}

// InsightType categorizes a derived insight
type InsightType string

const (
	InsightTypeAnomaly        InsightType = "anomaly"
	InsightTypeTrend          InsightType = "trend"
	InsightTypeBudget         InsightType = "budget"
	InsightTypeRecommendation InsightType = "recommendation"
)

// IsValid checks if the insight type is valid
func (t InsightType) IsValid() bool {
	switch t {
	case InsightTypeAnomaly, InsightTypeTrend, InsightTypeBudget, InsightTypeRecommendation:
		return true
	default:
		return false
	}
}

// Severity ranks how urgently an insight deserves attention
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	SeverityPositive Severity = "positive"
)

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical, SeverityPositive:
		return true
	default:
		return false
	}
}

// Insight is a derived observation about the user's finances. Details carries
// the raw numbers behind the observation so downstream consumers never need
// to re-derive them. Acknowledged is set by the caller after creation.
type Insight struct {
	ID           string                 `json:"id"`
	Type         InsightType            `json:"type"`
	Title        string                 `json:"title"`
	Summary      string                 `json:"summary"`
	Details      map[string]interface{} `json:"details"`
	Severity     Severity               `json:"severity"`
	CreatedAt    time.Time              `json:"created_at"`
	Acknowledged bool                   `json:"acknowledged"`
}

// Validate performs basic validation on the Insight
func (i *Insight) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("insight ID cannot be empty")
	}

	if !i.Type.IsValid() {
		return fmt.Errorf("invalid insight type: %s", i.Type)
	}

	if !i.Severity.IsValid() {
		return fmt.Errorf("invalid insight severity: %s", i.Severity)
	}

	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("insight title cannot be empty")
	}

	return nil
}

// Utility functions for type conversion and validation

// ParseDecimalFromString parses a decimal value from string with validation
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	// Remove common currency symbols and thousand separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseTimeWithFormats attempts to parse time from string using multiple common formats
func ParseTimeWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("time string cannot be empty")
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"01/02/2006 15:04:05",
		"01/02/2006",
		"2006/01/02",
		"Jan 2, 2006",
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time '%s': %w", s, lastErr)
}

// ParseAccountType parses and validates an account type from string
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid account type '%s'", s)
	}
	return t, nil
}

// OptionalString returns a pointer to the trimmed string, or nil when empty.
// Empty optional CSV fields map to nil rather than pointers to "".
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// StartOfMonth returns midnight on the first day of t's month
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last instant of t's month
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// CreateTransactionFromCSV creates a Transaction from CSV field values
func CreateTransactionFromCSV(id, accountID, amountStr, currency, occurredAtStr, merchant, category, budgetID string) (*Transaction, error) {
	amount, err := ParseDecimalFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount in CSV: %w", err)
	}

	occurredAt, err := ParseTimeWithFormats(occurredAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid occurred_at in CSV: %w", err)
	}

	tx := NewTransaction(strings.TrimSpace(id), strings.TrimSpace(accountID), amount, strings.TrimSpace(currency), occurredAt)
	tx.Merchant = OptionalString(merchant)
	tx.Category = OptionalString(category)
	tx.BudgetID = OptionalString(budgetID)

	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transaction data: %w", err)
	}

	return tx, nil
}
