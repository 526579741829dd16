// Package accounts aggregates account balances into net-worth figures and
// reconciles recorded balances against transaction history.
package accounts

import (
	"github.com/AldyLoing/FinSight/internal/models"
	"github.com/AldyLoing/FinSight/internal/stats"

	"github.com/shopspring/decimal"
)

// DefaultReconcileTolerance is the maximum drift between a recorded balance
// and the transaction-derived balance before it is flagged (one cent).
var DefaultReconcileTolerance = decimal.NewFromFloat(0.01)

// NetWorthSummary breaks total net worth into assets and liabilities.
// Liability balances are stored as the amount owed; they subtract from net
// worth regardless of their sign in the account record.
type NetWorthSummary struct {
	NetWorth         decimal.Decimal `json:"net_worth"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	AccountCount     int             `json:"account_count"`
}

// BalanceDrift reports an account whose recorded balance disagrees with the
// balance derived from its transactions.
type BalanceDrift struct {
	AccountID       string          `json:"account_id"`
	AccountName     string          `json:"account_name"`
	RecordedBalance decimal.Decimal `json:"recorded_balance"`
	DerivedBalance  decimal.Decimal `json:"derived_balance"`
	Difference      decimal.Decimal `json:"difference"`
}

// NetWorth sums active account balances into assets and liabilities.
// Archived and hidden accounts are excluded.
func NetWorth(accounts []*models.Account) NetWorthSummary {
	summary := NetWorthSummary{}
	for _, account := range accounts {
		if !account.IsActive() {
			continue
		}
		summary.AccountCount++
		if account.Type.IsLiability() {
			summary.TotalLiabilities = summary.TotalLiabilities.Add(account.Balance.Abs())
		} else {
			summary.TotalAssets = summary.TotalAssets.Add(account.Balance)
		}
	}
	summary.NetWorth = summary.TotalAssets.Sub(summary.TotalLiabilities)
	return summary
}

// DerivedBalances computes each account's balance from its transaction
// history alone. Accounts with no transactions map to zero.
func DerivedBalances(accounts []*models.Account, transactions []*models.Transaction) map[string]decimal.Decimal {
	grouped := stats.GroupBy(transactions, func(tx *models.Transaction) string {
		return tx.AccountID
	})

	balances := make(map[string]decimal.Decimal, len(accounts))
	for _, account := range accounts {
		balances[account.ID] = stats.SumBy(grouped[account.ID], func(tx *models.Transaction) decimal.Decimal {
			return tx.Amount
		})
	}
	return balances
}

// Reconcile flags accounts whose recorded balance drifts from the
// transaction-derived balance by more than the tolerance. A nil tolerance
// uses DefaultReconcileTolerance.
func Reconcile(accounts []*models.Account, transactions []*models.Transaction, tolerance *decimal.Decimal) []BalanceDrift {
	tol := DefaultReconcileTolerance
	if tolerance != nil {
		tol = *tolerance
	}

	derived := DerivedBalances(accounts, transactions)
	drifts := make([]BalanceDrift, 0)
	for _, account := range accounts {
		difference := account.Balance.Sub(derived[account.ID])
		if difference.Abs().GreaterThan(tol) {
			drifts = append(drifts, BalanceDrift{
				AccountID:       account.ID,
				AccountName:     account.Name,
				RecordedBalance: account.Balance,
				DerivedBalance:  derived[account.ID],
				Difference:      difference,
			})
		}
	}
	return drifts
}
