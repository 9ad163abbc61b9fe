package services

import (
	"fmt"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/utils/finance"
	"github.com/shopspring/decimal"
)

// OverdraftPolicy decides whether a new transaction may be recorded given the current balance.
type OverdraftPolicy struct {
	// AllowIncomeWhenOverLimit lets INCOME through while over the limit. By default
	// every new transaction is blocked.
	AllowIncomeWhenOverLimit bool
}

// Evaluate derives the overdraft flags for the current balance and limit.
func (p OverdraftPolicy) Evaluate(currentBalance, overdraftLimit decimal.Decimal) domain.OverdraftStatus {
	return finance.EvaluateOverdraft(currentBalance, overdraftLimit)
}

// CheckNewTransaction returns an error wrapping apperrors.ErrOverLimit when the user is
// over the overdraft limit and the transaction type is not exempt.
func (p OverdraftPolicy) CheckNewTransaction(status domain.OverdraftStatus, txnType domain.TransactionType) error {
	if !status.IsOverLimit {
		return nil
	}
	if p.AllowIncomeWhenOverLimit && txnType == domain.Income {
		return nil
	}
	return fmt.Errorf("%w: overdraft used %s exceeds the limit, new transactions are blocked",
		apperrors.ErrOverLimit, status.OverdraftUsed.StringFixed(2))
}
