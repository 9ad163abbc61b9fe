package finance

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// RoundToCents rounds half up (towards +infinity) to two decimal places,
// the same as Math.round(v*100)/100.
func RoundToCents(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Add(half).Floor().Div(hundred)
}

// CalculateSignedAmount applies the sign of a transaction to its amount.
// INCOME -> Positive (+), EXPENSE -> Negative (-).
func CalculateSignedAmount(txn domain.Transaction) decimal.Decimal {
	if txn.Type == domain.Income {
		return txn.Amount
	}
	return txn.Amount.Neg()
}

// CalculateCurrentBalance adds every transaction to the initial balance.
// Status is deliberately ignored: PENDING and DUE entries move the balance as soon as
// they are recorded, not only once PAID.
func CalculateCurrentBalance(initialBalance decimal.Decimal, transactions []domain.Transaction) decimal.Decimal {
	sum := initialBalance
	for _, txn := range transactions {
		sum = sum.Add(CalculateSignedAmount(txn))
	}
	return RoundToCents(sum)
}

// inMonth reports whether the calendar date of t falls in the month and year of ref.
func inMonth(t time.Time, ref time.Time) bool {
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}

// FilterCurrentMonth keeps transactions dated in the same calendar month and year as now.
func FilterCurrentMonth(transactions []domain.Transaction, now time.Time) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if inMonth(txn.Date, now) {
			out = append(out, txn)
		}
	}
	return out
}

func sumByType(transactions []domain.Transaction, txnType domain.TransactionType) decimal.Decimal {
	sum := decimal.Zero
	for _, txn := range transactions {
		if txn.Type == txnType {
			sum = sum.Add(txn.Amount)
		}
	}
	return RoundToCents(sum)
}

// CalculateMonthlyIncome sums INCOME transactions dated in now's month, any status.
func CalculateMonthlyIncome(transactions []domain.Transaction, now time.Time) decimal.Decimal {
	return sumByType(FilterCurrentMonth(transactions, now), domain.Income)
}

// CalculateMonthlyExpenses sums EXPENSE transactions dated in now's month, any status.
func CalculateMonthlyExpenses(transactions []domain.Transaction, now time.Time) decimal.Decimal {
	return sumByType(FilterCurrentMonth(transactions, now), domain.Expense)
}

// EvaluateOverdraft derives the overdraft flags for a balance.
func EvaluateOverdraft(currentBalance, overdraftLimit decimal.Decimal) domain.OverdraftStatus {
	status := domain.OverdraftStatus{OverdraftUsed: decimal.Zero}
	if currentBalance.IsNegative() {
		status.InOverdraft = true
		status.OverdraftUsed = currentBalance.Abs()
	}
	status.IsOverLimit = status.OverdraftUsed.GreaterThan(overdraftLimit)
	return status
}

// ExpensesByCategory totals EXPENSE transactions per category over the whole list,
// keeping categories in the order they are first seen.
func ExpensesByCategory(transactions []domain.Transaction) []domain.CategoryAmount {
	index := make(map[string]int)
	out := make([]domain.CategoryAmount, 0)
	for _, txn := range transactions {
		if txn.Type != domain.Expense {
			continue
		}
		i, ok := index[txn.Category]
		if !ok {
			index[txn.Category] = len(out)
			out = append(out, domain.CategoryAmount{Category: txn.Category, Amount: txn.Amount})
			continue
		}
		out[i].Amount = out[i].Amount.Add(txn.Amount)
	}
	for i := range out {
		out[i].Amount = RoundToCents(out[i].Amount)
	}
	return out
}

// MonthlySeries returns income/expense totals for the given number of months ending with now's month,
// oldest first.
func MonthlySeries(transactions []domain.Transaction, now time.Time, months int) []domain.MonthlyTotals {
	if months <= 0 {
		return []domain.MonthlyTotals{}
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	series := make([]domain.MonthlyTotals, months)
	for i := range series {
		m := first.AddDate(0, i, 0)
		series[i] = domain.MonthlyTotals{Year: m.Year(), Month: int(m.Month()), Income: decimal.Zero, Expenses: decimal.Zero}
	}
	for _, txn := range transactions {
		for i := range series {
			if txn.Date.Year() != series[i].Year || int(txn.Date.Month()) != series[i].Month {
				continue
			}
			if txn.Type == domain.Income {
				series[i].Income = series[i].Income.Add(txn.Amount)
			} else {
				series[i].Expenses = series[i].Expenses.Add(txn.Amount)
			}
			break
		}
	}
	return series
}

// BuildSummary computes the dashboard figures for one user.
func BuildSummary(settings domain.Settings, transactions []domain.Transaction, now time.Time) domain.BalanceSummary {
	balance := CalculateCurrentBalance(settings.InitialBalance, transactions)
	overdraft := EvaluateOverdraft(balance, settings.OverdraftLimit)
	income := CalculateMonthlyIncome(transactions, now)
	expenses := CalculateMonthlyExpenses(transactions, now)

	percentage := decimal.Zero
	if settings.OverdraftLimit.IsPositive() {
		percentage = RoundToCents(overdraft.OverdraftUsed.Div(settings.OverdraftLimit).Mul(hundred))
	}

	return domain.BalanceSummary{
		InitialBalance:      settings.InitialBalance,
		CurrentBalance:      balance,
		OverdraftLimit:      settings.OverdraftLimit,
		OverdraftAvailable:  settings.OverdraftLimit.Sub(overdraft.OverdraftUsed),
		OverdraftPercentage: percentage,
		OverdraftStatus:     overdraft,
		MonthlyIncome:       income,
		MonthlyExpenses:     expenses,
		MonthlyBalance:      income.Sub(expenses),
		ExpensesByCategory:  ExpensesByCategory(transactions),
		LastMonths:          MonthlySeries(transactions, now, 6),
		TransactionCount:    len(transactions),
	}
}
