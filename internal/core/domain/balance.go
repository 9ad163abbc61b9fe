package domain

import "github.com/shopspring/decimal"

// OverdraftStatus is derived from the current balance and the overdraft limit.
type OverdraftStatus struct {
	InOverdraft   bool            `json:"inOverdraft"`
	OverdraftUsed decimal.Decimal `json:"overdraftUsed"`
	IsOverLimit   bool            `json:"isOverLimit"`
}

// CategoryAmount is the total spent in one category.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthlyTotals holds the income and expense sums of one calendar month.
type MonthlyTotals struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// BalanceSummary is the dashboard view of a user's finances. It is never persisted.
type BalanceSummary struct {
	InitialBalance      decimal.Decimal `json:"initialBalance"`
	CurrentBalance      decimal.Decimal `json:"currentBalance"`
	OverdraftLimit      decimal.Decimal `json:"overdraftLimit"`
	OverdraftAvailable  decimal.Decimal `json:"overdraftAvailable"`
	OverdraftPercentage decimal.Decimal `json:"overdraftPercentage"`
	OverdraftStatus
	MonthlyIncome      decimal.Decimal  `json:"monthlyIncome"`
	MonthlyExpenses    decimal.Decimal  `json:"monthlyExpenses"`
	MonthlyBalance     decimal.Decimal  `json:"monthlyBalance"`
	ExpensesByCategory []CategoryAmount `json:"expensesByCategory"`
	LastMonths         []MonthlyTotals  `json:"lastMonths"`
	TransactionCount   int              `json:"transactionCount"`
}
