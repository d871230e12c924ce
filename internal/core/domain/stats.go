package domain

import "github.com/shopspring/decimal"

// DashboardStats is the fixed-shape summary shown on the dashboard.
type DashboardStats struct {
	TotalExpenses    int             `json:"totalExpenses"`
	PendingApprovals int             `json:"pendingApprovals"`
	ApprovedAmount   decimal.Decimal `json:"approvedAmount"`
	RejectedCount    int             `json:"rejectedCount"`
	MonthlyTotal     decimal.Decimal `json:"monthlyTotal"`
}

// DateRangeLabel echoes the requested export range.
type DateRangeLabel struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ExpenseExport is the JSON export document.
type ExpenseExport struct {
	Expenses    []*Expense      `json:"expenses"`
	Users       []*User         `json:"users"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	DateRange   DateRangeLabel  `json:"dateRange"`
}
