package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are exchanged as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ExpenseStatus represents the lifecycle state of an expense.
type ExpenseStatus string

const (
	StatusPending   ExpenseStatus = "pending"
	StatusApproved  ExpenseStatus = "approved"
	StatusRejected  ExpenseStatus = "rejected"
	StatusSubmitted ExpenseStatus = "submitted"
)

// Category is the enumerated kind of an expense.
type Category string

const (
	CategoryTravel   Category = "travel"
	CategoryMeals    Category = "meals"
	CategoryOffice   Category = "office"
	CategorySoftware Category = "software"
	CategoryTraining Category = "training"
	CategoryOther    Category = "other"
)

var (
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// validTransitions lists the decisions allowed from each non-terminal status.
var validTransitions = map[ExpenseStatus][]ExpenseStatus{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusSubmitted: {StatusApproved, StatusRejected},
}

// CanTransitionTo reports whether the workflow may move an expense from s to next.
func (s ExpenseStatus) CanTransitionTo(next ExpenseStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ExpenseStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSubmitted:
		return true
	}
	return false
}

func (c Category) Valid() bool {
	switch c {
	case CategoryTravel, CategoryMeals, CategoryOffice, CategorySoftware, CategoryTraining, CategoryOther:
		return true
	}
	return false
}

// Expense is a single reimbursement claim.
type Expense struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Category        Category        `json:"category"`
	Status          ExpenseStatus   `json:"status"`
	SubmittedAt     time.Time       `json:"submittedAt"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	ApprovedBy      string          `json:"approvedBy,omitempty"`
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty"`
	RejectedBy      string          `json:"rejectedBy,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	ReceiptURL      string          `json:"receiptUrl,omitempty"`
}

// Clone returns a deep copy of e.
func (e *Expense) Clone() *Expense {
	c := *e
	if e.ApprovedAt != nil {
		t := *e.ApprovedAt
		c.ApprovedAt = &t
	}
	if e.RejectedAt != nil {
		t := *e.RejectedAt
		c.RejectedAt = &t
	}
	return &c
}

// Validate checks the caller-supplied fields of a new or patched expense.
func (e *Expense) Validate() error {
	if e.UserID == "" || e.Title == "" {
		return ValidationError("userId and title are required")
	}
	if !e.Amount.IsPositive() {
		return ValidationError("amount must be positive")
	}
	if !e.Category.Valid() {
		return ValidationError("unknown category " + string(e.Category))
	}
	if !e.Status.Valid() {
		return ValidationError("unknown status " + string(e.Status))
	}
	return nil
}

// ExpensePatch carries the fields of a partial expense update. SubmittedAt is
// not patchable; it is fixed at creation.
type ExpensePatch struct {
	Title           *string
	Description     *string
	Amount          *decimal.Decimal
	Category        *Category
	Status          *ExpenseStatus
	ApprovedAt      *time.Time
	ApprovedBy      *string
	RejectedAt      *time.Time
	RejectedBy      *string
	RejectionReason *string
	ReceiptURL      *string
}

// Apply merges the set fields of p into e.
func (p ExpensePatch) Apply(e *Expense) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.ApprovedAt != nil {
		t := *p.ApprovedAt
		e.ApprovedAt = &t
	}
	if p.ApprovedBy != nil {
		e.ApprovedBy = *p.ApprovedBy
	}
	if p.RejectedAt != nil {
		t := *p.RejectedAt
		e.RejectedAt = &t
	}
	if p.RejectedBy != nil {
		e.RejectedBy = *p.RejectedBy
	}
	if p.RejectionReason != nil {
		e.RejectionReason = *p.RejectionReason
	}
	if p.ReceiptURL != nil {
		e.ReceiptURL = *p.ReceiptURL
	}
}
