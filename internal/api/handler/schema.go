package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Users ---

type createUserRequest struct {
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Role       string `json:"role"       validate:"required,oneof=employee manager admin"`
	Department string `json:"department"`
	ManagerID  string `json:"managerId,omitempty"`
}

// updateUserRequest is decoded with unknown fields rejected; nil means "leave as is".
type updateUserRequest struct {
	Name       *string `json:"name"       validate:"omitempty,min=1"`
	Email      *string `json:"email"      validate:"omitempty,email"`
	Role       *string `json:"role"       validate:"omitempty,oneof=employee manager admin"`
	Department *string `json:"department"`
	ManagerID  *string `json:"managerId"`
}

// --- Expenses ---

type createExpenseRequest struct {
	UserID          string          `json:"userId"          validate:"required"`
	Title           string          `json:"title"           validate:"required"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"          validate:"required,gt=0"`
	Category        string          `json:"category"        validate:"required,oneof=travel meals office software training other"`
	Status          string          `json:"status"          validate:"omitempty,oneof=pending approved rejected submitted"`
	RejectionReason string          `json:"rejectionReason"`
	ReceiptURL      string          `json:"receiptUrl"`
}

// updateExpenseRequest is decoded with unknown fields rejected. submittedAt
// has no field here, so sending it is a 400.
type updateExpenseRequest struct {
	Title           *string          `json:"title"           validate:"omitempty,min=1"`
	Description     *string          `json:"description"`
	Amount          *decimal.Decimal `json:"amount"          validate:"omitempty,gt=0"`
	Category        *string          `json:"category"        validate:"omitempty,oneof=travel meals office software training other"`
	Status          *string          `json:"status"          validate:"omitempty,oneof=pending approved rejected submitted"`
	ApprovedAt      *time.Time       `json:"approvedAt"`
	ApprovedBy      *string          `json:"approvedBy"`
	RejectedAt      *time.Time       `json:"rejectedAt"`
	RejectedBy      *string          `json:"rejectedBy"`
	RejectionReason *string          `json:"rejectionReason"`
	ReceiptURL      *string          `json:"receiptUrl"`
}

type listExpensesQuery struct {
	UserID    string `query:"userId"`
	Status    string `query:"status"`
	ManagerID string `query:"managerId"`
}

// --- Decisions ---

type approveRequest struct {
	ApproverID string `json:"approverId" validate:"required"`
	Reason     string `json:"reason"`
}

type rejectRequest struct {
	ApproverID string `json:"approverId" validate:"required"`
	Reason     string `json:"reason"     validate:"required"`
}

type decisionResponse struct {
	Expense  *domain.Expense  `json:"expense"`
	Approval *domain.Approval `json:"approval"`
}

// --- Dashboard / export ---

type statsQuery struct {
	UserID string `query:"userId"`
}

type exportQuery struct {
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Format    string `query:"format"`
}
