package handler

import (
	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/core/ports"
)

// --- Request → Service input ---

func toCreateUserInput(r createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Name:       r.Name,
		Email:      r.Email,
		Role:       r.Role,
		Department: r.Department,
		ManagerID:  r.ManagerID,
	}
}

func toUserPatch(r updateUserRequest) domain.UserPatch {
	p := domain.UserPatch{
		Name:       r.Name,
		Email:      r.Email,
		Department: r.Department,
		ManagerID:  r.ManagerID,
	}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		p.Role = &role
	}
	return p
}

func toCreateExpenseInput(r createExpenseRequest) ports.CreateExpenseInput {
	return ports.CreateExpenseInput{
		UserID:          r.UserID,
		Title:           r.Title,
		Description:     r.Description,
		Amount:          r.Amount,
		Category:        r.Category,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		ReceiptURL:      r.ReceiptURL,
	}
}

func toExpensePatch(r updateExpenseRequest) domain.ExpensePatch {
	p := domain.ExpensePatch{
		Title:           r.Title,
		Description:     r.Description,
		Amount:          r.Amount,
		ApprovedAt:      r.ApprovedAt,
		ApprovedBy:      r.ApprovedBy,
		RejectedAt:      r.RejectedAt,
		RejectedBy:      r.RejectedBy,
		RejectionReason: r.RejectionReason,
		ReceiptURL:      r.ReceiptURL,
	}
	if r.Category != nil {
		c := domain.Category(*r.Category)
		p.Category = &c
	}
	if r.Status != nil {
		s := domain.ExpenseStatus(*r.Status)
		p.Status = &s
	}
	return p
}

// --- Service result → HTTP response ---

func toDecisionResponse(r *ports.DecisionResult) decisionResponse {
	return decisionResponse{Expense: r.Expense, Approval: r.Approval}
}
