package domain

import "time"

// Action is the decision recorded by an approval.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Valid reports whether a is a known approval action.
func (a Action) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

// TargetStatus returns the expense status an action moves an expense to.
func (a Action) TargetStatus() ExpenseStatus {
	if a == ActionReject {
		return StatusRejected
	}
	return StatusApproved
}

// Approval is an append-only audit record of an approve/reject decision.
type Approval struct {
	ID         string    `json:"id"`
	ExpenseID  string    `json:"expenseId"`
	ApproverID string    `json:"approverId"`
	Action     Action    `json:"action"`
	Reason     string    `json:"reason,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Decision is a request to approve or reject an expense.
type Decision struct {
	ExpenseID  string
	ApproverID string
	Action     Action
	Reason     string
}

// Apply stamps the decision onto e at time at.
func (d Decision) Apply(e *Expense, at time.Time) {
	t := at
	switch d.Action {
	case ActionApprove:
		e.Status = StatusApproved
		e.ApprovedAt = &t
		e.ApprovedBy = d.ApproverID
	case ActionReject:
		e.Status = StatusRejected
		e.RejectedAt = &t
		e.RejectedBy = d.ApproverID
		e.RejectionReason = d.Reason
	}
}
