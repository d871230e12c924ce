package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/pkg/clock"
)

// ApprovalRepository implements ports.ApprovalRepository using MongoDB.
type ApprovalRepository struct {
	col      *mongo.Collection
	expenses *ExpenseRepository
	seq      counters
	clock    clock.Clock
}

type mongoApproval struct {
	ID         string    `bson:"_id"`
	Seq        int64     `bson:"seq"`
	ExpenseID  string    `bson:"expense_id"`
	ApproverID string    `bson:"approver_id"`
	Action     string    `bson:"action"`
	Reason     string    `bson:"reason,omitempty"`
	Timestamp  time.Time `bson:"timestamp"`
}

func (m mongoApproval) toDomain() *domain.Approval {
	return &domain.Approval{
		ID:         m.ID,
		ExpenseID:  m.ExpenseID,
		ApproverID: m.ApproverID,
		Action:     domain.Action(m.Action),
		Reason:     m.Reason,
		Timestamp:  m.Timestamp,
	}
}

// Create appends an approval record to the audit collection.
func (r *ApprovalRepository) Create(ctx context.Context, a *domain.Approval) (*domain.Approval, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.insert(ctx, a, r.clock.Now().Truncate(time.Millisecond))
}

func (r *ApprovalRepository) insert(ctx context.Context, a *domain.Approval, at time.Time) (*domain.Approval, error) {
	seq, err := r.seq.next(ctx, collectionApprovals)
	if err != nil {
		return nil, err
	}
	doc := mongoApproval{
		ID:         formatID(approvalPrefix, seq),
		Seq:        seq,
		ExpenseID:  a.ExpenseID,
		ApproverID: a.ApproverID,
		Action:     string(a.Action),
		Reason:     a.Reason,
		Timestamp:  at.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert approval: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ApprovalRepository) FindByExpense(ctx context.Context, expenseID string) ([]*domain.Approval, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"expense_id": expenseID}, bySeq)
	if err != nil {
		return nil, fmt.Errorf("find approvals: %w", err)
	}
	var docs []mongoApproval
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode approvals: %w", err)
	}

	out := make([]*domain.Approval, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// RecordDecision moves the expense out of a decidable status with a
// conditional update of the decision fields only, then appends the approval.
// When the append fails those fields are restored.
func (r *ApprovalRepository) RecordDecision(ctx context.Context, d domain.Decision) (*domain.Expense, *domain.Approval, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	before, err := r.expenses.findDoc(ctx, d.ExpenseID)
	if err != nil {
		return nil, nil, err
	}
	from := domain.ExpenseStatus(before.Status)
	target := d.Action.TargetStatus()
	if !from.CanTransitionTo(target) {
		return nil, nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, from, target)
	}

	now := r.clock.Now().Truncate(time.Millisecond)
	filter := bson.M{
		"_id":    d.ExpenseID,
		"status": bson.M{"$in": decidableStatuses()},
	}
	// prev is the document exactly as the update found it.
	prev, err := r.expenses.findOneAndUpdate(ctx, filter, bson.M{"$set": decisionSet(d, now)}, options.Before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// another decision won the race
		return nil, nil, fmt.Errorf("%w (expense %s already decided)", domain.ErrInvalidTransition, d.ExpenseID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("apply decision: %w", err)
	}

	approval, err := r.insert(ctx, &domain.Approval{
		ExpenseID:  d.ExpenseID,
		ApproverID: d.ApproverID,
		Action:     d.Action,
		Reason:     d.Reason,
	}, now)
	if err != nil {
		revertFilter := bson.M{"_id": d.ExpenseID, "status": string(target)}
		if _, revertErr := r.expenses.col.UpdateOne(ctx, revertFilter, decisionRevert(d, prev)); revertErr != nil {
			return nil, nil, fmt.Errorf("record decision: %w (revert failed: %v)", err, revertErr)
		}
		return nil, nil, fmt.Errorf("record decision: %w", err)
	}

	updated, err := prev.toDomain()
	if err != nil {
		return nil, nil, err
	}
	d.Apply(updated, now)
	return updated, approval, nil
}

// decisionFields lists the document fields a decision writes besides status.
func decisionFields(a domain.Action) []string {
	if a == domain.ActionReject {
		return []string{"rejected_at", "rejected_by", "rejection_reason"}
	}
	return []string{"approved_at", "approved_by"}
}

func decisionSet(d domain.Decision, at time.Time) bson.M {
	set := bson.M{"status": string(d.Action.TargetStatus())}
	if d.Action == domain.ActionReject {
		set["rejected_at"] = at.UTC()
		set["rejected_by"] = d.ApproverID
		set["rejection_reason"] = d.Reason
		return set
	}
	set["approved_at"] = at.UTC()
	set["approved_by"] = d.ApproverID
	return set
}

// decisionRevert restores the status and decision fields of before, leaving
// every other field as it is now. Fields absent before are unset.
func decisionRevert(d domain.Decision, before *mongoExpense) bson.M {
	prior := bson.M{
		"approved_at":      before.ApprovedAt,
		"approved_by":      before.ApprovedBy,
		"rejected_at":      before.RejectedAt,
		"rejected_by":      before.RejectedBy,
		"rejection_reason": before.RejectionReason,
	}
	set := bson.M{"status": before.Status}
	unset := bson.M{}
	for _, f := range decisionFields(d.Action) {
		switch v := prior[f].(type) {
		case *time.Time:
			if v == nil {
				unset[f] = ""
				continue
			}
			set[f] = v.UTC()
		case string:
			if v == "" {
				unset[f] = ""
				continue
			}
			set[f] = v
		}
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func decidableStatuses() []string {
	var out []string
	for _, s := range []domain.ExpenseStatus{domain.StatusPending, domain.StatusSubmitted, domain.StatusApproved, domain.StatusRejected} {
		if s.CanTransitionTo(domain.StatusApproved) {
			out = append(out, string(s))
		}
	}
	return out
}
