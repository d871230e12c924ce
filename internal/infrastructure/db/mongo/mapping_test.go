package mongo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/expense-system/internal/core/domain"
)

func TestExpenseMapping_KeepsDecimalAmount(t *testing.T) {
	approvedAt := time.Date(2026, 3, 15, 9, 0, 0, 0, time.FixedZone("CST", -6*3600))
	e := &domain.Expense{
		ID:          "exp-7",
		UserID:      "user-3",
		Title:       "Team Lunch",
		Amount:      decimal.RequireFromString("85.50"),
		Category:    domain.CategoryMeals,
		Status:      domain.StatusApproved,
		SubmittedAt: approvedAt.Add(-time.Hour),
		ApprovedAt:  &approvedAt,
		ApprovedBy:  "user-2",
	}

	doc, err := toMongoExpense(e, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), doc.Seq)
	assert.Equal(t, time.UTC, doc.SubmittedAt.Location())

	back, err := doc.toDomain()
	require.NoError(t, err)
	assert.True(t, back.Amount.Equal(e.Amount), "amount %s", back.Amount)
	assert.True(t, back.ApprovedAt.Equal(approvedAt))
	assert.Equal(t, e.ApprovedBy, back.ApprovedBy)
}

func TestUserPatchSet_OnlySetFields(t *testing.T) {
	dept := "Platform"
	set := userPatchSet(domain.UserPatch{Department: &dept})
	assert.Equal(t, map[string]any{"department": "Platform"}, map[string]any(set))
}

func TestParseID(t *testing.T) {
	n, err := parseID("exp-12", expensePrefix)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.Equal(t, "exp-12", formatID(expensePrefix, n))

	_, err = parseID("user-x", userPrefix)
	assert.Error(t, err)
	_, err = parseID("exp-1", userPrefix)
	assert.Error(t, err)
}

func TestDecidableStatuses(t *testing.T) {
	assert.Equal(t, []string{"pending", "submitted"}, decidableStatuses())
}

func TestExpensePatchSet_OnlySetFields(t *testing.T) {
	title := "Client dinner"
	amount := decimal.RequireFromString("42.10")
	set, err := expensePatchSet(domain.ExpensePatch{Title: &title, Amount: &amount})
	require.NoError(t, err)

	require.Len(t, set, 2)
	assert.Equal(t, "Client dinner", set["title"])
	assert.Equal(t, "42.10", set["amount"].(primitive.Decimal128).String())
	for _, f := range []string{"status", "approved_at", "approved_by", "submitted_at"} {
		assert.NotContains(t, set, f, "a title/amount patch must not touch %s", f)
	}
}

func TestExpensePatchSet_Empty(t *testing.T) {
	set, err := expensePatchSet(domain.ExpensePatch{})
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestDecisionSet_TouchesOnlyDecisionFields(t *testing.T) {
	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.FixedZone("CST", -6*3600))

	approve := decisionSet(domain.Decision{ExpenseID: "exp-1", ApproverID: "user-2", Action: domain.ActionApprove}, at)
	assert.Equal(t, bson.M{
		"status":      "approved",
		"approved_at": at.UTC(),
		"approved_by": "user-2",
	}, approve)

	reject := decisionSet(domain.Decision{ExpenseID: "exp-1", ApproverID: "user-2", Action: domain.ActionReject, Reason: "no receipt"}, at)
	assert.Equal(t, bson.M{
		"status":           "rejected",
		"rejected_at":      at.UTC(),
		"rejected_by":      "user-2",
		"rejection_reason": "no receipt",
	}, reject)
}

func TestDecisionRevert_RestoresOnlyDecisionFields(t *testing.T) {
	before := &mongoExpense{ID: "exp-1", Title: "Business Trip", Status: "pending"}

	update := decisionRevert(domain.Decision{ExpenseID: "exp-1", Action: domain.ActionApprove}, before)
	assert.Equal(t, bson.M{
		"$set":   bson.M{"status": "pending"},
		"$unset": bson.M{"approved_at": "", "approved_by": ""},
	}, update)
}

func TestDecisionRevert_KeepsPriorValues(t *testing.T) {
	earlier := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	before := &mongoExpense{
		ID:         "exp-4",
		Status:     "submitted",
		RejectedAt: &earlier,
		RejectedBy: "user-1",
	}

	update := decisionRevert(domain.Decision{ExpenseID: "exp-4", Action: domain.ActionReject, Reason: "dup"}, before)
	assert.Equal(t, bson.M{
		"$set":   bson.M{"status": "submitted", "rejected_at": earlier, "rejected_by": "user-1"},
		"$unset": bson.M{"rejection_reason": ""},
	}, update)
}
