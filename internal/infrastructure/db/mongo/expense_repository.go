package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/pkg/clock"
)

// ExpenseRepository implements ports.ExpenseRepository using MongoDB.
type ExpenseRepository struct {
	col   *mongo.Collection
	users *UserRepository
	seq   counters
	clock clock.Clock
}

type mongoExpense struct {
	ID              string               `bson:"_id"`
	Seq             int64                `bson:"seq"`
	UserID          string               `bson:"user_id"`
	Title           string               `bson:"title"`
	Description     string               `bson:"description"`
	Amount          primitive.Decimal128 `bson:"amount"`
	Category        string               `bson:"category"`
	Status          string               `bson:"status"`
	SubmittedAt     time.Time            `bson:"submitted_at"`
	ApprovedAt      *time.Time           `bson:"approved_at,omitempty"`
	ApprovedBy      string               `bson:"approved_by,omitempty"`
	RejectedAt      *time.Time           `bson:"rejected_at,omitempty"`
	RejectedBy      string               `bson:"rejected_by,omitempty"`
	RejectionReason string               `bson:"rejection_reason,omitempty"`
	ReceiptURL      string               `bson:"receipt_url,omitempty"`
}

func toMongoExpense(e *domain.Expense, seq int64) (mongoExpense, error) {
	amount, err := primitive.ParseDecimal128(e.Amount.String())
	if err != nil {
		return mongoExpense{}, fmt.Errorf("encode amount %s: %w", e.Amount, err)
	}
	return mongoExpense{
		ID:              e.ID,
		Seq:             seq,
		UserID:          e.UserID,
		Title:           e.Title,
		Description:     e.Description,
		Amount:          amount,
		Category:        string(e.Category),
		Status:          string(e.Status),
		SubmittedAt:     e.SubmittedAt.UTC(),
		ApprovedAt:      utcPtr(e.ApprovedAt),
		ApprovedBy:      e.ApprovedBy,
		RejectedAt:      utcPtr(e.RejectedAt),
		RejectedBy:      e.RejectedBy,
		RejectionReason: e.RejectionReason,
		ReceiptURL:      e.ReceiptURL,
	}, nil
}

func (m mongoExpense) toDomain() (*domain.Expense, error) {
	amount, err := decimal.NewFromString(m.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("decode amount of %s: %w", m.ID, err)
	}
	return &domain.Expense{
		ID:              m.ID,
		UserID:          m.UserID,
		Title:           m.Title,
		Description:     m.Description,
		Amount:          amount,
		Category:        domain.Category(m.Category),
		Status:          domain.ExpenseStatus(m.Status),
		SubmittedAt:     m.SubmittedAt,
		ApprovedAt:      m.ApprovedAt,
		ApprovedBy:      m.ApprovedBy,
		RejectedAt:      m.RejectedAt,
		RejectedBy:      m.RejectedBy,
		RejectionReason: m.RejectionReason,
		ReceiptURL:      m.ReceiptURL,
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Create inserts a new expense, stamping SubmittedAt with the store clock at
// BSON millisecond precision.
func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	seq, err := r.seq.next(ctx, collectionExpenses)
	if err != nil {
		return nil, err
	}
	created := e.Clone()
	created.ID = formatID(expensePrefix, seq)
	created.SubmittedAt = r.clock.Now().Truncate(time.Millisecond)

	doc, err := toMongoExpense(created, seq)
	if err != nil {
		return nil, err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	return created, nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*domain.Expense, error) {
	doc, err := r.findDoc(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}

func (r *ExpenseRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Expense, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *ExpenseRepository) FindByStatus(ctx context.Context, status domain.ExpenseStatus) ([]*domain.Expense, error) {
	return r.find(ctx, bson.M{"status": string(status)})
}

// FindPendingByManager resolves the direct reports of managerID first, then
// their pending expenses.
func (r *ExpenseRepository) FindPendingByManager(ctx context.Context, managerID string) ([]*domain.Expense, error) {
	reports, err := r.users.ListByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return []*domain.Expense{}, nil
	}
	ids := make([]string, 0, len(reports))
	for _, u := range reports {
		ids = append(ids, u.ID)
	}
	return r.find(ctx, bson.M{
		"user_id": bson.M{"$in": ids},
		"status":  string(domain.StatusPending),
	})
}

func (r *ExpenseRepository) FindInDateRange(ctx context.Context, rng domain.DateRange) ([]*domain.Expense, error) {
	return r.find(ctx, bson.M{"submitted_at": bson.M{
		"$gte": rng.Start.UTC(),
		"$lt":  rng.Until().UTC(),
	}})
}

func (r *ExpenseRepository) List(ctx context.Context) ([]*domain.Expense, error) {
	return r.find(ctx, bson.M{})
}

// Update applies only the fields set in patch with one $set, so concurrent
// writes to other fields (a decision, another patch) are kept.
func (r *ExpenseRepository) Update(ctx context.Context, id string, patch domain.ExpensePatch) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set, err := expensePatchSet(patch)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	doc, err := r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, options.After)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return doc.toDomain()
}

// findOneAndUpdate returns the matched document as it was before or after
// update, per rd. An unmatched filter yields mongo.ErrNoDocuments.
func (r *ExpenseRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M, rd options.ReturnDocument) (*mongoExpense, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(rd)
	var doc mongoExpense
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func expensePatchSet(p domain.ExpensePatch) (bson.M, error) {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Amount != nil {
		amount, err := primitive.ParseDecimal128(p.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("encode amount %s: %w", p.Amount, err)
		}
		set["amount"] = amount
	}
	if p.Category != nil {
		set["category"] = string(*p.Category)
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.ApprovedAt != nil {
		set["approved_at"] = p.ApprovedAt.UTC()
	}
	if p.ApprovedBy != nil {
		set["approved_by"] = *p.ApprovedBy
	}
	if p.RejectedAt != nil {
		set["rejected_at"] = p.RejectedAt.UTC()
	}
	if p.RejectedBy != nil {
		set["rejected_by"] = *p.RejectedBy
	}
	if p.RejectionReason != nil {
		set["rejection_reason"] = *p.RejectionReason
	}
	if p.ReceiptURL != nil {
		set["receipt_url"] = *p.ReceiptURL
	}
	return set, nil
}

func (r *ExpenseRepository) findDoc(ctx context.Context, id string) (*mongoExpense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoExpense
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return &doc, nil
}

func (r *ExpenseRepository) find(ctx context.Context, filter bson.M) ([]*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, bySeq)
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	var docs []mongoExpense
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	out := make([]*domain.Expense, 0, len(docs))
	for _, d := range docs {
		e, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
