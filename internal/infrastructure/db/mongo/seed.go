package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// Seed loads fixed users and expenses with their IDs intact. Nothing is
// written when the users collection already holds documents.
func (s *Store) Seed(ctx context.Context, users []*domain.User, expenses []*domain.Expense) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := s.Users.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	var maxUser, maxExpense int64
	userDocs := make([]any, 0, len(users))
	for _, u := range users {
		seq, err := parseID(u.ID, userPrefix)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		userDocs = append(userDocs, toMongoUser(u, seq))
		maxUser = max(maxUser, seq)
	}
	expenseDocs := make([]any, 0, len(expenses))
	for _, e := range expenses {
		seq, err := parseID(e.ID, expensePrefix)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		doc, err := toMongoExpense(e, seq)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		expenseDocs = append(expenseDocs, doc)
		maxExpense = max(maxExpense, seq)
	}

	if len(userDocs) > 0 {
		if _, err := s.Users.col.InsertMany(ctx, userDocs); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}
	if len(expenseDocs) > 0 {
		if _, err := s.Expenses.col.InsertMany(ctx, expenseDocs); err != nil {
			return fmt.Errorf("seed expenses: %w", err)
		}
	}

	seq := s.Users.seq
	if err := seq.advance(ctx, collectionUsers, maxUser); err != nil {
		return err
	}
	return seq.advance(ctx, collectionExpenses, maxExpense)
}
