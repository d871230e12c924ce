package mongo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/99minutos/expense-system/internal/pkg/clock"
)

const (
	collectionUsers     = "users"
	collectionExpenses  = "expenses"
	collectionApprovals = "approvals"
	collectionCounters  = "counters"

	userPrefix     = "user-"
	expensePrefix  = "exp-"
	approvalPrefix = "approval-"
)

// Store groups the MongoDB repositories that share one database.
type Store struct {
	db        *mongo.Database
	Users     *UserRepository
	Expenses  *ExpenseRepository
	Approvals *ApprovalRepository
}

// NewStore wires the repositories on db. Times are stamped with clk.
func NewStore(db *mongo.Database, clk clock.Clock) *Store {
	seq := counters{col: db.Collection(collectionCounters)}
	users := &UserRepository{col: db.Collection(collectionUsers), seq: seq}
	expenses := &ExpenseRepository{col: db.Collection(collectionExpenses), users: users, seq: seq, clock: clk}
	return &Store{
		db:       db,
		Users:    users,
		Expenses: expenses,
		Approvals: &ApprovalRepository{
			col:      db.Collection(collectionApprovals),
			expenses: expenses,
			seq:      seq,
			clock:    clk,
		},
	}
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the lookup indexes used by the repositories.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	plan := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "seq", Value: 1}}},
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "manager_id", Value: 1}}},
		},
		collectionExpenses: {
			{Keys: bson.D{{Key: "seq", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "submitted_at", Value: 1}}},
		},
		collectionApprovals: {
			{Keys: bson.D{{Key: "expense_id", Value: 1}, {Key: "seq", Value: 1}}},
		},
	}
	for name, indexes := range plan {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// counters hands out sequential numbers from one document per collection.
type counters struct {
	col *mongo.Collection
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (c counters) next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc counterDoc
	err := c.col.FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Seq, nil
}

// advance moves the counter to at least n.
func (c counters) advance(ctx context.Context, name string, n int64) error {
	_, err := c.col.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$max": bson.M{"seq": n}}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("advance %s counter: %w", name, err)
	}
	return nil
}

func formatID(prefix string, seq int64) string {
	return prefix + strconv.FormatInt(seq, 10)
}

func parseID(id, prefix string) (int64, error) {
	if !strings.HasPrefix(id, prefix) {
		return 0, fmt.Errorf("id %q does not match %s<n>", id, prefix)
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(id, prefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q does not match %s<n>", id, prefix)
	}
	return n, nil
}

var bySeq = options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
