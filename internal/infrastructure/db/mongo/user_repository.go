package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/expense-system/internal/core/domain"
)

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col *mongo.Collection
	seq counters
}

type mongoUser struct {
	ID         string `bson:"_id"`
	Seq        int64  `bson:"seq"`
	Name       string `bson:"name"`
	Email      string `bson:"email"`
	Role       string `bson:"role"`
	Department string `bson:"department"`
	ManagerID  string `bson:"manager_id,omitempty"`
}

func toMongoUser(u *domain.User, seq int64) mongoUser {
	return mongoUser{
		ID:         u.ID,
		Seq:        seq,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		Department: u.Department,
		ManagerID:  u.ManagerID,
	}
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Role:       domain.Role(m.Role),
		Department: m.Department,
		ManagerID:  m.ManagerID,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	seq, err := r.seq.next(ctx, collectionUsers)
	if err != nil {
		return nil, err
	}
	created := *user
	created.ID = formatID(userPrefix, seq)

	if _, err := r.col.InsertOne(ctx, toMongoUser(&created, seq)); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetSort(bson.D{{Key: "seq", Value: 1}}))
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *UserRepository) ListByManager(ctx context.Context, managerID string) ([]*domain.User, error) {
	return r.find(ctx, bson.M{"manager_id": managerID})
}

func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := userPatchSet(patch)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoUser
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

func userPatchSet(p domain.UserPatch) bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Role != nil {
		set["role"] = string(*p.Role)
	}
	if p.Department != nil {
		set["department"] = *p.Department
	}
	if p.ManagerID != nil {
		set["manager_id"] = *p.ManagerID
	}
	return set
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoUser
	if err := r.col.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, bySeq)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
