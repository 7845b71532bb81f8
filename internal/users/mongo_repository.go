package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash []byte    `bson:"password_hash"`
	Name         string    `bson:"name"`
	Address      string    `bson:"address"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d *userDocument) toUser() *domain.User {
	return &domain.User{
		ID:        d.ID,
		Email:     d.Email,
		Name:      d.Name,
		Address:   d.Address,
		CreatedAt: d.CreatedAt,
	}
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		collection: db.Collection("users"),
	}
}

func (m *mongoRepository) CreateUser(ctx context.Context, user *domain.User, passwordHash []byte) (*domain.User, error) {
	// unique email is also enforced by an index; this check gives the
	// caller a clean error instead of a duplicate-key failure
	err := m.collection.FindOne(ctx, bson.M{"email": user.Email}).Err()
	if err == nil {
		return nil, ErrEmailInUse
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	doc := userDocument{
		ID:           uuid.NewString(),
		Email:        user.Email,
		PasswordHash: passwordHash,
		Name:         user.Name,
		Address:      user.Address,
		CreatedAt:    time.Now(),
	}

	if _, err := m.collection.InsertOne(ctx, &doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return doc.toUser(), nil
}

func (m *mongoRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var doc userDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return doc.toUser(), nil
}

func (m *mongoRepository) GetByEmail(ctx context.Context, email string) (*Credentials, error) {
	var doc userDocument
	err := m.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &Credentials{User: *doc.toUser(), PasswordHash: doc.PasswordHash}, nil
}

func (m *mongoRepository) UpdateProfile(ctx context.Context, id, name, address string) error {
	update := bson.M{"$set": bson.M{"name": name, "address": address}}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (m *mongoRepository) DeleteUser(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
