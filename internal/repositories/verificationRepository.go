package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"authprobe/internal/database"
	"authprobe/internal/models"
)

const verificationCollection = "verification_tokens"

type VerificationRepository interface {
	Create(ctx context.Context, token *models.VerificationToken) (*models.VerificationToken, error)
	FindValid(ctx context.Context, token string) (*models.VerificationToken, error)
	MarkAsUsed(ctx context.Context, tokenID primitive.ObjectID) error
	InvalidateForUser(ctx context.Context, userID primitive.ObjectID) error
	DeleteExpired(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type verificationRepository struct {
	db database.Service
}

func NewVerificationRepository(db database.Service) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(verificationCollection)
}

func (r *verificationRepository) Create(ctx context.Context, token *models.VerificationToken) (_ *models.VerificationToken, err error) {
	defer trackQuery("verification", "create")(&err)

	token.ID = primitive.NewObjectID()
	token.CreatedAt = time.Now().UTC()
	token.UpdatedAt = token.CreatedAt
	if _, err = r.collection().InsertOne(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store verification token: %w", err)
	}
	return token, nil
}

// FindValid returns the unused, unexpired token document, or nil if there is none.
func (r *verificationRepository) FindValid(ctx context.Context, token string) (_ *models.VerificationToken, err error) {
	defer trackQuery("verification", "findValid")(&err)

	var vt models.VerificationToken
	filter := bson.M{"token": token, "is_used": false, "expires_at": bson.M{"$gt": time.Now().UTC()}}
	err = r.collection().FindOne(ctx, filter).Decode(&vt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &vt, nil
}

func (r *verificationRepository) MarkAsUsed(ctx context.Context, tokenID primitive.ObjectID) (err error) {
	defer trackQuery("verification", "markAsUsed")(&err)

	filter := bson.M{"_id": tokenID, "is_used": false}
	update := bson.M{"$set": bson.M{"is_used": true, "updated_at": time.Now().UTC()}}
	result, err := r.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		err = mongo.ErrNoDocuments
		return err
	}
	return nil
}

func (r *verificationRepository) InvalidateForUser(ctx context.Context, userID primitive.ObjectID) (err error) {
	defer trackQuery("verification", "invalidateForUser")(&err)

	filter := bson.M{"user_id": userID, "is_used": false}
	update := bson.M{"$set": bson.M{"is_used": true, "updated_at": time.Now().UTC()}}
	_, err = r.collection().UpdateMany(ctx, filter, update)
	return err
}

func (r *verificationRepository) DeleteExpired(ctx context.Context) (_ int64, err error) {
	defer trackQuery("verification", "deleteExpired")(&err)

	filter := bson.M{"expires_at": bson.M{"$lt": time.Now().UTC()}, "is_used": false}
	result, err := r.collection().DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *verificationRepository) EnsureIndexes(ctx context.Context) (err error) {
	defer trackQuery("verification", "ensureIndexes")(&err)

	_, err = r.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_token"),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create verification indexes: %w", err)
	}
	return nil
}
