package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"authprobe/internal/database"
	"authprobe/internal/models"
)

const usersCollection = "users"

type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	MarkVerified(ctx context.Context, userID primitive.ObjectID, at time.Time) error
	EnsureIndexes(ctx context.Context) error
}

type userRepository struct {
	db database.Service
}

func NewUserRepository(db database.Service) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) collection() *mongo.Collection {
	return r.db.Database().Collection(usersCollection)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (_ *models.User, err error) {
	defer trackQuery("user", "create")(&err)

	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err = r.collection().InsertOne(ctx, user); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to insert user into database")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// FindByEmail returns mongo.ErrNoDocuments when no user has that address.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (_ *models.User, err error) {
	defer trackQuery("user", "findByEmail")(&err)

	var user models.User
	if err = r.collection().FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, userID primitive.ObjectID) (_ *models.User, err error) {
	defer trackQuery("user", "findById")(&err)

	var user models.User
	if err = r.collection().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err // Can be mongo.ErrNoDocuments
	}
	return &user, nil
}

func (r *userRepository) MarkVerified(ctx context.Context, userID primitive.ObjectID, at time.Time) (err error) {
	defer trackQuery("user", "markVerified")(&err)

	update := bson.M{"$set": bson.M{"is_verified": true, "verified_at": at, "updated_at": at}}
	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Error marking user as verified")
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if result.MatchedCount == 0 {
		err = mongo.ErrNoDocuments
		return err
	}
	return nil
}

func (r *userRepository) EnsureIndexes(ctx context.Context) (err error) {
	defer trackQuery("user", "ensureIndexes")(&err)

	_, err = r.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("failed to create index for email: %w", err)
	}
	return nil
}
