package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/pkg/database"
)

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) interfaces.UserRepository {
	return &userRepository{
		collection: db.Collection(database.CollectionUsers),
	}
}

func (r *userRepository) UpsertOTP(ctx context.Context, phone, code string, expiresAt time.Time) (bool, error) {
	return upsertOTP(ctx, r.collection, phone, code, expiresAt, bson.M{
		"is_verified": false,
		"is_active":   true,
		"is_blocked":  false,
		"is_profile":  false,
	})
}

func (r *userRepository) ConsumeOTP(ctx context.Context, phone, code string, now time.Time) (models.OTPPrincipal, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, otpFilter(phone, code, now), otpConsumed(now), returnAfter()).Decode(&user)
	if err != nil {
		return nil, translate(err, "verify user otp")
	}
	return &user, nil
}

func (r *userRepository) GetAccountStatus(ctx context.Context, id primitive.ObjectID) (*models.AccountStatus, error) {
	return accountStatus(ctx, r.collection, id, models.RoleUser)
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error) {
	// Pipeline stages read "$"-prefixed strings as expressions, so request
	// values go in as literals.
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = bson.M{"$literal": v}
	}

	// is_profile follows the stored names, so it is derived after the $set
	// stage has applied the new values.
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: set}},
		{{Key: "$set", Value: bson.M{
			"is_profile": bson.M{"$and": bson.A{
				bson.M{"$gt": bson.A{bson.M{"$strLenCP": bson.M{"$ifNull": bson.A{"$first_name", ""}}}, 0}},
				bson.M{"$gt": bson.A{bson.M{"$strLenCP": bson.M{"$ifNull": bson.A{"$last_name", ""}}}, 0}},
			}},
		}}},
	}

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, returnAfter()).Decode(&user)
	if err != nil {
		return nil, translate(err, "update user profile")
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter interfaces.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error) {
	query := bson.M{}
	if filter.IsBlocked != nil {
		query["is_blocked"] = *filter.IsBlocked
	}
	if filter.IsProfile != nil {
		query["is_profile"] = *filter.IsProfile
	}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	query = withSearch(query, params, "phone", "first_name", "last_name", "email")

	users, total, err := findPage[models.User](ctx, r.collection, query, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}
