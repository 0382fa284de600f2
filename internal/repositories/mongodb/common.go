package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mealhub/internal/models"
	"mealhub/internal/utils"
)

// CacheService is the optional read-through cache in front of hot lookups.
// A nil CacheService disables caching.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const cacheTTL = 15 * time.Minute

// translate maps driver errors onto the store sentinels.
func translate(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return utils.ErrRecordNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("failed to %s: %w", action, utils.ErrDuplicateKey)
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// findPage runs a filtered, paginated find and the matching count.
func findPage[T any](ctx context.Context, collection *mongo.Collection, filter bson.M, params *utils.PaginationParams) ([]*T, int64, error) {
	if params == nil {
		params = utils.NewPaginationParams(1, utils.DefaultPageSize, "", "", "")
	}

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", collection.Name(), err)
	}

	cursor, err := collection.Find(ctx, filter, params.GetFindOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find %s: %w", collection.Name(), err)
	}
	defer cursor.Close(ctx)

	results := make([]*T, 0, params.Limit)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w", collection.Name(), err)
	}

	return results, total, nil
}

// withSearch merges a search clause into filter.
func withSearch(filter bson.M, params *utils.PaginationParams, fields ...string) bson.M {
	if params == nil {
		return filter
	}
	if search := params.GetSearchFilter(fields...); len(search) > 0 {
		filter["$or"] = search["$or"]
	}
	return filter
}

// accountStatus reads the authorization slice of a principal. Stores whose
// documents carry no role field pass the fixed role.
func accountStatus(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID, role models.Role) (*models.AccountStatus, error) {
	var status models.AccountStatus
	opts := options.FindOne().SetProjection(bson.M{"role": 1, "is_active": 1, "is_blocked": 1})
	if err := collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&status); err != nil {
		return nil, translate(err, "get account status")
	}
	if role != "" {
		status.Role = role
	}
	return &status, nil
}

func passwordCredential(ctx context.Context, collection *mongo.Collection, phone string, role models.Role) (*models.PasswordCredential, error) {
	var credential models.PasswordCredential
	opts := options.FindOne().SetProjection(bson.M{"role": 1, "password": 1, "is_active": 1, "is_blocked": 1})
	if err := collection.FindOne(ctx, bson.M{"phone": phone}, opts).Decode(&credential); err != nil {
		return nil, translate(err, "get credential")
	}
	if credential.Role == "" {
		credential.Role = role
	}
	return &credential, nil
}

func touchLogin(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID, at time.Time) error {
	_, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login": at}})
	return translate(err, "update last login")
}

// otpFilter matches a principal holding an unexpired code.
func otpFilter(phone, code string, now time.Time) bson.M {
	return bson.M{
		"phone":          phone,
		"otp.code":       code,
		"otp.expires_at": bson.M{"$gt": now},
	}
}

func otpConsumed(now time.Time) bson.M {
	return bson.M{
		"$set":   bson.M{"is_verified": true, "last_login": now, "updated_at": now},
		"$unset": bson.M{"otp": ""},
	}
}

// upsertOTP stores code on the principal with phone, inserting defaults
// when none exists. It reports whether a document was inserted.
func upsertOTP(ctx context.Context, collection *mongo.Collection, phone, code string, expiresAt time.Time, defaults bson.M) (bool, error) {
	now := time.Now()
	onInsert := bson.M{"created_at": now}
	for k, v := range defaults {
		onInsert[k] = v
	}

	result, err := collection.UpdateOne(ctx,
		bson.M{"phone": phone},
		bson.M{
			"$set": bson.M{
				"otp":        models.OTPCode{Code: code, ExpiresAt: expiresAt},
				"updated_at": now,
			},
			"$setOnInsert": onInsert,
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// two concurrent first requests race on the unique phone index
		if mongo.IsDuplicateKeyError(err) {
			return upsertOTP(ctx, collection, phone, code, expiresAt, defaults)
		}
		return false, fmt.Errorf("failed to store otp: %w", err)
	}

	return result.UpsertedCount > 0, nil
}
