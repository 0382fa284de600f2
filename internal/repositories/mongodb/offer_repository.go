package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/pkg/database"
)

type offerRepository struct {
	store ownedStore[models.Offer]
}

func NewOfferRepository(db *mongo.Database) interfaces.OfferRepository {
	return &offerRepository{store: newOwnedStore[models.Offer](db, database.CollectionOffers, "offer")}
}

func (r *offerRepository) Create(ctx context.Context, offer *models.Offer) error {
	now := time.Now()
	offer.ID = primitive.NewObjectID()
	offer.TotalUsed = 0
	offer.UserUsage = []models.OfferUsage{}
	offer.CreatedAt = now
	offer.UpdatedAt = now
	if offer.ApplicableItems == nil {
		offer.ApplicableItems = []primitive.ObjectID{}
	}
	if offer.ApplicableCategories == nil {
		offer.ApplicableCategories = []primitive.ObjectID{}
	}
	return r.store.insert(ctx, offer)
}

func (r *offerRepository) Get(ctx context.Context, ownerID, id primitive.ObjectID) (*models.Offer, error) {
	return r.store.get(ctx, ownerID, id)
}

func (r *offerRepository) GetByCode(ctx context.Context, code string) (*models.Offer, error) {
	var offer models.Offer
	if err := r.store.collection.FindOne(ctx, bson.M{"coupon_code": code}).Decode(&offer); err != nil {
		return nil, translate(err, "get offer by code")
	}
	return &offer, nil
}

func (r *offerRepository) Update(ctx context.Context, ownerID, id primitive.ObjectID, fields map[string]interface{}) (*models.Offer, error) {
	return r.store.update(ctx, ownerID, id, fields)
}

func (r *offerRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	return r.store.delete(ctx, ownerID, id)
}

func (r *offerRepository) List(ctx context.Context, ownerID primitive.ObjectID, filter models.OfferFilter, params *utils.PaginationParams) ([]*models.Offer, int64, error) {
	query := bson.M{"restaurant_id": ownerID}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	query = withSearch(query, params, "title", "coupon_code")

	return r.store.list(ctx, query, params)
}

// ListRedeemable returns the offers a customer can currently apply.
func (r *offerRepository) ListRedeemable(ctx context.Context, ownerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Offer, int64, error) {
	now := time.Now()
	query := bson.M{
		"restaurant_id": ownerID,
		"is_active":     true,
		"start_date":    bson.M{"$lte": now},
		"end_date":      bson.M{"$gt": now},
		"$expr":         bson.M{"$lt": bson.A{"$total_used", "$total_usage_limit"}},
	}
	return r.store.list(ctx, query, params)
}

func (r *offerRepository) CodeExists(ctx context.Context, code string, excludeID *primitive.ObjectID) (bool, error) {
	return r.store.exists(ctx, bson.M{"coupon_code": code}, excludeID)
}

// RecordRedemption first tries to bump an existing usage entry, then to push
// a new one. Each attempt is one conditional update, so the limits hold
// under concurrent redemptions.
func (r *offerRepository) RecordRedemption(ctx context.Context, offerID, userID primitive.ObjectID, now time.Time) (bool, error) {
	underTotal := bson.M{"$lt": bson.A{"$total_used", "$total_usage_limit"}}

	// limits are compared against the stored document, not a prior read
	underUserLimit := bson.M{"$anyElementTrue": bson.A{bson.M{"$map": bson.M{
		"input": bson.M{"$ifNull": bson.A{"$user_usage", bson.A{}}},
		"as":    "u",
		"in": bson.M{"$and": bson.A{
			bson.M{"$eq": bson.A{"$$u.user_id", userID}},
			bson.M{"$lt": bson.A{"$$u.usage_count", "$per_user_limit"}},
		}},
	}}}}

	existing := bson.M{
		"_id":                offerID,
		"is_active":          true,
		"user_usage.user_id": userID,
		"$expr":              bson.M{"$and": bson.A{underTotal, underUserLimit}},
	}
	result, err := r.store.collection.UpdateOne(ctx, existing, bson.M{
		"$inc": bson.M{"total_used": 1, "user_usage.$.usage_count": 1},
		"$set": bson.M{"user_usage.$.last_used": now, "updated_at": now},
	})
	if err != nil {
		return false, translate(err, "record offer usage")
	}
	if result.ModifiedCount > 0 {
		return true, nil
	}

	firstUse := bson.M{
		"_id":                offerID,
		"is_active":          true,
		"user_usage.user_id": bson.M{"$ne": userID},
		"$expr": bson.M{"$and": bson.A{
			underTotal,
			bson.M{"$gt": bson.A{"$per_user_limit", 0}},
		}},
	}
	result, err = r.store.collection.UpdateOne(ctx, firstUse, bson.M{
		"$inc":  bson.M{"total_used": 1},
		"$push": bson.M{"user_usage": models.OfferUsage{UserID: userID, UsageCount: 1, LastUsed: now}},
		"$set":  bson.M{"updated_at": now},
	})
	if err != nil {
		return false, translate(err, "record offer usage")
	}
	return result.ModifiedCount > 0, nil
}
