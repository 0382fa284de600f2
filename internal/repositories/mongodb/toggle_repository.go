package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mealhub/internal/repositories/interfaces"
	"mealhub/pkg/database"
)

type toggleRepository struct {
	db    *mongo.Database
	cache CacheService
}

func NewToggleRepository(db *mongo.Database, cache CacheService) interfaces.ToggleRepository {
	return &toggleRepository{db: db, cache: cache}
}

// Toggle flips the field with an update pipeline so the read and the write
// happen in one server-side step.
func (r *toggleRepository) Toggle(ctx context.Context, target interfaces.ToggleTarget, at time.Time) (bool, error) {
	filter := bson.M{"_id": target.ID}
	for k, v := range target.Scope {
		filter[k] = v
	}

	set := bson.M{
		target.Field: bson.M{"$not": bson.A{"$" + target.Field}},
		"updated_at": at,
	}
	if target.AuditBy != "" {
		set[target.AuditBy] = target.ActorID
	}
	if target.AuditAt != "" {
		set[target.AuditAt] = at
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{target.Field: 1})

	var doc bson.M
	err := r.db.Collection(target.Collection).
		FindOneAndUpdate(ctx, filter, mongo.Pipeline{{{Key: "$set", Value: set}}}, opts).
		Decode(&doc)
	if err != nil {
		return false, translate(err, "toggle "+target.Field)
	}

	if target.Collection == database.CollectionRestaurants {
		InvalidateRestaurant(ctx, r.cache, target.ID)
	}

	value, _ := doc[target.Field].(bool)
	return value, nil
}
