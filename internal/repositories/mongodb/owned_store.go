package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mealhub/internal/utils"
)

// ownedStore holds the operations shared by the catalog collections. Every
// query is scoped by restaurant_id so a foreign document reads as missing.
type ownedStore[T any] struct {
	collection *mongo.Collection
	noun       string
}

func newOwnedStore[T any](db *mongo.Database, name, noun string) ownedStore[T] {
	return ownedStore[T]{collection: db.Collection(name), noun: noun}
}

func ownedFilter(ownerID, id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "restaurant_id": ownerID}
}

func (s ownedStore[T]) insert(ctx context.Context, doc *T) error {
	_, err := s.collection.InsertOne(ctx, doc)
	return translate(err, "create "+s.noun)
}

func (s ownedStore[T]) get(ctx context.Context, ownerID, id primitive.ObjectID) (*T, error) {
	var doc T
	if err := s.collection.FindOne(ctx, ownedFilter(ownerID, id)).Decode(&doc); err != nil {
		return nil, translate(err, "get "+s.noun)
	}
	return &doc, nil
}

func (s ownedStore[T]) update(ctx context.Context, ownerID, id primitive.ObjectID, fields map[string]interface{}) (*T, error) {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	var doc T
	err := s.collection.FindOneAndUpdate(ctx, ownedFilter(ownerID, id), bson.M{"$set": set}, returnAfter()).Decode(&doc)
	if err != nil {
		return nil, translate(err, "update "+s.noun)
	}
	return &doc, nil
}

func (s ownedStore[T]) delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, ownedFilter(ownerID, id))
	if err != nil {
		return translate(err, "delete "+s.noun)
	}
	if result.DeletedCount == 0 {
		return utils.ErrRecordNotFound
	}
	return nil
}

func (s ownedStore[T]) list(ctx context.Context, query bson.M, params *utils.PaginationParams) ([]*T, int64, error) {
	return findPage[T](ctx, s.collection, query, params)
}

// exists reports whether a document of the owner matches field = value,
// ignoring excludeID.
func (s ownedStore[T]) exists(ctx context.Context, query bson.M, excludeID *primitive.ObjectID) (bool, error) {
	if excludeID != nil {
		query["_id"] = bson.M{"$ne": *excludeID}
	}
	count, err := s.collection.CountDocuments(ctx, query)
	if err != nil {
		return false, translate(err, "check "+s.noun)
	}
	return count > 0, nil
}
