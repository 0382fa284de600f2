package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/pkg/database"
)

type cartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) interfaces.CartRepository {
	return &cartRepository{
		collection: db.Collection(database.CollectionCarts),
	}
}

func (r *cartRepository) Get(ctx context.Context, userID, restaurantID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "restaurant_id": restaurantID}).Decode(&cart)
	if err != nil {
		return nil, translate(err, "get cart")
	}
	return &cart, nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Cart, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, translate(err, "list carts")
	}
	defer cursor.Close(ctx)

	carts := []*models.Cart{}
	if err := cursor.All(ctx, &carts); err != nil {
		return nil, translate(err, "decode carts")
	}
	return carts, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()

	if cart.Version == 0 {
		cart.ID = primitive.NewObjectID()
		cart.Version = 1
		cart.CreatedAt = now
		cart.UpdatedAt = now
		_, err := r.collection.InsertOne(ctx, cart)
		if err != nil {
			cart.ID = primitive.NilObjectID
			cart.Version = 0
			if mongo.IsDuplicateKeyError(err) {
				return utils.ErrVersionConflict
			}
			return translate(err, "create cart")
		}
		return nil
	}

	filter := bson.M{
		"user_id":       cart.UserID,
		"restaurant_id": cart.RestaurantID,
		"version":       cart.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"items":      cart.Items,
			"subtotal":   cart.Subtotal,
			"total":      cart.Total,
			"updated_at": now,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return translate(err, "save cart")
	}
	if result.MatchedCount == 0 {
		return utils.ErrVersionConflict
	}

	cart.Version++
	cart.UpdatedAt = now
	return nil
}
