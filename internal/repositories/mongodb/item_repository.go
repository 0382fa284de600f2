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

type itemRepository struct {
	store ownedStore[models.Item]
}

func NewItemRepository(db *mongo.Database) interfaces.ItemRepository {
	return &itemRepository{store: newOwnedStore[models.Item](db, database.CollectionItems, "item")}
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	now := time.Now()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if item.Images == nil {
		item.Images = []string{}
	}
	return r.store.insert(ctx, item)
}

func (r *itemRepository) Get(ctx context.Context, ownerID, id primitive.ObjectID) (*models.Item, error) {
	return r.store.get(ctx, ownerID, id)
}

func (r *itemRepository) Update(ctx context.Context, ownerID, id primitive.ObjectID, fields map[string]interface{}) (*models.Item, error) {
	return r.store.update(ctx, ownerID, id, fields)
}

func (r *itemRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	return r.store.delete(ctx, ownerID, id)
}

func (r *itemRepository) List(ctx context.Context, ownerID primitive.ObjectID, filter models.ItemFilter, params *utils.PaginationParams) ([]*models.Item, int64, error) {
	query := bson.M{"restaurant_id": ownerID}
	if filter.CategoryID != nil {
		query["category_id"] = *filter.CategoryID
	}
	if filter.IsAvailable != nil {
		query["is_available"] = *filter.IsAvailable
	}
	if filter.IsVegetarian != nil {
		query["is_vegetarian"] = *filter.IsVegetarian
	}
	query = withSearch(query, params, "name", "description", "tags")

	return r.store.list(ctx, query, params)
}

func (r *itemRepository) CountByCategory(ctx context.Context, ownerID, categoryID primitive.ObjectID) (int64, error) {
	count, err := r.store.collection.CountDocuments(ctx, bson.M{"restaurant_id": ownerID, "category_id": categoryID})
	if err != nil {
		return 0, translate(err, "count items")
	}
	return count, nil
}
