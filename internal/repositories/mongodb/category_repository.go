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

type categoryRepository struct {
	store ownedStore[models.Category]
}

func NewCategoryRepository(db *mongo.Database) interfaces.CategoryRepository {
	return &categoryRepository{store: newOwnedStore[models.Category](db, database.CollectionCategories, "category")}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	now := time.Now()
	category.ID = primitive.NewObjectID()
	category.CreatedAt = now
	category.UpdatedAt = now
	return r.store.insert(ctx, category)
}

func (r *categoryRepository) Get(ctx context.Context, ownerID, id primitive.ObjectID) (*models.Category, error) {
	return r.store.get(ctx, ownerID, id)
}

func (r *categoryRepository) Update(ctx context.Context, ownerID, id primitive.ObjectID, fields map[string]interface{}) (*models.Category, error) {
	return r.store.update(ctx, ownerID, id, fields)
}

func (r *categoryRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	return r.store.delete(ctx, ownerID, id)
}

func (r *categoryRepository) List(ctx context.Context, ownerID primitive.ObjectID, filter models.CategoryFilter, params *utils.PaginationParams) ([]*models.Category, int64, error) {
	query := bson.M{"restaurant_id": ownerID}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	query = withSearch(query, params, "name", "description")

	return r.store.list(ctx, query, params)
}

func (r *categoryRepository) NameExists(ctx context.Context, ownerID primitive.ObjectID, name string, excludeID *primitive.ObjectID) (bool, error) {
	return r.store.exists(ctx, bson.M{"restaurant_id": ownerID, "name": name}, excludeID)
}
