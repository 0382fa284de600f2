package mongodb

import (
	"context"
	"errors"
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

type restaurantRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewRestaurantRepository(db *mongo.Database, cache CacheService) interfaces.RestaurantRepository {
	return &restaurantRepository{
		collection: db.Collection(database.CollectionRestaurants),
		cache:      cache,
	}
}

func (r *restaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	now := time.Now()
	restaurant.ID = primitive.NewObjectID()
	restaurant.Role = models.RoleRestaurant
	restaurant.CreatedAt = now
	restaurant.UpdatedAt = now
	if restaurant.CuisineTypes == nil {
		restaurant.CuisineTypes = []string{}
	}
	if restaurant.Images == nil {
		restaurant.Images = []string{}
	}

	_, err := r.collection.InsertOne(ctx, restaurant)
	return translate(err, "create restaurant")
}

func (r *restaurantRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error) {
	if restaurant := r.getFromCache(ctx, id); restaurant != nil {
		return restaurant, nil
	}

	var restaurant models.Restaurant
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant); err != nil {
		return nil, translate(err, "get restaurant")
	}

	r.cacheRestaurant(ctx, &restaurant)
	return &restaurant, nil
}

func (r *restaurantRepository) GetPrincipal(ctx context.Context, id primitive.ObjectID) (models.Principal, error) {
	return r.GetByID(ctx, id)
}

func (r *restaurantRepository) GetCredential(ctx context.Context, phone string) (*models.PasswordCredential, error) {
	return passwordCredential(ctx, r.collection, phone, models.RoleRestaurant)
}

func (r *restaurantRepository) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	if err := touchLogin(ctx, r.collection, id, at); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *restaurantRepository) GetAccountStatus(ctx context.Context, id primitive.ObjectID) (*models.AccountStatus, error) {
	return accountStatus(ctx, r.collection, id, models.RoleRestaurant)
}

func (r *restaurantRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Restaurant, error) {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	return r.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, "update restaurant")
}

func (r *restaurantRepository) AddImages(ctx context.Context, id primitive.ObjectID, urls []string) (*models.Restaurant, error) {
	update := bson.M{
		"$push": bson.M{"images": bson.M{"$each": urls}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	return r.findAndUpdate(ctx, bson.M{"_id": id}, update, "add restaurant images")
}

// RemoveImage pulls url from the gallery. The bool reports whether the url
// was present.
func (r *restaurantRepository) RemoveImage(ctx context.Context, id primitive.ObjectID, url string) (*models.Restaurant, bool, error) {
	update := bson.M{
		"$pull": bson.M{"images": url},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	restaurant, err := r.findAndUpdate(ctx, bson.M{"_id": id, "images": url}, update, "remove restaurant image")
	if errors.Is(err, utils.ErrRecordNotFound) {
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, false, getErr
		}
		return current, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return restaurant, true, nil
}

func (r *restaurantRepository) UpdateRating(ctx context.Context, id primitive.ObjectID, rating float64, totalReviews int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"rating":        rating,
		"total_reviews": totalReviews,
		"updated_at":    time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update restaurant rating: %w", err)
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *restaurantRepository) List(ctx context.Context, filter interfaces.RestaurantFilter, params *utils.PaginationParams) ([]*models.Restaurant, int64, error) {
	query := bson.M{}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	if filter.IsBlocked != nil {
		query["is_blocked"] = *filter.IsBlocked
	}
	if filter.IsVerified != nil {
		query["is_verified"] = *filter.IsVerified
	}
	query = withSearch(query, params, "name", "owner_name", "phone", "cuisine_types")

	return findPage[models.Restaurant](ctx, r.collection, query, params)
}

func (r *restaurantRepository) findAndUpdate(ctx context.Context, filter, update bson.M, action string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&restaurant); err != nil {
		return nil, translate(err, action)
	}
	r.cacheRestaurant(ctx, &restaurant)
	return &restaurant, nil
}

// Cache helpers

func restaurantCacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("restaurant:%s", id.Hex())
}

func (r *restaurantRepository) cacheRestaurant(ctx context.Context, restaurant *models.Restaurant) {
	if r.cache != nil {
		_ = r.cache.Set(ctx, restaurantCacheKey(restaurant.ID), restaurant, cacheTTL)
	}
}

func (r *restaurantRepository) getFromCache(ctx context.Context, id primitive.ObjectID) *models.Restaurant {
	if r.cache == nil {
		return nil
	}
	var restaurant models.Restaurant
	if err := r.cache.Get(ctx, restaurantCacheKey(id), &restaurant); err != nil {
		return nil
	}
	return &restaurant
}

func (r *restaurantRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	if r.cache != nil {
		_ = r.cache.Delete(ctx, restaurantCacheKey(id))
	}
}

// InvalidateRestaurant drops a cached restaurant after a write made through
// another store, such as the toggle store.
func InvalidateRestaurant(ctx context.Context, cache CacheService, id primitive.ObjectID) {
	if cache != nil {
		_ = cache.Delete(ctx, restaurantCacheKey(id))
	}
}
