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

type planRepository struct {
	store ownedStore[models.Plan]
}

func NewPlanRepository(db *mongo.Database) interfaces.PlanRepository {
	return &planRepository{store: newOwnedStore[models.Plan](db, database.CollectionPlans, "plan")}
}

func (r *planRepository) Create(ctx context.Context, plan *models.Plan) error {
	now := time.Now()
	plan.ID = primitive.NewObjectID()
	plan.TotalSubscribers = 0
	plan.TotalRevenue = 0
	plan.AverageRating = 0
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Features == nil {
		plan.Features = []string{}
	}
	if plan.WeeklyMeals == nil {
		plan.WeeklyMeals = models.WeeklyMeals{}
	}
	return r.store.insert(ctx, plan)
}

func (r *planRepository) Get(ctx context.Context, ownerID, id primitive.ObjectID) (*models.Plan, error) {
	return r.store.get(ctx, ownerID, id)
}

func (r *planRepository) Update(ctx context.Context, ownerID, id primitive.ObjectID, fields map[string]interface{}) (*models.Plan, error) {
	return r.store.update(ctx, ownerID, id, fields)
}

func (r *planRepository) DeleteUnsubscribed(ctx context.Context, ownerID, id primitive.ObjectID) (bool, error) {
	filter := ownedFilter(ownerID, id)
	filter["total_subscribers"] = bson.M{"$lte": 0}

	result, err := r.store.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, translate(err, "delete plan")
	}
	return result.DeletedCount > 0, nil
}

func (r *planRepository) List(ctx context.Context, ownerID primitive.ObjectID, filter models.PlanFilter, params *utils.PaginationParams) ([]*models.Plan, int64, error) {
	query := bson.M{"restaurant_id": ownerID}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	query = withSearch(query, params, "name", "description", "features")

	return r.store.list(ctx, query, params)
}

func (r *planRepository) NameExists(ctx context.Context, ownerID primitive.ObjectID, name string, excludeID *primitive.ObjectID) (bool, error) {
	return r.store.exists(ctx, bson.M{"restaurant_id": ownerID, "name": name}, excludeID)
}
