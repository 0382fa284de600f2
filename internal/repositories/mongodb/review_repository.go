package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/pkg/database"
)

type reviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) interfaces.ReviewRepository {
	return &reviewRepository{
		collection: db.Collection(database.CollectionReviews),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	now := time.Now()
	review.ID = primitive.NewObjectID()
	review.CreatedAt = now
	review.UpdatedAt = now
	if review.Images == nil {
		review.Images = []string{}
	}
	if review.Voters == nil {
		review.Voters = []primitive.ObjectID{}
	}
	if review.Reports == nil {
		review.Reports = []models.ReviewReport{}
	}

	_, err := r.collection.InsertOne(ctx, review)
	return translate(err, "create review")
}

func (r *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		return nil, translate(err, "get review")
	}
	return &review, nil
}

func (r *reviewRepository) ApplyIf(ctx context.Context, id primitive.ObjectID, guard bson.M, update bson.M) (*models.Review, error) {
	filter := bson.M{"_id": id}
	for k, v := range guard {
		filter[k] = v
	}

	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	set["updated_at"] = time.Now()
	update["$set"] = set

	var review models.Review
	err := r.collection.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&review)
	if err == nil {
		return &review, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, translate(err, "update review")
	}

	// Tell a missing review apart from a guard that no longer holds.
	count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if countErr != nil {
		return nil, translate(countErr, "check review")
	}
	if count == 0 {
		return nil, utils.ErrRecordNotFound
	}
	return nil, utils.ErrVersionConflict
}

func (r *reviewRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"view_count": 1}})
	return translate(err, "increment review views")
}

func (r *reviewRepository) List(ctx context.Context, filter models.ReviewFilter, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	} else if filter.ExcludeStatus != nil {
		query["status"] = bson.M{"$ne": *filter.ExcludeStatus}
	}
	if filter.Rating != nil {
		query["rating"] = *filter.Rating
	}
	if filter.RestaurantID != nil {
		query["restaurant_id"] = *filter.RestaurantID
	}
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}
	if filter.IsFlagged != nil {
		query["flag"] = bson.M{"$exists": *filter.IsFlagged}
	}
	if filter.IsDeleted != nil {
		query["is_deleted"] = *filter.IsDeleted
	}
	if filter.IsVisible != nil {
		query["is_visible"] = *filter.IsVisible
	}
	query = withSearch(query, params, "comment")

	return findPage[models.Review](ctx, r.collection, query, params)
}

// RatingSummary averages the ratings customers can see for a restaurant.
func (r *reviewRepository) RatingSummary(ctx context.Context, restaurantID primitive.ObjectID) (float64, int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"restaurant_id": restaurantID,
			"is_deleted":    false,
			"status":        bson.M{"$ne": models.ReviewRejected},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, translate(err, "summarize ratings")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, translate(err, "decode rating summary")
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Average, rows[0].Count, nil
}
