package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/pkg/database"
)

type analyticsRepository struct {
	db *mongo.Database
}

func NewAnalyticsRepository(db *mongo.Database) interfaces.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Count(ctx context.Context, collection string, filter map[string]interface{}) (int64, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}
	count, err := r.db.Collection(collection).CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return count, nil
}

func (r *analyticsRepository) CountActiveOffers(ctx context.Context, now time.Time) (int64, error) {
	return r.Count(ctx, database.CollectionOffers, bson.M{
		"is_active":  true,
		"start_date": bson.M{"$lte": now},
		"end_date":   bson.M{"$gt": now},
	})
}

// GroupCount counts documents per distinct value of field. Values are
// rendered with fmt so booleans and numbers become map keys.
func (r *analyticsRepository) GroupCount(ctx context.Context, collection, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to group %s by %s: %w", collection, field, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key   interface{} `bson:"_id"`
		Count int64       `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s groups: %w", collection, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		key := "none"
		if row.Key != nil {
			key = fmt.Sprint(row.Key)
		}
		counts[key] += row.Count
	}
	return counts, nil
}

func (r *analyticsRepository) ReviewRatingStats(ctx context.Context) (map[int]int64, float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$rating", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.db.Collection(database.CollectionReviews).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to group reviews by rating: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Rating int   `bson:"_id"`
		Count  int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, 0, fmt.Errorf("failed to decode rating groups: %w", err)
	}

	byRating := make(map[int]int64, 5)
	for rating := 1; rating <= 5; rating++ {
		byRating[rating] = 0
	}
	var total, sum int64
	for _, row := range rows {
		byRating[row.Rating] = row.Count
		total += row.Count
		sum += int64(row.Rating) * row.Count
	}

	average := 0.0
	if total > 0 {
		average = float64(sum) / float64(total)
	}
	return byRating, average, nil
}

// DailyCounts buckets documents created since the given time by UTC day.
func (r *analyticsRepository) DailyCounts(ctx context.Context, collection string, since time.Time) ([]models.TrendPoint, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s trends: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Date  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s trends: %w", collection, err)
	}

	points := make([]models.TrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, models.TrendPoint{Date: row.Date, Count: row.Count})
	}
	return points, nil
}
