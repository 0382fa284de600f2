package interfaces

import (
	"context"
	"time"

	"mealhub/internal/models"
)

type AnalyticsRepository interface {
	Count(ctx context.Context, collection string, filter map[string]interface{}) (int64, error)
	CountActiveOffers(ctx context.Context, now time.Time) (int64, error)
	GroupCount(ctx context.Context, collection, field string) (map[string]int64, error)
	ReviewRatingStats(ctx context.Context) (map[int]int64, float64, error)
	DailyCounts(ctx context.Context, collection string, since time.Time) ([]models.TrendPoint, error)
}
