package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/pkg/cache"
	"mealhub/pkg/database"
	"mealhub/pkg/logger"
)

type countingAnalytics struct {
	interfaces.AnalyticsRepository
	mu     sync.Mutex
	counts int
	err    error
	daily  []models.TrendPoint
	since  time.Time
}

func (a *countingAnalytics) Count(_ context.Context, collection string, filter map[string]interface{}) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts++
	if a.err != nil {
		return 0, a.err
	}
	if collection == database.CollectionRestaurants && filter == nil {
		return 7, nil
	}
	return 1, nil
}

func (a *countingAnalytics) CountActiveOffers(context.Context, time.Time) (int64, error) {
	return 3, nil
}

func (a *countingAnalytics) DailyCounts(_ context.Context, _ string, since time.Time) ([]models.TrendPoint, error) {
	a.since = since
	return a.daily, nil
}

func TestDashboardIsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &countingAnalytics{}
	svc := NewAnalyticsService(repo, cache.NewRedisCacheFromClient(client, "mealhub:"), logger.NewDiscard())

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.Restaurants.Total)
	assert.Equal(t, int64(3), stats.ActiveOffers)
	first := repo.counts

	stats, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.Restaurants.Total)
	assert.Equal(t, first, repo.counts)

	mr.FastForward(2 * time.Minute)
	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2*first, repo.counts)
}

func TestDashboardCountFailure(t *testing.T) {
	svc := NewAnalyticsService(&countingAnalytics{err: errors.New("boom")}, nil, logger.NewDiscard())

	_, err := svc.Dashboard(context.Background())
	appErr := utils.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, utils.KindInternal, appErr.Kind)
}

func TestRegistrationTrendsZeroFill(t *testing.T) {
	repo := &countingAnalytics{daily: []models.TrendPoint{
		{Date: "2024-03-08", Count: 4},
		{Date: "2024-03-10", Count: 2},
	}}
	svc := NewAnalyticsService(repo, nil, logger.NewDiscard()).(*analyticsService)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC) }

	trend, err := svc.RegistrationTrends(context.Background(), "drivers", 4)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), repo.since)
	assert.Equal(t, []models.TrendPoint{
		{Date: "2024-03-07", Count: 0},
		{Date: "2024-03-08", Count: 4},
		{Date: "2024-03-09", Count: 0},
		{Date: "2024-03-10", Count: 2},
	}, trend)

	trend, err = svc.RegistrationTrends(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, trend, 30)

	_, err = svc.RegistrationTrends(context.Background(), "orders", 7)
	appErr := utils.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
}
