package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/pkg/database"
	"mealhub/pkg/logger"
)

const (
	dashboardCacheKey = "analytics:dashboard"
	dashboardCacheTTL = time.Minute
	defaultTrendDays  = 30
)

// trendCollections maps the public entity name onto its collection.
var trendCollections = map[string]string{
	"users":       database.CollectionUsers,
	"drivers":     database.CollectionDrivers,
	"restaurants": database.CollectionRestaurants,
	"reviews":     database.CollectionReviews,
}

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	DriverStats(ctx context.Context) (*models.DriverStats, error)
	ReviewStats(ctx context.Context) (*models.ReviewStats, error)
	RegistrationTrends(ctx context.Context, entity string, days int) ([]models.TrendPoint, error)
}

type analyticsService struct {
	analytics interfaces.AnalyticsRepository
	cache     CacheService
	now       func() time.Time
	logger    *logger.Logger
}

func NewAnalyticsService(analytics interfaces.AnalyticsRepository, cache CacheService, log *logger.Logger) AnalyticsService {
	return &analyticsService{
		analytics: analytics,
		cache:     cache,
		now:       time.Now,
		logger:    log.WithField("service", "analytics"),
	}
}

type countQuery struct {
	collection string
	filter     map[string]interface{}
	dest       *int64
}

func (s *analyticsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if cacheGet(ctx, s.cache, dashboardCacheKey, &stats) {
		return &stats, nil
	}

	queries := []countQuery{
		{database.CollectionRestaurants, nil, &stats.Restaurants.Total},
		{database.CollectionRestaurants, map[string]interface{}{"is_active": true}, &stats.Restaurants.Active},
		{database.CollectionRestaurants, map[string]interface{}{"is_blocked": true}, &stats.Restaurants.Blocked},
		{database.CollectionRestaurants, map[string]interface{}{"is_verified": true}, &stats.Restaurants.Verified},

		{database.CollectionDrivers, nil, &stats.Drivers.Total},
		{database.CollectionDrivers, map[string]interface{}{"is_approved": true}, &stats.Drivers.Approved},
		{database.CollectionDrivers, map[string]interface{}{"is_approved": false, "is_registration_complete": true}, &stats.Drivers.PendingApproval},
		{database.CollectionDrivers, map[string]interface{}{"status": models.DriverStatusOnline}, &stats.Drivers.Online},
		{database.CollectionDrivers, map[string]interface{}{"is_registration_complete": true}, &stats.Drivers.RegistrationComplete},

		{database.CollectionUsers, nil, &stats.Users.Total},
		{database.CollectionUsers, map[string]interface{}{"is_blocked": true}, &stats.Users.Blocked},
		{database.CollectionUsers, map[string]interface{}{"is_profile": true}, &stats.Users.ProfileComplete},

		{database.CollectionReviews, nil, &stats.Reviews.Total},
		{database.CollectionReviews, map[string]interface{}{"status": models.ReviewPending, "is_deleted": false}, &stats.Reviews.Pending},
		{database.CollectionReviews, map[string]interface{}{"flag": map[string]interface{}{"$exists": true}, "is_deleted": false}, &stats.Reviews.Flagged},
		{database.CollectionReviews, map[string]interface{}{"is_deleted": true}, &stats.Reviews.Deleted},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, q := range queries {
		q := q
		g.Go(func() error {
			count, err := s.analytics.Count(gctx, q.collection, q.filter)
			if err != nil {
				return fmt.Errorf("count %s: %w", q.collection, err)
			}
			*q.dest = count
			return nil
		})
	}
	g.Go(func() error {
		count, err := s.analytics.CountActiveOffers(gctx, s.now())
		if err != nil {
			return fmt.Errorf("count offers: %w", err)
		}
		stats.ActiveOffers = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, utils.NewInternalError("Failed to load dashboard", err)
	}

	cacheSet(ctx, s.cache, dashboardCacheKey, &stats, dashboardCacheTTL)
	return &stats, nil
}

func (s *analyticsService) DriverStats(ctx context.Context) (*models.DriverStats, error) {
	var steps, approval, status map[string]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		steps, err = s.analytics.GroupCount(gctx, database.CollectionDrivers, "registration_step")
		return err
	})
	g.Go(func() (err error) {
		approval, err = s.analytics.GroupCount(gctx, database.CollectionDrivers, "is_approved")
		return err
	})
	g.Go(func() (err error) {
		status, err = s.analytics.GroupCount(gctx, database.CollectionDrivers, "status")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, utils.NewInternalError("Failed to load driver stats", err)
	}

	stats := &models.DriverStats{
		ByRegistrationStep: make(map[int]int64, models.DriverStepComplete),
		ByApproval:         map[string]int64{"approved": approval["true"], "pending": approval["false"]},
		ByStatus:           map[string]int64{},
	}
	for step := models.DriverStepVerified; step <= models.DriverStepComplete; step++ {
		stats.ByRegistrationStep[step] = 0
	}
	for key, count := range steps {
		if step, err := strconv.Atoi(key); err == nil {
			stats.ByRegistrationStep[step] += count
		}
	}
	for _, st := range []models.DriverStatus{models.DriverStatusOnline, models.DriverStatusOffline} {
		stats.ByStatus[string(st)] = status[string(st)]
	}

	return stats, nil
}

func (s *analyticsService) ReviewStats(ctx context.Context) (*models.ReviewStats, error) {
	stats := &models.ReviewStats{ByStatus: map[string]int64{}}
	var byStatus map[string]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.ByRating, stats.AverageRating, err = s.analytics.ReviewRatingStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		byStatus, err = s.analytics.GroupCount(gctx, database.CollectionReviews, "status")
		return err
	})
	g.Go(func() (err error) {
		stats.Flagged, err = s.analytics.Count(gctx, database.CollectionReviews, map[string]interface{}{"flag": map[string]interface{}{"$exists": true}})
		return err
	})
	g.Go(func() (err error) {
		stats.Deleted, err = s.analytics.Count(gctx, database.CollectionReviews, map[string]interface{}{"is_deleted": true})
		return err
	})
	g.Go(func() (err error) {
		stats.Total, err = s.analytics.Count(gctx, database.CollectionReviews, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, utils.NewInternalError("Failed to load review stats", err)
	}

	for _, st := range []models.ReviewStatus{models.ReviewPending, models.ReviewApproved, models.ReviewRejected} {
		stats.ByStatus[string(st)] = byStatus[string(st)]
	}
	stats.AverageRating = utils.RoundMoney(stats.AverageRating)
	return stats, nil
}

// RegistrationTrends returns one point per UTC day for the last days days,
// oldest first, with zero for days without registrations.
func (s *analyticsService) RegistrationTrends(ctx context.Context, entity string, days int) ([]models.TrendPoint, error) {
	if entity == "" {
		entity = "users"
	}
	collection, ok := trendCollections[entity]
	if !ok {
		return nil, utils.NewValidationError("Unknown entity " + entity)
	}
	if days <= 0 {
		days = defaultTrendDays
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	points, err := s.analytics.DailyCounts(ctx, collection, since)
	if err != nil {
		return nil, utils.NewInternalError("Failed to load registration trends", err)
	}

	byDate := make(map[string]int64, len(points))
	for _, p := range points {
		byDate[p.Date] = p.Count
	}

	trend := make([]models.TrendPoint, 0, days)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		trend = append(trend, models.TrendPoint{Date: date, Count: byDate[date]})
	}
	return trend, nil
}
