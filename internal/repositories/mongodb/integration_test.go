package mongodb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mealhub/internal/models"
	"mealhub/internal/utils"
	"mealhub/pkg/database"
	"mealhub/pkg/logger"
)

// testDatabase connects to MONGODB_TEST_URI and returns a fresh migrated
// database that is dropped when the test ends.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            uri,
		Database:       fmt.Sprintf("mealhub_test_%d", time.Now().UnixNano()),
		MaxPoolSize:    20,
		ConnectTimeout: 10 * time.Second,
		SocketTimeout:  30 * time.Second,
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, database.NewMigrator(db.Database, logger.NewDiscard()).Up(ctx))

	t.Cleanup(func() {
		_ = db.Database.Drop(context.Background())
		_ = db.Close()
	})
	return db.Database
}

func TestUserOTPLifecycle(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(testDatabase(t))

	created, err := users.UpsertOTP(ctx, "9876543210", "123456", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = users.UpsertOTP(ctx, "9876543210", "123456", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, created)

	_, err = users.ConsumeOTP(ctx, "9876543210", "000000", time.Now())
	assert.True(t, errors.Is(err, utils.ErrRecordNotFound))

	principal, err := users.ConsumeOTP(ctx, "9876543210", "123456", time.Now())
	require.NoError(t, err)

	status, err := users.GetAccountStatus(ctx, principal.PrincipalID())
	require.NoError(t, err)
	assert.True(t, status.IsActive)
	assert.Equal(t, models.RoleUser, status.Role)

	_, err = users.ConsumeOTP(ctx, "9876543210", "123456", time.Now())
	assert.True(t, errors.Is(err, utils.ErrRecordNotFound))

	user, err := users.UpdateProfile(ctx, principal.PrincipalID(), map[string]interface{}{"first_name": "Asha", "last_name": "Rao"})
	require.NoError(t, err)
	assert.True(t, user.IsProfile)
}

func TestCartSaveDetectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	carts := NewCartRepository(testDatabase(t))

	cart := models.NewCart(primitive.NewObjectID(), primitive.NewObjectID())
	cart.AddItem(models.CartItem{ItemID: primitive.NewObjectID(), Name: "Idli", Price: 40, Quantity: 2})
	require.NoError(t, carts.Save(ctx, cart))

	first, err := carts.Get(ctx, cart.UserID, cart.RestaurantID)
	require.NoError(t, err)
	second, err := carts.Get(ctx, cart.UserID, cart.RestaurantID)
	require.NoError(t, err)

	first.Clear()
	require.NoError(t, carts.Save(ctx, first))

	second.AddItem(models.CartItem{ItemID: primitive.NewObjectID(), Name: "Vada", Price: 30, Quantity: 1})
	assert.True(t, errors.Is(carts.Save(ctx, second), utils.ErrVersionConflict))

	stored, err := carts.Get(ctx, cart.UserID, cart.RestaurantID)
	require.NoError(t, err)
	assert.Empty(t, stored.Items)
	assert.Equal(t, int64(2), stored.Version)
}

func TestOfferRedemptionLimits(t *testing.T) {
	ctx := context.Background()
	offers := NewOfferRepository(testDatabase(t))

	offer := &models.Offer{
		RestaurantID:    primitive.NewObjectID(),
		Title:           "Launch week",
		CouponCode:      "LAUNCH10",
		DiscountType:    models.DiscountPercentage,
		DiscountValue:   10,
		StartDate:       time.Now().Add(-time.Hour),
		EndDate:         time.Now().Add(time.Hour),
		TotalUsageLimit: 4,
		PerUserLimit:    2,
		IsActive:        true,
	}
	require.NoError(t, offers.Create(ctx, offer))

	repeat := primitive.NewObjectID()
	for i := 0; i < 2; i++ {
		ok, err := offers.RecordRedemption(ctx, offer.ID, repeat, time.Now())
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := offers.RecordRedemption(ctx, offer.ID, repeat, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	var succeeded int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := offers.RecordRedemption(ctx, offer.ID, primitive.NewObjectID(), time.Now()); err == nil && ok {
				atomic.AddInt32(&succeeded, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(2), succeeded)

	stored, err := offers.GetByCode(ctx, "LAUNCH10")
	require.NoError(t, err)
	assert.Equal(t, 4, stored.TotalUsed)
	assert.Equal(t, 2, stored.UsageFor(repeat))

	exists, err := offers.CodeExists(ctx, "LAUNCH10", nil)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = offers.CodeExists(ctx, "LAUNCH10", &offer.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPlanDeleteUnsubscribed(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(t)
	plans := NewPlanRepository(db)
	owner := primitive.NewObjectID()

	plan := &models.Plan{RestaurantID: owner, Name: "Monthly", Price: 3000, DurationDays: 30, IsActive: true}
	require.NoError(t, plans.Create(ctx, plan))

	deleted, err := plans.DeleteUnsubscribed(ctx, primitive.NewObjectID(), plan.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = db.Collection(database.CollectionPlans).UpdateByID(ctx, plan.ID, bson.M{"$set": bson.M{"total_subscribers": 1}})
	require.NoError(t, err)
	deleted, err = plans.DeleteUnsubscribed(ctx, owner, plan.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = db.Collection(database.CollectionPlans).UpdateByID(ctx, plan.ID, bson.M{"$set": bson.M{"total_subscribers": 0}})
	require.NoError(t, err)
	deleted, err = plans.DeleteUnsubscribed(ctx, owner, plan.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = plans.Get(ctx, owner, plan.ID)
	assert.True(t, errors.Is(err, utils.ErrRecordNotFound))
}

func TestUserProfileStoresDollarStringsVerbatim(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(testDatabase(t))

	_, err := users.UpsertOTP(ctx, "9876500000", "123456", time.Now().Add(time.Minute))
	require.NoError(t, err)
	principal, err := users.ConsumeOTP(ctx, "9876500000", "123456", time.Now())
	require.NoError(t, err)

	user, err := users.UpdateProfile(ctx, principal.PrincipalID(), map[string]interface{}{
		"first_name": "$is_blocked",
		"last_name":  "$$REMOVE",
	})
	require.NoError(t, err)
	assert.Equal(t, "$is_blocked", user.FirstName)
	assert.Equal(t, "$$REMOVE", user.LastName)
	assert.True(t, user.IsProfile)

	stored, err := users.GetByID(ctx, principal.PrincipalID())
	require.NoError(t, err)
	assert.Equal(t, "$is_blocked", stored.FirstName)
	assert.False(t, stored.IsBlocked)
}

func TestOfferRedemptionReadsCurrentPerUserLimit(t *testing.T) {
	ctx := context.Background()
	db := testDatabase(t)
	offers := NewOfferRepository(db)

	offer := &models.Offer{
		RestaurantID:    primitive.NewObjectID(),
		Title:           "Weekday lunch",
		CouponCode:      "LUNCH20",
		DiscountType:    models.DiscountFlat,
		DiscountValue:   20,
		StartDate:       time.Now().Add(-time.Hour),
		EndDate:         time.Now().Add(time.Hour),
		TotalUsageLimit: 10,
		PerUserLimit:    3,
		IsActive:        true,
	}
	require.NoError(t, offers.Create(ctx, offer))

	user := primitive.NewObjectID()
	ok, err := offers.RecordRedemption(ctx, offer.ID, user, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = db.Collection(database.CollectionOffers).UpdateByID(ctx, offer.ID, bson.M{"$set": bson.M{"per_user_limit": 1}})
	require.NoError(t, err)

	ok, err = offers.RecordRedemption(ctx, offer.ID, user, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = offers.RecordRedemption(ctx, offer.ID, primitive.NewObjectID(), time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = offers.RecordRedemption(ctx, primitive.NewObjectID(), user, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}
