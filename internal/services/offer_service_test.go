package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
	"mealhub/pkg/logger"
)

func redeemableOffer(limit, perUser int) *models.Offer {
	now := time.Now()
	return &models.Offer{
		ID:              primitive.NewObjectID(),
		RestaurantID:    primitive.NewObjectID(),
		CouponCode:      "FEAST50",
		DiscountType:    models.DiscountFlat,
		DiscountValue:   50,
		StartDate:       now.Add(-time.Hour),
		EndDate:         now.Add(24 * time.Hour),
		TotalUsageLimit: limit,
		PerUserLimit:    perUser,
		IsActive:        true,
	}
}

func applyRequest(code string, amount float64) *validators.ApplyOfferRequest {
	return &validators.ApplyOfferRequest{
		CouponCode: code,
		Order:      validators.OfferOrderRequest{Amount: &amount},
	}
}

func TestRedeemHonoursTotalLimitUnderConcurrency(t *testing.T) {
	const limit = 5
	offer := redeemableOffer(limit, 1)
	repo := newFakeOffers(offer)
	bus := &recordingBus{}
	service := NewOfferService(repo, bus, logger.NewDiscard())

	var succeeded int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.Redeem(context.Background(), primitive.NewObjectID(), applyRequest("FEAST50", 300)); err == nil {
				atomic.AddInt32(&succeeded, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(limit), succeeded)
	assert.Equal(t, limit, repo.offers[offer.ID].TotalUsed)
	assert.Len(t, bus.types(), limit)
}

func TestRedeemPerUserLimit(t *testing.T) {
	ctx := context.Background()
	offer := redeemableOffer(10, 1)
	service := NewOfferService(newFakeOffers(offer), &recordingBus{}, logger.NewDiscard())
	user := primitive.NewObjectID()

	result, err := service.Redeem(ctx, user, applyRequest("feast50", 300))
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Discount)
	assert.Equal(t, 250.0, result.FinalAmount)

	_, err = service.Redeem(ctx, user, applyRequest("FEAST50", 300))
	require.Error(t, err)
	appErr := utils.AsAppError(err)
	assert.Equal(t, "OFFER_NOT_ELIGIBLE", appErr.Code)
	assert.Equal(t, models.ErrOfferUserLimit.Error(), appErr.Message)

	_, err = service.Redeem(ctx, primitive.NewObjectID(), applyRequest("FEAST50", 300))
	assert.NoError(t, err)
}

func TestEvaluateDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	offer := redeemableOffer(1, 1)
	repo := newFakeOffers(offer)
	service := NewOfferService(repo, &recordingBus{}, logger.NewDiscard())

	for i := 0; i < 3; i++ {
		_, err := service.Evaluate(ctx, primitive.NewObjectID(), applyRequest("FEAST50", 300))
		require.NoError(t, err)
	}
	assert.Zero(t, repo.offers[offer.ID].TotalUsed)
}

func TestEvaluateRejections(t *testing.T) {
	ctx := context.Background()
	offer := redeemableOffer(10, 1)
	service := NewOfferService(newFakeOffers(offer), &recordingBus{}, logger.NewDiscard())

	_, err := service.Evaluate(ctx, primitive.NewObjectID(), applyRequest("NOPE", 300))
	assert.Equal(t, "Invalid coupon code", utils.AsAppError(err).Message)

	request := applyRequest("FEAST50", 300)
	request.RestaurantID = primitive.NewObjectID().Hex()
	_, err = service.Evaluate(ctx, primitive.NewObjectID(), request)
	assert.Equal(t, "OFFER_NOT_ELIGIBLE", utils.AsAppError(err).Code)
}

func TestCreateOfferDuplicateCode(t *testing.T) {
	ctx := context.Background()
	offer := redeemableOffer(10, 1)
	service := NewOfferService(newFakeOffers(offer), &recordingBus{}, logger.NewDiscard())

	_, err := service.Create(ctx, primitive.NewObjectID(), &validators.CreateOfferRequest{
		Title:           "Another feast",
		CouponCode:      "FEAST50",
		DiscountType:    "flat",
		DiscountValue:   20,
		StartDate:       "2026-01-01",
		EndDate:         "2026-02-01",
		TotalUsageLimit: 100,
		PerUserLimit:    1,
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindDuplicateIdentity, utils.AsAppError(err).Kind)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestUpdateOfferLimitsRespectRecordedUsage(t *testing.T) {
	ctx := context.Background()
	offer := redeemableOffer(10, 3)
	offer.TotalUsed = 8
	offer.UserUsage = []models.OfferUsage{
		{UserID: primitive.NewObjectID(), UsageCount: 3},
		{UserID: primitive.NewObjectID(), UsageCount: 1},
	}
	repo := newFakeOffers(offer)
	service := NewOfferService(repo, &recordingBus{}, logger.NewDiscard())

	_, err := service.Update(ctx, offer.RestaurantID, offer.ID, &validators.UpdateOfferRequest{TotalUsageLimit: intPtr(3)})
	require.Error(t, err)
	appErr := utils.AsAppError(err)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Details, "Total usage limit cannot be below the 8 uses already recorded")
	assert.Equal(t, 10, repo.offers[offer.ID].TotalUsageLimit)

	_, err = service.Update(ctx, offer.RestaurantID, offer.ID, &validators.UpdateOfferRequest{PerUserLimit: intPtr(2)})
	require.Error(t, err)
	assert.Contains(t, utils.AsAppError(err).Details, "Per user limit cannot be below 3, the most uses already recorded for one user")
	assert.Equal(t, 3, repo.offers[offer.ID].PerUserLimit)

	updated, err := service.Update(ctx, offer.RestaurantID, offer.ID, &validators.UpdateOfferRequest{
		TotalUsageLimit: intPtr(8),
		PerUserLimit:    intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.TotalUsageLimit)
}

func TestUpdateOfferOrderRange(t *testing.T) {
	ctx := context.Background()
	offer := redeemableOffer(10, 1)
	offer.MinimumOrderAmount = 300
	repo := newFakeOffers(offer)
	service := NewOfferService(repo, &recordingBus{}, logger.NewDiscard())

	_, err := service.Update(ctx, offer.RestaurantID, offer.ID, &validators.UpdateOfferRequest{MaximumOrderValue: floatPtr(200)})
	require.Error(t, err)
	assert.Contains(t, utils.AsAppError(err).Details, "Maximum order value cannot be below the minimum order amount")
	assert.Zero(t, repo.offers[offer.ID].MaximumOrderValue)

	updated, err := service.Update(ctx, offer.RestaurantID, offer.ID, &validators.UpdateOfferRequest{
		MinimumOrderAmount: floatPtr(100),
		MaximumOrderValue:  floatPtr(200),
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, updated.MaximumOrderValue)
}
