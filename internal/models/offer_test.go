package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func activeOffer(now time.Time) *Offer {
	return &Offer{
		ID:                 primitive.NewObjectID(),
		CouponCode:         "SAVE20",
		DiscountType:       DiscountPercentage,
		DiscountValue:      20,
		MinimumOrderAmount: 100,
		StartDate:          now.Add(-time.Hour),
		EndDate:            now.Add(time.Hour),
		TotalUsageLimit:    10,
		PerUserLimit:       1,
		IsActive:           true,
	}
}

func TestCalculateDiscount(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		mutate   func(o *Offer)
		amount   float64
		discount float64
		err      error
	}{
		{"percentage", nil, 250, 50, nil},
		{"flat", func(o *Offer) { o.DiscountType = DiscountFlat; o.DiscountValue = 30 }, 120, 30, nil},
		{"flat capped at order", func(o *Offer) { o.DiscountType = DiscountFlat; o.DiscountValue = 500; o.MinimumOrderAmount = 0 }, 80, 80, nil},
		{"percentage rounds", func(o *Offer) { o.DiscountValue = 12.5 }, 123.45, 15.43, nil},
		{"below minimum", nil, 99.99, 0, ErrOfferBelowMinimum},
		{"above maximum", func(o *Offer) { o.MaximumOrderValue = 200 }, 250, 0, ErrOfferAboveMaximum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := activeOffer(now)
			if tt.mutate != nil {
				tt.mutate(offer)
			}

			discount, err := offer.CalculateDiscount(OfferOrder{Amount: tt.amount})
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.discount, discount)
		})
	}
}

func TestCalculateDiscountApplicability(t *testing.T) {
	offer := activeOffer(time.Now())
	item := primitive.NewObjectID()
	category := primitive.NewObjectID()
	offer.ApplicableItems = []primitive.ObjectID{item}
	offer.ApplicableCategories = []primitive.ObjectID{category}

	_, err := offer.CalculateDiscount(OfferOrder{Amount: 200, Items: []OrderLine{{ItemID: primitive.NewObjectID()}}})
	assert.ErrorIs(t, err, ErrOfferNotApplicable)

	_, err = offer.CalculateDiscount(OfferOrder{Amount: 200, Items: []OrderLine{{ItemID: primitive.NewObjectID(), CategoryID: category}}})
	assert.NoError(t, err)

	_, err = offer.CalculateDiscount(OfferOrder{Amount: 200, Items: []OrderLine{{ItemID: item}}})
	assert.NoError(t, err)
}

func TestCheckEligibility(t *testing.T) {
	now := time.Now()
	user := primitive.NewObjectID()

	tests := []struct {
		name   string
		mutate func(o *Offer)
		err    error
	}{
		{"eligible", nil, nil},
		{"inactive", func(o *Offer) { o.IsActive = false }, ErrOfferInactive},
		{"not started", func(o *Offer) { o.StartDate = now.Add(time.Minute) }, ErrOfferNotStarted},
		{"expired at end", func(o *Offer) { o.EndDate = now }, ErrOfferExpired},
		{"exhausted", func(o *Offer) { o.TotalUsed = 10 }, ErrOfferExhausted},
		{"per user", func(o *Offer) { o.UserUsage = []OfferUsage{{UserID: user, UsageCount: 1}} }, ErrOfferUserLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := activeOffer(now)
			if tt.mutate != nil {
				tt.mutate(offer)
			}
			err := offer.CheckEligibility(user, now)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Now()
	offer := activeOffer(now)

	result, err := offer.Evaluate(primitive.NewObjectID(), OfferOrder{Amount: 150}, now)
	require.NoError(t, err)
	assert.Equal(t, 30.0, result.Discount)
	assert.Equal(t, 120.0, result.FinalAmount)
	assert.Equal(t, "SAVE20", result.CouponCode)
}
