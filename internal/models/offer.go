package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscountType string

const (
	DiscountFlat       DiscountType = "flat"
	DiscountPercentage DiscountType = "percentage"
)

type OfferUsage struct {
	UserID     primitive.ObjectID `json:"userId" bson:"user_id"`
	UsageCount int                `json:"usageCount" bson:"usage_count"`
	LastUsed   time.Time          `json:"lastUsed" bson:"last_used"`
}

type Offer struct {
	ID                   primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	RestaurantID         primitive.ObjectID   `json:"restaurantId" bson:"restaurant_id"`
	Title                string               `json:"title" bson:"title"`
	Description          string               `json:"description,omitempty" bson:"description,omitempty"`
	CouponCode           string               `json:"couponCode" bson:"coupon_code"`
	DiscountType         DiscountType         `json:"discountType" bson:"discount_type"`
	DiscountValue        float64              `json:"discountValue" bson:"discount_value"`
	MinimumOrderAmount   float64              `json:"minimumOrderAmount" bson:"minimum_order_amount"`
	MaximumOrderValue    float64              `json:"maximumOrderValue" bson:"maximum_order_value"`
	StartDate            time.Time            `json:"startDate" bson:"start_date"`
	EndDate              time.Time            `json:"endDate" bson:"end_date"`
	TotalUsageLimit      int                  `json:"totalUsageLimit" bson:"total_usage_limit"`
	PerUserLimit         int                  `json:"perUserLimit" bson:"per_user_limit"`
	TotalUsed            int                  `json:"totalUsed" bson:"total_used"`
	UserUsage            []OfferUsage         `json:"userUsage,omitempty" bson:"user_usage"`
	ApplicableItems      []primitive.ObjectID `json:"applicableItems" bson:"applicable_items"`
	ApplicableCategories []primitive.ObjectID `json:"applicableCategories" bson:"applicable_categories"`
	IsActive             bool                 `json:"isActive" bson:"is_active"`
	CreatedAt            time.Time            `json:"createdAt" bson:"created_at"`
	UpdatedAt            time.Time            `json:"updatedAt" bson:"updated_at"`
}

type OfferFilter struct {
	IsActive *bool
}

type OrderLine struct {
	ItemID     primitive.ObjectID `json:"itemId"`
	CategoryID primitive.ObjectID `json:"categoryId"`
}

// OfferOrder is the order a coupon is evaluated against.
type OfferOrder struct {
	Amount float64     `json:"amount"`
	Items  []OrderLine `json:"items"`
}

type DiscountResult struct {
	OfferID     primitive.ObjectID `json:"offerId"`
	CouponCode  string             `json:"couponCode"`
	OrderAmount float64            `json:"orderAmount"`
	Discount    float64            `json:"discount"`
	FinalAmount float64            `json:"finalAmount"`
}

func (o *Offer) UsageFor(userID primitive.ObjectID) int {
	for _, u := range o.UserUsage {
		if u.UserID == userID {
			return u.UsageCount
		}
	}
	return 0
}

// InWindow reports whether now falls in [StartDate, EndDate).
func (o *Offer) InWindow(now time.Time) bool {
	return !now.Before(o.StartDate) && now.Before(o.EndDate)
}

// CheckEligibility applies the gates that do not depend on the order.
func (o *Offer) CheckEligibility(userID primitive.ObjectID, now time.Time) error {
	switch {
	case !o.IsActive:
		return ErrOfferInactive
	case now.Before(o.StartDate):
		return ErrOfferNotStarted
	case !now.Before(o.EndDate):
		return ErrOfferExpired
	case o.TotalUsed >= o.TotalUsageLimit:
		return ErrOfferExhausted
	case o.UsageFor(userID) >= o.PerUserLimit:
		return ErrOfferUserLimit
	}
	return nil
}

// CalculateDiscount checks the order amount range and applicability, then
// returns the discount capped at the order amount.
func (o *Offer) CalculateDiscount(order OfferOrder) (float64, error) {
	if order.Amount < o.MinimumOrderAmount {
		return 0, ErrOfferBelowMinimum
	}
	if o.MaximumOrderValue > 0 && order.Amount > o.MaximumOrderValue {
		return 0, ErrOfferAboveMaximum
	}
	if !o.appliesTo(order.Items) {
		return 0, ErrOfferNotApplicable
	}

	amount := decimal.NewFromFloat(order.Amount)
	value := decimal.NewFromFloat(o.DiscountValue)

	var discount decimal.Decimal
	switch o.DiscountType {
	case DiscountPercentage:
		discount = amount.Mul(value).Div(decimal.NewFromInt(100))
	default:
		discount = value
	}
	if discount.GreaterThan(amount) {
		discount = amount
	}

	return discount.Round(2).InexactFloat64(), nil
}

// Evaluate runs the eligibility gate first and the order checks second.
func (o *Offer) Evaluate(userID primitive.ObjectID, order OfferOrder, now time.Time) (*DiscountResult, error) {
	if err := o.CheckEligibility(userID, now); err != nil {
		return nil, err
	}

	discount, err := o.CalculateDiscount(order)
	if err != nil {
		return nil, err
	}

	final := decimal.NewFromFloat(order.Amount).Sub(decimal.NewFromFloat(discount)).Round(2)
	return &DiscountResult{
		OfferID:     o.ID,
		CouponCode:  o.CouponCode,
		OrderAmount: order.Amount,
		Discount:    discount,
		FinalAmount: final.InexactFloat64(),
	}, nil
}

func (o *Offer) appliesTo(lines []OrderLine) bool {
	if len(o.ApplicableItems) == 0 && len(o.ApplicableCategories) == 0 {
		return true
	}
	for _, line := range lines {
		if containsID(o.ApplicableItems, line.ItemID) || containsID(o.ApplicableCategories, line.CategoryID) {
			return true
		}
	}
	return false
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	if id.IsZero() {
		return false
	}
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
