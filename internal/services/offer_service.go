package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
	"mealhub/pkg/logger"
)

const duplicateCouponCode = "An offer with this coupon code already exists"

type OfferService interface {
	Create(ctx context.Context, restaurantID primitive.ObjectID, request *validators.CreateOfferRequest) (*models.Offer, error)
	Get(ctx context.Context, restaurantID, offerID primitive.ObjectID) (*models.Offer, error)
	Update(ctx context.Context, restaurantID, offerID primitive.ObjectID, request *validators.UpdateOfferRequest) (*models.Offer, error)
	Delete(ctx context.Context, restaurantID, offerID primitive.ObjectID) error
	List(ctx context.Context, restaurantID primitive.ObjectID, activeOnly bool, params *utils.PaginationParams) ([]*models.Offer, int64, error)

	// Customer facing
	ListRedeemable(ctx context.Context, restaurantID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Offer, int64, error)
	Evaluate(ctx context.Context, userID primitive.ObjectID, request *validators.ApplyOfferRequest) (*models.DiscountResult, error)
	Redeem(ctx context.Context, userID primitive.ObjectID, request *validators.ApplyOfferRequest) (*models.DiscountResult, error)
}

type offerService struct {
	offers interfaces.OfferRepository
	events EventBus
	now    func() time.Time
	logger *logger.Logger
}

func NewOfferService(offers interfaces.OfferRepository, events EventBus, log *logger.Logger) OfferService {
	return &offerService{
		offers: offers,
		events: events,
		now:    time.Now,
		logger: log.WithField("service", "offer"),
	}
}

func (s *offerService) Create(ctx context.Context, restaurantID primitive.ObjectID, request *validators.CreateOfferRequest) (*models.Offer, error) {
	if err := s.checkCode(ctx, request.CouponCode, nil); err != nil {
		return nil, err
	}

	start, _ := validators.ParseISODate(request.StartDate)
	end, _ := validators.ParseISODate(request.EndDate)
	items, err := parseObjectIDs("applicableItems", request.ApplicableItems)
	if err != nil {
		return nil, err
	}
	categories, err := parseObjectIDs("applicableCategories", request.ApplicableCategories)
	if err != nil {
		return nil, err
	}

	offer := &models.Offer{
		RestaurantID:         restaurantID,
		Title:                strings.TrimSpace(request.Title),
		Description:          strings.TrimSpace(request.Description),
		CouponCode:           request.CouponCode,
		DiscountType:         models.DiscountType(request.DiscountType),
		DiscountValue:        request.DiscountValue,
		MinimumOrderAmount:   request.MinimumOrderAmount,
		MaximumOrderValue:    request.MaximumOrderValue,
		StartDate:            start,
		EndDate:              end,
		TotalUsageLimit:      request.TotalUsageLimit,
		PerUserLimit:         request.PerUserLimit,
		ApplicableItems:      items,
		ApplicableCategories: categories,
		IsActive:             boolOr(request.IsActive, true),
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, storeError(err, "Offer", duplicateCouponCode, "Failed to create offer")
	}

	return offer, nil
}

func (s *offerService) Get(ctx context.Context, restaurantID, offerID primitive.ObjectID) (*models.Offer, error) {
	offer, err := s.offers.Get(ctx, restaurantID, offerID)
	if err != nil {
		return nil, notFoundOr(err, "Offer", "Failed to get offer")
	}
	return offer, nil
}

func (s *offerService) Update(ctx context.Context, restaurantID, offerID primitive.ObjectID, request *validators.UpdateOfferRequest) (*models.Offer, error) {
	current, err := s.offers.Get(ctx, restaurantID, offerID)
	if err != nil {
		return nil, notFoundOr(err, "Offer", "Failed to update offer")
	}

	// merged is the offer as it will be stored, for the cross-field checks
	merged := *current
	fields := map[string]interface{}{}

	setString(fields, "title", request.Title)
	setString(fields, "description", request.Description)
	if request.CouponCode != nil && *request.CouponCode != current.CouponCode {
		if err := s.checkCode(ctx, *request.CouponCode, &offerID); err != nil {
			return nil, err
		}
		fields["coupon_code"] = *request.CouponCode
	}
	if request.DiscountType != nil {
		merged.DiscountType = models.DiscountType(*request.DiscountType)
		fields["discount_type"] = merged.DiscountType
	}
	if request.DiscountValue != nil {
		merged.DiscountValue = *request.DiscountValue
		fields["discount_value"] = merged.DiscountValue
	}
	if request.MinimumOrderAmount != nil {
		merged.MinimumOrderAmount = *request.MinimumOrderAmount
		fields["minimum_order_amount"] = merged.MinimumOrderAmount
	}
	if request.MaximumOrderValue != nil {
		merged.MaximumOrderValue = *request.MaximumOrderValue
		fields["maximum_order_value"] = merged.MaximumOrderValue
	}
	if request.StartDate != nil {
		merged.StartDate, _ = validators.ParseISODate(*request.StartDate)
		fields["start_date"] = merged.StartDate
	}
	if request.EndDate != nil {
		merged.EndDate, _ = validators.ParseISODate(*request.EndDate)
		fields["end_date"] = merged.EndDate
	}
	if request.TotalUsageLimit != nil {
		merged.TotalUsageLimit = *request.TotalUsageLimit
		fields["total_usage_limit"] = merged.TotalUsageLimit
	}
	if request.PerUserLimit != nil {
		merged.PerUserLimit = *request.PerUserLimit
		fields["per_user_limit"] = merged.PerUserLimit
	}
	if request.ApplicableItems != nil {
		ids, err := parseObjectIDs("applicableItems", *request.ApplicableItems)
		if err != nil {
			return nil, err
		}
		fields["applicable_items"] = ids
	}
	if request.ApplicableCategories != nil {
		ids, err := parseObjectIDs("applicableCategories", *request.ApplicableCategories)
		if err != nil {
			return nil, err
		}
		fields["applicable_categories"] = ids
	}
	if request.IsActive != nil {
		fields["is_active"] = *request.IsActive
	}

	if err := validators.CheckOfferConsistency(&merged); err != nil {
		return nil, err
	}

	offer, err := s.offers.Update(ctx, restaurantID, offerID, fields)
	if err != nil {
		return nil, storeError(err, "Offer", duplicateCouponCode, "Failed to update offer")
	}
	return offer, nil
}

func (s *offerService) Delete(ctx context.Context, restaurantID, offerID primitive.ObjectID) error {
	if err := s.offers.Delete(ctx, restaurantID, offerID); err != nil {
		return notFoundOr(err, "Offer", "Failed to delete offer")
	}
	return nil
}

func (s *offerService) List(ctx context.Context, restaurantID primitive.ObjectID, activeOnly bool, params *utils.PaginationParams) ([]*models.Offer, int64, error) {
	var filter models.OfferFilter
	if activeOnly {
		active := true
		filter.IsActive = &active
	}
	offers, total, err := s.offers.List(ctx, restaurantID, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list offers", err)
	}
	return offers, total, nil
}

func (s *offerService) ListRedeemable(ctx context.Context, restaurantID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Offer, int64, error) {
	offers, total, err := s.offers.ListRedeemable(ctx, restaurantID, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list offers", err)
	}
	// per-user usage is private to each customer
	for _, offer := range offers {
		offer.UserUsage = nil
	}
	return offers, total, nil
}

func (s *offerService) Evaluate(ctx context.Context, userID primitive.ObjectID, request *validators.ApplyOfferRequest) (*models.DiscountResult, error) {
	offer, order, err := s.load(ctx, request)
	if err != nil {
		return nil, err
	}

	result, err := offer.Evaluate(userID, order, s.now())
	if err != nil {
		return nil, utils.OfferNotEligible(err.Error())
	}
	return result, nil
}

// Redeem evaluates the coupon and then consumes one use. If another
// redemption took the last use in between, the offer is re-read so the
// caller gets the eligibility reason.
func (s *offerService) Redeem(ctx context.Context, userID primitive.ObjectID, request *validators.ApplyOfferRequest) (*models.DiscountResult, error) {
	offer, order, err := s.load(ctx, request)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result, err := offer.Evaluate(userID, order, now)
	if err != nil {
		return nil, utils.OfferNotEligible(err.Error())
	}

	recorded, err := s.offers.RecordRedemption(ctx, offer.ID, userID, now)
	if err != nil {
		return nil, utils.NewInternalError("Failed to redeem offer", err)
	}
	if !recorded {
		reason := models.ErrOfferExhausted
		if fresh, err := s.offers.GetByCode(ctx, offer.CouponCode); err == nil {
			if err := fresh.CheckEligibility(userID, now); err != nil {
				reason = err
			}
		}
		return nil, utils.OfferNotEligible(reason.Error())
	}

	s.events.Publish(ctx, newEvent(models.EventOfferRedeemed, "offer", offer.ID,
		&Actor{ID: userID, Role: models.RoleUser},
		map[string]interface{}{
			"couponCode":   offer.CouponCode,
			"restaurantId": offer.RestaurantID.Hex(),
			"discount":     result.Discount,
		}))

	return result, nil
}

func (s *offerService) load(ctx context.Context, request *validators.ApplyOfferRequest) (*models.Offer, models.OfferOrder, error) {
	code := strings.ToUpper(strings.TrimSpace(request.CouponCode))
	offer, err := s.offers.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, utils.ErrRecordNotFound) {
			return nil, models.OfferOrder{}, utils.OfferNotEligible("Invalid coupon code")
		}
		return nil, models.OfferOrder{}, utils.NewInternalError("Failed to load offer", err)
	}
	if request.RestaurantID != "" && offer.RestaurantID.Hex() != request.RestaurantID {
		return nil, models.OfferOrder{}, utils.OfferNotEligible("Coupon is not valid for this restaurant")
	}

	order := models.OfferOrder{Amount: *request.Order.Amount}
	for _, line := range request.Order.Items {
		var ol models.OrderLine
		ol.ItemID, _ = primitive.ObjectIDFromHex(line.ItemID)
		ol.CategoryID, _ = primitive.ObjectIDFromHex(line.CategoryID)
		order.Items = append(order.Items, ol)
	}
	return offer, order, nil
}

func (s *offerService) checkCode(ctx context.Context, code string, excludeID *primitive.ObjectID) error {
	exists, err := s.offers.CodeExists(ctx, code, excludeID)
	if err != nil {
		return utils.NewInternalError("Failed to check coupon code", err)
	}
	if exists {
		return utils.NewDuplicateError(duplicateCouponCode)
	}
	return nil
}

func parseObjectIDs(field string, hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, utils.NewValidationError(utils.ErrInvalidID, field)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
