package validators

import (
	"fmt"
	"strings"

	"mealhub/internal/models"
)

type CreateItemRequest struct {
	Name            string   `json:"name" form:"name" validate:"required,min=2,max=100"`
	Description     string   `json:"description" form:"description" validate:"omitempty,max=500"`
	Price           *float64 `json:"price" form:"price" validate:"required,gte=0,money"`
	CategoryID      string   `json:"categoryId" form:"categoryId" validate:"required,object_id"`
	IsVegetarian    *bool    `json:"isVegetarian" form:"isVegetarian"`
	IsAvailable     *bool    `json:"isAvailable" form:"isAvailable"`
	PreparationTime int      `json:"preparationTime" form:"preparationTime" validate:"gte=0,lte=600"`
	Tags            []string `json:"tags" form:"tags" validate:"omitempty,max=20,dive,min=1,max=30"`
}

type UpdateItemRequest struct {
	Name            *string   `json:"name" form:"name" validate:"omitempty,min=2,max=100"`
	Description     *string   `json:"description" form:"description" validate:"omitempty,max=500"`
	Price           *float64  `json:"price" form:"price" validate:"omitempty,gte=0,money"`
	CategoryID      *string   `json:"categoryId" form:"categoryId" validate:"omitempty,object_id"`
	IsVegetarian    *bool     `json:"isVegetarian" form:"isVegetarian"`
	IsAvailable     *bool     `json:"isAvailable" form:"isAvailable"`
	PreparationTime *int      `json:"preparationTime" form:"preparationTime" validate:"omitempty,gte=0,lte=600"`
	Tags            *[]string `json:"tags" form:"tags" validate:"omitempty,max=20,dive,min=1,max=30"`
}

type ItemListQuery struct {
	CategoryID   string `form:"category" validate:"omitempty,object_id"`
	IsAvailable  *bool  `form:"isAvailable"`
	IsVegetarian *bool  `form:"isVegetarian"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" form:"name" validate:"required,min=2,max=50"`
	Description string `json:"description" form:"description" validate:"omitempty,max=300"`
	SortOrder   int    `json:"sortOrder" form:"sortOrder" validate:"gte=0"`
	IsActive    *bool  `json:"isActive" form:"isActive"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" form:"name" validate:"omitempty,min=2,max=50"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=300"`
	SortOrder   *int    `json:"sortOrder" form:"sortOrder" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"isActive" form:"isActive"`
}

type MealRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Calories int    `json:"calories" validate:"gte=0,lte=10000"`
}

type CreatePlanRequest struct {
	Name         string                              `json:"name" validate:"required,min=2,max=100"`
	Description  string                              `json:"description" validate:"omitempty,max=1000"`
	Price        *float64                            `json:"price" validate:"required,gte=0"`
	DurationDays int                                 `json:"durationDays" validate:"required,gte=1,lte=365"`
	WeeklyMeals  map[string]map[string][]MealRequest `json:"weeklyMeals" validate:"omitempty,dive,keys,weekday,endkeys,dive,keys,meal_type,endkeys,dive"`
	Features     []string                            `json:"features" validate:"omitempty,max=30,dive,min=1,max=200"`
	Image        string                              `json:"image" validate:"omitempty,url"`
	IsActive     *bool                               `json:"isActive"`
}

type UpdatePlanRequest struct {
	Name         *string                             `json:"name" validate:"omitempty,min=2,max=100"`
	Description  *string                             `json:"description" validate:"omitempty,max=1000"`
	Price        *float64                            `json:"price" validate:"omitempty,gte=0"`
	DurationDays *int                                `json:"durationDays" validate:"omitempty,gte=1,lte=365"`
	WeeklyMeals  map[string]map[string][]MealRequest `json:"weeklyMeals" validate:"omitempty,dive,keys,weekday,endkeys,dive,keys,meal_type,endkeys,dive"`
	Features     *[]string                           `json:"features" validate:"omitempty,max=30,dive,min=1,max=200"`
	Image        *string                             `json:"image" validate:"omitempty,url"`
	IsActive     *bool                               `json:"isActive"`
}

type CreateOfferRequest struct {
	Title                string   `json:"title" validate:"required,min=2,max=100"`
	Description          string   `json:"description" validate:"omitempty,max=500"`
	CouponCode           string   `json:"couponCode" validate:"required,coupon_code"`
	DiscountType         string   `json:"discountType" validate:"required,oneof=flat percentage"`
	DiscountValue        float64  `json:"discountValue" validate:"required,gt=0"`
	MinimumOrderAmount   float64  `json:"minimumOrderAmount" validate:"gte=0"`
	MaximumOrderValue    float64  `json:"maximumOrderValue" validate:"gte=0"`
	StartDate            string   `json:"startDate" validate:"required,iso_date"`
	EndDate              string   `json:"endDate" validate:"required,iso_date"`
	TotalUsageLimit      int      `json:"totalUsageLimit" validate:"required,gte=1"`
	PerUserLimit         int      `json:"perUserLimit" validate:"required,gte=1"`
	ApplicableItems      []string `json:"applicableItems" validate:"omitempty,dive,object_id"`
	ApplicableCategories []string `json:"applicableCategories" validate:"omitempty,dive,object_id"`
	IsActive             *bool    `json:"isActive"`
}

type UpdateOfferRequest struct {
	Title                *string   `json:"title" validate:"omitempty,min=2,max=100"`
	Description          *string   `json:"description" validate:"omitempty,max=500"`
	CouponCode           *string   `json:"couponCode" validate:"omitempty,coupon_code"`
	DiscountType         *string   `json:"discountType" validate:"omitempty,oneof=flat percentage"`
	DiscountValue        *float64  `json:"discountValue" validate:"omitempty,gt=0"`
	MinimumOrderAmount   *float64  `json:"minimumOrderAmount" validate:"omitempty,gte=0"`
	MaximumOrderValue    *float64  `json:"maximumOrderValue" validate:"omitempty,gte=0"`
	StartDate            *string   `json:"startDate" validate:"omitempty,iso_date"`
	EndDate              *string   `json:"endDate" validate:"omitempty,iso_date"`
	TotalUsageLimit      *int      `json:"totalUsageLimit" validate:"omitempty,gte=1"`
	PerUserLimit         *int      `json:"perUserLimit" validate:"omitempty,gte=1"`
	ApplicableItems      *[]string `json:"applicableItems" validate:"omitempty,dive,object_id"`
	ApplicableCategories *[]string `json:"applicableCategories" validate:"omitempty,dive,object_id"`
	IsActive             *bool     `json:"isActive"`
}

type OrderLineRequest struct {
	ItemID     string `json:"itemId" validate:"omitempty,object_id"`
	CategoryID string `json:"categoryId" validate:"omitempty,object_id"`
}

type OfferOrderRequest struct {
	Amount *float64           `json:"amount" validate:"required,gte=0"`
	Items  []OrderLineRequest `json:"items" validate:"omitempty,max=100,dive"`
}

type ApplyOfferRequest struct {
	CouponCode   string            `json:"couponCode" validate:"required,coupon_code"`
	RestaurantID string            `json:"restaurantId" validate:"omitempty,object_id"`
	Order        OfferOrderRequest `json:"order" validate:"required"`
}

type ToggleRequest struct {
	Field string `json:"field" validate:"required"`
}

func ValidateCreatePlan(req *CreatePlanRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	return Validate(req)
}

func ValidateCreateOffer(req *CreateOfferRequest) error {
	req.CouponCode = strings.ToUpper(strings.TrimSpace(req.CouponCode))

	errs := ValidateStruct(req)
	if len(errs) == 0 {
		errs = append(errs, checkOfferRules(req.DiscountType, req.DiscountValue, req.StartDate, req.EndDate)...)
		errs = append(errs, checkOrderRange(req.MinimumOrderAmount, req.MaximumOrderValue)...)
	}
	if len(errs) > 0 {
		return errs.AppError()
	}
	return nil
}

func ValidateUpdateOffer(req *UpdateOfferRequest) error {
	if req.CouponCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.CouponCode))
		req.CouponCode = &code
	}
	return Validate(req)
}

// CheckOfferConsistency re-checks the cross-field rules on a merged offer.
func CheckOfferConsistency(offer *models.Offer) error {
	var errs ValidationErrors
	if offer.DiscountType == models.DiscountPercentage && offer.DiscountValue > 100 {
		errs = append(errs, ValidationError{Field: "discountValue", Message: "Percentage discount cannot exceed 100"})
	}
	if !offer.EndDate.After(offer.StartDate) {
		errs = append(errs, ValidationError{Field: "endDate", Message: "End date must be after start date"})
	}
	errs = append(errs, checkOrderRange(offer.MinimumOrderAmount, offer.MaximumOrderValue)...)
	if offer.TotalUsageLimit < offer.TotalUsed {
		errs = append(errs, ValidationError{
			Field:   "totalUsageLimit",
			Message: fmt.Sprintf("Total usage limit cannot be below the %d uses already recorded", offer.TotalUsed),
		})
	}
	if most := maxUserUsage(offer.UserUsage); offer.PerUserLimit < most {
		errs = append(errs, ValidationError{
			Field:   "perUserLimit",
			Message: fmt.Sprintf("Per user limit cannot be below %d, the most uses already recorded for one user", most),
		})
	}
	if len(errs) > 0 {
		return errs.AppError()
	}
	return nil
}

func checkOfferRules(discountType string, value float64, start, end string) ValidationErrors {
	var errs ValidationErrors
	if discountType == string(models.DiscountPercentage) && value > 100 {
		errs = append(errs, ValidationError{Field: "discountValue", Message: "Percentage discount cannot exceed 100"})
	}
	startDate, err1 := ParseISODate(start)
	endDate, err2 := ParseISODate(end)
	if err1 == nil && err2 == nil && !endDate.After(startDate) {
		errs = append(errs, ValidationError{Field: "endDate", Message: "End date must be after start date"})
	}
	return errs
}

// checkOrderRange rejects a maximum order value below the minimum. Zero
// means no maximum.
func checkOrderRange(minimum, maximum float64) ValidationErrors {
	if maximum > 0 && maximum < minimum {
		return ValidationErrors{{Field: "maximumOrderValue", Message: "Maximum order value cannot be below the minimum order amount"}}
	}
	return nil
}

func maxUserUsage(usage []models.OfferUsage) int {
	most := 0
	for _, u := range usage {
		if u.UsageCount > most {
			most = u.UsageCount
		}
	}
	return most
}
