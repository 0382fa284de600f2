package validators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealhub/internal/utils"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestValidateSendOTPNormalizesPhone(t *testing.T) {
	req := &SendOTPRequest{Phone: "+91 98765 43210"}
	require.NoError(t, ValidateSendOTP(req))
	assert.Equal(t, "9876543210", req.Phone)

	err := ValidateSendOTP(&SendOTPRequest{Phone: "12345"})
	require.Error(t, err)
	appErr := utils.AsAppError(err)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Details, "Phone number must be exactly 10 digits")
}

func TestValidateUserProfileNames(t *testing.T) {
	err := ValidateUserProfile(&UserProfileRequest{FirstName: strPtr("A")})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.AsAppError(err).Kind)

	req := &UserProfileRequest{FirstName: strPtr("  Asha "), LastName: strPtr("Rao")}
	require.NoError(t, ValidateUserProfile(req))
	assert.Equal(t, "Asha", *req.FirstName)
}

func TestValidateUserProfileRejectsFutureBirthDate(t *testing.T) {
	err := ValidateUserProfile(&UserProfileRequest{DateOfBirth: strPtr("2999-01-01")})
	require.Error(t, err)
	assert.Contains(t, utils.AsAppError(err).Details, "Date of birth must be in the past")
}

func TestDriverDateFieldsKeepDateErrorCode(t *testing.T) {
	err := ValidateDriverPersonal(&DriverPersonalRequest{DateOfBirth: strPtr("31/02/1990")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrInvalidDateFormat))

	require.NoError(t, ValidateDriverPersonal(&DriverPersonalRequest{DateOfBirth: strPtr("28/02/1990")}))
}

func TestValidateDriverLicenseOrdering(t *testing.T) {
	err := ValidateDriverLicense(&DriverLicenseRequest{
		IssueDate:  strPtr("01/01/2020"),
		ExpiryDate: strPtr("01/01/2019"),
	})
	require.Error(t, err)
	assert.Contains(t, utils.AsAppError(err).Details, "Expiry date must be after issue date")
}

func TestValidateCreateOffer(t *testing.T) {
	valid := func() *CreateOfferRequest {
		return &CreateOfferRequest{
			Title:           "Festive",
			CouponCode:      "fest50",
			DiscountType:    "percentage",
			DiscountValue:   50,
			StartDate:       "2025-01-01",
			EndDate:         "2025-02-01",
			TotalUsageLimit: 10,
			PerUserLimit:    1,
		}
	}

	req := valid()
	require.NoError(t, ValidateCreateOffer(req))
	assert.Equal(t, "FEST50", req.CouponCode)

	req = valid()
	req.DiscountValue = 120
	require.Error(t, ValidateCreateOffer(req))

	req = valid()
	req.EndDate = "2024-12-31"
	require.Error(t, ValidateCreateOffer(req))

	req = valid()
	req.CouponCode = "AB"
	require.Error(t, ValidateCreateOffer(req))

	req = valid()
	req.MinimumOrderAmount = 500
	req.MaximumOrderValue = 200
	err := ValidateCreateOffer(req)
	require.Error(t, err)
	assert.Contains(t, utils.AsAppError(err).Details, "Maximum order value cannot be below the minimum order amount")

	req = valid()
	req.MinimumOrderAmount = 500
	require.NoError(t, ValidateCreateOffer(req))
}

func TestItemPriceDecimalPlaces(t *testing.T) {
	create := &CreateItemRequest{Name: "Masala Dosa", Price: floatPtr(12.345), CategoryID: "507f1f77bcf86cd799439011"}
	err := Validate(create)
	require.Error(t, err)
	assert.Contains(t, utils.AsAppError(err).Details, "price must have at most two decimal places")

	create.Price = floatPtr(12.35)
	require.NoError(t, Validate(create))

	require.Error(t, Validate(&UpdateItemRequest{Price: floatPtr(0.005)}))
	require.NoError(t, Validate(&UpdateItemRequest{Price: floatPtr(99)}))
}

func TestValidateCreatePlanWeeklyMeals(t *testing.T) {
	req := &CreatePlanRequest{
		Name:         "Veg Weekly",
		Price:        floatPtr(999),
		DurationDays: 7,
		WeeklyMeals: map[string]map[string][]MealRequest{
			"monday": {"lunch": {{Name: "Dal rice", Calories: 550}}},
		},
	}
	require.NoError(t, ValidateCreatePlan(req))

	req.WeeklyMeals = map[string]map[string][]MealRequest{
		"funday": {"lunch": {{Name: "Dal rice"}}},
	}
	require.Error(t, ValidateCreatePlan(req))

	req.WeeklyMeals = map[string]map[string][]MealRequest{
		"monday": {"brunch": {{Name: "Dal rice"}}},
	}
	require.Error(t, ValidateCreatePlan(req))
}

func TestCheckReason(t *testing.T) {
	assert.True(t, errors.Is(CheckReason("too short"), utils.ErrInvalidReason))
	assert.True(t, errors.Is(CheckReason("   spaces      "), utils.ErrInvalidReason))
	assert.NoError(t, CheckReason("offensive language"))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Asha", SanitizeInput("  <b>Asha</b> "))
}
