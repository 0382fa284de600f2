package validators

import (
	"strings"
	"time"
)

type UserProfileRequest struct {
	FirstName   *string         `json:"firstName" form:"firstName" validate:"omitempty,min=2,max=50"`
	LastName    *string         `json:"lastName" form:"lastName" validate:"omitempty,min=2,max=50"`
	Email       *string         `json:"email" form:"email" validate:"omitempty,email"`
	Gender      *string         `json:"gender" form:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth *string         `json:"dateOfBirth" form:"dateOfBirth" validate:"omitempty,iso_date"`
	Address     *AddressRequest `json:"address" validate:"omitempty"`
}

type UserListQuery struct {
	IsBlocked *bool `form:"isBlocked"`
	IsProfile *bool `form:"isProfile"`
	IsActive  *bool `form:"isActive"`
}

func ValidateUserProfile(req *UserProfileRequest) error {
	if req.FirstName != nil {
		name := SanitizeInput(*req.FirstName)
		req.FirstName = &name
	}
	if req.LastName != nil {
		name := SanitizeInput(*req.LastName)
		req.LastName = &name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
	}

	errs := ValidateStruct(req)
	if len(errs) == 0 && req.DateOfBirth != nil {
		dob, _ := ParseISODate(*req.DateOfBirth)
		if dob.After(time.Now()) {
			errs = append(errs, ValidationError{
				Field:   "dateOfBirth",
				Message: "Date of birth must be in the past",
			})
		}
	}
	if len(errs) > 0 {
		return errs.AppError()
	}
	return nil
}
