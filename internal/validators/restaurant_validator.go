package validators

import "strings"

type RestaurantProfileRequest struct {
	Name         *string         `json:"name" form:"name" validate:"omitempty,min=2,max=100"`
	OwnerName    *string         `json:"ownerName" form:"ownerName" validate:"omitempty,min=2,max=100"`
	Email        *string         `json:"email" form:"email" validate:"omitempty,email"`
	Description  *string         `json:"description" form:"description" validate:"omitempty,max=1000"`
	CuisineTypes []string        `json:"cuisineTypes" form:"cuisineTypes" validate:"omitempty,max=20,dive,min=2,max=50"`
	Address      *AddressRequest `json:"address" validate:"omitempty"`
	OpeningTime  *string         `json:"openingTime" form:"openingTime" validate:"omitempty,hhmm"`
	ClosingTime  *string         `json:"closingTime" form:"closingTime" validate:"omitempty,hhmm"`
	IsOpen       *bool           `json:"isOpen" form:"isOpen"`
}

type RemoveImageRequest struct {
	URL string `json:"url" validate:"required"`
}

type RestaurantListQuery struct {
	IsActive   *bool `form:"isActive"`
	IsBlocked  *bool `form:"isBlocked"`
	IsVerified *bool `form:"isVerified"`
}

func ValidateRestaurantProfile(req *RestaurantProfileRequest) error {
	if req.Name != nil {
		name := SanitizeInput(*req.Name)
		req.Name = &name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
	}
	return Validate(req)
}
