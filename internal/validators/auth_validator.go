package validators

import (
	"strings"

	"mealhub/internal/utils"
)

type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required,phone_number"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,phone_number"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,phone_number"`
	Password string `json:"password" validate:"required"`
}

type AdminRegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"required,phone_number"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type RestaurantRegisterRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	OwnerName string `json:"ownerName" validate:"omitempty,min=2,max=100"`
	Phone     string `json:"phone" validate:"required,phone_number"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
}

// NormalizePhoneField cleans a phone in place before validation so that
// "+91 98765 43210" and "9876543210" resolve to the same principal.
func NormalizePhoneField(phone *string) {
	*phone = utils.NormalizePhone(*phone)
}

func ValidateAdminRegister(req *AdminRegisterRequest) error {
	NormalizePhoneField(&req.Phone)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = SanitizeInput(req.Name)
	return Validate(req)
}

func ValidateRestaurantRegister(req *RestaurantRegisterRequest) error {
	NormalizePhoneField(&req.Phone)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = SanitizeInput(req.Name)
	return Validate(req)
}

func ValidateLogin(req *LoginRequest) error {
	NormalizePhoneField(&req.Phone)
	return Validate(req)
}

func ValidateSendOTP(req *SendOTPRequest) error {
	NormalizePhoneField(&req.Phone)
	return Validate(req)
}

func ValidateVerifyOTP(req *VerifyOTPRequest) error {
	NormalizePhoneField(&req.Phone)
	req.OTP = strings.TrimSpace(req.OTP)
	return Validate(req)
}
