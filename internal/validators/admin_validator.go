package validators

import "strings"

type CreateAdminRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"required,phone_number"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"required,oneof=admin super_admin"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin super_admin"`
}

type TrendQuery struct {
	Entity string `form:"entity" validate:"omitempty,oneof=users drivers restaurants reviews"`
	Days   int    `form:"days" validate:"omitempty,min=1,max=365"`
}

func ValidateCreateAdmin(req *CreateAdminRequest) error {
	NormalizePhoneField(&req.Phone)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return Validate(req)
}
