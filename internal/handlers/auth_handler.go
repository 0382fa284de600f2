package handlers

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/models"
	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SendOTP issues a one-time code to a driver or customer phone
func (h *AuthHandler) SendOTP(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request validators.SendOTPRequest
		if !bindJSON(c, &request) || !validated(c, validators.ValidateSendOTP(&request)) {
			return
		}

		response, err := h.authService.RequestOTP(c.Request.Context(), role, request.Phone)
		if err != nil {
			utils.HandleError(c, err)
			return
		}

		utils.SuccessResponse(c, "OTP sent successfully", response)
	}
}

// VerifyOTP exchanges a valid code for a token
func (h *AuthHandler) VerifyOTP(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request validators.VerifyOTPRequest
		if !bindJSON(c, &request) || !validated(c, validators.ValidateVerifyOTP(&request)) {
			return
		}

		response, err := h.authService.VerifyOTP(c.Request.Context(), role, request.Phone, request.OTP)
		if err != nil {
			utils.HandleError(c, err)
			return
		}

		utils.SuccessResponse(c, "OTP verified successfully", response)
	}
}

// Login authenticates an admin or restaurant with phone and password
func (h *AuthHandler) Login(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request validators.LoginRequest
		if !bindJSON(c, &request) || !validated(c, validators.ValidateLogin(&request)) {
			return
		}

		response, err := h.authService.Login(c.Request.Context(), role, request.Phone, request.Password)
		if err != nil {
			utils.HandleError(c, err)
			return
		}

		utils.SuccessResponse(c, "Login successful", response)
	}
}

func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var request validators.AdminRegisterRequest
	if !bindJSON(c, &request) || !validated(c, validators.ValidateAdminRegister(&request)) {
		return
	}

	response, err := h.authService.RegisterAdmin(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Admin registered successfully, pending activation", response)
}

func (h *AuthHandler) RegisterRestaurant(c *gin.Context) {
	var request validators.RestaurantRegisterRequest
	if !bindJSON(c, &request) || !validated(c, validators.ValidateRestaurantRegister(&request)) {
		return
	}

	response, err := h.authService.RegisterRestaurant(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Restaurant registered successfully", response)
}

// Logout revokes the current token
func (h *AuthHandler) Logout(c *gin.Context) {
	auth, ok := currentAuth(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), auth); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Logged out successfully", nil)
}
