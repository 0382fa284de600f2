package handlers

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := principalID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", user)
}

// UpdateProfile accepts JSON or a multipart form with a profileImage part
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := principalID(c)
	if !ok {
		return
	}

	var request validators.UserProfileRequest
	if !bindForm(c, &request) || !validated(c, validators.ValidateUserProfile(&request)) {
		return
	}

	files, ok := uploads(c, "profileImage")
	if !ok {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &request, files["profileImage"])
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully", user)
}
