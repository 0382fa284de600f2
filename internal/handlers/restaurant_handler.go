package handlers

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type RestaurantHandler struct {
	restaurantService services.RestaurantService
}

func NewRestaurantHandler(restaurantService services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantService: restaurantService,
	}
}

func (h *RestaurantHandler) GetProfile(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}

	restaurant, err := h.restaurantService.GetProfile(c.Request.Context(), restaurantID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Restaurant profile retrieved successfully", restaurant)
}

// UpdateProfile takes logo, coverImage and gallery images parts
func (h *RestaurantHandler) UpdateProfile(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}

	var request validators.RestaurantProfileRequest
	if !bindForm(c, &request) || !validated(c, validators.ValidateRestaurantProfile(&request)) {
		return
	}

	files, ok := uploads(c, "logo", "coverImage")
	if !ok {
		return
	}
	gallery, ok := uploadList(c, "images")
	if !ok {
		return
	}

	restaurant, err := h.restaurantService.UpdateProfile(c.Request.Context(), restaurantID, &request, files, gallery)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Restaurant profile updated successfully", restaurant)
}

func (h *RestaurantHandler) AddImages(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}

	images, ok := uploadList(c, "images")
	if !ok {
		return
	}
	if len(images) == 0 {
		utils.BadRequestResponse(c, "At least one image is required")
		return
	}

	restaurant, err := h.restaurantService.AddImages(c.Request.Context(), restaurantID, images)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Images added successfully", restaurant)
}

func (h *RestaurantHandler) RemoveImage(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}

	var request validators.RemoveImageRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	restaurant, err := h.restaurantService.RemoveImage(c.Request.Context(), restaurantID, request.URL)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Image removed successfully", restaurant)
}

// ListPublic lists active restaurants for customers
func (h *RestaurantHandler) ListPublic(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	restaurants, total, err := h.restaurantService.ListPublic(c.Request.Context(), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Restaurants retrieved successfully", restaurants, len(restaurants), params, total)
}

func (h *RestaurantHandler) GetPublic(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}

	restaurant, err := h.restaurantService.GetPublic(c.Request.Context(), restaurantID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Restaurant retrieved successfully", restaurant)
}
