package handlers

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/models"
	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) GetProfile(c *gin.Context) {
	adminID, ok := principalID(c)
	if !ok {
		return
	}

	admin, err := h.adminService.GetProfile(c.Request.Context(), adminID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Admin profile retrieved successfully", admin)
}

// Admin accounts (super admin only)

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	admins, total, err := h.adminService.ListAdmins(c.Request.Context(), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Admins retrieved successfully", admins, len(admins), params, total)
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var request validators.CreateAdminRequest
	if !bindJSON(c, &request) || !validated(c, validators.ValidateCreateAdmin(&request)) {
		return
	}

	admin, err := h.adminService.CreateAdmin(c.Request.Context(), actor, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Admin created successfully", admin)
}

func (h *AdminHandler) ChangeRole(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	adminID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request validators.ChangeRoleRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	admin, err := h.adminService.ChangeRole(c.Request.Context(), actor, adminID, models.Role(request.Role))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Admin role updated successfully", admin)
}

// Drivers

func (h *AdminHandler) ListDrivers(c *gin.Context) {
	var query validators.DriverListQuery
	if !bindQuery(c, &query) || !validated(c, validators.Validate(&query)) {
		return
	}
	params := utils.GetPaginationParams(c)

	drivers, total, err := h.adminService.ListDrivers(c.Request.Context(), &query, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Drivers retrieved successfully", drivers, len(drivers), params, total)
}

func (h *AdminHandler) GetDriver(c *gin.Context) {
	driverID, ok := paramID(c, "id")
	if !ok {
		return
	}

	driver, err := h.adminService.GetDriver(c.Request.Context(), driverID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver retrieved successfully", driver)
}

// ApproveDriver approves or revokes approval and notifies the driver by SMS
func (h *AdminHandler) ApproveDriver(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	driverID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request validators.DriverApprovalRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	driver, err := h.adminService.ApproveDriver(c.Request.Context(), actor, driverID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	message := "Driver approved successfully"
	if !*request.Approved {
		message = "Driver approval revoked"
	}
	utils.SuccessResponse(c, message, driver)
}

// Users

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query validators.UserListQuery
	if !bindQuery(c, &query) {
		return
	}
	params := utils.GetPaginationParams(c)

	users, total, err := h.adminService.ListUsers(c.Request.Context(), &query, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Users retrieved successfully", users, len(users), params, total)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.adminService.GetUser(c.Request.Context(), userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "User retrieved successfully", user)
}

// Restaurants

func (h *AdminHandler) ListRestaurants(c *gin.Context) {
	var query validators.RestaurantListQuery
	if !bindQuery(c, &query) {
		return
	}
	params := utils.GetPaginationParams(c)

	restaurants, total, err := h.adminService.ListRestaurants(c.Request.Context(), &query, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Restaurants retrieved successfully", restaurants, len(restaurants), params, total)
}

func (h *AdminHandler) GetRestaurant(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}

	restaurant, err := h.adminService.GetRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Restaurant retrieved successfully", restaurant)
}
