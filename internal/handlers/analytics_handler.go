package handlers

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Dashboard retrieved successfully", stats)
}

func (h *AnalyticsHandler) DriverStats(c *gin.Context) {
	stats, err := h.analyticsService.DriverStats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver statistics retrieved successfully", stats)
}

func (h *AnalyticsHandler) ReviewStats(c *gin.Context) {
	stats, err := h.analyticsService.ReviewStats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review statistics retrieved successfully", stats)
}

// RegistrationTrends returns daily sign-up counts, users by default
func (h *AnalyticsHandler) RegistrationTrends(c *gin.Context) {
	var query validators.TrendQuery
	if !bindQuery(c, &query) || !validated(c, validators.Validate(&query)) {
		return
	}

	points, err := h.analyticsService.RegistrationTrends(c.Request.Context(), query.Entity, query.Days)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Registration trends retrieved successfully", points)
}
