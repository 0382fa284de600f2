package handlers

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type PlanHandler struct {
	planService services.PlanService
}

func NewPlanHandler(planService services.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}

	var request validators.CreatePlanRequest
	if !bindJSON(c, &request) || !validated(c, validators.ValidateCreatePlan(&request)) {
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), restaurantID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Plan created successfully", plan)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	planID, ok := paramID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), restaurantID, planID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Plan retrieved successfully", plan)
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	planID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request validators.UpdatePlanRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), restaurantID, planID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Plan updated successfully", plan)
}

// DeletePlan refuses while the plan has subscribers
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	planID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.planService.Delete(c.Request.Context(), restaurantID, planID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Plan deleted successfully", nil)
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	plans, total, err := h.planService.List(c.Request.Context(), restaurantID, false, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Plans retrieved successfully", plans, len(plans), params, total)
}

func (h *PlanHandler) ListPublic(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	plans, total, err := h.planService.List(c.Request.Context(), restaurantID, true, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Plans retrieved successfully", plans, len(plans), params, total)
}
