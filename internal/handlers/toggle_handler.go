package handlers

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type ToggleHandler struct {
	toggleService services.ToggleService
}

func NewToggleHandler(toggleService services.ToggleService) *ToggleHandler {
	return &ToggleHandler{
		toggleService: toggleService,
	}
}

// Toggle flips a boolean field of the entity named by the route. The field
// comes from the :field path parameter or a JSON body.
func (h *ToggleHandler) Toggle(entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		field := c.Param("field")
		if field == "" {
			var request validators.ToggleRequest
			if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
				return
			}
			field = request.Field
		}

		result, err := h.toggleService.Toggle(c.Request.Context(), actor, entity, id, field)
		if err != nil {
			utils.HandleError(c, err)
			return
		}

		utils.SuccessResponse(c, entity+" "+field+" updated successfully", result)
	}
}
