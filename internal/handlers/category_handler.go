package handlers

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}

	var request validators.CreateCategoryRequest
	if !bindForm(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	files, ok := uploads(c, "image")
	if !ok {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), restaurantID, &request, files["image"])
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Category created successfully", category)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	categoryID, ok := paramID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), restaurantID, categoryID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Category retrieved successfully", category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	categoryID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request validators.UpdateCategoryRequest
	if !bindForm(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	files, ok := uploads(c, "image")
	if !ok {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), restaurantID, categoryID, &request, files["image"])
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Category updated successfully", category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	categoryID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), restaurantID, categoryID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Category deleted successfully", nil)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	categories, total, err := h.categoryService.List(c.Request.Context(), restaurantID, false, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Categories retrieved successfully", categories, len(categories), params, total)
}

// ListPublic returns the active categories of a restaurant
func (h *CategoryHandler) ListPublic(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	categories, total, err := h.categoryService.List(c.Request.Context(), restaurantID, true, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Categories retrieved successfully", categories, len(categories), params, total)
}
