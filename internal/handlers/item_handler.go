package handlers

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type ItemHandler struct {
	itemService services.ItemService
}

func NewItemHandler(itemService services.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

// CreateItem adds a menu item with up to ten images
func (h *ItemHandler) CreateItem(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}

	var request validators.CreateItemRequest
	if !bindForm(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	images, ok := uploadList(c, "images")
	if !ok {
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), restaurantID, &request, images)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Item created successfully", item)
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.Get(c.Request.Context(), restaurantID, itemID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Item retrieved successfully", item)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request validators.UpdateItemRequest
	if !bindForm(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	images, ok := uploadList(c, "images")
	if !ok {
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), restaurantID, itemID, &request, images)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Item updated successfully", item)
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), restaurantID, itemID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Item deleted successfully", nil)
}

func (h *ItemHandler) ListItems(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}

	var query validators.ItemListQuery
	if !bindQuery(c, &query) || !validated(c, validators.Validate(&query)) {
		return
	}
	params := utils.GetPaginationParams(c)

	items, total, err := h.itemService.List(c.Request.Context(), restaurantID, &query, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Items retrieved successfully", items, len(items), params, total)
}

// ListMenu is the customer view of a restaurant's available items
func (h *ItemHandler) ListMenu(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var query validators.ItemListQuery
	if !bindQuery(c, &query) || !validated(c, validators.Validate(&query)) {
		return
	}
	params := utils.GetPaginationParams(c)

	items, total, err := h.itemService.ListMenu(c.Request.Context(), restaurantID, &query, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Menu retrieved successfully", items, len(items), params, total)
}
