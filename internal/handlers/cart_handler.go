package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) ListCarts(c *gin.Context) {
	userID, ok := principalID(c)
	if !ok {
		return
	}

	carts, err := h.cartService.List(c.Request.Context(), userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Carts retrieved successfully", carts)
}

// GetCart never 404s; a missing cart is returned empty
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, restaurantID, ok := cartKey(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), userID, restaurantID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Cart retrieved successfully", cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID, restaurantID, ok := cartKey(c)
	if !ok {
		return
	}

	var request validators.AddCartItemRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}
	itemID, _ := primitive.ObjectIDFromHex(request.ItemID)

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, restaurantID, itemID, request.Quantity)
	h.respond(c, cart, err, "Item added to cart")
}

// SetQuantity removes the line when quantity is zero or less
func (h *CartHandler) SetQuantity(c *gin.Context) {
	userID, restaurantID, ok := cartKey(c)
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}

	var request validators.SetCartQuantityRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	cart, err := h.cartService.SetItemQuantity(c.Request.Context(), userID, restaurantID, itemID, *request.Quantity)
	h.respond(c, cart, err, "Cart updated")
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, restaurantID, ok := cartKey(c)
	if !ok {
		return
	}
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, restaurantID, itemID)
	h.respond(c, cart, err, "Item removed from cart")
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, restaurantID, ok := cartKey(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Clear(c.Request.Context(), userID, restaurantID)
	h.respond(c, cart, err, "Cart cleared")
}

func (h *CartHandler) respond(c *gin.Context, cart *models.Cart, err error, message string) {
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, message, cart)
}

func cartKey(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	userID, ok := principalID(c)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	restaurantID, ok := paramID(c, "restaurantId")
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, restaurantID, true
}
