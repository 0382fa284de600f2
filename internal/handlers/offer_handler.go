package handlers

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type OfferHandler struct {
	offerService services.OfferService
}

func NewOfferHandler(offerService services.OfferService) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
	}
}

func (h *OfferHandler) CreateOffer(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}

	var request validators.CreateOfferRequest
	if !bindJSON(c, &request) || !validated(c, validators.ValidateCreateOffer(&request)) {
		return
	}

	offer, err := h.offerService.Create(c.Request.Context(), restaurantID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Offer created successfully", offer)
}

func (h *OfferHandler) GetOffer(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	offerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	offer, err := h.offerService.Get(c.Request.Context(), restaurantID, offerID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Offer retrieved successfully", offer)
}

func (h *OfferHandler) UpdateOffer(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	offerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request validators.UpdateOfferRequest
	if !bindJSON(c, &request) || !validated(c, validators.ValidateUpdateOffer(&request)) {
		return
	}

	offer, err := h.offerService.Update(c.Request.Context(), restaurantID, offerID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Offer updated successfully", offer)
}

func (h *OfferHandler) DeleteOffer(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	offerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.offerService.Delete(c.Request.Context(), restaurantID, offerID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Offer deleted successfully", nil)
}

func (h *OfferHandler) ListOffers(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	offers, total, err := h.offerService.List(c.Request.Context(), restaurantID, c.Query("active") == "true", params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Offers retrieved successfully", offers, len(offers), params, total)
}

// ListRedeemable lists offers a customer can use at a restaurant right now
func (h *OfferHandler) ListRedeemable(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	offers, total, err := h.offerService.ListRedeemable(c.Request.Context(), restaurantID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Offers retrieved successfully", offers, len(offers), params, total)
}

// EvaluateOffer previews the discount without consuming a use
func (h *OfferHandler) EvaluateOffer(c *gin.Context) {
	userID, ok := principalID(c)
	if !ok {
		return
	}

	var request validators.ApplyOfferRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	result, err := h.offerService.Evaluate(c.Request.Context(), userID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Offer is applicable", result)
}

func (h *OfferHandler) RedeemOffer(c *gin.Context) {
	userID, ok := principalID(c)
	if !ok {
		return
	}

	var request validators.ApplyOfferRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	result, err := h.offerService.Redeem(c.Request.Context(), userID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Offer redeemed successfully", result)
}
