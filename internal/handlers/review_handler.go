package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Moderation

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var query validators.ReviewListQuery
	if !bindQuery(c, &query) || !validated(c, validators.Validate(&query)) {
		return
	}
	params := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewService.List(c.Request.Context(), &query, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Reviews retrieved successfully", reviews, len(reviews), params, total)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), reviewID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review retrieved successfully", review)
}

func (h *ReviewHandler) ApproveReview(c *gin.Context) {
	actor, reviewID, ok := h.moderationTarget(c)
	if !ok {
		return
	}

	var request validators.ApproveReviewRequest
	if c.Request.ContentLength > 0 && (!bindJSON(c, &request) || !validated(c, validators.Validate(&request))) {
		return
	}

	review, err := h.reviewService.Approve(c.Request.Context(), actor, reviewID, request.Note)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review approved successfully", review)
}

// RejectReview requires a reason of at least ten characters
func (h *ReviewHandler) RejectReview(c *gin.Context) {
	actor, reviewID, ok := h.moderationTarget(c)
	if !ok {
		return
	}

	var request validators.RejectReviewRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	review, err := h.reviewService.Reject(c.Request.Context(), actor, reviewID, request.Reason, request.Note)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review rejected successfully", review)
}

func (h *ReviewHandler) FlagReview(c *gin.Context) {
	actor, reviewID, ok := h.moderationTarget(c)
	if !ok {
		return
	}

	var request validators.ReasonRequest
	if !bindJSON(c, &request) {
		return
	}

	review, err := h.reviewService.Flag(c.Request.Context(), actor, reviewID, request.Reason)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review flagged successfully", review)
}

func (h *ReviewHandler) UnflagReview(c *gin.Context) {
	actor, reviewID, ok := h.moderationTarget(c)
	if !ok {
		return
	}

	review, err := h.reviewService.Unflag(c.Request.Context(), actor, reviewID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review unflagged successfully", review)
}

// DeleteReview soft deletes; the document is kept for audit
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	actor, reviewID, ok := h.moderationTarget(c)
	if !ok {
		return
	}

	var request validators.ReasonRequest
	if !bindJSON(c, &request) {
		return
	}

	review, err := h.reviewService.SoftDelete(c.Request.Context(), actor, reviewID, request.Reason)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review deleted successfully", review)
}

func (h *ReviewHandler) ResolveReports(c *gin.Context) {
	actor, reviewID, ok := h.moderationTarget(c)
	if !ok {
		return
	}

	var request validators.ResolveReportsRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	review, err := h.reviewService.ResolveReports(c.Request.Context(), actor, reviewID, &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review reports resolved successfully", review)
}

func (h *ReviewHandler) moderationTarget(c *gin.Context) (*services.Actor, primitive.ObjectID, bool) {
	actor, ok := currentActor(c)
	if !ok {
		return nil, primitive.NilObjectID, false
	}
	reviewID, ok := paramID(c, "id")
	if !ok {
		return nil, primitive.NilObjectID, false
	}
	return actor, reviewID, true
}

// Customers

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := principalID(c)
	if !ok {
		return
	}

	var request validators.CreateReviewRequest
	if !bindForm(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	images, ok := uploadList(c, "images")
	if !ok {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), userID, &request, images)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, "Review submitted successfully", review)
}

func (h *ReviewHandler) ListMyReviews(c *gin.Context) {
	userID, ok := principalID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewService.ListMine(c.Request.Context(), userID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Reviews retrieved successfully", reviews, len(reviews), params, total)
}

// VoteReview records a helpful or unhelpful vote, once per user
func (h *ReviewHandler) VoteReview(c *gin.Context) {
	userID, ok := principalID(c)
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request validators.HelpfulRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	review, err := h.reviewService.Vote(c.Request.Context(), userID, reviewID, *request.Helpful)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vote recorded successfully", review)
}

func (h *ReviewHandler) ReportReview(c *gin.Context) {
	userID, ok := principalID(c)
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request validators.ReportReviewRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	review, err := h.reviewService.Report(c.Request.Context(), userID, reviewID, request.Reason)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review reported successfully", review)
}

func (h *ReviewHandler) ListPublic(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewService.ListPublic(c.Request.Context(), restaurantID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Reviews retrieved successfully", reviews, len(reviews), params, total)
}

func (h *ReviewHandler) GetPublic(c *gin.Context) {
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetPublic(c.Request.Context(), reviewID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review retrieved successfully", review)
}

// Restaurants

func (h *ReviewHandler) ReplyToReview(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request validators.ReviewReplyRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	review, err := h.reviewService.Reply(c.Request.Context(), restaurantID, reviewID, request.Text)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Reply posted successfully", review)
}

func (h *ReviewHandler) ListRestaurantReviews(c *gin.Context) {
	restaurantID, ok := principalID(c)
	if !ok {
		return
	}

	var query validators.ReviewListQuery
	if !bindQuery(c, &query) || !validated(c, validators.Validate(&query)) {
		return
	}
	params := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewService.ListForRestaurant(c.Request.Context(), restaurantID, &query, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.ListSuccessResponse(c, "Reviews retrieved successfully", reviews, len(reviews), params, total)
}
