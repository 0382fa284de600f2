package validators

import (
	"strings"
	"unicode/utf8"

	"mealhub/internal/utils"
)

type CreateReviewRequest struct {
	RestaurantID string `json:"restaurantId" form:"restaurantId" validate:"required,object_id"`
	OrderID      string `json:"orderId" form:"orderId" validate:"required,object_id"`
	Rating       int    `json:"rating" form:"rating" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" form:"comment" validate:"omitempty,max=1000"`
}

type ApproveReviewRequest struct {
	Note string `json:"note" validate:"omitempty,max=500"`
}

type RejectReviewRequest struct {
	Reason string `json:"reason"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type ResolveReportsRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject flag delete"`
	Reason string `json:"reason"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

type ReportReviewRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type HelpfulRequest struct {
	Helpful *bool `json:"helpful" validate:"required"`
}

type ReviewReplyRequest struct {
	Text string `json:"text" validate:"required,min=2,max=1000"`
}

type ReviewListQuery struct {
	Status       string `form:"status" validate:"omitempty,oneof=pending approved rejected"`
	Rating       *int   `form:"rating" validate:"omitempty,min=1,max=5"`
	RestaurantID string `form:"restaurant" validate:"omitempty,object_id"`
	UserID       string `form:"userId" validate:"omitempty,object_id"`
	IsFlagged    *bool  `form:"flagged"`
	IsDeleted    *bool  `form:"deleted"`
	IsVisible    *bool  `form:"visible"`
}

// CheckReason enforces the minimum length of a moderation reason.
func CheckReason(reason string) error {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) < utils.MinReasonLength {
		return utils.ErrInvalidReason
	}
	return nil
}
