package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	return s == ReviewPending || s == ReviewApproved || s == ReviewRejected
}

type ReviewFlag struct {
	Reason string             `json:"reason" bson:"reason"`
	By     primitive.ObjectID `json:"by" bson:"by"`
	At     time.Time          `json:"at" bson:"at"`
}

// ReviewModeration records the last approve or reject decision.
type ReviewModeration struct {
	Reason string             `json:"reason,omitempty" bson:"reason,omitempty"`
	Note   string             `json:"note,omitempty" bson:"note,omitempty"`
	By     primitive.ObjectID `json:"by" bson:"by"`
	At     time.Time          `json:"at" bson:"at"`
}

type ReviewDeletion struct {
	Reason string             `json:"reason" bson:"reason"`
	By     primitive.ObjectID `json:"by" bson:"by"`
	At     time.Time          `json:"at" bson:"at"`
}

type ReviewReport struct {
	UserID primitive.ObjectID `json:"userId" bson:"user_id"`
	Reason string             `json:"reason" bson:"reason"`
	At     time.Time          `json:"at" bson:"at"`
}

type ReviewResponse struct {
	Text string    `json:"text" bson:"text"`
	At   time.Time `json:"at" bson:"at"`
}

type Review struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"userId" bson:"user_id"`
	RestaurantID primitive.ObjectID `json:"restaurantId" bson:"restaurant_id"`
	OrderID      primitive.ObjectID `json:"orderId" bson:"order_id"`
	Rating       int                `json:"rating" bson:"rating"`
	Comment      string             `json:"comment,omitempty" bson:"comment,omitempty"`
	Images       []string           `json:"images" bson:"images"`

	Status     ReviewStatus      `json:"status" bson:"status"`
	Moderation *ReviewModeration `json:"moderation,omitempty" bson:"moderation,omitempty"`
	Flag       *ReviewFlag       `json:"flag,omitempty" bson:"flag,omitempty"`
	IsVisible  bool              `json:"isVisible" bson:"is_visible"`
	IsFeatured bool              `json:"isFeatured" bson:"is_featured"`
	IsDeleted  bool              `json:"isDeleted" bson:"is_deleted"`
	Deletion   *ReviewDeletion   `json:"deletion,omitempty" bson:"deletion,omitempty"`

	VisibilityUpdatedBy *primitive.ObjectID `json:"visibilityUpdatedBy,omitempty" bson:"visibility_updated_by,omitempty"`
	VisibilityUpdatedAt *time.Time          `json:"visibilityUpdatedAt,omitempty" bson:"visibility_updated_at,omitempty"`
	FeaturedUpdatedBy   *primitive.ObjectID `json:"featuredUpdatedBy,omitempty" bson:"featured_updated_by,omitempty"`
	FeaturedUpdatedAt   *time.Time          `json:"featuredUpdatedAt,omitempty" bson:"featured_updated_at,omitempty"`

	HelpfulCount   int                  `json:"helpfulCount" bson:"helpful_count"`
	UnhelpfulCount int                  `json:"unhelpfulCount" bson:"unhelpful_count"`
	ReportCount    int                  `json:"reportCount" bson:"report_count"`
	ViewCount      int                  `json:"viewCount" bson:"view_count"`
	Voters         []primitive.ObjectID `json:"-" bson:"voters"`
	Reports        []ReviewReport       `json:"reports,omitempty" bson:"reports"`

	Response  *ReviewResponse `json:"response,omitempty" bson:"response,omitempty"`
	CreatedAt time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updated_at"`
}

func (r *Review) IsApproved() bool { return r.Status == ReviewApproved }
func (r *Review) IsRejected() bool { return r.Status == ReviewRejected }
func (r *Review) IsFlagged() bool  { return r.Flag != nil }

// MarshalJSON adds the derived moderation booleans clients read.
func (r Review) MarshalJSON() ([]byte, error) {
	type review Review
	return json.Marshal(struct {
		review
		IsApproved bool `json:"isApproved"`
		IsRejected bool `json:"isRejected"`
		IsFlagged  bool `json:"isFlagged"`
	}{
		review:     review(r),
		IsApproved: r.IsApproved(),
		IsRejected: r.IsRejected(),
		IsFlagged:  r.IsFlagged(),
	})
}

type ReviewFilter struct {
	Status        *ReviewStatus
	ExcludeStatus *ReviewStatus
	Rating        *int
	RestaurantID  *primitive.ObjectID
	UserID        *primitive.ObjectID
	IsFlagged     *bool
	IsDeleted     *bool
	IsVisible     *bool
}

// PublicReviewFilter is what customers may see for a restaurant.
func PublicReviewFilter(restaurantID primitive.ObjectID) ReviewFilter {
	visible, deleted := true, false
	rejected := ReviewRejected
	return ReviewFilter{
		ExcludeStatus: &rejected,
		RestaurantID:  &restaurantID,
		IsVisible:     &visible,
		IsDeleted:     &deleted,
	}
}
