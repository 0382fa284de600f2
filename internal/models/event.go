package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EventDriverStatusChanged   EventType = "driver.status_changed"
	EventDriverApprovalChanged EventType = "driver.approval_changed"
	EventReviewModerated       EventType = "review.moderated"
	EventOfferRedeemed         EventType = "offer.redeemed"
	EventAccountBlocked        EventType = "account.blocked"
)

// Event is a domain notification fanned out to the broker, Redis and the
// admin feed.
type Event struct {
	ID         string                 `json:"id"`
	Type       EventType              `json:"type"`
	EntityType string                 `json:"entityType"`
	EntityID   primitive.ObjectID     `json:"entityId"`
	ActorID    *primitive.ObjectID    `json:"actorId,omitempty"`
	ActorRole  Role                   `json:"actorRole,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}
