package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToggleTarget names one boolean field of one document.
type ToggleTarget struct {
	Collection string
	ID         primitive.ObjectID
	Field      string
	// Scope adds equality conditions, such as the owning restaurant.
	Scope map[string]interface{}
	// AuditBy and AuditAt name fields that record who flipped the value.
	AuditBy string
	AuditAt string
	ActorID primitive.ObjectID
}

type ToggleRepository interface {
	// Toggle negates the field atomically and returns its new value.
	Toggle(ctx context.Context, target ToggleTarget, at time.Time) (bool, error)
}
