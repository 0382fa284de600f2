package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/utils"
)

type UserFilter struct {
	IsBlocked *bool
	IsProfile *bool
	IsActive  *bool
}

type UserRepository interface {
	OTPPrincipalRepository

	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// UpdateProfile sets fields and recomputes is_profile from the stored
	// names in the same update.
	UpdateProfile(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error)
	List(ctx context.Context, filter UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error)
}
