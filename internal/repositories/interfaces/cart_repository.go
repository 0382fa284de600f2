package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
)

type CartRepository interface {
	Get(ctx context.Context, userID, restaurantID primitive.ObjectID) (*models.Cart, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Cart, error)
	// Save persists cart when its stored version equals cart.Version, then
	// bumps the version. A cart with Version 0 is inserted. A concurrent
	// writer yields utils.ErrVersionConflict.
	Save(ctx context.Context, cart *models.Cart) error
}
