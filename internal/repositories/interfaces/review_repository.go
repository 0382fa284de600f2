package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/utils"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	// ApplyIf applies update only when the stored review still matches
	// guard, and returns the updated review. A mismatch returns
	// utils.ErrVersionConflict; a missing review utils.ErrRecordNotFound.
	ApplyIf(ctx context.Context, id primitive.ObjectID, guard bson.M, update bson.M) (*models.Review, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter models.ReviewFilter, params *utils.PaginationParams) ([]*models.Review, int64, error)
	RatingSummary(ctx context.Context, restaurantID primitive.ObjectID) (float64, int, error)
}
