package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/utils"
)

type RestaurantFilter struct {
	IsActive   *bool
	IsBlocked  *bool
	IsVerified *bool
}

type RestaurantRepository interface {
	PasswordPrincipalRepository

	Create(ctx context.Context, restaurant *models.Restaurant) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Restaurant, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Restaurant, error)
	AddImages(ctx context.Context, id primitive.ObjectID, urls []string) (*models.Restaurant, error)
	RemoveImage(ctx context.Context, id primitive.ObjectID, url string) (*models.Restaurant, bool, error)
	UpdateRating(ctx context.Context, id primitive.ObjectID, rating float64, totalReviews int) error
	List(ctx context.Context, filter RestaurantFilter, params *utils.PaginationParams) ([]*models.Restaurant, int64, error)
}
