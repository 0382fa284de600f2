package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/utils"
)

// Catalog stores scope every read and write by the owning restaurant and
// return utils.ErrRecordNotFound for documents of other owners.

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	Get(ctx context.Context, ownerID, id primitive.ObjectID) (*models.Item, error)
	Update(ctx context.Context, ownerID, id primitive.ObjectID, fields map[string]interface{}) (*models.Item, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
	List(ctx context.Context, ownerID primitive.ObjectID, filter models.ItemFilter, params *utils.PaginationParams) ([]*models.Item, int64, error)
	CountByCategory(ctx context.Context, ownerID, categoryID primitive.ObjectID) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	Get(ctx context.Context, ownerID, id primitive.ObjectID) (*models.Category, error)
	Update(ctx context.Context, ownerID, id primitive.ObjectID, fields map[string]interface{}) (*models.Category, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
	List(ctx context.Context, ownerID primitive.ObjectID, filter models.CategoryFilter, params *utils.PaginationParams) ([]*models.Category, int64, error)
	NameExists(ctx context.Context, ownerID primitive.ObjectID, name string, excludeID *primitive.ObjectID) (bool, error)
}

type PlanRepository interface {
	Create(ctx context.Context, plan *models.Plan) error
	Get(ctx context.Context, ownerID, id primitive.ObjectID) (*models.Plan, error)
	Update(ctx context.Context, ownerID, id primitive.ObjectID, fields map[string]interface{}) (*models.Plan, error)
	// DeleteUnsubscribed deletes the plan only while it has no subscribers.
	// It reports whether a document was deleted.
	DeleteUnsubscribed(ctx context.Context, ownerID, id primitive.ObjectID) (bool, error)
	List(ctx context.Context, ownerID primitive.ObjectID, filter models.PlanFilter, params *utils.PaginationParams) ([]*models.Plan, int64, error)
	NameExists(ctx context.Context, ownerID primitive.ObjectID, name string, excludeID *primitive.ObjectID) (bool, error)
}

type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) error
	Get(ctx context.Context, ownerID, id primitive.ObjectID) (*models.Offer, error)
	GetByCode(ctx context.Context, code string) (*models.Offer, error)
	Update(ctx context.Context, ownerID, id primitive.ObjectID, fields map[string]interface{}) (*models.Offer, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
	List(ctx context.Context, ownerID primitive.ObjectID, filter models.OfferFilter, params *utils.PaginationParams) ([]*models.Offer, int64, error)
	ListRedeemable(ctx context.Context, ownerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Offer, int64, error)
	CodeExists(ctx context.Context, code string, excludeID *primitive.ObjectID) (bool, error)
	// RecordRedemption increments the offer and user counters in one
	// conditional update. It reports false when either limit was reached.
	RecordRedemption(ctx context.Context, offerID, userID primitive.ObjectID, now time.Time) (bool, error)
}
