package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/utils"
)

type AdminRepository interface {
	PasswordPrincipalRepository

	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.Admin, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Admin, int64, error)
}
