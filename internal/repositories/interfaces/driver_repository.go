package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/utils"
)

type DriverFilter struct {
	RegistrationStep       *int
	IsApproved             *bool
	IsRegistrationComplete *bool
	IsBlocked              *bool
	Status                 *models.DriverStatus
}

type DriverRepository interface {
	OTPPrincipalRepository

	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)
	// UpdateSection writes the given section fields, moves the registration
	// step to the section's number and records the section as completed.
	UpdateSection(ctx context.Context, id primitive.ObjectID, section models.DriverSection, fields map[string]interface{}) (*models.Driver, error)
	CompleteRegistration(ctx context.Context, id primitive.ObjectID, forced bool) (*models.Driver, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.DriverStatus, at time.Time) (*models.Driver, error)
	SetApproval(ctx context.Context, id primitive.ObjectID, approved bool, by primitive.ObjectID, note string, at time.Time) (*models.Driver, error)

	List(ctx context.Context, filter DriverFilter, params *utils.PaginationParams) ([]*models.Driver, int64, error)
}
