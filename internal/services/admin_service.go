package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
	"mealhub/pkg/logger"
)

type AdminService interface {
	GetProfile(ctx context.Context, adminID primitive.ObjectID) (*models.Admin, error)

	// Super admin account management
	ListAdmins(ctx context.Context, params *utils.PaginationParams) ([]*models.Admin, int64, error)
	CreateAdmin(ctx context.Context, actor *Actor, request *validators.CreateAdminRequest) (*models.Admin, error)
	ChangeRole(ctx context.Context, actor *Actor, adminID primitive.ObjectID, role models.Role) (*models.Admin, error)
	SeedSuperAdmin(ctx context.Context, name, phone, password string) error

	// Principal oversight
	ListDrivers(ctx context.Context, query *validators.DriverListQuery, params *utils.PaginationParams) ([]*models.Driver, int64, error)
	GetDriver(ctx context.Context, driverID primitive.ObjectID) (*models.Driver, error)
	ApproveDriver(ctx context.Context, actor *Actor, driverID primitive.ObjectID, request *validators.DriverApprovalRequest) (*models.Driver, error)
	ListUsers(ctx context.Context, query *validators.UserListQuery, params *utils.PaginationParams) ([]*models.User, int64, error)
	GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	ListRestaurants(ctx context.Context, query *validators.RestaurantListQuery, params *utils.PaginationParams) ([]*models.Restaurant, int64, error)
	GetRestaurant(ctx context.Context, restaurantID primitive.ObjectID) (*models.Restaurant, error)
}

type adminService struct {
	admins      interfaces.AdminRepository
	drivers     interfaces.DriverRepository
	users       interfaces.UserRepository
	restaurants interfaces.RestaurantRepository
	notifier    NotificationService
	events      EventBus
	bcryptCost  int
	audit       *logger.AuditLogger
	logger      *logger.Logger
}

func NewAdminService(
	admins interfaces.AdminRepository,
	drivers interfaces.DriverRepository,
	users interfaces.UserRepository,
	restaurants interfaces.RestaurantRepository,
	notifier NotificationService,
	events EventBus,
	bcryptCost int,
	log *logger.Logger,
) AdminService {
	return &adminService{
		admins:      admins,
		drivers:     drivers,
		users:       users,
		restaurants: restaurants,
		notifier:    notifier,
		events:      events,
		bcryptCost:  bcryptCost,
		audit:       logger.NewAuditLogger(log),
		logger:      log.WithField("service", "admin"),
	}
}

func (s *adminService) GetProfile(ctx context.Context, adminID primitive.ObjectID) (*models.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, notFoundOr(err, "Admin", "Failed to get admin")
	}
	return admin, nil
}

func (s *adminService) ListAdmins(ctx context.Context, params *utils.PaginationParams) ([]*models.Admin, int64, error) {
	admins, total, err := s.admins.List(ctx, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list admins", err)
	}
	return admins, total, nil
}

func (s *adminService) CreateAdmin(ctx context.Context, actor *Actor, request *validators.CreateAdminRequest) (*models.Admin, error) {
	hash, err := HashPassword(request.Password, s.bcryptCost)
	if err != nil {
		return nil, utils.NewInternalError("Failed to create admin", err)
	}

	createdBy := actor.ID
	admin := &models.Admin{
		Name:      request.Name,
		Phone:     request.Phone,
		Email:     request.Email,
		Password:  hash,
		Role:      models.Role(request.Role),
		IsActive:  true,
		CreatedBy: &createdBy,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, utils.ErrDuplicateKey) {
			return nil, utils.NewDuplicateError("An admin with this phone number already exists")
		}
		return nil, utils.NewInternalError("Failed to create admin", err)
	}

	s.audit.LogAction("create_admin", "admin", &actor.ID, map[string]interface{}{
		"admin_id": admin.ID.Hex(),
		"role":     admin.Role,
	})
	return admin, nil
}

func (s *adminService) ChangeRole(ctx context.Context, actor *Actor, adminID primitive.ObjectID, role models.Role) (*models.Admin, error) {
	if !role.IsAdmin() {
		return nil, utils.NewValidationError("Role must be admin or super_admin")
	}
	if actor.ID == adminID {
		return nil, utils.NewForbiddenError("You cannot change your own role")
	}

	admin, err := s.admins.UpdateRole(ctx, adminID, role)
	if err != nil {
		return nil, notFoundOr(err, "Admin", "Failed to change role")
	}

	s.audit.LogAction("change_role", "admin", &actor.ID, map[string]interface{}{
		"admin_id": adminID.Hex(),
		"role":     role,
	})
	return admin, nil
}

// SeedSuperAdmin creates the bootstrap super admin unless an admin with the
// phone already exists.
func (s *adminService) SeedSuperAdmin(ctx context.Context, name, phone, password string) error {
	phone = utils.NormalizePhone(phone)
	if !utils.IsValidPhone(phone) {
		return utils.NewValidationError("Seed phone must be ten digits")
	}

	exists, err := s.admins.ExistsByPhone(ctx, phone)
	if err != nil {
		return utils.NewInternalError("Failed to seed super admin", err)
	}
	if exists {
		s.logger.Debug("Super admin already present, skipping seed")
		return nil
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return utils.NewInternalError("Failed to seed super admin", err)
	}
	if name == "" {
		name = "Super Admin"
	}

	admin := &models.Admin{
		Name:     name,
		Phone:    phone,
		Password: hash,
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		// another instance won the race
		if errors.Is(err, utils.ErrDuplicateKey) {
			return nil
		}
		return utils.NewInternalError("Failed to seed super admin", err)
	}

	s.logger.WithField("admin_id", admin.ID.Hex()).Info("Seeded super admin")
	return nil
}

func (s *adminService) ListDrivers(ctx context.Context, query *validators.DriverListQuery, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	filter := interfaces.DriverFilter{
		RegistrationStep:       query.RegistrationStep,
		IsApproved:             query.IsApproved,
		IsRegistrationComplete: query.IsRegistrationComplete,
		IsBlocked:              query.IsBlocked,
	}
	if query.Status != nil {
		status := models.DriverStatus(*query.Status)
		filter.Status = &status
	}

	drivers, total, err := s.drivers.List(ctx, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list drivers", err)
	}
	return drivers, total, nil
}

func (s *adminService) GetDriver(ctx context.Context, driverID primitive.ObjectID) (*models.Driver, error) {
	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, notFoundOr(err, "Driver", "Failed to get driver")
	}
	return driver, nil
}

func (s *adminService) ApproveDriver(ctx context.Context, actor *Actor, driverID primitive.ObjectID, request *validators.DriverApprovalRequest) (*models.Driver, error) {
	approved := *request.Approved

	driver, err := s.drivers.SetApproval(ctx, driverID, approved, actor.ID, request.Note, time.Now())
	if err != nil {
		return nil, notFoundOr(err, "Driver", "Failed to update approval")
	}

	s.notifier.DriverApprovalChanged(ctx, driver.Phone, approved, request.Note)
	s.events.Publish(ctx, newEvent(models.EventDriverApprovalChanged, "driver", driverID, actor,
		map[string]interface{}{"approved": approved, "note": request.Note}))
	s.audit.LogAction("approve_driver", "driver", &actor.ID, map[string]interface{}{
		"driver_id": driverID.Hex(),
		"approved":  approved,
	})

	return driver, nil
}

func (s *adminService) ListUsers(ctx context.Context, query *validators.UserListQuery, params *utils.PaginationParams) ([]*models.User, int64, error) {
	users, total, err := s.users.List(ctx, interfaces.UserFilter{
		IsBlocked: query.IsBlocked,
		IsProfile: query.IsProfile,
		IsActive:  query.IsActive,
	}, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list users", err)
	}
	return users, total, nil
}

func (s *adminService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User", "Failed to get user")
	}
	return user, nil
}

func (s *adminService) ListRestaurants(ctx context.Context, query *validators.RestaurantListQuery, params *utils.PaginationParams) ([]*models.Restaurant, int64, error) {
	restaurants, total, err := s.restaurants.List(ctx, interfaces.RestaurantFilter{
		IsActive:   query.IsActive,
		IsBlocked:  query.IsBlocked,
		IsVerified: query.IsVerified,
	}, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list restaurants", err)
	}
	return restaurants, total, nil
}

func (s *adminService) GetRestaurant(ctx context.Context, restaurantID primitive.ObjectID) (*models.Restaurant, error) {
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, notFoundOr(err, "Restaurant", "Failed to get restaurant")
	}
	return restaurant, nil
}
