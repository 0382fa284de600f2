package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/pkg/database"
	"mealhub/pkg/logger"
)

type ToggleService interface {
	// Toggle flips one boolean field of one entity and returns the new value.
	Toggle(ctx context.Context, actor *Actor, entity string, id primitive.ObjectID, field string) (*ToggleResult, error)
}

type ToggleResult struct {
	Entity string             `json:"entity"`
	ID     primitive.ObjectID `json:"id"`
	Field  string             `json:"field"`
	Value  bool               `json:"value"`
}

type toggleScope int

const (
	scopeOwner toggleScope = iota
	scopeAdmin
	scopeSuperAdmin
)

// toggleField is a toggleable field: its stored name and, for audited
// fields, where the actor and time are recorded.
type toggleField struct {
	stored  string
	auditBy string
	auditAt string
}

type toggleRule struct {
	collection string
	scope      toggleScope
	fields     map[string]toggleField
	// principal is set for accounts that receive a notice when blocked
	principal models.Role
}

var toggleRules = map[string]toggleRule{
	"item": {
		collection: database.CollectionItems,
		scope:      scopeOwner,
		fields: map[string]toggleField{
			"isAvailable":  {stored: "is_available"},
			"isVegetarian": {stored: "is_vegetarian"},
		},
	},
	"category": {
		collection: database.CollectionCategories,
		scope:      scopeOwner,
		fields:     map[string]toggleField{"isActive": {stored: "is_active"}},
	},
	"plan": {
		collection: database.CollectionPlans,
		scope:      scopeOwner,
		fields:     map[string]toggleField{"isActive": {stored: "is_active"}},
	},
	"offer": {
		collection: database.CollectionOffers,
		scope:      scopeOwner,
		fields:     map[string]toggleField{"isActive": {stored: "is_active"}},
	},
	"review": {
		collection: database.CollectionReviews,
		scope:      scopeAdmin,
		fields: map[string]toggleField{
			"isVisible":  {stored: "is_visible", auditBy: "visibility_updated_by", auditAt: "visibility_updated_at"},
			"isFeatured": {stored: "is_featured", auditBy: "featured_updated_by", auditAt: "featured_updated_at"},
		},
	},
	"restaurant": {
		collection: database.CollectionRestaurants,
		scope:      scopeAdmin,
		principal:  models.RoleRestaurant,
		fields: map[string]toggleField{
			"isActive":   {stored: "is_active"},
			"isBlocked":  {stored: "is_blocked"},
			"isVerified": {stored: "is_verified"},
		},
	},
	"driver": {
		collection: database.CollectionDrivers,
		scope:      scopeAdmin,
		principal:  models.RoleDriver,
		fields: map[string]toggleField{
			"isActive":  {stored: "is_active"},
			"isBlocked": {stored: "is_blocked"},
		},
	},
	"user": {
		collection: database.CollectionUsers,
		scope:      scopeAdmin,
		principal:  models.RoleUser,
		fields: map[string]toggleField{
			"isActive":  {stored: "is_active"},
			"isBlocked": {stored: "is_blocked"},
		},
	},
	"admin": {
		collection: database.CollectionAdmins,
		scope:      scopeSuperAdmin,
		fields:     map[string]toggleField{"isActive": {stored: "is_active"}},
	},
}

// ToggleFields lists the toggleable fields of an entity, sorted.
func ToggleFields(entity string) []string {
	rule, ok := toggleRules[entity]
	if !ok {
		return nil
	}
	fields := make([]string, 0, len(rule.fields))
	for f := range rule.fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

type toggleService struct {
	toggles     interfaces.ToggleRepository
	reviews     interfaces.ReviewRepository
	restaurants interfaces.RestaurantRepository
	drivers     interfaces.DriverRepository
	users       interfaces.UserRepository
	notifier    NotificationService
	events      EventBus
	audit       *logger.AuditLogger
	logger      *logger.Logger
}

func NewToggleService(
	toggles interfaces.ToggleRepository,
	reviews interfaces.ReviewRepository,
	restaurants interfaces.RestaurantRepository,
	drivers interfaces.DriverRepository,
	users interfaces.UserRepository,
	notifier NotificationService,
	events EventBus,
	log *logger.Logger,
) ToggleService {
	return &toggleService{
		toggles:     toggles,
		reviews:     reviews,
		restaurants: restaurants,
		drivers:     drivers,
		users:       users,
		notifier:    notifier,
		events:      events,
		audit:       logger.NewAuditLogger(log),
		logger:      log.WithField("service", "toggle"),
	}
}

func (s *toggleService) Toggle(ctx context.Context, actor *Actor, entity string, id primitive.ObjectID, field string) (*ToggleResult, error) {
	rule, ok := toggleRules[entity]
	if !ok {
		return nil, utils.NewValidationError(fmt.Sprintf("Unknown entity %q", entity))
	}
	spec, ok := rule.fields[field]
	if !ok {
		return nil, utils.NewValidationError(
			fmt.Sprintf("Field %q cannot be toggled on %s", field, entity),
			"allowed: "+strings.Join(ToggleFields(entity), ", "),
		)
	}

	target := interfaces.ToggleTarget{
		Collection: rule.collection,
		ID:         id,
		Field:      spec.stored,
		AuditBy:    spec.auditBy,
		AuditAt:    spec.auditAt,
		ActorID:    actor.ID,
	}

	switch rule.scope {
	case scopeOwner:
		if actor.Role != models.RoleRestaurant {
			return nil, utils.NewForbiddenError(utils.ErrForbidden)
		}
		target.Scope = map[string]interface{}{"restaurant_id": actor.ID}
	case scopeAdmin:
		if !actor.Role.IsAdmin() {
			return nil, utils.NewForbiddenError(utils.ErrForbidden)
		}
	case scopeSuperAdmin:
		if actor.Role != models.RoleSuperAdmin {
			return nil, utils.NewForbiddenError("Only a super admin can manage admin accounts")
		}
		if actor.ID == id {
			return nil, utils.NewForbiddenError("You cannot deactivate your own account")
		}
	}

	if entity == "review" {
		if err := s.checkReviewOpen(ctx, id); err != nil {
			return nil, err
		}
		target.Scope = map[string]interface{}{"is_deleted": false}
	}

	value, err := s.toggles.Toggle(ctx, target, time.Now())
	if err != nil {
		if errors.Is(err, utils.ErrRecordNotFound) {
			if entity == "review" {
				// deleted between the check and the flip
				return nil, reviewDeletedError()
			}
			return nil, utils.NewNotFoundError(strings.ToUpper(entity[:1]) + entity[1:])
		}
		return nil, utils.NewInternalError("Failed to toggle "+field, err)
	}

	s.audit.LogAction("toggle_"+field, entity, &actor.ID, map[string]interface{}{
		"target_id": id.Hex(),
		"value":     value,
	})

	if rule.principal != "" && field == "isBlocked" {
		s.announceBlock(ctx, actor, rule.principal, id, value)
	}

	return &ToggleResult{Entity: entity, ID: id, Field: field, Value: value}, nil
}

func (s *toggleService) checkReviewOpen(ctx context.Context, id primitive.ObjectID) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Review", "Failed to load review")
	}
	if review.IsDeleted {
		return reviewDeletedError()
	}
	return nil
}

func (s *toggleService) announceBlock(ctx context.Context, actor *Actor, role models.Role, id primitive.ObjectID, blocked bool) {
	var phone string
	switch role {
	case models.RoleRestaurant:
		if r, err := s.restaurants.GetByID(ctx, id); err == nil {
			phone = r.Phone
		}
	case models.RoleDriver:
		if d, err := s.drivers.GetByID(ctx, id); err == nil {
			phone = d.Phone
		}
	case models.RoleUser:
		if u, err := s.users.GetByID(ctx, id); err == nil {
			phone = u.Phone
		}
	}

	if phone != "" {
		s.notifier.AccountBlocked(ctx, phone, blocked)
	} else {
		s.logger.WithField("principal_id", id.Hex()).Warn("Could not load phone for block notice")
	}

	s.events.Publish(ctx, newEvent(models.EventAccountBlocked, string(role), id, actor,
		map[string]interface{}{"blocked": blocked}))
}

func reviewDeletedError() *utils.AppError {
	return utils.NewConflictError("REVIEW_DELETED", "Review has been deleted")
}
