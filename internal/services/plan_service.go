package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
	"mealhub/pkg/logger"
)

const duplicatePlanName = "A plan with this name already exists"

type PlanService interface {
	Create(ctx context.Context, restaurantID primitive.ObjectID, request *validators.CreatePlanRequest) (*models.Plan, error)
	Get(ctx context.Context, restaurantID, planID primitive.ObjectID) (*models.Plan, error)
	Update(ctx context.Context, restaurantID, planID primitive.ObjectID, request *validators.UpdatePlanRequest) (*models.Plan, error)
	Delete(ctx context.Context, restaurantID, planID primitive.ObjectID) error
	List(ctx context.Context, restaurantID primitive.ObjectID, activeOnly bool, params *utils.PaginationParams) ([]*models.Plan, int64, error)
}

type planService struct {
	plans  interfaces.PlanRepository
	logger *logger.Logger
}

func NewPlanService(plans interfaces.PlanRepository, log *logger.Logger) PlanService {
	return &planService{
		plans:  plans,
		logger: log.WithField("service", "plan"),
	}
}

func (s *planService) Create(ctx context.Context, restaurantID primitive.ObjectID, request *validators.CreatePlanRequest) (*models.Plan, error) {
	name := strings.TrimSpace(request.Name)
	if err := s.checkName(ctx, restaurantID, name, nil); err != nil {
		return nil, err
	}

	plan := &models.Plan{
		RestaurantID: restaurantID,
		Name:         name,
		Description:  strings.TrimSpace(request.Description),
		Price:        utils.RoundMoney(*request.Price),
		DurationDays: request.DurationDays,
		WeeklyMeals:  toWeeklyMeals(request.WeeklyMeals),
		Features:     request.Features,
		Image:        request.Image,
		IsActive:     boolOr(request.IsActive, true),
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, storeError(err, "Plan", duplicatePlanName, "Failed to create plan")
	}

	s.logger.WithField("plan_id", plan.ID.Hex()).Info("Plan created")
	return plan, nil
}

func (s *planService) Get(ctx context.Context, restaurantID, planID primitive.ObjectID) (*models.Plan, error) {
	plan, err := s.plans.Get(ctx, restaurantID, planID)
	if err != nil {
		return nil, notFoundOr(err, "Plan", "Failed to get plan")
	}
	return plan, nil
}

func (s *planService) Update(ctx context.Context, restaurantID, planID primitive.ObjectID, request *validators.UpdatePlanRequest) (*models.Plan, error) {
	current, err := s.plans.Get(ctx, restaurantID, planID)
	if err != nil {
		return nil, notFoundOr(err, "Plan", "Failed to update plan")
	}

	fields := map[string]interface{}{}
	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name != current.Name {
			if err := s.checkName(ctx, restaurantID, name, &planID); err != nil {
				return nil, err
			}
		}
		fields["name"] = name
	}
	setString(fields, "description", request.Description)
	setString(fields, "image", request.Image)
	if request.Price != nil {
		fields["price"] = utils.RoundMoney(*request.Price)
	}
	if request.DurationDays != nil {
		fields["duration_days"] = *request.DurationDays
	}
	if request.WeeklyMeals != nil {
		fields["weekly_meals"] = toWeeklyMeals(request.WeeklyMeals)
	}
	if request.Features != nil {
		fields["features"] = *request.Features
	}
	if request.IsActive != nil {
		fields["is_active"] = *request.IsActive
	}

	plan, err := s.plans.Update(ctx, restaurantID, planID, fields)
	if err != nil {
		return nil, storeError(err, "Plan", duplicatePlanName, "Failed to update plan")
	}
	return plan, nil
}

// Delete removes a plan only while nobody subscribes to it. The check and the
// delete are one conditional operation at the store.
func (s *planService) Delete(ctx context.Context, restaurantID, planID primitive.ObjectID) error {
	deleted, err := s.plans.DeleteUnsubscribed(ctx, restaurantID, planID)
	if err != nil {
		return utils.NewInternalError("Failed to delete plan", err)
	}
	if deleted {
		return nil
	}

	if _, err := s.plans.Get(ctx, restaurantID, planID); err != nil {
		return notFoundOr(err, "Plan", "Failed to delete plan")
	}
	return utils.ErrPlanHasSubscribers
}

func (s *planService) List(ctx context.Context, restaurantID primitive.ObjectID, activeOnly bool, params *utils.PaginationParams) ([]*models.Plan, int64, error) {
	var filter models.PlanFilter
	if activeOnly {
		active := true
		filter.IsActive = &active
	}
	plans, total, err := s.plans.List(ctx, restaurantID, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list plans", err)
	}
	return plans, total, nil
}

func (s *planService) checkName(ctx context.Context, restaurantID primitive.ObjectID, name string, excludeID *primitive.ObjectID) error {
	exists, err := s.plans.NameExists(ctx, restaurantID, name, excludeID)
	if err != nil {
		return utils.NewInternalError("Failed to check plan name", err)
	}
	if exists {
		return utils.NewDuplicateError(duplicatePlanName)
	}
	return nil
}

func toWeeklyMeals(in map[string]map[string][]validators.MealRequest) models.WeeklyMeals {
	out := make(models.WeeklyMeals, len(in))
	for day, slots := range in {
		mapped := make(map[models.MealType][]models.Meal, len(slots))
		for slot, meals := range slots {
			list := make([]models.Meal, len(meals))
			for i, m := range meals {
				list[i] = models.Meal{Name: strings.TrimSpace(m.Name), Calories: m.Calories}
			}
			mapped[models.MealType(slot)] = list
		}
		out[models.Weekday(strings.ToLower(day))] = mapped
	}
	return out
}
