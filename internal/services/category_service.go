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

type CategoryService interface {
	Create(ctx context.Context, restaurantID primitive.ObjectID, request *validators.CreateCategoryRequest, image *utils.UploadedFile) (*models.Category, error)
	Get(ctx context.Context, restaurantID, categoryID primitive.ObjectID) (*models.Category, error)
	Update(ctx context.Context, restaurantID, categoryID primitive.ObjectID, request *validators.UpdateCategoryRequest, image *utils.UploadedFile) (*models.Category, error)
	Delete(ctx context.Context, restaurantID, categoryID primitive.ObjectID) error
	List(ctx context.Context, restaurantID primitive.ObjectID, activeOnly bool, params *utils.PaginationParams) ([]*models.Category, int64, error)
}

type categoryService struct {
	categories interfaces.CategoryRepository
	items      interfaces.ItemRepository
	sink       AttachmentSink
	logger     *logger.Logger
}

func NewCategoryService(categories interfaces.CategoryRepository, items interfaces.ItemRepository, sink AttachmentSink, log *logger.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		items:      items,
		sink:       sink,
		logger:     log.WithField("service", "category"),
	}
}

func (s *categoryService) Create(ctx context.Context, restaurantID primitive.ObjectID, request *validators.CreateCategoryRequest, image *utils.UploadedFile) (*models.Category, error) {
	name := strings.TrimSpace(request.Name)
	if err := s.checkName(ctx, restaurantID, name, nil); err != nil {
		return nil, err
	}

	category := &models.Category{
		RestaurantID: restaurantID,
		Name:         name,
		Description:  strings.TrimSpace(request.Description),
		SortOrder:    request.SortOrder,
		IsActive:     boolOr(request.IsActive, true),
	}
	if image != nil {
		url, err := s.sink.Store(ctx, "categories", image)
		if err != nil {
			return nil, err
		}
		category.Image = url
	}

	if err := s.categories.Create(ctx, category); err != nil {
		s.sink.Discard(ctx, category.Image)
		return nil, storeError(err, "Category", "A category with this name already exists", "Failed to create category")
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, restaurantID, categoryID primitive.ObjectID) (*models.Category, error) {
	category, err := s.categories.Get(ctx, restaurantID, categoryID)
	if err != nil {
		return nil, notFoundOr(err, "Category", "Failed to get category")
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, restaurantID, categoryID primitive.ObjectID, request *validators.UpdateCategoryRequest, image *utils.UploadedFile) (*models.Category, error) {
	current, err := s.categories.Get(ctx, restaurantID, categoryID)
	if err != nil {
		return nil, notFoundOr(err, "Category", "Failed to update category")
	}

	fields := map[string]interface{}{}
	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name != current.Name {
			if err := s.checkName(ctx, restaurantID, name, &categoryID); err != nil {
				return nil, err
			}
		}
		fields["name"] = name
	}
	setString(fields, "description", request.Description)
	if request.SortOrder != nil {
		fields["sort_order"] = *request.SortOrder
	}
	if request.IsActive != nil {
		fields["is_active"] = *request.IsActive
	}

	var stored string
	if image != nil {
		if stored, err = s.sink.Store(ctx, "categories", image); err != nil {
			return nil, err
		}
		fields["image"] = stored
	}

	category, err := s.categories.Update(ctx, restaurantID, categoryID, fields)
	if err != nil {
		s.sink.Discard(ctx, stored)
		return nil, storeError(err, "Category", "A category with this name already exists", "Failed to update category")
	}
	if stored != "" {
		s.sink.Discard(ctx, current.Image)
	}

	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, restaurantID, categoryID primitive.ObjectID) error {
	current, err := s.categories.Get(ctx, restaurantID, categoryID)
	if err != nil {
		return notFoundOr(err, "Category", "Failed to delete category")
	}
	if err := s.categories.Delete(ctx, restaurantID, categoryID); err != nil {
		return notFoundOr(err, "Category", "Failed to delete category")
	}
	s.sink.Discard(ctx, current.Image)

	if count, err := s.items.CountByCategory(ctx, restaurantID, categoryID); err == nil && count > 0 {
		s.logger.WithField("category_id", categoryID.Hex()).
			WithField("items", count).
			Warn("Deleted category is still referenced by items")
	}
	return nil
}

func (s *categoryService) List(ctx context.Context, restaurantID primitive.ObjectID, activeOnly bool, params *utils.PaginationParams) ([]*models.Category, int64, error) {
	var filter models.CategoryFilter
	if activeOnly {
		active := true
		filter.IsActive = &active
	}
	categories, total, err := s.categories.List(ctx, restaurantID, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list categories", err)
	}
	return categories, total, nil
}

func (s *categoryService) checkName(ctx context.Context, restaurantID primitive.ObjectID, name string, excludeID *primitive.ObjectID) error {
	exists, err := s.categories.NameExists(ctx, restaurantID, name, excludeID)
	if err != nil {
		return utils.NewInternalError("Failed to check category name", err)
	}
	if exists {
		return utils.NewDuplicateError("A category with this name already exists")
	}
	return nil
}
