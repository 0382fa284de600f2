package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
	"mealhub/pkg/logger"
)

type ItemService interface {
	Create(ctx context.Context, restaurantID primitive.ObjectID, request *validators.CreateItemRequest, images []*utils.UploadedFile) (*models.Item, error)
	Get(ctx context.Context, restaurantID, itemID primitive.ObjectID) (*models.Item, error)
	Update(ctx context.Context, restaurantID, itemID primitive.ObjectID, request *validators.UpdateItemRequest, images []*utils.UploadedFile) (*models.Item, error)
	Delete(ctx context.Context, restaurantID, itemID primitive.ObjectID) error
	List(ctx context.Context, restaurantID primitive.ObjectID, query *validators.ItemListQuery, params *utils.PaginationParams) ([]*models.Item, int64, error)

	// ListMenu returns the available items of a restaurant.
	ListMenu(ctx context.Context, restaurantID primitive.ObjectID, query *validators.ItemListQuery, params *utils.PaginationParams) ([]*models.Item, int64, error)
}

type itemService struct {
	items      interfaces.ItemRepository
	categories interfaces.CategoryRepository
	sink       AttachmentSink
	logger     *logger.Logger
}

func NewItemService(items interfaces.ItemRepository, categories interfaces.CategoryRepository, sink AttachmentSink, log *logger.Logger) ItemService {
	return &itemService{
		items:      items,
		categories: categories,
		sink:       sink,
		logger:     log.WithField("service", "item"),
	}
}

func (s *itemService) Create(ctx context.Context, restaurantID primitive.ObjectID, request *validators.CreateItemRequest, images []*utils.UploadedFile) (*models.Item, error) {
	categoryID, err := s.ownCategory(ctx, restaurantID, request.CategoryID)
	if err != nil {
		return nil, err
	}

	urls, err := s.storeImages(ctx, images)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		RestaurantID:    restaurantID,
		CategoryID:      categoryID,
		Name:            strings.TrimSpace(request.Name),
		Description:     strings.TrimSpace(request.Description),
		Price:           utils.RoundMoney(*request.Price),
		IsVegetarian:    boolOr(request.IsVegetarian, false),
		IsAvailable:     boolOr(request.IsAvailable, true),
		PreparationTime: request.PreparationTime,
		Tags:            request.Tags,
		Images:          urls,
	}
	if err := s.items.Create(ctx, item); err != nil {
		s.discardAll(ctx, urls)
		return nil, utils.NewInternalError("Failed to create item", err)
	}

	return item, nil
}

func (s *itemService) Get(ctx context.Context, restaurantID, itemID primitive.ObjectID) (*models.Item, error) {
	item, err := s.items.Get(ctx, restaurantID, itemID)
	if err != nil {
		return nil, notFoundOr(err, "Item", "Failed to get item")
	}
	return item, nil
}

func (s *itemService) Update(ctx context.Context, restaurantID, itemID primitive.ObjectID, request *validators.UpdateItemRequest, images []*utils.UploadedFile) (*models.Item, error) {
	current, err := s.items.Get(ctx, restaurantID, itemID)
	if err != nil {
		return nil, notFoundOr(err, "Item", "Failed to update item")
	}

	fields := map[string]interface{}{}
	setString(fields, "name", request.Name)
	setString(fields, "description", request.Description)
	if request.Price != nil {
		fields["price"] = utils.RoundMoney(*request.Price)
	}
	if request.CategoryID != nil {
		categoryID, err := s.ownCategory(ctx, restaurantID, *request.CategoryID)
		if err != nil {
			return nil, err
		}
		fields["category_id"] = categoryID
	}
	if request.IsVegetarian != nil {
		fields["is_vegetarian"] = *request.IsVegetarian
	}
	if request.IsAvailable != nil {
		fields["is_available"] = *request.IsAvailable
	}
	if request.PreparationTime != nil {
		fields["preparation_time"] = *request.PreparationTime
	}
	if request.Tags != nil {
		fields["tags"] = *request.Tags
	}

	// uploaded images replace the gallery
	var urls []string
	if len(images) > 0 {
		if urls, err = s.storeImages(ctx, images); err != nil {
			return nil, err
		}
		fields["images"] = urls
	}

	item, err := s.items.Update(ctx, restaurantID, itemID, fields)
	if err != nil {
		s.discardAll(ctx, urls)
		return nil, notFoundOr(err, "Item", "Failed to update item")
	}
	if len(urls) > 0 {
		s.discardAll(ctx, current.Images)
	}

	return item, nil
}

func (s *itemService) Delete(ctx context.Context, restaurantID, itemID primitive.ObjectID) error {
	current, err := s.items.Get(ctx, restaurantID, itemID)
	if err != nil {
		return notFoundOr(err, "Item", "Failed to delete item")
	}
	if err := s.items.Delete(ctx, restaurantID, itemID); err != nil {
		return notFoundOr(err, "Item", "Failed to delete item")
	}
	s.discardAll(ctx, current.Images)
	return nil
}

func (s *itemService) List(ctx context.Context, restaurantID primitive.ObjectID, query *validators.ItemListQuery, params *utils.PaginationParams) ([]*models.Item, int64, error) {
	filter := models.ItemFilter{
		IsAvailable:  query.IsAvailable,
		IsVegetarian: query.IsVegetarian,
	}
	if query.CategoryID != "" {
		categoryID, err := primitive.ObjectIDFromHex(query.CategoryID)
		if err != nil {
			return nil, 0, utils.NewValidationError(utils.ErrInvalidID, "category")
		}
		filter.CategoryID = &categoryID
	}

	items, total, err := s.items.List(ctx, restaurantID, filter, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list items", err)
	}
	return items, total, nil
}

func (s *itemService) ListMenu(ctx context.Context, restaurantID primitive.ObjectID, query *validators.ItemListQuery, params *utils.PaginationParams) ([]*models.Item, int64, error) {
	available := true
	query.IsAvailable = &available
	return s.List(ctx, restaurantID, query, params)
}

func (s *itemService) ownCategory(ctx context.Context, restaurantID primitive.ObjectID, hex string) (primitive.ObjectID, error) {
	categoryID, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, utils.NewValidationError(utils.ErrInvalidID, "categoryId")
	}
	if _, err := s.categories.Get(ctx, restaurantID, categoryID); err != nil {
		if errors.Is(err, utils.ErrRecordNotFound) {
			return primitive.NilObjectID, utils.NewValidationError("Category does not belong to this restaurant", "categoryId")
		}
		return primitive.NilObjectID, utils.NewInternalError("Failed to check category", err)
	}
	return categoryID, nil
}

func (s *itemService) storeImages(ctx context.Context, images []*utils.UploadedFile) ([]string, error) {
	if len(images) > utils.MaxFilesPerRequest {
		return nil, utils.NewValidationError("Too many images in one request")
	}
	urls := make([]string, 0, len(images))
	for _, image := range images {
		url, err := s.sink.Store(ctx, "items", image)
		if err != nil {
			s.discardAll(ctx, urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *itemService) discardAll(ctx context.Context, urls []string) {
	for _, url := range urls {
		s.sink.Discard(ctx, url)
	}
}
