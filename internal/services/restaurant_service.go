package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
	"mealhub/pkg/logger"
)

type RestaurantService interface {
	GetProfile(ctx context.Context, restaurantID primitive.ObjectID) (*models.Restaurant, error)
	UpdateProfile(ctx context.Context, restaurantID primitive.ObjectID, request *validators.RestaurantProfileRequest, files map[string]*utils.UploadedFile, gallery []*utils.UploadedFile) (*models.Restaurant, error)
	AddImages(ctx context.Context, restaurantID primitive.ObjectID, images []*utils.UploadedFile) (*models.Restaurant, error)
	RemoveImage(ctx context.Context, restaurantID primitive.ObjectID, url string) (*models.Restaurant, error)

	// Customer facing
	GetPublic(ctx context.Context, restaurantID primitive.ObjectID) (*models.Restaurant, error)
	ListPublic(ctx context.Context, params *utils.PaginationParams) ([]*models.Restaurant, int64, error)
}

type restaurantService struct {
	restaurants interfaces.RestaurantRepository
	sink        AttachmentSink
	logger      *logger.Logger
}

func NewRestaurantService(restaurants interfaces.RestaurantRepository, sink AttachmentSink, log *logger.Logger) RestaurantService {
	return &restaurantService{
		restaurants: restaurants,
		sink:        sink,
		logger:      log.WithField("service", "restaurant"),
	}
}

func (s *restaurantService) GetProfile(ctx context.Context, restaurantID primitive.ObjectID) (*models.Restaurant, error) {
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, notFoundOr(err, "Restaurant", "Failed to get restaurant")
	}
	return restaurant, nil
}

func (s *restaurantService) UpdateProfile(ctx context.Context, restaurantID primitive.ObjectID, request *validators.RestaurantProfileRequest, files map[string]*utils.UploadedFile, gallery []*utils.UploadedFile) (*models.Restaurant, error) {
	current, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, notFoundOr(err, "Restaurant", "Failed to update restaurant")
	}

	fields := map[string]interface{}{}
	setString(fields, "name", request.Name)
	setString(fields, "owner_name", request.OwnerName)
	setString(fields, "email", request.Email)
	setString(fields, "description", request.Description)
	setString(fields, "opening_time", request.OpeningTime)
	setString(fields, "closing_time", request.ClosingTime)
	if request.CuisineTypes != nil {
		fields["cuisine_types"] = request.CuisineTypes
	}
	if request.Address != nil {
		fields["address"] = request.Address.ToModel()
	}
	if request.IsOpen != nil {
		fields["is_open"] = *request.IsOpen
	}

	var stored, replaced []string
	slots := []struct {
		form, field, current string
	}{
		{"logo", "logo", current.Logo},
		{"coverImage", "cover_image", current.CoverImage},
	}
	for _, slot := range slots {
		file := files[slot.form]
		if file == nil {
			continue
		}
		url, err := s.sink.Store(ctx, "restaurants/"+slot.form, file)
		if err != nil {
			s.discardAll(ctx, stored)
			return nil, err
		}
		stored = append(stored, url)
		fields[slot.field] = url
		if slot.current != "" {
			replaced = append(replaced, slot.current)
		}
	}

	restaurant, err := s.restaurants.Update(ctx, restaurantID, fields)
	if err != nil {
		s.discardAll(ctx, stored)
		return nil, notFoundOr(err, "Restaurant", "Failed to update restaurant")
	}
	s.discardAll(ctx, replaced)

	if len(gallery) > 0 {
		if restaurant, err = s.AddImages(ctx, restaurantID, gallery); err != nil {
			return nil, err
		}
	}

	s.logger.WithPrincipal(string(models.RoleRestaurant), restaurantID).Info("Restaurant profile updated")
	return restaurant, nil
}

func (s *restaurantService) AddImages(ctx context.Context, restaurantID primitive.ObjectID, images []*utils.UploadedFile) (*models.Restaurant, error) {
	if len(images) == 0 {
		return nil, utils.NewValidationError("At least one image is required")
	}
	if len(images) > utils.MaxFilesPerRequest {
		return nil, utils.NewValidationError("Too many images in one request")
	}

	urls := make([]string, 0, len(images))
	for _, image := range images {
		url, err := s.sink.Store(ctx, "restaurants/gallery", image)
		if err != nil {
			s.discardAll(ctx, urls)
			return nil, err
		}
		urls = append(urls, url)
	}

	restaurant, err := s.restaurants.AddImages(ctx, restaurantID, urls)
	if err != nil {
		s.discardAll(ctx, urls)
		return nil, notFoundOr(err, "Restaurant", "Failed to add images")
	}
	return restaurant, nil
}

func (s *restaurantService) RemoveImage(ctx context.Context, restaurantID primitive.ObjectID, url string) (*models.Restaurant, error) {
	restaurant, removed, err := s.restaurants.RemoveImage(ctx, restaurantID, url)
	if err != nil {
		return nil, notFoundOr(err, "Restaurant", "Failed to remove image")
	}
	if !removed {
		return nil, utils.NewNotFoundError("Image")
	}
	s.sink.Discard(ctx, url)
	return restaurant, nil
}

func (s *restaurantService) GetPublic(ctx context.Context, restaurantID primitive.ObjectID) (*models.Restaurant, error) {
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, notFoundOr(err, "Restaurant", "Failed to get restaurant")
	}
	if !restaurant.IsActive || restaurant.IsBlocked {
		return nil, utils.NewNotFoundError("Restaurant")
	}
	return restaurant, nil
}

func (s *restaurantService) ListPublic(ctx context.Context, params *utils.PaginationParams) ([]*models.Restaurant, int64, error) {
	active, blocked := true, false
	restaurants, total, err := s.restaurants.List(ctx, interfaces.RestaurantFilter{IsActive: &active, IsBlocked: &blocked}, params)
	if err != nil {
		return nil, 0, utils.NewInternalError("Failed to list restaurants", err)
	}
	return restaurants, total, nil
}

func (s *restaurantService) discardAll(ctx context.Context, urls []string) {
	for _, url := range urls {
		s.sink.Discard(ctx, url)
	}
}
