package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/pkg/logger"
)

type CartService interface {
	Get(ctx context.Context, userID, restaurantID primitive.ObjectID) (*models.Cart, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]*models.Cart, error)
	AddItem(ctx context.Context, userID, restaurantID, itemID primitive.ObjectID, quantity int) (*models.Cart, error)
	SetItemQuantity(ctx context.Context, userID, restaurantID, itemID primitive.ObjectID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, restaurantID, itemID primitive.ObjectID) (*models.Cart, error)
	Clear(ctx context.Context, userID, restaurantID primitive.ObjectID) (*models.Cart, error)
}

type cartService struct {
	carts  interfaces.CartRepository
	items  interfaces.ItemRepository
	logger *logger.Logger
}

func NewCartService(carts interfaces.CartRepository, items interfaces.ItemRepository, log *logger.Logger) CartService {
	return &cartService{
		carts:  carts,
		items:  items,
		logger: log.WithField("service", "cart"),
	}
}

func (s *cartService) Get(ctx context.Context, userID, restaurantID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.load(ctx, userID, restaurantID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to get cart", err)
	}
	return cart, nil
}

func (s *cartService) List(ctx context.Context, userID primitive.ObjectID) ([]*models.Cart, error) {
	carts, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to list carts", err)
	}
	return carts, nil
}

func (s *cartService) AddItem(ctx context.Context, userID, restaurantID, itemID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, utils.NewValidationError("Quantity must be at least 1")
	}

	item, err := s.items.Get(ctx, restaurantID, itemID)
	if err != nil {
		return nil, notFoundOr(err, "Item", "Failed to add item")
	}
	if !item.IsAvailable {
		return nil, utils.NewValidationError("Item is currently unavailable")
	}

	line := models.CartItem{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: quantity,
	}
	if len(item.Images) > 0 {
		line.Image = item.Images[0]
	}

	return s.mutate(ctx, userID, restaurantID, func(cart *models.Cart) (bool, error) {
		cart.AddItem(line)
		return true, nil
	})
}

func (s *cartService) SetItemQuantity(ctx context.Context, userID, restaurantID, itemID primitive.ObjectID, quantity int) (*models.Cart, error) {
	return s.mutate(ctx, userID, restaurantID, func(cart *models.Cart) (bool, error) {
		changed, err := cart.SetQuantity(itemID, quantity)
		if errors.Is(err, models.ErrCartItemNotFound) {
			return false, utils.ErrItemNotFound
		}
		return changed, err
	})
}

func (s *cartService) RemoveItem(ctx context.Context, userID, restaurantID, itemID primitive.ObjectID) (*models.Cart, error) {
	return s.SetItemQuantity(ctx, userID, restaurantID, itemID, 0)
}

func (s *cartService) Clear(ctx context.Context, userID, restaurantID primitive.ObjectID) (*models.Cart, error) {
	return s.mutate(ctx, userID, restaurantID, func(cart *models.Cart) (bool, error) {
		if len(cart.Items) == 0 {
			return false, nil
		}
		cart.Clear()
		return true, nil
	})
}

// mutate applies change to the latest cart and saves it with a version
// check, retrying a bounded number of times when another write lands first.
func (s *cartService) mutate(ctx context.Context, userID, restaurantID primitive.ObjectID, change func(*models.Cart) (bool, error)) (*models.Cart, error) {
	for attempt := 1; attempt <= utils.MaxCartWriteAttempts; attempt++ {
		cart, err := s.load(ctx, userID, restaurantID)
		if err != nil {
			return nil, utils.NewInternalError("Failed to load cart", err)
		}

		changed, err := change(cart)
		if err != nil {
			return nil, err
		}
		if !changed {
			return cart, nil
		}

		err = s.carts.Save(ctx, cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, utils.ErrVersionConflict) {
			return nil, utils.NewInternalError("Failed to save cart", err)
		}

		s.logger.WithField("user_id", userID.Hex()).
			WithField("attempt", attempt).
			Debug("Cart version conflict, retrying")
	}

	return nil, utils.NewConflictError("CART_CONFLICT", "Cart was updated concurrently, try again")
}

// load returns the stored cart or the empty shape for the pair.
func (s *cartService) load(ctx context.Context, userID, restaurantID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, userID, restaurantID)
	if err != nil {
		if errors.Is(err, utils.ErrRecordNotFound) {
			return models.NewCart(userID, restaurantID), nil
		}
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}
