package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/utils"
	"mealhub/pkg/logger"
)

type cartFixture struct {
	service    CartService
	carts      *fakeCarts
	user       primitive.ObjectID
	restaurant primitive.ObjectID
	paneer     *models.Item
	naan       *models.Item
}

func newCartFixture() *cartFixture {
	restaurant := primitive.NewObjectID()
	paneer := &models.Item{ID: primitive.NewObjectID(), RestaurantID: restaurant, Name: "Paneer Tikka", Price: 249.5, IsAvailable: true, Images: []string{"https://cdn.example.com/paneer.jpg"}}
	naan := &models.Item{ID: primitive.NewObjectID(), RestaurantID: restaurant, Name: "Butter Naan", Price: 45, IsAvailable: true}
	carts := newFakeCarts()

	return &cartFixture{
		service: NewCartService(carts, &fakeItems{items: map[primitive.ObjectID]*models.Item{
			paneer.ID: paneer,
			naan.ID:   naan,
		}}, logger.NewDiscard()),
		carts:      carts,
		user:       primitive.NewObjectID(),
		restaurant: restaurant,
		paneer:     paneer,
		naan:       naan,
	}
}

func TestCartAddAndTotals(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()

	_, err := f.service.AddItem(ctx, f.user, f.restaurant, f.paneer.ID, 2)
	require.NoError(t, err)
	cart, err := f.service.AddItem(ctx, f.user, f.restaurant, f.naan.ID, 3)
	require.NoError(t, err)

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 499.0, cart.Items[0].ItemTotal)
	assert.Equal(t, "https://cdn.example.com/paneer.jpg", cart.Items[0].Image)
	assert.Equal(t, 634.0, cart.Subtotal)
	assert.Equal(t, int64(2), cart.Version)

	cart, err = f.service.SetItemQuantity(ctx, f.user, f.restaurant, f.naan.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 544.0, cart.Total)

	cart, err = f.service.RemoveItem(ctx, f.user, f.restaurant, f.paneer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 45.0, cart.Total)
}

func TestCartRejectsUnknownOrUnavailableItems(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()

	_, err := f.service.AddItem(ctx, f.user, primitive.NewObjectID(), f.paneer.ID, 1)
	assert.Equal(t, utils.KindNotFound, utils.AsAppError(err).Kind)

	f.naan.IsAvailable = false
	_, err = f.service.AddItem(ctx, f.user, f.restaurant, f.naan.ID, 1)
	assert.Equal(t, utils.KindValidation, utils.AsAppError(err).Kind)

	_, err = f.service.AddItem(ctx, f.user, f.restaurant, f.paneer.ID, 0)
	assert.Equal(t, utils.KindValidation, utils.AsAppError(err).Kind)

	_, err = f.service.SetItemQuantity(ctx, f.user, f.restaurant, f.paneer.ID, 2)
	assert.True(t, errors.Is(err, utils.ErrItemNotFound))
}

func TestCartRetriesVersionConflicts(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()

	f.carts.conflicts = utils.MaxCartWriteAttempts - 1
	cart, err := f.service.AddItem(ctx, f.user, f.restaurant, f.paneer.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 249.5, cart.Total)
	assert.Equal(t, utils.MaxCartWriteAttempts, f.carts.saves)

	f.carts.conflicts = utils.MaxCartWriteAttempts
	_, err = f.service.AddItem(ctx, f.user, f.restaurant, f.naan.ID, 1)
	assert.Equal(t, "CART_CONFLICT", utils.AsAppError(err).Code)

	stored, err := f.service.Get(ctx, f.user, f.restaurant)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

func TestCartGetEmptyAndClear(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture()

	empty, err := f.service.Get(ctx, f.user, f.restaurant)
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)

	cleared, err := f.service.Clear(ctx, f.user, f.restaurant)
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)
	assert.Zero(t, f.carts.saves)

	_, err = f.service.AddItem(ctx, f.user, f.restaurant, f.naan.ID, 2)
	require.NoError(t, err)
	cleared, err = f.service.Clear(ctx, f.user, f.restaurant)
	require.NoError(t, err)
	assert.Zero(t, cleared.Total)
}
