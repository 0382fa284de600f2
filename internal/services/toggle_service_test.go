package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/utils"
	"mealhub/pkg/database"
	"mealhub/pkg/logger"
)

type toggleFixture struct {
	service  ToggleService
	toggles  *fakeToggles
	reviews  *fakeReviews
	drivers  *fakeDrivers
	notifier *recordingNotifier
	bus      *recordingBus
}

func newToggleFixture() *toggleFixture {
	f := &toggleFixture{
		toggles:  &fakeToggles{values: map[string]bool{}},
		reviews:  &fakeReviews{reviews: map[primitive.ObjectID]*models.Review{}},
		drivers:  &fakeDrivers{drivers: map[primitive.ObjectID]*models.Driver{}},
		notifier: newRecordingNotifier(),
		bus:      &recordingBus{},
	}
	f.service = NewToggleService(f.toggles, f.reviews, nil, f.drivers, nil, f.notifier, f.bus, logger.NewDiscard())
	return f
}

func TestToggleOwnerScopedEntity(t *testing.T) {
	ctx := context.Background()
	f := newToggleFixture()
	restaurant := &Actor{ID: primitive.NewObjectID(), Role: models.RoleRestaurant}
	itemID := primitive.NewObjectID()

	result, err := f.service.Toggle(ctx, restaurant, "item", itemID, "isAvailable")
	require.NoError(t, err)
	assert.True(t, result.Value)

	result, err = f.service.Toggle(ctx, restaurant, "item", itemID, "isAvailable")
	require.NoError(t, err)
	assert.False(t, result.Value)

	target := f.toggles.targets[0]
	assert.Equal(t, database.CollectionItems, target.Collection)
	assert.Equal(t, "is_available", target.Field)
	assert.Equal(t, map[string]interface{}{"restaurant_id": restaurant.ID}, target.Scope)

	_, err = f.service.Toggle(ctx, &Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, "item", itemID, "isAvailable")
	assert.Equal(t, utils.KindForbidden, utils.AsAppError(err).Kind)
}

func TestToggleRejectsUnknownEntityAndField(t *testing.T) {
	ctx := context.Background()
	f := newToggleFixture()
	admin := &Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	_, err := f.service.Toggle(ctx, admin, "order", primitive.NewObjectID(), "isActive")
	assert.Equal(t, utils.KindValidation, utils.AsAppError(err).Kind)

	_, err = f.service.Toggle(ctx, admin, "driver", primitive.NewObjectID(), "isApproved")
	appErr := utils.AsAppError(err)
	assert.Equal(t, utils.KindValidation, appErr.Kind)
	assert.Equal(t, []string{"allowed: isActive, isBlocked"}, appErr.Details)
	assert.Empty(t, f.toggles.targets)
}

func TestToggleAdminAccounts(t *testing.T) {
	ctx := context.Background()
	f := newToggleFixture()
	super := &Actor{ID: primitive.NewObjectID(), Role: models.RoleSuperAdmin}

	_, err := f.service.Toggle(ctx, &Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, "admin", primitive.NewObjectID(), "isActive")
	assert.Equal(t, utils.KindForbidden, utils.AsAppError(err).Kind)

	_, err = f.service.Toggle(ctx, super, "admin", super.ID, "isActive")
	assert.Equal(t, utils.KindForbidden, utils.AsAppError(err).Kind)

	result, err := f.service.Toggle(ctx, super, "admin", primitive.NewObjectID(), "isActive")
	require.NoError(t, err)
	assert.True(t, result.Value)
}

func TestToggleReviewAuditAndDeleted(t *testing.T) {
	ctx := context.Background()
	f := newToggleFixture()
	admin := &Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	open := &models.Review{ID: primitive.NewObjectID()}
	deleted := &models.Review{ID: primitive.NewObjectID(), IsDeleted: true}
	f.reviews.reviews[open.ID] = open
	f.reviews.reviews[deleted.ID] = deleted

	_, err := f.service.Toggle(ctx, admin, "review", open.ID, "isFeatured")
	require.NoError(t, err)
	target := f.toggles.targets[0]
	assert.Equal(t, "featured_updated_by", target.AuditBy)
	assert.Equal(t, admin.ID, target.ActorID)

	_, err = f.service.Toggle(ctx, admin, "review", deleted.ID, "isVisible")
	assert.Equal(t, "REVIEW_DELETED", utils.AsAppError(err).Code)

	_, err = f.service.Toggle(ctx, admin, "review", primitive.NewObjectID(), "isVisible")
	assert.Equal(t, utils.KindNotFound, utils.AsAppError(err).Kind)
}

func TestToggleBlockNotifiesDriver(t *testing.T) {
	ctx := context.Background()
	f := newToggleFixture()
	driverID := primitive.NewObjectID()
	f.drivers.drivers[driverID] = &models.Driver{ID: driverID, Phone: "9876543210"}

	_, err := f.service.Toggle(ctx, &Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, "driver", driverID, "isBlocked")
	require.NoError(t, err)

	assert.True(t, f.notifier.blocked["9876543210"])
	assert.Equal(t, []models.EventType{models.EventAccountBlocked}, f.bus.types())
}

func TestToggleMissingEntity(t *testing.T) {
	f := newToggleFixture()
	f.toggles.missing = true

	_, err := f.service.Toggle(context.Background(), &Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}, "user", primitive.NewObjectID(), "isActive")
	appErr := utils.AsAppError(err)
	assert.Equal(t, utils.KindNotFound, appErr.Kind)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestToggleFields(t *testing.T) {
	assert.Equal(t, []string{"isActive", "isBlocked", "isVerified"}, ToggleFields("restaurant"))
	assert.Nil(t, ToggleFields("order"))
}
