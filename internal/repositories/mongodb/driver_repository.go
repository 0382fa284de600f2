package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/pkg/database"
)

type driverRepository struct {
	collection *mongo.Collection
}

func NewDriverRepository(db *mongo.Database) interfaces.DriverRepository {
	return &driverRepository{
		collection: db.Collection(database.CollectionDrivers),
	}
}

func (r *driverRepository) UpsertOTP(ctx context.Context, phone, code string, expiresAt time.Time) (bool, error) {
	return upsertOTP(ctx, r.collection, phone, code, expiresAt, bson.M{
		"is_verified":              false,
		"is_active":                true,
		"is_blocked":               false,
		"registration_step":        models.DriverStepVerified,
		"is_registration_complete": false,
		"registration":             models.RegistrationState{CompletedSections: []models.DriverSection{}},
		"is_approved":              false,
		"status":                   models.DriverStatusOffline,
	})
}

func (r *driverRepository) ConsumeOTP(ctx context.Context, phone, code string, now time.Time) (models.OTPPrincipal, error) {
	var driver models.Driver
	err := r.collection.FindOneAndUpdate(ctx, otpFilter(phone, code, now), otpConsumed(now), returnAfter()).Decode(&driver)
	if err != nil {
		return nil, translate(err, "verify driver otp")
	}
	return &driver, nil
}

func (r *driverRepository) GetAccountStatus(ctx context.Context, id primitive.ObjectID) (*models.AccountStatus, error) {
	return accountStatus(ctx, r.collection, id, models.RoleDriver)
}

func (r *driverRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	var driver models.Driver
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&driver); err != nil {
		return nil, translate(err, "get driver")
	}
	return &driver, nil
}

func (r *driverRepository) UpdateSection(ctx context.Context, id primitive.ObjectID, section models.DriverSection, fields map[string]interface{}) (*models.Driver, error) {
	set := bson.M{
		"registration_step": section.Step(),
		"updated_at":        time.Now(),
	}
	for k, v := range fields {
		set[string(section)+"."+k] = v
	}

	update := bson.M{
		"$set":      set,
		"$addToSet": bson.M{"registration.completed_sections": section},
	}

	var driver models.Driver
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter()).Decode(&driver); err != nil {
		return nil, translate(err, "update driver "+string(section))
	}
	return &driver, nil
}

func (r *driverRepository) CompleteRegistration(ctx context.Context, id primitive.ObjectID, forced bool) (*models.Driver, error) {
	update := bson.M{"$set": bson.M{
		"registration_step":            models.DriverStepComplete,
		"is_registration_complete":     true,
		"registration.forced_complete": forced,
		"updated_at":                   time.Now(),
	}}

	var driver models.Driver
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter()).Decode(&driver); err != nil {
		return nil, translate(err, "complete driver registration")
	}
	return &driver, nil
}

func (r *driverRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.DriverStatus, at time.Time) (*models.Driver, error) {
	update := bson.M{"$set": bson.M{
		"status":      status,
		"last_active": at,
		"updated_at":  at,
	}}

	var driver models.Driver
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter()).Decode(&driver); err != nil {
		return nil, translate(err, "update driver status")
	}
	return &driver, nil
}

func (r *driverRepository) SetApproval(ctx context.Context, id primitive.ObjectID, approved bool, by primitive.ObjectID, note string, at time.Time) (*models.Driver, error) {
	update := bson.M{"$set": bson.M{
		"is_approved":   approved,
		"approved_at":   at,
		"approved_by":   by,
		"approval_note": note,
		"updated_at":    at,
	}}

	var driver models.Driver
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter()).Decode(&driver); err != nil {
		return nil, translate(err, "update driver approval")
	}
	return &driver, nil
}

func (r *driverRepository) List(ctx context.Context, filter interfaces.DriverFilter, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	query := bson.M{}
	if filter.RegistrationStep != nil {
		query["registration_step"] = *filter.RegistrationStep
	}
	if filter.IsApproved != nil {
		query["is_approved"] = *filter.IsApproved
	}
	if filter.IsRegistrationComplete != nil {
		query["is_registration_complete"] = *filter.IsRegistrationComplete
	}
	if filter.IsBlocked != nil {
		query["is_blocked"] = *filter.IsBlocked
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	query = withSearch(query, params, "phone", "personal.first_name", "personal.last_name", "vehicle.vehicle_number")

	drivers, total, err := findPage[models.Driver](ctx, r.collection, query, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list drivers: %w", err)
	}
	return drivers, total, nil
}
