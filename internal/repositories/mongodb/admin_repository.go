package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/pkg/database"
)

type adminRepository struct {
	collection *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) interfaces.AdminRepository {
	return &adminRepository{
		collection: db.Collection(database.CollectionAdmins),
	}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	now := time.Now()
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, admin)
	return translate(err, "create admin")
}

func (r *adminRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var admin models.Admin
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&admin); err != nil {
		return nil, translate(err, "get admin")
	}
	return &admin, nil
}

func (r *adminRepository) GetPrincipal(ctx context.Context, id primitive.ObjectID) (models.Principal, error) {
	return r.GetByID(ctx, id)
}

func (r *adminRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"phone": phone})
	if err != nil {
		return false, translate(err, "check admin phone")
	}
	return count > 0, nil
}

func (r *adminRepository) GetCredential(ctx context.Context, phone string) (*models.PasswordCredential, error) {
	return passwordCredential(ctx, r.collection, phone, models.RoleAdmin)
}

func (r *adminRepository) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return touchLogin(ctx, r.collection, id, at)
}

func (r *adminRepository) GetAccountStatus(ctx context.Context, id primitive.ObjectID) (*models.AccountStatus, error) {
	return accountStatus(ctx, r.collection, id, "")
}

func (r *adminRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.Admin, error) {
	update := bson.M{"$set": bson.M{"role": role, "updated_at": time.Now()}}

	var admin models.Admin
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter()).Decode(&admin); err != nil {
		return nil, translate(err, "update admin role")
	}
	return &admin, nil
}

func (r *adminRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Admin, int64, error) {
	query := withSearch(bson.M{}, params, "name", "phone", "email")
	return findPage[models.Admin](ctx, r.collection, query, params)
}
