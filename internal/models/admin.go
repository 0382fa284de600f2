package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Admin struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name      string              `json:"name" bson:"name"`
	Phone     string              `json:"phone" bson:"phone"`
	Email     string              `json:"email,omitempty" bson:"email,omitempty"`
	Password  string              `json:"-" bson:"password"`
	Role      Role                `json:"role" bson:"role"`
	IsActive  bool                `json:"isActive" bson:"is_active"`
	IsBlocked bool                `json:"isBlocked" bson:"is_blocked"`
	CreatedBy *primitive.ObjectID `json:"createdBy,omitempty" bson:"created_by,omitempty"`
	LastLogin *time.Time          `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updated_at"`
}

func (a *Admin) PrincipalID() primitive.ObjectID { return a.ID }
func (a *Admin) PrincipalRole() Role             { return a.Role }

func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}
