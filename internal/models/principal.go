package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleRestaurant Role = "restaurant"
	RoleDriver     Role = "driver"
	RoleUser       Role = "user"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleRestaurant, RoleDriver, RoleUser:
		return true
	}
	return false
}

// Principal is implemented by every account type that can hold a token.
type Principal interface {
	PrincipalID() primitive.ObjectID
	PrincipalRole() Role
}

// OTPPrincipal is a principal that signs in with a one-time code and
// completes its profile afterwards.
type OTPPrincipal interface {
	Principal
	IsNewUser() bool
	NeedsProfileCompletion() bool
}

// AccountStatus is the slice of a principal the authorizer needs.
type AccountStatus struct {
	ID        primitive.ObjectID `bson:"_id"`
	Role      Role               `bson:"role"`
	IsActive  bool               `bson:"is_active"`
	IsBlocked bool               `bson:"is_blocked"`
}

// PasswordCredential is what password login reads for a phone.
type PasswordCredential struct {
	ID           primitive.ObjectID `bson:"_id"`
	Role         Role               `bson:"role"`
	PasswordHash string             `bson:"password"`
	IsActive     bool               `bson:"is_active"`
	IsBlocked    bool               `bson:"is_blocked"`
}

type OTPCode struct {
	Code      string    `bson:"code"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type Address struct {
	Street   string `json:"street,omitempty" bson:"street,omitempty"`
	City     string `json:"city,omitempty" bson:"city,omitempty"`
	State    string `json:"state,omitempty" bson:"state,omitempty"`
	Pincode  string `json:"pincode,omitempty" bson:"pincode,omitempty"`
	Landmark string `json:"landmark,omitempty" bson:"landmark,omitempty"`
}
