package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a customer of the marketplace.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Phone        string             `json:"phone" bson:"phone"`
	OTP          *OTPCode           `json:"-" bson:"otp,omitempty"`
	IsVerified   bool               `json:"isVerified" bson:"is_verified"`
	IsActive     bool               `json:"isActive" bson:"is_active"`
	IsBlocked    bool               `json:"isBlocked" bson:"is_blocked"`
	FirstName    string             `json:"firstName,omitempty" bson:"first_name,omitempty"`
	LastName     string             `json:"lastName,omitempty" bson:"last_name,omitempty"`
	Email        string             `json:"email,omitempty" bson:"email,omitempty"`
	Gender       string             `json:"gender,omitempty" bson:"gender,omitempty"`
	DateOfBirth  *time.Time         `json:"dateOfBirth,omitempty" bson:"date_of_birth,omitempty"`
	Address      *Address           `json:"address,omitempty" bson:"address,omitempty"`
	ProfileImage string             `json:"profileImage,omitempty" bson:"profile_image,omitempty"`
	IsProfile    bool               `json:"isProfile" bson:"is_profile"`
	LastLogin    *time.Time         `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updated_at"`
}

func (u *User) PrincipalID() primitive.ObjectID { return u.ID }
func (u *User) PrincipalRole() Role             { return RoleUser }

func (u *User) IsNewUser() bool {
	return u.FirstName == "" && u.LastName == ""
}

func (u *User) NeedsProfileCompletion() bool {
	return !u.IsProfile
}

// HasName reports whether both name parts are set, which is what marks a
// customer profile as complete.
func (u *User) HasName() bool {
	return u.FirstName != "" && u.LastName != ""
}
