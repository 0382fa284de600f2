package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Restaurant struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Phone        string             `json:"phone" bson:"phone"`
	Password     string             `json:"-" bson:"password"`
	Role         Role               `json:"role" bson:"role"`
	Name         string             `json:"name" bson:"name"`
	OwnerName    string             `json:"ownerName,omitempty" bson:"owner_name,omitempty"`
	Email        string             `json:"email,omitempty" bson:"email,omitempty"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	CuisineTypes []string           `json:"cuisineTypes" bson:"cuisine_types"`
	Address      *Address           `json:"address,omitempty" bson:"address,omitempty"`
	OpeningTime  string             `json:"openingTime,omitempty" bson:"opening_time,omitempty"`
	ClosingTime  string             `json:"closingTime,omitempty" bson:"closing_time,omitempty"`
	IsOpen       bool               `json:"isOpen" bson:"is_open"`
	Logo         string             `json:"logo,omitempty" bson:"logo,omitempty"`
	CoverImage   string             `json:"coverImage,omitempty" bson:"cover_image,omitempty"`
	Images       []string           `json:"images" bson:"images"`
	Rating       float64            `json:"rating" bson:"rating"`
	TotalReviews int                `json:"totalReviews" bson:"total_reviews"`
	IsActive     bool               `json:"isActive" bson:"is_active"`
	IsBlocked    bool               `json:"isBlocked" bson:"is_blocked"`
	IsVerified   bool               `json:"isVerified" bson:"is_verified"`
	LastLogin    *time.Time         `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updated_at"`
}

func (r *Restaurant) PrincipalID() primitive.ObjectID { return r.ID }
func (r *Restaurant) PrincipalRole() Role             { return RoleRestaurant }
