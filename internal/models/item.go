package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Item struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RestaurantID    primitive.ObjectID `json:"restaurantId" bson:"restaurant_id"`
	CategoryID      primitive.ObjectID `json:"categoryId" bson:"category_id"`
	Name            string             `json:"name" bson:"name"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	Price           float64            `json:"price" bson:"price"`
	IsVegetarian    bool               `json:"isVegetarian" bson:"is_vegetarian"`
	IsAvailable     bool               `json:"isAvailable" bson:"is_available"`
	PreparationTime int                `json:"preparationTime" bson:"preparation_time"`
	Tags            []string           `json:"tags" bson:"tags"`
	Images          []string           `json:"images" bson:"images"`
	CreatedAt       time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updated_at"`
}

type ItemFilter struct {
	CategoryID   *primitive.ObjectID
	IsAvailable  *bool
	IsVegetarian *bool
}

type Category struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RestaurantID primitive.ObjectID `json:"restaurantId" bson:"restaurant_id"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Image        string             `json:"image,omitempty" bson:"image,omitempty"`
	SortOrder    int                `json:"sortOrder" bson:"sort_order"`
	IsActive     bool               `json:"isActive" bson:"is_active"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updated_at"`
}

type CategoryFilter struct {
	IsActive *bool
}
