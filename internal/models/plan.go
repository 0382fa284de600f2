package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnacks    MealType = "snacks"
)

var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnacks}

type Meal struct {
	Name     string `json:"name" bson:"name"`
	Calories int    `json:"calories" bson:"calories"`
}

// WeeklyMeals maps day and meal slot to the dishes served, in order.
type WeeklyMeals map[Weekday]map[MealType][]Meal

type Plan struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RestaurantID     primitive.ObjectID `json:"restaurantId" bson:"restaurant_id"`
	Name             string             `json:"name" bson:"name"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	Price            float64            `json:"price" bson:"price"`
	DurationDays     int                `json:"durationDays" bson:"duration_days"`
	WeeklyMeals      WeeklyMeals        `json:"weeklyMeals" bson:"weekly_meals"`
	Features         []string           `json:"features" bson:"features"`
	Image            string             `json:"image,omitempty" bson:"image,omitempty"`
	IsActive         bool               `json:"isActive" bson:"is_active"`
	TotalSubscribers int                `json:"totalSubscribers" bson:"total_subscribers"`
	TotalRevenue     float64            `json:"totalRevenue" bson:"total_revenue"`
	AverageRating    float64            `json:"averageRating" bson:"average_rating"`
	CreatedAt        time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updated_at"`
}

type PlanFilter struct {
	IsActive *bool
}
