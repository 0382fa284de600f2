package routes

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/middleware"
)

// SetupRestaurantRoutes sets up routes for the restaurant owner portal
func SetupRestaurantRoutes(r *gin.RouterGroup, h *Handlers, auth middleware.Authorizer) {
	restaurant := r.Group("/restaurant")
	restaurant.Use(middleware.RestaurantRequired(auth))
	{
		restaurant.GET("/profile", h.Restaurant.GetProfile)
		restaurant.PUT("/profile", h.Restaurant.UpdateProfile)
		restaurant.POST("/images", h.Restaurant.AddImages)
		restaurant.DELETE("/images", h.Restaurant.RemoveImage)

		items := restaurant.Group("/items")
		{
			items.GET("", h.Item.ListItems)
			items.POST("", h.Item.CreateItem)
			items.GET("/:id", h.Item.GetItem)
			items.PUT("/:id", h.Item.UpdateItem)
			items.DELETE("/:id", h.Item.DeleteItem)
			items.PATCH("/:id/toggle/:field", h.Toggle.Toggle("item"))
		}

		categories := restaurant.Group("/categories")
		{
			categories.GET("", h.Category.ListCategories)
			categories.POST("", h.Category.CreateCategory)
			categories.GET("/:id", h.Category.GetCategory)
			categories.PUT("/:id", h.Category.UpdateCategory)
			categories.DELETE("/:id", h.Category.DeleteCategory)
			categories.PATCH("/:id/toggle/:field", h.Toggle.Toggle("category"))
		}

		plans := restaurant.Group("/plans")
		{
			plans.GET("", h.Plan.ListPlans)
			plans.POST("", h.Plan.CreatePlan)
			plans.GET("/:id", h.Plan.GetPlan)
			plans.PUT("/:id", h.Plan.UpdatePlan)
			plans.DELETE("/:id", h.Plan.DeletePlan)
			plans.PATCH("/:id/toggle/:field", h.Toggle.Toggle("plan"))
		}

		offers := restaurant.Group("/offers")
		{
			offers.GET("", h.Offer.ListOffers)
			offers.POST("", h.Offer.CreateOffer)
			offers.GET("/:id", h.Offer.GetOffer)
			offers.PUT("/:id", h.Offer.UpdateOffer)
			offers.DELETE("/:id", h.Offer.DeleteOffer)
			offers.PATCH("/:id/toggle/:field", h.Toggle.Toggle("offer"))
		}

		reviews := restaurant.Group("/reviews")
		{
			reviews.GET("", h.Review.ListRestaurantReviews)
			reviews.POST("/:id/reply", h.Review.ReplyToReview)
		}
	}
}
