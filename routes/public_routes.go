package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupPublicRoutes sets up the unauthenticated marketplace reads
func SetupPublicRoutes(r *gin.RouterGroup, h *Handlers) {
	restaurants := r.Group("/restaurants")
	{
		restaurants.GET("", h.Restaurant.ListPublic)
		restaurants.GET("/:id", h.Restaurant.GetPublic)
		restaurants.GET("/:id/menu", h.Item.ListMenu)
		restaurants.GET("/:id/categories", h.Category.ListPublic)
		restaurants.GET("/:id/plans", h.Plan.ListPublic)
		restaurants.GET("/:id/offers", h.Offer.ListRedeemable)
		restaurants.GET("/:id/reviews", h.Review.ListPublic)
	}

	r.GET("/reviews/:id", h.Review.GetPublic)
}
