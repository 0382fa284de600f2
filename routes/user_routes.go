package routes

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/middleware"
)

// SetupUserRoutes sets up customer routes
func SetupUserRoutes(r *gin.RouterGroup, h *Handlers, auth middleware.Authorizer) {
	user := r.Group("/user")
	user.Use(middleware.UserRequired(auth))
	{
		user.GET("/profile", h.User.GetProfile)
		user.PUT("/profile", h.User.UpdateProfile)

		carts := user.Group("/carts")
		{
			carts.GET("", h.Cart.ListCarts)
			carts.GET("/:restaurantId", h.Cart.GetCart)
			carts.DELETE("/:restaurantId", h.Cart.ClearCart)
			carts.POST("/:restaurantId/items", h.Cart.AddItem)
			carts.PUT("/:restaurantId/items/:itemId", h.Cart.SetQuantity)
			carts.DELETE("/:restaurantId/items/:itemId", h.Cart.RemoveItem)
		}

		offers := user.Group("/offers")
		{
			offers.POST("/evaluate", h.Offer.EvaluateOffer)
			offers.POST("/redeem", h.Offer.RedeemOffer)
		}

		reviews := user.Group("/reviews")
		{
			reviews.GET("", h.Review.ListMyReviews)
			reviews.POST("", h.Review.CreateReview)
			reviews.POST("/:id/vote", h.Review.VoteReview)
			reviews.POST("/:id/report", h.Review.ReportReview)
		}
	}
}
