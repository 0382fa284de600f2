package routes

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/middleware"
)

// SetupAdminRoutes sets up moderation, oversight and account management
func SetupAdminRoutes(r *gin.RouterGroup, h *Handlers, auth middleware.Authorizer) {
	admin := r.Group("/admin")
	admin.Use(middleware.AdminRequired(auth))
	{
		admin.GET("/profile", h.Admin.GetProfile)
		admin.GET("/ws", h.WebSocket.AdminFeed)

		// Analytics
		analytics := admin.Group("/analytics")
		{
			analytics.GET("/dashboard", h.Analytics.Dashboard)
			analytics.GET("/drivers", h.Analytics.DriverStats)
			analytics.GET("/reviews", h.Analytics.ReviewStats)
			analytics.GET("/trends", h.Analytics.RegistrationTrends)
		}

		drivers := admin.Group("/drivers")
		{
			drivers.GET("", h.Admin.ListDrivers)
			drivers.GET("/:id", h.Admin.GetDriver)
			drivers.PUT("/:id/approval", h.Admin.ApproveDriver)
			drivers.PATCH("/:id/toggle/:field", h.Toggle.Toggle("driver"))
		}

		users := admin.Group("/users")
		{
			users.GET("", h.Admin.ListUsers)
			users.GET("/:id", h.Admin.GetUser)
			users.PATCH("/:id/toggle/:field", h.Toggle.Toggle("user"))
		}

		restaurants := admin.Group("/restaurants")
		{
			restaurants.GET("", h.Admin.ListRestaurants)
			restaurants.GET("/:id", h.Admin.GetRestaurant)
			restaurants.PATCH("/:id/toggle/:field", h.Toggle.Toggle("restaurant"))
		}

		reviews := admin.Group("/reviews")
		{
			reviews.GET("", h.Review.ListReviews)
			reviews.GET("/:id", h.Review.GetReview)
			reviews.PUT("/:id/approve", h.Review.ApproveReview)
			reviews.PUT("/:id/reject", h.Review.RejectReview)
			reviews.PUT("/:id/flag", h.Review.FlagReview)
			reviews.PUT("/:id/unflag", h.Review.UnflagReview)
			reviews.DELETE("/:id", h.Review.DeleteReview)
			reviews.PUT("/:id/resolve-reports", h.Review.ResolveReports)
			reviews.PATCH("/:id/toggle/:field", h.Toggle.Toggle("review"))
		}
	}

	// Account management
	admins := r.Group("/admin/admins")
	admins.Use(middleware.SuperAdminRequired(auth))
	{
		admins.GET("", h.Admin.ListAdmins)
		admins.POST("", h.Admin.CreateAdmin)
		admins.PUT("/:id/role", h.Admin.ChangeRole)
		admins.PATCH("/:id/toggle/:field", h.Toggle.Toggle("admin"))
	}
}
