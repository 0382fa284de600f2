package routes

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/handlers"
	"mealhub/internal/middleware"
	"mealhub/internal/models"
)

// SetupAuthRoutes sets up sign-in routes for every principal type
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, auth middleware.Authorizer, loginLimit gin.HandlerFunc) {
	authRoutes := r.Group("/auth")
	if loginLimit != nil {
		authRoutes.Use(loginLimit)
	}
	{
		// OTP principals
		authRoutes.POST("/driver/send-otp", authHandler.SendOTP(models.RoleDriver))
		authRoutes.POST("/driver/verify-otp", authHandler.VerifyOTP(models.RoleDriver))
		authRoutes.POST("/user/send-otp", authHandler.SendOTP(models.RoleUser))
		authRoutes.POST("/user/verify-otp", authHandler.VerifyOTP(models.RoleUser))

		// Password principals
		authRoutes.POST("/admin/register", authHandler.RegisterAdmin)
		authRoutes.POST("/admin/login", authHandler.Login(models.RoleAdmin))
		authRoutes.POST("/restaurant/register", authHandler.RegisterRestaurant)
		authRoutes.POST("/restaurant/login", authHandler.Login(models.RoleRestaurant))
	}

	session := r.Group("/auth")
	session.Use(middleware.AuthRequired(auth))
	{
		session.POST("/logout", authHandler.Logout)
	}
}
