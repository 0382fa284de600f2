package routes

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/handlers"
	"mealhub/internal/middleware"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Driver     *handlers.DriverHandler
	User       *handlers.UserHandler
	Restaurant *handlers.RestaurantHandler
	Admin      *handlers.AdminHandler
	Analytics  *handlers.AnalyticsHandler
	Item       *handlers.ItemHandler
	Category   *handlers.CategoryHandler
	Plan       *handlers.PlanHandler
	Offer      *handlers.OfferHandler
	Review     *handlers.ReviewHandler
	Cart       *handlers.CartHandler
	Toggle     *handlers.ToggleHandler
	WebSocket  *handlers.WebSocketHandler
}

// SetupRoutes mounts the versioned API. loginLimit may be nil.
func SetupRoutes(v1 *gin.RouterGroup, h *Handlers, auth middleware.Authorizer, loginLimit gin.HandlerFunc) {
	SetupAuthRoutes(v1, h.Auth, auth, loginLimit)
	SetupPublicRoutes(v1, h)
	SetupDriverRoutes(v1, h.Driver, auth)
	SetupUserRoutes(v1, h, auth)
	SetupRestaurantRoutes(v1, h, auth)
	SetupAdminRoutes(v1, h, auth)
}
