package routes

import (
	"github.com/gin-gonic/gin"

	"mealhub/internal/handlers"
	"mealhub/internal/middleware"
)

// SetupDriverRoutes sets up driver profile and registration routes
func SetupDriverRoutes(r *gin.RouterGroup, driverHandler *handlers.DriverHandler, auth middleware.Authorizer) {
	driver := r.Group("/driver")
	driver.Use(middleware.DriverRequired(auth))
	{
		driver.GET("/profile", driverHandler.GetProfile)
		driver.PUT("/status", driverHandler.UpdateStatus)

		// Registration sections
		registration := driver.Group("/registration")
		{
			registration.GET("/status", driverHandler.GetRegistrationStatus)
			registration.PUT("/personal", driverHandler.UpdatePersonal)
			registration.PUT("/bank", driverHandler.UpdateBank)
			registration.PUT("/aadhar", driverHandler.UpdateAadhar)
			registration.PUT("/license", driverHandler.UpdateLicense)
			registration.PUT("/vehicle", driverHandler.UpdateVehicle)
			registration.POST("/complete", driverHandler.CompleteRegistration)
		}
	}
}
