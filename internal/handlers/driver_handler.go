package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

type DriverHandler struct {
	driverService services.DriverService
}

func NewDriverHandler(driverService services.DriverService) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
	}
}

func (h *DriverHandler) GetProfile(c *gin.Context) {
	driverID, ok := principalID(c)
	if !ok {
		return
	}

	driver, err := h.driverService.GetProfile(c.Request.Context(), driverID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver profile retrieved successfully", driver)
}

// UpdatePersonal handles step 2 of registration
func (h *DriverHandler) UpdatePersonal(c *gin.Context) {
	var request validators.DriverPersonalRequest
	if !bindForm(c, &request) || !validated(c, validators.ValidateDriverPersonal(&request)) {
		return
	}
	h.updateSection(c, models.SectionPersonal, func(ctx context.Context, driverID primitive.ObjectID, files map[string]*utils.UploadedFile) (*models.Driver, error) {
		return h.driverService.UpdatePersonal(ctx, driverID, &request, files)
	})
}

func (h *DriverHandler) UpdateBank(c *gin.Context) {
	var request validators.DriverBankRequest
	if !bindForm(c, &request) || !validated(c, validators.ValidateDriverBank(&request)) {
		return
	}
	h.updateSection(c, models.SectionBank, func(ctx context.Context, driverID primitive.ObjectID, files map[string]*utils.UploadedFile) (*models.Driver, error) {
		return h.driverService.UpdateBank(ctx, driverID, &request, files)
	})
}

func (h *DriverHandler) UpdateAadhar(c *gin.Context) {
	var request validators.DriverAadharRequest
	if !bindForm(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}
	h.updateSection(c, models.SectionAadhar, func(ctx context.Context, driverID primitive.ObjectID, files map[string]*utils.UploadedFile) (*models.Driver, error) {
		return h.driverService.UpdateAadhar(ctx, driverID, &request, files)
	})
}

func (h *DriverHandler) UpdateLicense(c *gin.Context) {
	var request validators.DriverLicenseRequest
	if !bindForm(c, &request) || !validated(c, validators.ValidateDriverLicense(&request)) {
		return
	}
	h.updateSection(c, models.SectionLicense, func(ctx context.Context, driverID primitive.ObjectID, files map[string]*utils.UploadedFile) (*models.Driver, error) {
		return h.driverService.UpdateLicense(ctx, driverID, &request, files)
	})
}

func (h *DriverHandler) UpdateVehicle(c *gin.Context) {
	var request validators.DriverVehicleRequest
	if !bindForm(c, &request) || !validated(c, validators.ValidateDriverVehicle(&request)) {
		return
	}
	h.updateSection(c, models.SectionVehicle, func(ctx context.Context, driverID primitive.ObjectID, files map[string]*utils.UploadedFile) (*models.Driver, error) {
		return h.driverService.UpdateVehicle(ctx, driverID, &request, files)
	})
}

type sectionUpdate func(ctx context.Context, driverID primitive.ObjectID, files map[string]*utils.UploadedFile) (*models.Driver, error)

func (h *DriverHandler) updateSection(c *gin.Context, section models.DriverSection, update sectionUpdate) {
	driverID, ok := principalID(c)
	if !ok {
		return
	}

	files, ok := uploads(c, services.DriverAttachmentFields[section]...)
	if !ok {
		return
	}

	driver, err := update(c.Request.Context(), driverID, files)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver "+string(section)+" details updated successfully", driver)
}

// CompleteRegistration marks registration complete even with sections missing
func (h *DriverHandler) CompleteRegistration(c *gin.Context) {
	driverID, ok := principalID(c)
	if !ok {
		return
	}

	status, err := h.driverService.CompleteRegistration(c.Request.Context(), driverID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Registration completed successfully", status)
}

func (h *DriverHandler) GetRegistrationStatus(c *gin.Context) {
	driverID, ok := principalID(c)
	if !ok {
		return
	}

	status, err := h.driverService.GetRegistrationStatus(c.Request.Context(), driverID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Registration status retrieved successfully", status)
}

// UpdateStatus switches the driver online or offline
func (h *DriverHandler) UpdateStatus(c *gin.Context) {
	driverID, ok := principalID(c)
	if !ok {
		return
	}

	var request validators.DriverStatusRequest
	if !bindJSON(c, &request) || !validated(c, validators.Validate(&request)) {
		return
	}

	driver, err := h.driverService.UpdateStatus(c.Request.Context(), driverID, models.DriverStatus(request.Status))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver status updated successfully", driver)
}
