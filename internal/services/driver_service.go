package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
	"mealhub/pkg/logger"
)

type DriverService interface {
	GetProfile(ctx context.Context, driverID primitive.ObjectID) (*models.Driver, error)
	UpdatePersonal(ctx context.Context, driverID primitive.ObjectID, request *validators.DriverPersonalRequest, files map[string]*utils.UploadedFile) (*models.Driver, error)
	UpdateBank(ctx context.Context, driverID primitive.ObjectID, request *validators.DriverBankRequest, files map[string]*utils.UploadedFile) (*models.Driver, error)
	UpdateAadhar(ctx context.Context, driverID primitive.ObjectID, request *validators.DriverAadharRequest, files map[string]*utils.UploadedFile) (*models.Driver, error)
	UpdateLicense(ctx context.Context, driverID primitive.ObjectID, request *validators.DriverLicenseRequest, files map[string]*utils.UploadedFile) (*models.Driver, error)
	UpdateVehicle(ctx context.Context, driverID primitive.ObjectID, request *validators.DriverVehicleRequest, files map[string]*utils.UploadedFile) (*models.Driver, error)
	CompleteRegistration(ctx context.Context, driverID primitive.ObjectID) (*models.DriverRegistrationStatus, error)
	GetRegistrationStatus(ctx context.Context, driverID primitive.ObjectID) (*models.DriverRegistrationStatus, error)
	UpdateStatus(ctx context.Context, driverID primitive.ObjectID, status models.DriverStatus) (*models.Driver, error)
}

// attachmentSlot binds a multipart field to the stored URL it replaces.
type attachmentSlot struct {
	form    string
	field   string
	current func(*models.Driver) string
}

// DriverAttachmentFields lists the upload fields each section accepts.
var DriverAttachmentFields = map[models.DriverSection][]string{}

var driverAttachments = map[models.DriverSection][]attachmentSlot{
	models.SectionPersonal: {
		{form: "profileImage", field: "profile_image", current: func(d *models.Driver) string { return d.Personal.ProfileImage }},
	},
	models.SectionBank: {
		{form: "passbookImage", field: "passbook_image", current: func(d *models.Driver) string { return d.Bank.PassbookImage }},
	},
	models.SectionAadhar: {
		{form: "aadharFront", field: "front_image", current: func(d *models.Driver) string { return d.Aadhar.FrontImage }},
		{form: "aadharBack", field: "back_image", current: func(d *models.Driver) string { return d.Aadhar.BackImage }},
	},
	models.SectionLicense: {
		{form: "licenseFront", field: "front_image", current: func(d *models.Driver) string { return d.License.FrontImage }},
		{form: "licenseBack", field: "back_image", current: func(d *models.Driver) string { return d.License.BackImage }},
	},
	models.SectionVehicle: {
		{form: "rcImage", field: "rc_image", current: func(d *models.Driver) string { return d.Vehicle.RCImage }},
		{form: "insuranceImage", field: "insurance_image", current: func(d *models.Driver) string { return d.Vehicle.InsuranceImage }},
	},
}

func init() {
	for section, slots := range driverAttachments {
		for _, slot := range slots {
			DriverAttachmentFields[section] = append(DriverAttachmentFields[section], slot.form)
		}
	}
}

type driverService struct {
	drivers interfaces.DriverRepository
	sink    AttachmentSink
	events  EventBus
	logger  *logger.Logger
}

func NewDriverService(drivers interfaces.DriverRepository, sink AttachmentSink, events EventBus, log *logger.Logger) DriverService {
	return &driverService{
		drivers: drivers,
		sink:    sink,
		events:  events,
		logger:  log.WithField("service", "driver"),
	}
}

func (s *driverService) GetProfile(ctx context.Context, driverID primitive.ObjectID) (*models.Driver, error) {
	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, notFoundOr(err, "Driver", "Failed to get driver")
	}
	return driver, nil
}

func (s *driverService) UpdatePersonal(ctx context.Context, driverID primitive.ObjectID, request *validators.DriverPersonalRequest, files map[string]*utils.UploadedFile) (*models.Driver, error) {
	fields := map[string]interface{}{}
	setString(fields, "first_name", request.FirstName)
	setString(fields, "last_name", request.LastName)
	setString(fields, "email", request.Email)
	setString(fields, "gender", request.Gender)
	if request.Address != nil {
		fields["address"] = request.Address.ToModel()
	}
	if err := setDate(fields, "date_of_birth", "dateOfBirth", request.DateOfBirth); err != nil {
		return nil, err
	}
	return s.updateSection(ctx, driverID, models.SectionPersonal, fields, files)
}

func (s *driverService) UpdateBank(ctx context.Context, driverID primitive.ObjectID, request *validators.DriverBankRequest, files map[string]*utils.UploadedFile) (*models.Driver, error) {
	fields := map[string]interface{}{}
	setString(fields, "account_holder_name", request.AccountHolderName)
	setString(fields, "account_number", request.AccountNumber)
	setString(fields, "ifsc_code", request.IFSCCode)
	setString(fields, "bank_name", request.BankName)
	setString(fields, "branch_name", request.BranchName)
	return s.updateSection(ctx, driverID, models.SectionBank, fields, files)
}

func (s *driverService) UpdateAadhar(ctx context.Context, driverID primitive.ObjectID, request *validators.DriverAadharRequest, files map[string]*utils.UploadedFile) (*models.Driver, error) {
	fields := map[string]interface{}{}
	setString(fields, "number", request.AadharNumber)
	return s.updateSection(ctx, driverID, models.SectionAadhar, fields, files)
}

func (s *driverService) UpdateLicense(ctx context.Context, driverID primitive.ObjectID, request *validators.DriverLicenseRequest, files map[string]*utils.UploadedFile) (*models.Driver, error) {
	fields := map[string]interface{}{}
	setString(fields, "number", request.LicenseNumber)
	if err := setDate(fields, "issue_date", "issueDate", request.IssueDate); err != nil {
		return nil, err
	}
	if err := setDate(fields, "expiry_date", "expiryDate", request.ExpiryDate); err != nil {
		return nil, err
	}
	return s.updateSection(ctx, driverID, models.SectionLicense, fields, files)
}

func (s *driverService) UpdateVehicle(ctx context.Context, driverID primitive.ObjectID, request *validators.DriverVehicleRequest, files map[string]*utils.UploadedFile) (*models.Driver, error) {
	fields := map[string]interface{}{}
	setString(fields, "vehicle_type", request.VehicleType)
	setString(fields, "vehicle_number", request.VehicleNumber)
	setString(fields, "model", request.Model)
	setString(fields, "color", request.Color)
	setString(fields, "rc_number", request.RCNumber)
	setString(fields, "insurance_number", request.InsuranceNumber)
	if err := setDate(fields, "insurance_expiry", "insuranceExpiry", request.InsuranceExpiry); err != nil {
		return nil, err
	}
	return s.updateSection(ctx, driverID, models.SectionVehicle, fields, files)
}

// updateSection stores new attachments, writes the section and then discards
// the attachments it replaced. New uploads are discarded if the write fails.
func (s *driverService) updateSection(ctx context.Context, driverID primitive.ObjectID, section models.DriverSection, fields map[string]interface{}, files map[string]*utils.UploadedFile) (*models.Driver, error) {
	current, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, notFoundOr(err, "Driver", "Failed to update driver")
	}

	var stored, replaced []string
	for _, slot := range driverAttachments[section] {
		file, ok := files[slot.form]
		if !ok || file == nil {
			continue
		}
		url, err := s.sink.Store(ctx, "drivers/"+string(section), file)
		if err != nil {
			s.discardAll(ctx, stored)
			return nil, err
		}
		stored = append(stored, url)
		fields[slot.field] = url
		if old := slot.current(current); old != "" {
			replaced = append(replaced, old)
		}
	}

	driver, err := s.drivers.UpdateSection(ctx, driverID, section, fields)
	if err != nil {
		s.discardAll(ctx, stored)
		return nil, notFoundOr(err, "Driver", "Failed to update driver")
	}

	s.discardAll(ctx, replaced)
	s.logger.WithPrincipal(string(models.RoleDriver), driverID).
		WithField("section", section).
		WithField("step", driver.RegistrationStep).
		Info("Driver section updated")

	return driver, nil
}

func (s *driverService) discardAll(ctx context.Context, urls []string) {
	for _, url := range urls {
		s.sink.Discard(ctx, url)
	}
}

func (s *driverService) CompleteRegistration(ctx context.Context, driverID primitive.ObjectID) (*models.DriverRegistrationStatus, error) {
	current, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, notFoundOr(err, "Driver", "Failed to complete registration")
	}

	missing := current.Registration.Missing()
	driver, err := s.drivers.CompleteRegistration(ctx, driverID, len(missing) > 0)
	if err != nil {
		return nil, notFoundOr(err, "Driver", "Failed to complete registration")
	}

	if len(missing) > 0 {
		sections := make([]string, len(missing))
		for i, m := range missing {
			sections[i] = string(m)
		}
		s.logger.WithPrincipal(string(models.RoleDriver), driverID).
			WithField("missing_sections", strings.Join(sections, ",")).
			Warn("Driver registration completed with missing sections")
	}

	return driver.RegistrationStatus(), nil
}

func (s *driverService) GetRegistrationStatus(ctx context.Context, driverID primitive.ObjectID) (*models.DriverRegistrationStatus, error) {
	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, notFoundOr(err, "Driver", "Failed to get registration status")
	}
	return driver.RegistrationStatus(), nil
}

func (s *driverService) UpdateStatus(ctx context.Context, driverID primitive.ObjectID, status models.DriverStatus) (*models.Driver, error) {
	driver, err := s.drivers.UpdateStatus(ctx, driverID, status, time.Now())
	if err != nil {
		return nil, notFoundOr(err, "Driver", "Failed to update status")
	}

	s.events.Publish(ctx, newEvent(models.EventDriverStatusChanged, "driver", driverID,
		&Actor{ID: driverID, Role: models.RoleDriver},
		map[string]interface{}{"status": status}))

	return driver, nil
}
