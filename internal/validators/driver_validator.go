package validators

import (
	"strings"

	"mealhub/internal/models"
)

// Driver section requests. Nil pointers mean "leave unchanged".

type AddressRequest struct {
	Street   string `json:"street" form:"street" validate:"omitempty,max=200"`
	City     string `json:"city" form:"city" validate:"omitempty,max=100"`
	State    string `json:"state" form:"state" validate:"omitempty,max=100"`
	Pincode  string `json:"pincode" form:"pincode" validate:"omitempty,len=6,numeric"`
	Landmark string `json:"landmark" form:"landmark" validate:"omitempty,max=200"`
}

func (a *AddressRequest) ToModel() *models.Address {
	if a == nil {
		return nil
	}
	return &models.Address{
		Street:   strings.TrimSpace(a.Street),
		City:     strings.TrimSpace(a.City),
		State:    strings.TrimSpace(a.State),
		Pincode:  a.Pincode,
		Landmark: strings.TrimSpace(a.Landmark),
	}
}

type DriverPersonalRequest struct {
	FirstName   *string         `json:"firstName" form:"firstName" validate:"omitempty,min=2,max=50"`
	LastName    *string         `json:"lastName" form:"lastName" validate:"omitempty,min=2,max=50"`
	Email       *string         `json:"email" form:"email" validate:"omitempty,email"`
	DateOfBirth *string         `json:"dateOfBirth" form:"dateOfBirth" validate:"omitempty,ddmmyyyy"`
	Gender      *string         `json:"gender" form:"gender" validate:"omitempty,oneof=male female other"`
	Address     *AddressRequest `json:"address" validate:"omitempty"`
}

type DriverBankRequest struct {
	AccountHolderName *string `json:"accountHolderName" form:"accountHolderName" validate:"omitempty,min=2,max=100"`
	AccountNumber     *string `json:"accountNumber" form:"accountNumber" validate:"omitempty,min=9,max=18,numeric"`
	IFSCCode          *string `json:"ifscCode" form:"ifscCode" validate:"omitempty,ifsc_code"`
	BankName          *string `json:"bankName" form:"bankName" validate:"omitempty,min=2,max=100"`
	BranchName        *string `json:"branchName" form:"branchName" validate:"omitempty,min=2,max=100"`
}

type DriverAadharRequest struct {
	AadharNumber *string `json:"aadharNumber" form:"aadharNumber" validate:"omitempty,aadhar_number"`
}

type DriverLicenseRequest struct {
	LicenseNumber *string `json:"licenseNumber" form:"licenseNumber" validate:"omitempty,min=5,max=20"`
	IssueDate     *string `json:"issueDate" form:"issueDate" validate:"omitempty,ddmmyyyy"`
	ExpiryDate    *string `json:"expiryDate" form:"expiryDate" validate:"omitempty,ddmmyyyy"`
}

type DriverVehicleRequest struct {
	VehicleType     *string `json:"vehicleType" form:"vehicleType" validate:"omitempty,oneof=bike scooter bicycle car"`
	VehicleNumber   *string `json:"vehicleNumber" form:"vehicleNumber" validate:"omitempty,min=4,max=15"`
	Model           *string `json:"model" form:"model" validate:"omitempty,max=50"`
	Color           *string `json:"color" form:"color" validate:"omitempty,max=30"`
	RCNumber        *string `json:"rcNumber" form:"rcNumber" validate:"omitempty,min=5,max=20"`
	InsuranceNumber *string `json:"insuranceNumber" form:"insuranceNumber" validate:"omitempty,min=5,max=30"`
	InsuranceExpiry *string `json:"insuranceExpiry" form:"insuranceExpiry" validate:"omitempty,ddmmyyyy"`
}

type DriverStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=online offline"`
}

type DriverApprovalRequest struct {
	Approved *bool  `json:"approved" validate:"required"`
	Note     string `json:"note" validate:"omitempty,max=500"`
}

type DriverListQuery struct {
	RegistrationStep       *int    `form:"registrationStep" validate:"omitempty,min=1,max=7"`
	IsApproved             *bool   `form:"isApproved"`
	IsRegistrationComplete *bool   `form:"isRegistrationComplete"`
	IsBlocked              *bool   `form:"isBlocked"`
	Status                 *string `form:"status" validate:"omitempty,oneof=online offline"`
}

func ValidateDriverPersonal(req *DriverPersonalRequest) error {
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
	}
	return Validate(req)
}

func ValidateDriverLicense(req *DriverLicenseRequest) error {
	errs := ValidateStruct(req)
	if len(errs) == 0 && req.IssueDate != nil && req.ExpiryDate != nil {
		issue, _ := ParseDDMMYYYY(*req.IssueDate)
		expiry, _ := ParseDDMMYYYY(*req.ExpiryDate)
		if !expiry.After(issue) {
			errs = append(errs, ValidationError{
				Field:   "expiryDate",
				Message: "Expiry date must be after issue date",
			})
		}
	}
	if len(errs) > 0 {
		return errs.AppError()
	}
	return nil
}

func ValidateDriverVehicle(req *DriverVehicleRequest) error {
	if req.VehicleNumber != nil {
		number := strings.ToUpper(strings.ReplaceAll(*req.VehicleNumber, " ", ""))
		req.VehicleNumber = &number
	}
	return Validate(req)
}

func ValidateDriverBank(req *DriverBankRequest) error {
	if req.IFSCCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.IFSCCode))
		req.IFSCCode = &code
	}
	return Validate(req)
}
