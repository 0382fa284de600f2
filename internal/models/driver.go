package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverStatus string

const (
	DriverStatusOnline  DriverStatus = "online"
	DriverStatusOffline DriverStatus = "offline"
)

type DriverSection string

const (
	SectionPersonal DriverSection = "personal"
	SectionBank     DriverSection = "bank"
	SectionAadhar   DriverSection = "aadhar"
	SectionLicense  DriverSection = "license"
	SectionVehicle  DriverSection = "vehicle"
)

// Registration steps. Step 1 is reached when the phone is verified and the
// last step is reached only through completion.
const (
	DriverStepVerified = 1
	DriverStepComplete = 7
)

// DriverSections lists the data sections in wizard order.
var DriverSections = []DriverSection{
	SectionPersonal,
	SectionBank,
	SectionAadhar,
	SectionLicense,
	SectionVehicle,
}

var sectionSteps = map[DriverSection]int{
	SectionPersonal: 2,
	SectionBank:     3,
	SectionAadhar:   4,
	SectionLicense:  5,
	SectionVehicle:  6,
}

// Step returns the registration step a section update moves the driver to.
func (s DriverSection) Step() int {
	return sectionSteps[s]
}

func (s DriverSection) Valid() bool {
	_, ok := sectionSteps[s]
	return ok
}

// RegistrationState records which sections were submitted and whether the
// driver was marked complete with some of them missing.
type RegistrationState struct {
	CompletedSections []DriverSection `json:"completedSections" bson:"completed_sections"`
	ForcedComplete    bool            `json:"forcedComplete" bson:"forced_complete"`
}

func (r RegistrationState) Has(section DriverSection) bool {
	for _, s := range r.CompletedSections {
		if s == section {
			return true
		}
	}
	return false
}

func (r RegistrationState) Missing() []DriverSection {
	missing := make([]DriverSection, 0, len(DriverSections))
	for _, s := range DriverSections {
		if !r.Has(s) {
			missing = append(missing, s)
		}
	}
	return missing
}

type DriverPersonal struct {
	FirstName    string     `json:"firstName,omitempty" bson:"first_name,omitempty"`
	LastName     string     `json:"lastName,omitempty" bson:"last_name,omitempty"`
	Email        string     `json:"email,omitempty" bson:"email,omitempty"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty" bson:"date_of_birth,omitempty"`
	Gender       string     `json:"gender,omitempty" bson:"gender,omitempty"`
	Address      *Address   `json:"address,omitempty" bson:"address,omitempty"`
	ProfileImage string     `json:"profileImage,omitempty" bson:"profile_image,omitempty"`
}

type DriverBank struct {
	AccountHolderName string `json:"accountHolderName,omitempty" bson:"account_holder_name,omitempty"`
	AccountNumber     string `json:"accountNumber,omitempty" bson:"account_number,omitempty"`
	IFSCCode          string `json:"ifscCode,omitempty" bson:"ifsc_code,omitempty"`
	BankName          string `json:"bankName,omitempty" bson:"bank_name,omitempty"`
	BranchName        string `json:"branchName,omitempty" bson:"branch_name,omitempty"`
	PassbookImage     string `json:"passbookImage,omitempty" bson:"passbook_image,omitempty"`
}

type DriverAadhar struct {
	Number     string `json:"aadharNumber,omitempty" bson:"number,omitempty"`
	FrontImage string `json:"aadharFront,omitempty" bson:"front_image,omitempty"`
	BackImage  string `json:"aadharBack,omitempty" bson:"back_image,omitempty"`
}

type DriverLicense struct {
	Number     string     `json:"licenseNumber,omitempty" bson:"number,omitempty"`
	IssueDate  *time.Time `json:"issueDate,omitempty" bson:"issue_date,omitempty"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty" bson:"expiry_date,omitempty"`
	FrontImage string     `json:"licenseFront,omitempty" bson:"front_image,omitempty"`
	BackImage  string     `json:"licenseBack,omitempty" bson:"back_image,omitempty"`
}

type DriverVehicle struct {
	VehicleType     string     `json:"vehicleType,omitempty" bson:"vehicle_type,omitempty"`
	VehicleNumber   string     `json:"vehicleNumber,omitempty" bson:"vehicle_number,omitempty"`
	Model           string     `json:"model,omitempty" bson:"model,omitempty"`
	Color           string     `json:"color,omitempty" bson:"color,omitempty"`
	RCNumber        string     `json:"rcNumber,omitempty" bson:"rc_number,omitempty"`
	InsuranceNumber string     `json:"insuranceNumber,omitempty" bson:"insurance_number,omitempty"`
	InsuranceExpiry *time.Time `json:"insuranceExpiry,omitempty" bson:"insurance_expiry,omitempty"`
	RCImage         string     `json:"rcImage,omitempty" bson:"rc_image,omitempty"`
	InsuranceImage  string     `json:"insuranceImage,omitempty" bson:"insurance_image,omitempty"`
}

type Driver struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Phone      string             `json:"phone" bson:"phone"`
	OTP        *OTPCode           `json:"-" bson:"otp,omitempty"`
	IsVerified bool               `json:"isVerified" bson:"is_verified"`
	IsActive   bool               `json:"isActive" bson:"is_active"`
	IsBlocked  bool               `json:"isBlocked" bson:"is_blocked"`

	Personal DriverPersonal `json:"personal" bson:"personal"`
	Bank     DriverBank     `json:"bank" bson:"bank"`
	Aadhar   DriverAadhar   `json:"aadhar" bson:"aadhar"`
	License  DriverLicense  `json:"license" bson:"license"`
	Vehicle  DriverVehicle  `json:"vehicle" bson:"vehicle"`

	RegistrationStep       int               `json:"registrationStep" bson:"registration_step"`
	IsRegistrationComplete bool              `json:"isRegistrationComplete" bson:"is_registration_complete"`
	Registration           RegistrationState `json:"registration" bson:"registration"`

	IsApproved   bool                `json:"isApproved" bson:"is_approved"`
	ApprovedAt   *time.Time          `json:"approvedAt,omitempty" bson:"approved_at,omitempty"`
	ApprovedBy   *primitive.ObjectID `json:"approvedBy,omitempty" bson:"approved_by,omitempty"`
	ApprovalNote string              `json:"approvalNote,omitempty" bson:"approval_note,omitempty"`

	Status     DriverStatus `json:"status" bson:"status"`
	LastActive *time.Time   `json:"lastActive,omitempty" bson:"last_active,omitempty"`
	LastLogin  *time.Time   `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt  time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time    `json:"updatedAt" bson:"updated_at"`
}

func (d *Driver) PrincipalID() primitive.ObjectID { return d.ID }
func (d *Driver) PrincipalRole() Role             { return RoleDriver }

func (d *Driver) IsNewUser() bool {
	return d.Personal.FirstName == "" && d.Personal.LastName == ""
}

func (d *Driver) NeedsProfileCompletion() bool {
	return !d.IsRegistrationComplete
}

type DriverRegistrationStatus struct {
	RegistrationStep       int             `json:"registrationStep"`
	IsRegistrationComplete bool            `json:"isRegistrationComplete"`
	ForcedComplete         bool            `json:"forcedComplete"`
	CompletedSections      []DriverSection `json:"completedSections"`
	MissingSections        []DriverSection `json:"missingSections"`
	IsApproved             bool            `json:"isApproved"`
	IsVerified             bool            `json:"isVerified"`
}

func (d *Driver) RegistrationStatus() *DriverRegistrationStatus {
	completed := d.Registration.CompletedSections
	if completed == nil {
		completed = []DriverSection{}
	}
	return &DriverRegistrationStatus{
		RegistrationStep:       d.RegistrationStep,
		IsRegistrationComplete: d.IsRegistrationComplete,
		ForcedComplete:         d.Registration.ForcedComplete,
		CompletedSections:      completed,
		MissingSections:        d.Registration.Missing(),
		IsApproved:             d.IsApproved,
		IsVerified:             d.IsVerified,
	}
}
