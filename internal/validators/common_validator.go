package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/utils"
)

var validate *validator.Validate

var (
	phoneRegex      = regexp.MustCompile(`^[0-9]{10}$`)
	couponCodeRegex = regexp.MustCompile(`^[A-Za-z0-9]{4,20}$`)
	aadharRegex     = regexp.MustCompile(`^[0-9]{12}$`)
	ifscRegex       = regexp.MustCompile(`^[A-Za-z]{4}0[A-Za-z0-9]{6}$`)
	hhmmRegex       = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	htmlRegex       = regexp.MustCompile(`<[^>]*>`)
)

func init() {
	validate = validator.New()

	// Report fields by their wire names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("ddmmyyyy", validateDDMMYYYY)
	validate.RegisterValidation("iso_date", validateISODate)
	validate.RegisterValidation("coupon_code", validateCouponCode)
	validate.RegisterValidation("aadhar_number", validateAadharNumber)
	validate.RegisterValidation("ifsc_code", validateIFSCCode)
	validate.RegisterValidation("hhmm", validateHHMM)
	validate.RegisterValidation("weekday", validateWeekday)
	validate.RegisterValidation("meal_type", validateMealType)
	validate.RegisterValidation("money", validateMoney)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

func (v ValidationErrors) Messages() []string {
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return messages
}

// AppError converts field failures into the API validation error. A bad
// DD/MM/YYYY literal keeps its own error code.
func (v ValidationErrors) AppError() *utils.AppError {
	for _, err := range v {
		if err.Tag == "ddmmyyyy" {
			return &utils.AppError{
				Kind:    utils.KindValidation,
				Code:    utils.ErrInvalidDateFormat.Code,
				Message: utils.ErrInvalidDateFormat.Message,
				Details: v.Messages(),
			}
		}
	}
	return utils.NewValidationError(utils.ErrValidationFailed, v.Messages()...)
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		fieldErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return ValidationErrors{{Field: "body", Message: err.Error()}}
		}
		for _, err := range fieldErrors {
			validationErrors = append(validationErrors, ValidationError{
				Field:   err.Field(),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

// Validate runs struct rules and returns nil or an *utils.AppError.
func Validate(s interface{}) error {
	if errs := ValidateStruct(s); len(errs) > 0 {
		return errs.AppError()
	}
	return nil
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email format"
	case "min":
		if isText(err) {
			return fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		}
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		if isText(err) {
			return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		}
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", err.Field())
	case "object_id":
		return "Invalid ID format"
	case "phone_number":
		return "Phone number must be exactly 10 digits"
	case "ddmmyyyy":
		return fmt.Sprintf("%s must be a valid date in DD/MM/YYYY format", err.Field())
	case "iso_date":
		return fmt.Sprintf("%s must be an ISO-8601 date", err.Field())
	case "coupon_code":
		return "Coupon code must be 4-20 letters or digits"
	case "aadhar_number":
		return "Aadhar number must be exactly 12 digits"
	case "ifsc_code":
		return "Invalid IFSC code"
	case "hhmm":
		return fmt.Sprintf("%s must be in HH:MM format", err.Field())
	case "weekday":
		return "Invalid day of week"
	case "meal_type":
		return "Meal type must be one of breakfast, lunch, dinner, snacks"
	case "money":
		return fmt.Sprintf("%s must have at most two decimal places", err.Field())
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

func isText(err validator.FieldError) bool {
	kind := err.Kind()
	return kind == reflect.String
}

// Custom validation functions
func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let required tag handle empty values
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

func validatePhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateDDMMYYYY(fl validator.FieldLevel) bool {
	_, err := ParseDDMMYYYY(fl.Field().String())
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := ParseISODate(fl.Field().String())
	return err == nil
}

func validateCouponCode(fl validator.FieldLevel) bool {
	return couponCodeRegex.MatchString(fl.Field().String())
}

func validateAadharNumber(fl validator.FieldLevel) bool {
	return aadharRegex.MatchString(fl.Field().String())
}

func validateIFSCCode(fl validator.FieldLevel) bool {
	return ifscRegex.MatchString(fl.Field().String())
}

func validateHHMM(fl validator.FieldLevel) bool {
	return hhmmRegex.MatchString(fl.Field().String())
}

func validateWeekday(fl validator.FieldLevel) bool {
	day := models.Weekday(fl.Field().String())
	for _, d := range models.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

func validateMealType(fl validator.FieldLevel) bool {
	meal := models.MealType(fl.Field().String())
	for _, m := range models.MealTypes {
		if m == meal {
			return true
		}
	}
	return false
}

func validateMoney(fl validator.FieldLevel) bool {
	return utils.IsWholePaise(fl.Field().Float())
}

// Helper functions for common validations
func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

func SanitizeInput(input string) string {
	return strings.TrimSpace(htmlRegex.ReplaceAllString(input, ""))
}
