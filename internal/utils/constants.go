package utils

import "time"

const (
	AppName    = "MealHub"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 10
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL = 24 * time.Hour
	OTPExpiry         = 10 * time.Minute
	// FixedOTP is the only code the OTP flow accepts. There is no real
	// delivery integration behind it; do not ship to production as-is.
	FixedOTP = "123456"

	// Moderation
	MinReasonLength = 10

	// File Upload
	MaxImageSize       = 5 * 1024 * 1024 // 5MB
	MaxFilesPerRequest = 10
	MaxUploadMemory    = 32 << 20

	// Cart
	MaxCartWriteAttempts = 3
)

// Error Messages
const (
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Authentication required"
	ErrForbidden        = "You do not have permission to access this resource"
	ErrInvalidRequest   = "Invalid request body"
	ErrValidationFailed = "Validation failed"
	ErrInvalidID        = "Invalid ID"
)
