package utils

import (
	"errors"
	"fmt"
)

// Store-level sentinels. Repositories translate driver errors into these so
// services never inspect driver types.
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrVersionConflict = errors.New("version conflict")
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindDuplicateIdentity ErrorKind = "duplicate_identity"
	KindConflictState     ErrorKind = "conflict_state"
	KindNotFound          ErrorKind = "not_found"
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindForbidden         ErrorKind = "forbidden"
	KindUpstreamFailure   ErrorKind = "upstream_failure"
	KindInternal          ErrorKind = "internal"
)

// AppError is the error type every service returns to handlers.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so that errors.Is(err, ErrAlreadyApproved) works for
// wrapped copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

func NewValidationError(message string, details ...string) *AppError {
	return &AppError{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message, Details: details}
}

func NewDuplicateError(message string) *AppError {
	return &AppError{Kind: KindDuplicateIdentity, Code: "DUPLICATE_IDENTITY", Message: message}
}

func NewConflictError(code, message string) *AppError {
	return &AppError{Kind: KindConflictState, Code: code, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Code: "NOT_FOUND", Message: resource + " not found"}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Code: "UNAUTHENTICATED", Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Code: "FORBIDDEN", Message: message}
}

func NewUpstreamError(message string, err error) *AppError {
	return &AppError{Kind: KindUpstreamFailure, Code: "UPSTREAM_FAILURE", Message: message, Err: err}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: message, Err: err}
}

// Named business errors.
var (
	ErrInvalidCredential  = &AppError{Kind: KindUnauthenticated, Code: "INVALID_CREDENTIAL", Message: "Invalid phone number or password"}
	ErrInvalidOTP         = &AppError{Kind: KindUnauthenticated, Code: "INVALID_OR_EXPIRED_OTP", Message: "Invalid or expired OTP"}
	ErrInvalidDateFormat  = &AppError{Kind: KindValidation, Code: "INVALID_DATE_FORMAT", Message: "Invalid date format, expected DD/MM/YYYY"}
	ErrAlreadyApproved    = &AppError{Kind: KindValidation, Code: "ALREADY_APPROVED", Message: "Review is already approved"}
	ErrAlreadyRejected    = &AppError{Kind: KindValidation, Code: "ALREADY_REJECTED", Message: "Review is already rejected"}
	ErrAlreadyFlagged     = &AppError{Kind: KindValidation, Code: "ALREADY_FLAGGED", Message: "Review is already flagged"}
	ErrNotFlagged         = &AppError{Kind: KindValidation, Code: "NOT_FLAGGED", Message: "Review is not flagged"}
	ErrAlreadyDeleted     = &AppError{Kind: KindValidation, Code: "ALREADY_DELETED", Message: "Review is already deleted"}
	ErrInvalidReason      = &AppError{Kind: KindValidation, Code: "INVALID_REASON", Message: "Reason must be at least 10 characters long"}
	ErrItemNotFound       = &AppError{Kind: KindNotFound, Code: "ITEM_NOT_FOUND", Message: "Item not found in cart"}
	ErrPlanHasSubscribers = &AppError{Kind: KindConflictState, Code: "PLAN_HAS_SUBSCRIBERS", Message: "Cannot delete a plan with active subscribers"}
)

// OfferNotEligible builds the eligibility failure returned by offer evaluation.
func OfferNotEligible(reason string) *AppError {
	return &AppError{Kind: KindValidation, Code: "OFFER_NOT_ELIGIBLE", Message: reason}
}

// AsAppError returns err as *AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Internal server error", err)
}
