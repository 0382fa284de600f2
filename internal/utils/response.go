package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

type ListResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message,omitempty"`
	Data        interface{} `json:"data"`
	Count       int         `json:"count"`
	Total       int64       `json:"total"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
}

func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListSuccessResponse writes a page of results. count is the number of
// entries on this page.
func ListSuccessResponse(c *gin.Context, message string, data interface{}, count int, params *PaginationParams, total int64) {
	meta := CreatePaginationMeta(params, total)
	c.JSON(http.StatusOK, ListResponse{
		Success:     true,
		Message:     message,
		Data:        data,
		Count:       count,
		Total:       meta.Total,
		TotalPages:  meta.TotalPages,
		CurrentPage: meta.Page,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
		Error:   message,
	})
}

func ValidationErrorResponse(c *gin.Context, message string, errs []string) {
	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Message: message,
		Error:   message,
		Errors:  errs,
	})
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = ErrUnauthorized
	}
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = ErrForbidden
	}
	ErrorResponse(c, http.StatusForbidden, message)
}

func NotFoundResponse(c *gin.Context, resource string) {
	ErrorResponse(c, http.StatusNotFound, resource+" not found")
}

// InternalServerErrorResponse never echoes the underlying error text.
func InternalServerErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, ErrInternalServer)
}

// StatusForKind maps an error kind onto the HTTP status table.
func StatusForKind(kind ErrorKind) int {
	switch kind {
	case KindValidation, KindDuplicateIdentity, KindConflictState:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// HandleError converts any service error into the response envelope. The
// original error is attached to the gin context so the logging middleware can
// record it.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		InternalServerErrorResponse(c)
		return
	}

	status := StatusForKind(appErr.Kind)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		InternalServerErrorResponse(c)
		return
	}

	if len(appErr.Details) > 0 {
		c.JSON(status, APIResponse{
			Success: false,
			Message: appErr.Message,
			Error:   appErr.Message,
			Errors:  appErr.Details,
		})
		return
	}

	ErrorResponse(c, status, appErr.Message)
}
