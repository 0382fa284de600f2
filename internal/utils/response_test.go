package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func handle(err error) (*httptest.ResponseRecorder, APIResponse) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, err)

	var body APIResponse
	_ = json.Unmarshal(recorder.Body.Bytes(), &body)
	return recorder, body
}

func TestHandleErrorStatusTable(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", NewValidationError("bad input"), http.StatusBadRequest},
		{"duplicate", NewDuplicateError("phone taken"), http.StatusBadRequest},
		{"conflict", ErrPlanHasSubscribers, http.StatusBadRequest},
		{"not found", NewNotFoundError("Plan"), http.StatusNotFound},
		{"unauthenticated", ErrInvalidOTP, http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("nope"), http.StatusForbidden},
		{"upstream", NewUpstreamError("sms down", errors.New("dial tcp")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := handle(tt.err)
			assert.Equal(t, tt.status, recorder.Code)
			assert.False(t, body.Success)
		})
	}
}

func TestHandleErrorRedactsInternalDetail(t *testing.T) {
	recorder, body := handle(errors.New("mongo: connection refused at 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, ErrInternalServer, body.Message)
	assert.NotContains(t, recorder.Body.String(), "10.0.0.3")

	recorder, _ = handle(NewInternalError("insert failed", errors.New("secret detail")))
	assert.NotContains(t, recorder.Body.String(), "secret detail")
}

func TestHandleErrorIncludesDetails(t *testing.T) {
	recorder, body := handle(NewValidationError("Validation failed", "name is required", "price must be positive"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, []string{"name is required", "price must be positive"}, body.Errors)
}

func TestListSuccessResponse(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	ListSuccessResponse(c, "Plans retrieved", []string{"a", "b"}, 2, NewPaginationParams(1, 2, "", "", ""), 5)

	var body ListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, int64(5), body.Total)
	assert.Equal(t, 3, body.TotalPages)
	assert.Equal(t, 1, body.CurrentPage)
}

func TestAppErrorIsMatchesCode(t *testing.T) {
	wrapped := &AppError{Kind: KindValidation, Code: ErrAlreadyApproved.Code, Message: "copy"}
	assert.True(t, errors.Is(wrapped, ErrAlreadyApproved))
	assert.False(t, errors.Is(wrapped, ErrAlreadyRejected))

	assert.Equal(t, KindInternal, AsAppError(errors.New("boom")).Kind)
	assert.Same(t, ErrInvalidOTP, AsAppError(ErrInvalidOTP))
}
