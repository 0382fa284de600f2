package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// tokenAuthorizer maps fixed tokens to identities.
type tokenAuthorizer map[string]*services.AuthContext

func (a tokenAuthorizer) Authorize(_ context.Context, token string, allowed ...models.Role) (*services.AuthContext, error) {
	auth, ok := a[token]
	if !ok {
		return nil, utils.NewUnauthenticatedError("Invalid or expired token")
	}
	if !services.RoleAllowed(auth.Role, allowed) {
		return nil, utils.NewForbiddenError(utils.ErrForbidden)
	}
	return auth, nil
}

var (
	adminID   = primitive.NewObjectID()
	driverID  = primitive.NewObjectID()
	authorize = tokenAuthorizer{
		"admin-token":  {PrincipalID: adminID, Role: models.RoleAdmin},
		"super-token":  {PrincipalID: primitive.NewObjectID(), Role: models.RoleSuperAdmin},
		"driver-token": {PrincipalID: driverID, Role: models.RoleDriver},
	}
)

func protectedRouter(guard gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/protected", guard, func(c *gin.Context) {
		id, _ := GetPrincipalID(c)
		c.String(http.StatusOK, id.Hex())
	})
	return router
}

func request(router http.Handler, token string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name   string
		guard  gin.HandlerFunc
		token  string
		status int
	}{
		{"missing token", AuthRequired(authorize), "", http.StatusUnauthorized},
		{"unknown token", AuthRequired(authorize), "nope", http.StatusUnauthorized},
		{"any role", AuthRequired(authorize), "driver-token", http.StatusOK},
		{"wrong role", AdminRequired(authorize), "driver-token", http.StatusForbidden},
		{"admin", AdminRequired(authorize), "admin-token", http.StatusOK},
		{"super admin on admin route", AdminRequired(authorize), "super-token", http.StatusOK},
		{"admin on super admin route", SuperAdminRequired(authorize), "admin-token", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := request(protectedRouter(tt.guard), tt.token, nil)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

func TestAuthRequiredSetsPrincipal(t *testing.T) {
	recorder := request(protectedRouter(DriverRequired(authorize)), "driver-token", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, driverID.Hex(), recorder.Body.String())
}

func TestAuthRequiredRejectsNonBearerScheme(t *testing.T) {
	recorder := request(protectedRouter(AuthRequired(authorize)), "", map[string]string{"Authorization": "Basic YWRtaW46cGFzcw=="})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthRequiredWebsocketQueryToken(t *testing.T) {
	router := protectedRouter(AdminRequired(authorize))

	req := httptest.NewRequest(http.MethodGet, "/protected?token=admin-token", nil)
	req.Header.Set("Upgrade", "websocket")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// the query token is ignored on plain requests
	req = httptest.NewRequest(http.MethodGet, "/protected?token=admin-token", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestIDFromContext(c.Request.Context()))
	})

	recorder := request(router, "", nil)
	generated := recorder.Header().Get(HeaderRequestID)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, recorder.Body.String())

	recorder = request(router, "", map[string]string{HeaderRequestID: "req-123"})
	assert.Equal(t, "req-123", recorder.Header().Get(HeaderRequestID))
	assert.Equal(t, "req-123", recorder.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://admin.mealhub.in"}))
	router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	recorder := request(router, "", map[string]string{"Origin": "https://admin.mealhub.in"})
	assert.Equal(t, "https://admin.mealhub.in", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))

	recorder = request(router, "", map[string]string{"Origin": "https://evil.example.com"})
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	open := gin.New()
	open.Use(CORSMiddleware([]string{"*"}))
	open.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	recorder = request(open, "", map[string]string{"Origin": "https://anywhere.example.com"})
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
}

type stubLimiter struct {
	allowed bool
	err     error
}

func (l stubLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return l.allowed, 42 * time.Second, l.err
}

func TestRateLimitMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		limiter    stubLimiter
		status     int
		retryAfter string
	}{
		{"allowed", stubLimiter{allowed: true}, http.StatusOK, ""},
		{"exceeded", stubLimiter{allowed: false}, http.StatusTooManyRequests, "42"},
		{"limiter down", stubLimiter{err: errors.New("redis down")}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RateLimitMiddleware(tt.limiter, logger.NewDiscard()))
			router.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

			recorder := request(router, "", nil)
			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.retryAfter, recorder.Header().Get("Retry-After"))
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware(logger.NewDiscard()))
	router.GET("/protected", func(c *gin.Context) { panic("boom") })

	recorder := request(router, "", nil)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "boom")
}
