package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/pkg/logger"
)

const (
	ContextKeyAuth        = "auth"
	ContextKeyPrincipalID = "principal_id"
	ContextKeyRole        = "role"
)

// Authorizer verifies a bearer token for the given roles.
type Authorizer interface {
	Authorize(ctx context.Context, token string, allowed ...models.Role) (*services.AuthContext, error)
}

// AuthRequired validates the bearer token and sets the principal context.
// With no roles any authenticated principal passes.
func AuthRequired(auth Authorizer, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.UnauthorizedResponse(c, "Authorization header required")
			c.Abort()
			return
		}

		authCtx, err := auth.Authorize(c.Request.Context(), token, roles...)
		if err != nil {
			utils.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextKeyAuth, authCtx)
		c.Set(ContextKeyPrincipalID, authCtx.PrincipalID)
		c.Set(ContextKeyRole, authCtx.Role)
		c.Request = c.Request.WithContext(logger.ContextWithPrincipal(c.Request.Context(), authCtx.PrincipalID.Hex()))

		c.Next()
	}
}

// AdminRequired admits admins and super admins.
func AdminRequired(auth Authorizer) gin.HandlerFunc {
	return AuthRequired(auth, models.RoleAdmin)
}

// SuperAdminRequired admits super admins only.
func SuperAdminRequired(auth Authorizer) gin.HandlerFunc {
	return AuthRequired(auth, models.RoleSuperAdmin)
}

func DriverRequired(auth Authorizer) gin.HandlerFunc {
	return AuthRequired(auth, models.RoleDriver)
}

func UserRequired(auth Authorizer) gin.HandlerFunc {
	return AuthRequired(auth, models.RoleUser)
}

func RestaurantRequired(auth Authorizer) gin.HandlerFunc {
	return AuthRequired(auth, models.RoleRestaurant)
}

// GetAuth returns the verified identity set by AuthRequired.
func GetAuth(c *gin.Context) (*services.AuthContext, bool) {
	value, exists := c.Get(ContextKeyAuth)
	if !exists {
		return nil, false
	}
	authCtx, ok := value.(*services.AuthContext)
	return authCtx, ok
}

// GetPrincipalID returns the authenticated principal id.
func GetPrincipalID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(ContextKeyPrincipalID)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// a websocket handshake, so upgrades may pass the token as a query parameter.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return ""
		}
		return strings.TrimSpace(token)
	}

	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query("token")
	}
	return ""
}
