package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/middleware"
	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/services"
	"mealhub/internal/utils"
	"mealhub/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// staticAuthorizer accepts a single token for a single principal.
type staticAuthorizer struct {
	auth *services.AuthContext
}

func (a staticAuthorizer) Authorize(_ context.Context, token string, allowed ...models.Role) (*services.AuthContext, error) {
	if token != "valid" {
		return nil, utils.NewUnauthenticatedError("Invalid or expired token")
	}
	if !services.RoleAllowed(a.auth.Role, allowed) {
		return nil, utils.NewForbiddenError(utils.ErrForbidden)
	}
	return a.auth, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func perform(t *testing.T, router http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var out envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out), recorder.Body.String())
	return recorder.Code, out
}

// reviews

type memoryReviews struct {
	interfaces.ReviewRepository
	reviews map[primitive.ObjectID]*models.Review
}

func (m *memoryReviews) GetByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, utils.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *memoryReviews) ApplyIf(_ context.Context, id primitive.ObjectID, _ bson.M, update bson.M) (*models.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, utils.ErrRecordNotFound
	}
	set, _ := update["$set"].(bson.M)
	if status, ok := set["status"].(models.ReviewStatus); ok {
		r.Status = status
	}
	if moderation, ok := set["moderation"].(models.ReviewModeration); ok {
		r.Moderation = &moderation
	}
	if _, ok := update["$unset"]; ok {
		r.Flag = nil
	}
	copied := *r
	return &copied, nil
}

func (m *memoryReviews) RatingSummary(context.Context, primitive.ObjectID) (float64, int, error) {
	return 0, 0, nil
}

type noopRatings struct {
	interfaces.RestaurantRepository
}

func (noopRatings) UpdateRating(context.Context, primitive.ObjectID, float64, int) error {
	return nil
}

type discardBus struct{}

func (discardBus) Publish(context.Context, *models.Event) {}

func TestRejectReviewReasonLength(t *testing.T) {
	review := &models.Review{
		ID:        primitive.NewObjectID(),
		Status:    models.ReviewPending,
		Flag:      &models.ReviewFlag{Reason: "Suspected fake review"},
		IsVisible: true,
	}
	repo := &memoryReviews{reviews: map[primitive.ObjectID]*models.Review{review.ID: review}}
	handler := NewReviewHandler(services.NewReviewService(repo, noopRatings{}, nil, discardBus{}, logger.NewDiscard()))

	admin := staticAuthorizer{auth: &services.AuthContext{PrincipalID: primitive.NewObjectID(), Role: models.RoleAdmin}}
	router := gin.New()
	router.PATCH("/admin/reviews/:id/reject", middleware.AdminRequired(admin), handler.RejectReview)
	path := "/admin/reviews/" + review.ID.Hex() + "/reject"

	status, body := perform(t, router, http.MethodPatch, path, `{"reason":"too short"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, body.Success)
	assert.Equal(t, models.ReviewPending, review.Status)

	status, body = perform(t, router, http.MethodPatch, path, `{"reason":"Contains personal contact details"}`)
	require.Equal(t, http.StatusOK, status)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "rejected", data["status"])
	assert.Equal(t, true, data["isRejected"])
	assert.Equal(t, false, data["isApproved"])
	assert.Equal(t, false, data["isFlagged"])

	status, _ = perform(t, router, http.MethodPatch, "/admin/reviews/not-an-id/reject", `{"reason":"Contains personal contact details"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

// users

type memoryUsers struct {
	interfaces.UserRepository
	users map[primitive.ObjectID]*models.User
}

func (m *memoryUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, utils.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) UpdateProfile(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, utils.ErrRecordNotFound
	}
	if v, ok := fields["first_name"].(string); ok {
		u.FirstName = v
	}
	if v, ok := fields["last_name"].(string); ok {
		u.LastName = v
	}
	u.IsProfile = u.HasName()
	copied := *u
	return &copied, nil
}

func TestUpdateUserProfileNames(t *testing.T) {
	userID := primitive.NewObjectID()
	repo := &memoryUsers{users: map[primitive.ObjectID]*models.User{
		userID: {ID: userID, Phone: "9876543210", IsActive: true},
	}}
	handler := NewUserHandler(services.NewUserService(repo, nil, logger.NewDiscard()))

	user := staticAuthorizer{auth: &services.AuthContext{PrincipalID: userID, Role: models.RoleUser}}
	router := gin.New()
	router.PUT("/user/profile", middleware.UserRequired(user), handler.UpdateProfile)

	status, body := perform(t, router, http.MethodPut, "/user/profile", `{"firstName":"A"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body.Errors)
	assert.False(t, repo.users[userID].IsProfile)

	status, body = perform(t, router, http.MethodPut, "/user/profile", `{"firstName":"Asha","lastName":"Rao"}`)
	require.Equal(t, http.StatusOK, status)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "Asha", data["firstName"])
	assert.Equal(t, "Rao", data["lastName"])
	assert.Equal(t, true, data["isProfile"])

	status, _ = perform(t, router, http.MethodPut, "/user/profile", `{"firstName":`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestToggleHandlerRejectsUnknownField(t *testing.T) {
	restaurantID := primitive.NewObjectID()
	handler := NewToggleHandler(services.NewToggleService(nil, nil, nil, nil, nil, nil, discardBus{}, logger.NewDiscard()))

	restaurant := staticAuthorizer{auth: &services.AuthContext{PrincipalID: restaurantID, Role: models.RoleRestaurant}}
	router := gin.New()
	router.PATCH("/restaurant/items/:id/toggle/:field", middleware.RestaurantRequired(restaurant), handler.Toggle("item"))

	status, body := perform(t, router, http.MethodPatch, "/restaurant/items/"+primitive.NewObjectID().Hex()+"/toggle/isDeleted", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"allowed: isAvailable, isVegetarian"}, body.Errors)
}
