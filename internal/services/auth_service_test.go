package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealhub/internal/models"
	"mealhub/internal/utils"
	"mealhub/pkg/logger"
)

type authFixture struct {
	service  AuthService
	users    *fakeUsers
	notifier *recordingNotifier
	revoker  *memoryRevoker
}

func newAuthFixture(limiter RateLimiter) *authFixture {
	f := &authFixture{
		users:    newFakeUsers(),
		notifier: newRecordingNotifier(),
		revoker:  &memoryRevoker{revoked: map[string]time.Time{}},
	}
	f.service = NewAuthService(
		nil, nil, nil, f.users,
		utils.NewTokenIssuer("test-secret", time.Hour),
		f.revoker,
		limiter,
		f.notifier,
		&recordingBus{},
		AuthConfig{ExposeOTP: true, BcryptCost: 4},
		logger.NewDiscard(),
	)
	return f
}

func TestOTPRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(nil)

	sent, err := f.service.RequestOTP(ctx, models.RoleUser, "9876543210")
	require.NoError(t, err)
	assert.True(t, sent.IsNew)
	assert.Equal(t, utils.FixedOTP, sent.OTP)
	assert.Equal(t, "******3210", sent.Phone)
	assert.Equal(t, utils.FixedOTP, f.notifier.otps["9876543210"])

	_, err = f.service.VerifyOTP(ctx, models.RoleUser, "9876543210", "000000")
	assert.True(t, errors.Is(err, utils.ErrInvalidOTP))

	login, err := f.service.VerifyOTP(ctx, models.RoleUser, "9876543210", utils.FixedOTP)
	require.NoError(t, err)
	assert.True(t, login.IsNewUser)
	assert.True(t, login.NeedsProfileCompletion)

	user := f.users.byPhone["9876543210"]
	assert.True(t, user.IsVerified)
	assert.Equal(t, user.ID, login.Principal.PrincipalID())

	auth, err := f.service.Authorize(ctx, login.Token.Token, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, user.ID, auth.PrincipalID)
	assert.Equal(t, models.RoleUser, auth.Role)

	// the code is single use
	_, err = f.service.VerifyOTP(ctx, models.RoleUser, "9876543210", utils.FixedOTP)
	assert.True(t, errors.Is(err, utils.ErrInvalidOTP))
}

func TestRequestOTPExistingPrincipal(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(nil)

	_, err := f.service.RequestOTP(ctx, models.RoleUser, "9876543210")
	require.NoError(t, err)

	again, err := f.service.RequestOTP(ctx, models.RoleUser, "9876543210")
	require.NoError(t, err)
	assert.False(t, again.IsNew)
}

func TestRequestOTPRejectsPasswordRoles(t *testing.T) {
	f := newAuthFixture(nil)

	_, err := f.service.RequestOTP(context.Background(), models.RoleAdmin, "9876543210")
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.AsAppError(err).Kind)
}

func TestRequestOTPRateLimited(t *testing.T) {
	f := newAuthFixture(stubLimiter{allowed: false})

	_, err := f.service.RequestOTP(context.Background(), models.RoleUser, "9876543210")
	require.Error(t, err)
	assert.Equal(t, "TOO_MANY_OTP_REQUESTS", utils.AsAppError(err).Code)
	assert.Empty(t, f.notifier.otps)
}

func TestRequestOTPLimiterFailureFailsOpen(t *testing.T) {
	f := newAuthFixture(stubLimiter{err: errors.New("redis down")})

	_, err := f.service.RequestOTP(context.Background(), models.RoleUser, "9876543210")
	assert.NoError(t, err)
}

func TestAuthorizeRoleAndRevocation(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(nil)

	_, err := f.service.RequestOTP(ctx, models.RoleUser, "9123456780")
	require.NoError(t, err)
	login, err := f.service.VerifyOTP(ctx, models.RoleUser, "9123456780", utils.FixedOTP)
	require.NoError(t, err)

	_, err = f.service.Authorize(ctx, login.Token.Token, models.RoleAdmin)
	assert.Equal(t, utils.KindForbidden, utils.AsAppError(err).Kind)

	_, err = f.service.Authorize(ctx, "garbage")
	assert.Equal(t, utils.KindUnauthenticated, utils.AsAppError(err).Kind)

	auth, err := f.service.Authorize(ctx, login.Token.Token)
	require.NoError(t, err)
	require.NoError(t, f.service.Logout(ctx, auth))

	_, err = f.service.Authorize(ctx, login.Token.Token)
	assert.Equal(t, utils.KindUnauthenticated, utils.AsAppError(err).Kind)
}

func TestVerifyOTPBlockedAccount(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(nil)

	_, err := f.service.RequestOTP(ctx, models.RoleUser, "9876543210")
	require.NoError(t, err)
	f.users.byPhone["9876543210"].IsBlocked = true

	_, err = f.service.VerifyOTP(ctx, models.RoleUser, "9876543210", utils.FixedOTP)
	assert.Equal(t, utils.KindForbidden, utils.AsAppError(err).Kind)
}

func TestRoleAllowed(t *testing.T) {
	assert.True(t, RoleAllowed(models.RoleSuperAdmin, []models.Role{models.RoleAdmin}))
	assert.False(t, RoleAllowed(models.RoleAdmin, []models.Role{models.RoleSuperAdmin}))
	assert.True(t, RoleAllowed(models.RoleDriver, nil))
	assert.False(t, RoleAllowed(models.RoleUser, []models.Role{models.RoleDriver, models.RoleRestaurant}))
}
