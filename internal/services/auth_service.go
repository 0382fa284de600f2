package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"mealhub/internal/models"
	"mealhub/internal/repositories/interfaces"
	"mealhub/internal/utils"
	"mealhub/internal/validators"
	"mealhub/pkg/logger"
)

type AuthService interface {
	// OTP flow (drivers and customers)
	RequestOTP(ctx context.Context, role models.Role, phone string) (*OTPResponse, error)
	VerifyOTP(ctx context.Context, role models.Role, phone, code string) (*OTPLoginResponse, error)

	// Password flow (admins and restaurants)
	Login(ctx context.Context, role models.Role, phone, password string) (*LoginResponse, error)
	RegisterAdmin(ctx context.Context, request *validators.AdminRegisterRequest) (*LoginResponse, error)
	RegisterRestaurant(ctx context.Context, request *validators.RestaurantRegisterRequest) (*LoginResponse, error)

	// Session
	Authorize(ctx context.Context, token string, allowed ...models.Role) (*AuthContext, error)
	Logout(ctx context.Context, auth *AuthContext) error
}

// AuthContext is the verified identity attached to a request.
type AuthContext struct {
	PrincipalID primitive.ObjectID
	Role        models.Role
	TokenID     string
	ExpiresAt   time.Time
}

func (a *AuthContext) Actor() *Actor {
	return &Actor{ID: a.PrincipalID, Role: a.Role}
}

type OTPResponse struct {
	Phone     string `json:"phone"`
	ExpiresIn int64  `json:"expiresIn"`
	IsNew     bool   `json:"isNew"`
	OTP       string `json:"otp,omitempty"`
}

type OTPLoginResponse struct {
	Token                  *utils.IssuedToken `json:"token"`
	Principal              models.Principal   `json:"principal"`
	Role                   models.Role        `json:"role"`
	IsNewUser              bool               `json:"isNewUser"`
	NeedsProfileCompletion bool               `json:"needsProfileCompletion"`
}

type LoginResponse struct {
	Token     *utils.IssuedToken `json:"token"`
	Principal models.Principal   `json:"principal"`
	Role      models.Role        `json:"role"`
}

type AuthConfig struct {
	OTPExpiry  time.Duration
	BcryptCost int
	// ExposeOTP echoes the code in the OTP response for development builds.
	ExposeOTP bool
}

type authService struct {
	admins      interfaces.AdminRepository
	restaurants interfaces.RestaurantRepository
	drivers     interfaces.DriverRepository
	users       interfaces.UserRepository
	tokens      *utils.TokenIssuer
	revoker     TokenRevoker
	otpLimiter  RateLimiter
	notifier    NotificationService
	events      EventBus
	config      AuthConfig
	audit       *logger.AuditLogger
	logger      *logger.Logger
}

func NewAuthService(
	admins interfaces.AdminRepository,
	restaurants interfaces.RestaurantRepository,
	drivers interfaces.DriverRepository,
	users interfaces.UserRepository,
	tokens *utils.TokenIssuer,
	revoker TokenRevoker,
	otpLimiter RateLimiter,
	notifier NotificationService,
	events EventBus,
	config AuthConfig,
	log *logger.Logger,
) AuthService {
	if config.OTPExpiry <= 0 {
		config.OTPExpiry = utils.OTPExpiry
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		admins:      admins,
		restaurants: restaurants,
		drivers:     drivers,
		users:       users,
		tokens:      tokens,
		revoker:     revoker,
		otpLimiter:  otpLimiter,
		notifier:    notifier,
		events:      events,
		config:      config,
		audit:       logger.NewAuditLogger(log),
		logger:      log.WithField("service", "auth"),
	}
}

func (s *authService) otpStore(role models.Role) (interfaces.OTPPrincipalRepository, error) {
	switch role {
	case models.RoleDriver:
		return s.drivers, nil
	case models.RoleUser:
		return s.users, nil
	}
	return nil, utils.NewValidationError(fmt.Sprintf("OTP sign-in is not available for %s accounts", role))
}

func (s *authService) passwordStore(role models.Role) (interfaces.PasswordPrincipalRepository, error) {
	switch role {
	case models.RoleAdmin, models.RoleSuperAdmin:
		return s.admins, nil
	case models.RoleRestaurant:
		return s.restaurants, nil
	}
	return nil, utils.NewValidationError(fmt.Sprintf("Password sign-in is not available for %s accounts", role))
}

func (s *authService) statusStore(role models.Role) interfaces.AccountStatusRepository {
	switch role {
	case models.RoleAdmin, models.RoleSuperAdmin:
		return s.admins
	case models.RoleRestaurant:
		return s.restaurants
	case models.RoleDriver:
		return s.drivers
	case models.RoleUser:
		return s.users
	}
	return nil
}

func (s *authService) RequestOTP(ctx context.Context, role models.Role, phone string) (*OTPResponse, error) {
	store, err := s.otpStore(role)
	if err != nil {
		return nil, err
	}

	if s.otpLimiter != nil {
		allowed, retryAfter, err := s.otpLimiter.Allow(ctx, string(role)+":"+phone)
		if err != nil {
			s.logger.WithError(err).Warn("OTP rate limiter unavailable")
		} else if !allowed {
			return nil, &utils.AppError{
				Kind:    utils.KindValidation,
				Code:    "TOO_MANY_OTP_REQUESTS",
				Message: fmt.Sprintf("Too many OTP requests, try again in %d seconds", int(retryAfter.Seconds())+1),
			}
		}
	}

	code := utils.FixedOTP
	created, err := store.UpsertOTP(ctx, phone, code, time.Now().Add(s.config.OTPExpiry))
	if err != nil {
		return nil, utils.NewInternalError("Failed to issue OTP", err)
	}

	s.notifier.SendOTP(ctx, phone, code)
	s.audit.LogAuthEvent("otp_requested", string(role), phone, nil, true)

	response := &OTPResponse{
		Phone:     utils.MaskPhone(phone),
		ExpiresIn: int64(s.config.OTPExpiry.Seconds()),
		IsNew:     created,
	}
	if s.config.ExposeOTP {
		response.OTP = code
	}
	return response, nil
}

func (s *authService) VerifyOTP(ctx context.Context, role models.Role, phone, code string) (*OTPLoginResponse, error) {
	store, err := s.otpStore(role)
	if err != nil {
		return nil, err
	}

	principal, err := store.ConsumeOTP(ctx, phone, code, time.Now())
	if err != nil {
		if errors.Is(err, utils.ErrRecordNotFound) {
			s.audit.LogAuthEvent("otp_verified", string(role), phone, nil, false)
			return nil, utils.ErrInvalidOTP
		}
		return nil, utils.NewInternalError("Failed to verify OTP", err)
	}

	id := principal.PrincipalID()
	status, err := store.GetAccountStatus(ctx, id)
	if err != nil {
		return nil, utils.NewInternalError("Failed to verify OTP", err)
	}
	if status.IsBlocked {
		return nil, utils.NewForbiddenError("Account is blocked")
	}
	if !status.IsActive {
		return nil, utils.NewForbiddenError("Account is inactive")
	}

	token, err := s.tokens.Issue(id.Hex(), string(role))
	if err != nil {
		return nil, utils.NewInternalError("Failed to issue token", err)
	}

	s.audit.LogAuthEvent("otp_verified", string(role), phone, &id, true)

	return &OTPLoginResponse{
		Token:                  token,
		Principal:              principal,
		Role:                   role,
		IsNewUser:              principal.IsNewUser(),
		NeedsProfileCompletion: principal.NeedsProfileCompletion(),
	}, nil
}

// dummyHash keeps the cost of a failed lookup close to a failed compare.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("mealhub-dummy-password"), bcrypt.MinCost)

func (s *authService) Login(ctx context.Context, role models.Role, phone, password string) (*LoginResponse, error) {
	store, err := s.passwordStore(role)
	if err != nil {
		return nil, err
	}

	credential, err := store.GetCredential(ctx, phone)
	if err != nil {
		if !errors.Is(err, utils.ErrRecordNotFound) {
			return nil, utils.NewInternalError("Failed to sign in", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.audit.LogAuthEvent("login", string(role), phone, nil, false)
		return nil, utils.ErrInvalidCredential
	}

	if bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)) != nil ||
		!credential.IsActive || credential.IsBlocked {
		s.audit.LogAuthEvent("login", string(role), phone, &credential.ID, false)
		return nil, utils.ErrInvalidCredential
	}

	if err := store.TouchLogin(ctx, credential.ID, time.Now()); err != nil {
		s.logger.WithError(err).Warn("Failed to record last login")
	}

	principal, err := store.GetPrincipal(ctx, credential.ID)
	if err != nil {
		return nil, utils.NewInternalError("Failed to sign in", err)
	}

	token, err := s.tokens.Issue(credential.ID.Hex(), string(credential.Role))
	if err != nil {
		return nil, utils.NewInternalError("Failed to issue token", err)
	}

	s.audit.LogAuthEvent("login", string(credential.Role), phone, &credential.ID, true)

	return &LoginResponse{Token: token, Principal: principal, Role: credential.Role}, nil
}

// RegisterAdmin creates an inactive admin. A super admin activates it with
// the account toggle before it can act.
func (s *authService) RegisterAdmin(ctx context.Context, request *validators.AdminRegisterRequest) (*LoginResponse, error) {
	hash, err := HashPassword(request.Password, s.config.BcryptCost)
	if err != nil {
		return nil, utils.NewInternalError("Failed to register", err)
	}

	admin := &models.Admin{
		Name:     request.Name,
		Phone:    request.Phone,
		Email:    request.Email,
		Password: hash,
		Role:     models.RoleAdmin,
		IsActive: false,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, utils.ErrDuplicateKey) {
			return nil, utils.NewDuplicateError("An admin with this phone number already exists")
		}
		return nil, utils.NewInternalError("Failed to register", err)
	}

	token, err := s.tokens.Issue(admin.ID.Hex(), string(admin.Role))
	if err != nil {
		return nil, utils.NewInternalError("Failed to issue token", err)
	}

	s.audit.LogAuthEvent("register", string(admin.Role), admin.Phone, &admin.ID, true)
	return &LoginResponse{Token: token, Principal: admin, Role: admin.Role}, nil
}

func (s *authService) RegisterRestaurant(ctx context.Context, request *validators.RestaurantRegisterRequest) (*LoginResponse, error) {
	hash, err := HashPassword(request.Password, s.config.BcryptCost)
	if err != nil {
		return nil, utils.NewInternalError("Failed to register", err)
	}

	restaurant := &models.Restaurant{
		Name:      request.Name,
		OwnerName: request.OwnerName,
		Phone:     request.Phone,
		Email:     request.Email,
		Password:  hash,
		IsActive:  true,
	}
	if err := s.restaurants.Create(ctx, restaurant); err != nil {
		if errors.Is(err, utils.ErrDuplicateKey) {
			return nil, utils.NewDuplicateError("A restaurant with this phone number already exists")
		}
		return nil, utils.NewInternalError("Failed to register", err)
	}

	token, err := s.tokens.Issue(restaurant.ID.Hex(), string(models.RoleRestaurant))
	if err != nil {
		return nil, utils.NewInternalError("Failed to issue token", err)
	}

	s.audit.LogAuthEvent("register", string(models.RoleRestaurant), restaurant.Phone, &restaurant.ID, true)
	return &LoginResponse{Token: token, Principal: restaurant, Role: models.RoleRestaurant}, nil
}

func (s *authService) Authorize(ctx context.Context, token string, allowed ...models.Role) (*AuthContext, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, utils.NewUnauthenticatedError("Invalid or expired token")
	}

	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, utils.NewUnauthenticatedError("Invalid or expired token")
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.RegisteredClaims.ID)
		if err != nil {
			s.logger.WithError(err).Warn("Token revocation check unavailable")
		} else if revoked {
			return nil, utils.NewUnauthenticatedError("Token has been revoked")
		}
	}

	store := s.statusStore(models.Role(claims.Role))
	if store == nil {
		return nil, utils.NewUnauthenticatedError("Invalid or expired token")
	}

	status, err := store.GetAccountStatus(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrRecordNotFound) {
			return nil, utils.NewUnauthenticatedError("Account not found")
		}
		return nil, utils.NewInternalError("Failed to authorize", err)
	}

	// admin roles can change after the token was issued
	role := status.Role
	if !RoleAllowed(role, allowed) {
		return nil, utils.NewForbiddenError(utils.ErrForbidden)
	}
	if status.IsBlocked {
		return nil, utils.NewForbiddenError("Account is blocked")
	}
	if !status.IsActive {
		return nil, utils.NewForbiddenError("Account is inactive")
	}

	auth := &AuthContext{
		PrincipalID: id,
		Role:        role,
		TokenID:     claims.RegisteredClaims.ID,
	}
	if claims.ExpiresAt != nil {
		auth.ExpiresAt = claims.ExpiresAt.Time
	}
	return auth, nil
}

func (s *authService) Logout(ctx context.Context, auth *AuthContext) error {
	if s.revoker != nil && auth.TokenID != "" {
		if err := s.revoker.Revoke(ctx, auth.TokenID, auth.ExpiresAt); err != nil {
			return utils.NewUpstreamError("Failed to revoke token", err)
		}
	}

	if auth.Role == models.RoleDriver {
		now := time.Now()
		if _, err := s.drivers.UpdateStatus(ctx, auth.PrincipalID, models.DriverStatusOffline, now); err != nil {
			return utils.NewInternalError("Failed to sign out", err)
		}
		s.events.Publish(ctx, newEvent(models.EventDriverStatusChanged, "driver", auth.PrincipalID, auth.Actor(),
			map[string]interface{}{"status": models.DriverStatusOffline, "reason": "logout"}))
	}

	s.logger.WithPrincipal(string(auth.Role), auth.PrincipalID).Info("Signed out")
	return nil
}

// RoleAllowed reports whether role may access a route open to allowed. A
// super admin may use every admin route. An empty list allows any role.
func RoleAllowed(role models.Role, allowed []models.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role || (r == models.RoleAdmin && role == models.RoleSuperAdmin) {
			return true
		}
	}
	return false
}

func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
