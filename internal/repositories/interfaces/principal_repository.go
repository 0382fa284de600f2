package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/models"
)

// AccountStatusRepository is implemented by every principal store.
type AccountStatusRepository interface {
	GetAccountStatus(ctx context.Context, id primitive.ObjectID) (*models.AccountStatus, error)
}

// OTPPrincipalRepository is implemented by stores whose principals sign in
// with a one-time code.
type OTPPrincipalRepository interface {
	AccountStatusRepository
	// UpsertOTP stores code for phone, creating the principal when absent.
	// It reports whether a new principal was created.
	UpsertOTP(ctx context.Context, phone, code string, expiresAt time.Time) (bool, error)
	// ConsumeOTP atomically matches an unexpired code, marks the principal
	// verified, clears the code and stamps the login time.
	ConsumeOTP(ctx context.Context, phone, code string, now time.Time) (models.OTPPrincipal, error)
}

// PasswordPrincipalRepository is implemented by stores whose principals sign
// in with a password.
type PasswordPrincipalRepository interface {
	AccountStatusRepository
	GetCredential(ctx context.Context, phone string) (*models.PasswordCredential, error)
	TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	GetPrincipal(ctx context.Context, id primitive.ObjectID) (models.Principal, error)
}
