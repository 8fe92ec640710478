package driven

import (
	"context"

	"taxi-booking/internal/auth-service/core/domain/models"

	"github.com/google/uuid"
)

// IUserStore persists profiles and their role records. Lookups return
// myerrors.ErrNotFound when nothing matches; creates return
// myerrors.ErrEmailRegistered when the email is taken.
type IUserStore interface {
	FindByCredentials(ctx context.Context, email, password string) (models.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (models.UserProfile, error)
	GetUserProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error)
	CreateUser(ctx context.Context, user models.UserProfile) error
	CreateClient(ctx context.Context, user models.UserProfile) error
	CreateDriver(ctx context.Context, user models.UserProfile) error
	UpdateUserProfile(ctx context.Context, patch models.ProfilePatch, id uuid.UUID) (models.UserProfile, error)
}
