package driver

import (
	"context"

	"taxi-booking/internal/auth-service/core/domain/dto"
	"taxi-booking/internal/auth-service/core/domain/models"

	"github.com/google/uuid"
)

type IAuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResult, error)
	Register(ctx context.Context, req dto.RegistrationRequest) (models.UserProfile, error)
	GetUserProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error)
	UpdateUserProfile(ctx context.Context, req dto.UpdateProfileRequest, id uuid.UUID) (models.UserProfile, error)
}
