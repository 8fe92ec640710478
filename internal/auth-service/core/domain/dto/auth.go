package dto

import (
	"taxi-booking/internal/common/types"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email      string           `json:"email" validate:"required,email"`
	Password   string           `json:"password"`
	AuthMethod types.AuthMethod `json:"auth_method"`
}

type LoginResult struct {
	UserID uuid.UUID  `json:"user_id"`
	Role   types.Role `json:"role"`
	RoleID uuid.UUID  `json:"role_id"`
}

type LoginResponse struct {
	LoginResult
	AccessToken string `json:"jwt_access"`
	ExpiresAt   string `json:"expires_at"`
}

type RegistrationRequest struct {
	Email      string           `json:"email" validate:"required,email"`
	Password   string           `json:"password"`
	Username   string           `json:"username" validate:"required"`
	FullName   string           `json:"full_name"`
	Address    string           `json:"address"`
	Role       types.Role       `json:"role" validate:"required"`
	AuthMethod types.AuthMethod `json:"auth_method"`
}

type RegistrationResponse struct {
	UserID uuid.UUID  `json:"user_id"`
	Role   types.Role `json:"role"`
	RoleID uuid.UUID  `json:"role_id"`
}

type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty"`
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Address  *string `json:"address,omitempty"`
}

type ProfileResponse struct {
	UserID       uuid.UUID           `json:"user_id"`
	Email        string              `json:"email"`
	Username     string              `json:"username"`
	FullName     string              `json:"full_name"`
	Address      string              `json:"address"`
	Role         types.Role          `json:"role"`
	RoleID       uuid.UUID           `json:"role_id"`
	DriverStatus *types.DriverStatus `json:"driver_status,omitempty"`
}
