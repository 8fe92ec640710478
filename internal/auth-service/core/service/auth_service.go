package service

import (
	"context"
	"errors"
	"fmt"

	"taxi-booking/internal/auth-service/core/domain/dto"
	"taxi-booking/internal/auth-service/core/domain/models"
	"taxi-booking/internal/auth-service/core/myerrors"
	"taxi-booking/internal/auth-service/core/ports/driven"
	"taxi-booking/internal/common/types"
	"taxi-booking/internal/mylogger"

	"github.com/google/uuid"
)

// AuthService decides identity. It never touches persistence directly; every
// read and write goes through the user store.
type AuthService struct {
	store        driven.IUserStore
	mylog        mylogger.Logger
	hashPassword func(string) ([]byte, error)
}

func NewAuthService(store driven.IUserStore, mylog mylogger.Logger) *AuthService {
	return &AuthService{
		store:        store,
		mylog:        mylog,
		hashPassword: hashPassword,
	}
}

// ======================= Login =======================
func (as *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResult, error) {
	mylog := as.mylog.Action("Login")

	method := req.AuthMethod
	if method == "" {
		method = types.AuthTraditional
	}
	if !method.Valid() {
		return dto.LoginResult{}, fmt.Errorf("%w: unknown auth method %q", myerrors.ErrInvalidInput, method)
	}

	email := normalizeEmail(req.Email)
	if err := validateLogin(email, req.Password, method == types.AuthTraditional); err != nil {
		return dto.LoginResult{}, err
	}

	var (
		user models.UserProfile
		err  error
	)
	if method == types.AuthTraditional {
		user, err = as.store.FindByCredentials(ctx, email, req.Password)
	} else {
		// federated: the identity provider already vouched for the email
		user, err = as.store.FindByEmail(ctx, email)
	}
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			mylog.Debug("Failed to login, no matching user", "auth_method", method)
			return dto.LoginResult{}, myerrors.ErrNotFound
		}
		mylog.Error("Failed to look up user", err)
		return dto.LoginResult{}, fmt.Errorf("%w: %v", myerrors.ErrStore, err)
	}

	if err := user.Validate(); err != nil {
		mylog.Error("Stored profile is inconsistent", err, "user_id", user.ID)
		return dto.LoginResult{}, fmt.Errorf("%w: %v", myerrors.ErrStore, err)
	}

	mylog.Info("User login successfully", "user_id", user.ID, "role", user.Role)
	return dto.LoginResult{
		UserID: user.ID,
		Role:   user.Role,
		RoleID: user.RoleID(),
	}, nil
}

// ======================= Register =======================
func (as *AuthService) Register(ctx context.Context, req dto.RegistrationRequest) (models.UserProfile, error) {
	mylog := as.mylog.Action("Register")

	if !req.Role.Valid() {
		return models.UserProfile{}, fmt.Errorf("%w: unknown role %q", myerrors.ErrInvalidInput, req.Role)
	}

	email := normalizeEmail(req.Email)
	federated := req.AuthMethod == types.AuthFederated
	if err := validateRegistration(req.Username, email, req.Password, !federated); err != nil {
		return models.UserProfile{}, err
	}

	// Advisory only: the store's unique index is what makes the email unique.
	if _, err := as.store.FindByEmail(ctx, email); err == nil {
		mylog.Warn("Failed to register, email already registered")
		return models.UserProfile{}, myerrors.ErrEmailRegistered
	} else if !errors.Is(err, myerrors.ErrNotFound) {
		mylog.Error("Failed to check email", err)
		return models.UserProfile{}, fmt.Errorf("%w: %v", myerrors.ErrStore, err)
	}

	record, err := models.NewRoleRecord(req.Role)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%w: %v", myerrors.ErrInvalidInput, err)
	}

	user := models.UserProfile{
		ID:       uuid.New(),
		Email:    email,
		Username: req.Username,
		FullName: req.FullName,
		Address:  req.Address,
		Role:     req.Role,
		Record:   record,
	}
	if req.Password != "" {
		hashed, err := as.hashPassword(req.Password)
		if err != nil {
			return models.UserProfile{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashed
	}

	switch record.(type) {
	case models.DriverRecord:
		err = as.store.CreateDriver(ctx, user)
	case models.ClientRecord:
		err = as.store.CreateClient(ctx, user)
	default:
		err = as.store.CreateUser(ctx, user)
	}
	if err != nil {
		if errors.Is(err, myerrors.ErrEmailRegistered) {
			mylog.Warn("Failed to register, email already registered")
			return models.UserProfile{}, myerrors.ErrEmailRegistered
		}
		mylog.Error("Failed to save user in db", err)
		return models.UserProfile{}, fmt.Errorf("%w: %v", myerrors.ErrStore, err)
	}

	mylog.Info("User registered successfully", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (as *AuthService) GetUserProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error) {
	user, err := as.store.GetUserProfile(ctx, id)
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			return models.UserProfile{}, myerrors.ErrNotFound
		}
		return models.UserProfile{}, fmt.Errorf("%w: %v", myerrors.ErrStore, err)
	}
	return user, nil
}

func (as *AuthService) UpdateUserProfile(ctx context.Context, req dto.UpdateProfileRequest, id uuid.UUID) (models.UserProfile, error) {
	mylog := as.mylog.Action("UpdateUserProfile")

	patch := models.ProfilePatch{
		Username: req.Username,
		FullName: req.FullName,
		Address:  req.Address,
	}
	if req.Username != nil {
		if err := validateName(*req.Username); err != nil {
			return models.UserProfile{}, fmt.Errorf("%w: invalid username: %v", myerrors.ErrInvalidInput, err)
		}
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if err := validateEmail(email); err != nil {
			return models.UserProfile{}, fmt.Errorf("%w: invalid email: %v", myerrors.ErrInvalidInput, err)
		}
		patch.Email = &email
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return models.UserProfile{}, fmt.Errorf("%w: invalid password: %v", myerrors.ErrInvalidInput, err)
		}
		hashed, err := as.hashPassword(*req.Password)
		if err != nil {
			return models.UserProfile{}, fmt.Errorf("failed to hash password: %w", err)
		}
		patch.PasswordHash = hashed
	}
	if patch.IsEmpty() {
		return models.UserProfile{}, fmt.Errorf("%w: nothing to update", myerrors.ErrInvalidInput)
	}

	user, err := as.store.UpdateUserProfile(ctx, patch, id)
	if err != nil {
		switch {
		case errors.Is(err, myerrors.ErrNotFound), errors.Is(err, myerrors.ErrEmailRegistered):
			mylog.Warn("Failed to update profile", "reason", err.Error())
			return models.UserProfile{}, err
		}
		mylog.Error("Failed to update profile", err)
		return models.UserProfile{}, fmt.Errorf("%w: %v", myerrors.ErrStore, err)
	}

	mylog.Info("Profile updated", "user_id", id)
	return user, nil
}
