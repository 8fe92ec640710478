package handle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"taxi-booking/internal/auth-service/core/domain/dto"
	"taxi-booking/internal/auth-service/core/domain/models"
	"taxi-booking/internal/auth-service/core/myerrors"
	"taxi-booking/internal/auth-service/core/ports/driver"
	"taxi-booking/internal/common/authz"
	"taxi-booking/internal/common/jwtauth"
	"taxi-booking/internal/common/types"
	"taxi-booking/internal/metrics"
	"taxi-booking/internal/mylogger"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminRegistration  = errors.New("admin accounts cannot be self-registered")
	ErrUnauthorized       = errors.New("unauthorized")
)

type AuthHandler struct {
	authService driver.IAuthService
	tokens      *jwtauth.Manager
	metrics     *metrics.Collector
	validate    *validator.Validate
	mylog       mylogger.Logger
}

func NewAuthHandler(authService driver.IAuthService, tokens *jwtauth.Manager, m *metrics.Collector, mylog mylogger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		metrics:     m,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		mylog:       mylog,
	}
}

func (ah *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var authReq dto.LoginRequest

		mylog := ah.mylog.Action("Login")

		if err := json.NewDecoder(r.Body).Decode(&authReq); err != nil {
			mylog.Debug("Failed to parse login request", "error", err.Error())
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}
		authReq.Email = strings.TrimSpace(authReq.Email)
		if err := ah.validate.Struct(authReq); err != nil {
			jsonError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", myerrors.ErrInvalidInput, err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		res, err := ah.authService.Login(ctx, authReq)
		if err != nil {
			switch {
			case errors.Is(err, myerrors.ErrNotFound):
				ah.metrics.RecordLogin(metrics.OutcomeRejected)
				jsonError(w, http.StatusUnauthorized, ErrInvalidCredentials)
			case errors.Is(err, myerrors.ErrInvalidInput):
				ah.metrics.RecordLogin(metrics.OutcomeRejected)
				jsonError(w, http.StatusBadRequest, err)
			default:
				ah.metrics.RecordLogin(metrics.OutcomeFailure)
				jsonError(w, http.StatusInternalServerError, errors.New("internal server error"))
			}
			return
		}

		accessToken, expiresAt, err := ah.tokens.Issue(authz.Identity{
			UserID: res.UserID,
			Role:   res.Role,
			RoleID: res.RoleID,
		})
		if err != nil {
			mylog.Error("Failed to sign access token", err)
			ah.metrics.RecordLogin(metrics.OutcomeFailure)
			jsonError(w, http.StatusInternalServerError, errors.New("internal server error"))
			return
		}

		ah.metrics.RecordLogin(metrics.OutcomeSuccess)
		jsonResponse(w, http.StatusOK, dto.LoginResponse{
			LoginResult: res,
			AccessToken: accessToken,
			ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
		})
		mylog.Info("Successfully login!", "user_id", res.UserID)
	}
}

func (ah *AuthHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var regReq dto.RegistrationRequest

		mylog := ah.mylog.Action("Register")

		if err := json.NewDecoder(r.Body).Decode(&regReq); err != nil {
			mylog.Debug("Failed to parse registration request", "error", err.Error())
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}
		regReq.Email = strings.TrimSpace(regReq.Email)
		if err := ah.validate.Struct(regReq); err != nil {
			jsonError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", myerrors.ErrInvalidInput, err))
			return
		}
		if regReq.Role == types.RoleAdmin {
			ah.metrics.RecordRegistration(metrics.OutcomeRejected)
			jsonError(w, http.StatusBadRequest, ErrAdminRegistration)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		user, err := ah.authService.Register(ctx, regReq)
		if err != nil {
			switch {
			case errors.Is(err, myerrors.ErrEmailRegistered):
				ah.metrics.RecordRegistration(metrics.OutcomeConflict)
				jsonError(w, http.StatusConflict, myerrors.ErrEmailRegistered)
			case errors.Is(err, myerrors.ErrInvalidInput):
				ah.metrics.RecordRegistration(metrics.OutcomeRejected)
				jsonError(w, http.StatusBadRequest, err)
			default:
				ah.metrics.RecordRegistration(metrics.OutcomeFailure)
				jsonError(w, http.StatusInternalServerError, errors.New("internal server error"))
			}
			return
		}

		ah.metrics.RecordRegistration(metrics.OutcomeSuccess)
		jsonResponse(w, http.StatusCreated, dto.RegistrationResponse{
			UserID: user.ID,
			Role:   user.Role,
			RoleID: user.RoleID(),
		})
		mylog.Info("Successfully registered!", "user_id", user.ID, "role", user.Role)
	}
}

func (ah *AuthHandler) GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := authz.IdentityFromContext(r.Context())
		if !ok {
			jsonError(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		user, err := ah.authService.GetUserProfile(ctx, id.UserID)
		if err != nil {
			ah.profileError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, toProfileResponse(user))
	}
}

func (ah *AuthHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := ah.mylog.Action("UpdateProfile")

		id, ok := authz.IdentityFromContext(r.Context())
		if !ok {
			jsonError(w, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		var req dto.UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Debug("Failed to parse profile update", "error", err.Error())
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}
		if req.Email != nil {
			email := strings.TrimSpace(*req.Email)
			req.Email = &email
		}
		if err := ah.validate.Struct(req); err != nil {
			jsonError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", myerrors.ErrInvalidInput, err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		user, err := ah.authService.UpdateUserProfile(ctx, req, id.UserID)
		if err != nil {
			ah.profileError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, toProfileResponse(user))
	}
}

func (ah *AuthHandler) profileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, myerrors.ErrNotFound):
		jsonError(w, http.StatusNotFound, errors.New("profile not found"))
	case errors.Is(err, myerrors.ErrEmailRegistered):
		jsonError(w, http.StatusConflict, myerrors.ErrEmailRegistered)
	case errors.Is(err, myerrors.ErrInvalidInput):
		jsonError(w, http.StatusBadRequest, err)
	default:
		jsonError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

func toProfileResponse(user models.UserProfile) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		Address:  user.Address,
		Role:     user.Role,
		RoleID:   user.RoleID(),
	}
	if rec, ok := user.Record.(models.DriverRecord); ok {
		status := rec.Status
		resp.DriverStatus = &status
	}
	return resp
}
