package service

import (
	"context"
	"errors"
	"testing"

	"taxi-booking/internal/auth-service/core/domain/dto"
	"taxi-booking/internal/auth-service/core/domain/models"
	"taxi-booking/internal/auth-service/core/myerrors"
	"taxi-booking/internal/common/types"
	"taxi-booking/internal/mylogger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(store *MockUserStore) *AuthService {
	as := NewAuthService(store, mylogger.Discard())
	// keep tests fast
	as.hashPassword = func(p string) ([]byte, error) {
		return bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
	}
	return as
}

func driverProfile(email string) models.UserProfile {
	return models.UserProfile{
		ID:       uuid.New(),
		Email:    email,
		Username: "dan",
		Role:     types.RoleDriver,
		Record:   models.DriverRecord{DriverID: uuid.New(), Status: types.DriverVerified},
	}
}

func TestLogin_Traditional(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	user := driverProfile("dan@taxi.io")
	store.On("FindByCredentials", ctx, "dan@taxi.io", "secret1").Return(user, nil).Once()

	res, err := newTestService(store).Login(ctx, dto.LoginRequest{Email: "  Dan@Taxi.io ", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, user.ID, res.UserID)
	assert.Equal(t, types.RoleDriver, res.Role)
	assert.Equal(t, user.RoleID(), res.RoleID)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestLogin_Federated(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	user := models.UserProfile{
		ID:     uuid.New(),
		Email:  "ann@taxi.io",
		Role:   types.RoleClient,
		Record: models.ClientRecord{ClientID: uuid.New()},
	}
	store.On("FindByEmail", ctx, "ann@taxi.io").Return(user, nil).Once()

	res, err := newTestService(store).Login(ctx, dto.LoginRequest{Email: "ann@taxi.io", AuthMethod: types.AuthFederated})
	require.NoError(t, err)

	assert.Equal(t, types.RoleClient, res.Role)
	assert.Equal(t, user.Record.RoleID(), res.RoleID)
	store.AssertNotCalled(t, "FindByCredentials", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     dto.LoginRequest
		setup   func(s *MockUserStore)
		wantErr error
	}{
		{
			name: "wrong credentials",
			req:  dto.LoginRequest{Email: "dan@taxi.io", Password: "nope1"},
			setup: func(s *MockUserStore) {
				s.On("FindByCredentials", ctx, "dan@taxi.io", "nope1").Return(models.UserProfile{}, myerrors.ErrNotFound)
			},
			wantErr: myerrors.ErrNotFound,
		},
		{
			name: "store failure",
			req:  dto.LoginRequest{Email: "dan@taxi.io", Password: "secret1"},
			setup: func(s *MockUserStore) {
				s.On("FindByCredentials", ctx, "dan@taxi.io", "secret1").Return(models.UserProfile{}, errors.New("conn reset"))
			},
			wantErr: myerrors.ErrStore,
		},
		{
			name: "role tag disagrees with record",
			req:  dto.LoginRequest{Email: "dan@taxi.io", Password: "secret1"},
			setup: func(s *MockUserStore) {
				u := driverProfile("dan@taxi.io")
				u.Record = models.ClientRecord{ClientID: uuid.New()}
				s.On("FindByCredentials", ctx, "dan@taxi.io", "secret1").Return(u, nil)
			},
			wantErr: myerrors.ErrStore,
		},
		{
			name:    "missing password",
			req:     dto.LoginRequest{Email: "dan@taxi.io"},
			setup:   func(s *MockUserStore) {},
			wantErr: myerrors.ErrInvalidInput,
		},
		{
			name:    "unknown auth method",
			req:     dto.LoginRequest{Email: "dan@taxi.io", Password: "x", AuthMethod: "MAGIC"},
			setup:   func(s *MockUserStore) {},
			wantErr: myerrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockUserStore)
			tt.setup(store)

			res, err := newTestService(store).Login(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, dto.LoginResult{}, res)
		})
	}
}

func TestRegister_PerRole(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		role   types.Role
		method string
	}{
		{types.RoleDriver, "CreateDriver"},
		{types.RoleClient, "CreateClient"},
		{types.RoleAdmin, "CreateUser"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			store := new(MockUserStore)
			store.On("FindByEmail", ctx, "new@taxi.io").Return(models.UserProfile{}, myerrors.ErrNotFound)

			var saved models.UserProfile
			store.On(tt.method, ctx, mock.AnythingOfType("models.UserProfile")).
				Run(func(args mock.Arguments) { saved = args.Get(1).(models.UserProfile) }).
				Return(nil).Once()

			user, err := newTestService(store).Register(ctx, dto.RegistrationRequest{
				Email:    "New@taxi.io",
				Password: "secret1",
				Username: "newbie",
				Role:     tt.role,
			})
			require.NoError(t, err)
			store.AssertExpectations(t)

			assert.Equal(t, "new@taxi.io", user.Email)
			assert.Equal(t, tt.role, user.Role)
			require.NoError(t, user.Validate())
			assert.Equal(t, tt.role, user.Record.Role())
			assert.NotEqual(t, uuid.Nil, user.RoleID())
			assert.Equal(t, saved.ID, user.ID)
			assert.NoError(t, bcrypt.CompareHashAndPassword(saved.PasswordHash, []byte("secret1")))
			assert.NotEqual(t, []byte("secret1"), saved.PasswordHash)

			if tt.role == types.RoleDriver {
				assert.Equal(t, types.DriverNotVerified, user.Record.(models.DriverRecord).Status)
			}
		})
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	store.On("FindByEmail", ctx, "dan@taxi.io").Return(driverProfile("dan@taxi.io"), nil)

	_, err := newTestService(store).Register(ctx, dto.RegistrationRequest{
		Email:    "DAN@taxi.io",
		Password: "secret1",
		Username: "dan2",
		Role:     types.RoleClient,
	})
	assert.ErrorIs(t, err, myerrors.ErrEmailRegistered)
	store.AssertNotCalled(t, "CreateClient", mock.Anything, mock.Anything)
}

func TestRegister_StoreUniqueViolation(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	store.On("FindByEmail", ctx, "race@taxi.io").Return(models.UserProfile{}, myerrors.ErrNotFound)
	store.On("CreateClient", ctx, mock.Anything).Return(myerrors.ErrEmailRegistered)

	_, err := newTestService(store).Register(ctx, dto.RegistrationRequest{
		Email:    "race@taxi.io",
		Password: "secret1",
		Username: "racer",
		Role:     types.RoleClient,
	})
	assert.ErrorIs(t, err, myerrors.ErrEmailRegistered)
}

func TestRegister_StoreFailure(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	store.On("FindByEmail", ctx, "x@taxi.io").Return(models.UserProfile{}, myerrors.ErrNotFound)
	store.On("CreateDriver", ctx, mock.Anything).Return(errors.New("disk full"))

	_, err := newTestService(store).Register(ctx, dto.RegistrationRequest{
		Email:    "x@taxi.io",
		Password: "secret1",
		Username: "x",
		Role:     types.RoleDriver,
	})
	assert.ErrorIs(t, err, myerrors.ErrStore)
}

func TestRegister_InvalidInput(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.RegistrationRequest
	}{
		{"unknown role", dto.RegistrationRequest{Email: "a@taxi.io", Password: "secret1", Username: "a", Role: "PASSENGER"}},
		{"empty username", dto.RegistrationRequest{Email: "a@taxi.io", Password: "secret1", Role: types.RoleClient}},
		{"bad email", dto.RegistrationRequest{Email: "a.taxi.io", Password: "secret1", Username: "a", Role: types.RoleClient}},
		{"short password", dto.RegistrationRequest{Email: "a@taxi.io", Password: "abc", Username: "a", Role: types.RoleClient}},
		{"missing password", dto.RegistrationRequest{Email: "a@taxi.io", Username: "a", Role: types.RoleClient}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockUserStore)
			_, err := newTestService(store).Register(ctx, tt.req)
			assert.ErrorIs(t, err, myerrors.ErrInvalidInput)
			store.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_FederatedWithoutPassword(t *testing.T) {
	ctx := context.Background()
	store := new(MockUserStore)
	store.On("FindByEmail", ctx, "fed@taxi.io").Return(models.UserProfile{}, myerrors.ErrNotFound)
	store.On("CreateClient", ctx, mock.Anything).Return(nil)

	user, err := newTestService(store).Register(ctx, dto.RegistrationRequest{
		Email:      "fed@taxi.io",
		Username:   "fed",
		Role:       types.RoleClient,
		AuthMethod: types.AuthFederated,
	})
	require.NoError(t, err)
	assert.Nil(t, user.PasswordHash)
}

func TestUpdateUserProfile(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := new(MockUserStore)

	updated := driverProfile("moved@taxi.io")
	store.On("UpdateUserProfile", ctx, mock.MatchedBy(func(p models.ProfilePatch) bool {
		return p.Email != nil && *p.Email == "moved@taxi.io" &&
			p.Username == nil &&
			bcrypt.CompareHashAndPassword(p.PasswordHash, []byte("newpass")) == nil
	}), id).Return(updated, nil).Once()

	email := " Moved@Taxi.io"
	password := "newpass"
	user, err := newTestService(store).UpdateUserProfile(ctx, dto.UpdateProfileRequest{Email: &email, Password: &password}, id)
	require.NoError(t, err)
	assert.Equal(t, updated, user)
	store.AssertExpectations(t)
}

func TestUpdateUserProfile_Empty(t *testing.T) {
	store := new(MockUserStore)
	_, err := newTestService(store).UpdateUserProfile(context.Background(), dto.UpdateProfileRequest{}, uuid.New())
	assert.ErrorIs(t, err, myerrors.ErrInvalidInput)
}

func TestUpdateUserProfile_NotFound(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := new(MockUserStore)
	store.On("UpdateUserProfile", ctx, mock.Anything, id).Return(models.UserProfile{}, myerrors.ErrNotFound)

	name := "renamed"
	_, err := newTestService(store).UpdateUserProfile(ctx, dto.UpdateProfileRequest{Username: &name}, id)
	assert.ErrorIs(t, err, myerrors.ErrNotFound)
}

func TestGetUserProfile(t *testing.T) {
	ctx := context.Background()
	user := driverProfile("dan@taxi.io")
	store := new(MockUserStore)
	store.On("GetUserProfile", ctx, user.ID).Return(user, nil)
	store.On("GetUserProfile", ctx, mock.Anything).Return(models.UserProfile{}, myerrors.ErrNotFound)

	got, err := newTestService(store).GetUserProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = newTestService(store).GetUserProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, myerrors.ErrNotFound)
}
