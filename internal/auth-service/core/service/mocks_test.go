package service

import (
	"context"

	"taxi-booking/internal/auth-service/core/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserStore mocks the IUserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByCredentials(ctx context.Context, email, password string) (models.UserProfile, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.UserProfile), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (models.UserProfile, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.UserProfile), args.Error(1)
}

func (m *MockUserStore) GetUserProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.UserProfile), args.Error(1)
}

func (m *MockUserStore) CreateUser(ctx context.Context, user models.UserProfile) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) CreateClient(ctx context.Context, user models.UserProfile) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) CreateDriver(ctx context.Context, user models.UserProfile) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) UpdateUserProfile(ctx context.Context, patch models.ProfilePatch, id uuid.UUID) (models.UserProfile, error) {
	args := m.Called(ctx, patch, id)
	return args.Get(0).(models.UserProfile), args.Error(1)
}
