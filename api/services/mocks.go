package services

import (
	"context"

	"github.com/EO-DataHub/eodhp-user-admin/internal/events"
	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/stretchr/testify/mock"
)

// MockUserAPIClient is a testify double of UserAPI.
type MockUserAPIClient struct {
	mock.Mock
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockUserAPIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockUserAPIClient) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserAPIClient) DeleteUser(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserAPIClient) SetStatus(ctx context.Context, id int, status models.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockEventPublisher) Notify(event events.UserEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() {
	m.Called()
}
