package services

import (
	"context"
	"time"

	"github.com/EO-DataHub/eodhp-user-admin/models"
)

// MockLatency is the simulated delay of each MockUserAPI call.
type MockLatency struct {
	List   time.Duration
	Update time.Duration
	Delete time.Duration
	Status time.Duration
}

// DefaultMockLatency is the delay profile of the demo stub API.
var DefaultMockLatency = MockLatency{
	List:   time.Second,
	Update: 500 * time.Millisecond,
	Delete: 500 * time.Millisecond,
	Status: 300 * time.Millisecond,
}

// MockUserAPI is a UserAPI that waits a fixed latency and always succeeds.
// It keeps no state: updates are echoed back and deletes are acknowledged.
type MockUserAPI struct {
	Users   []models.User
	Latency MockLatency
}

// NewMockUserAPI creates a mock returning the given canned users.
func NewMockUserAPI(users []models.User, latency MockLatency) *MockUserAPI {
	return &MockUserAPI{Users: users, Latency: latency}
}

func (m *MockUserAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := sleep(ctx, m.Latency.List); err != nil {
		return nil, &FetchError{Err: err}
	}
	out := make([]models.User, len(m.Users))
	for i, u := range m.Users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (m *MockUserAPI) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	if err := sleep(ctx, m.Latency.Update); err != nil {
		return models.User{}, &MutationError{Op: OpUpdate, UserID: user.ID, Err: err}
	}
	return user, nil
}

func (m *MockUserAPI) DeleteUser(ctx context.Context, id int) error {
	if err := sleep(ctx, m.Latency.Delete); err != nil {
		return &MutationError{Op: OpDelete, UserID: id, Err: err}
	}
	return nil
}

func (m *MockUserAPI) SetStatus(ctx context.Context, id int, status models.Status) error {
	if err := sleep(ctx, m.Latency.Status); err != nil {
		return &MutationError{Op: OpSetStatus, UserID: id, Err: err}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
