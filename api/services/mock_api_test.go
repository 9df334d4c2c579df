package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockUserAPI_AlwaysSucceeds(t *testing.T) {
	canned := []models.User{{ID: 1, Name: "A", Status: models.StatusActive,
		Groups: []models.Group{{ID: "g", Name: "Ops", Roles: []models.Role{{ID: "r", Name: "Admin"}}}}}}
	api := NewMockUserAPI(canned, MockLatency{})
	ctx := context.Background()

	users, err := api.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, canned, users)

	users[0].Groups[0].Name = "changed"
	assert.Equal(t, "Ops", canned[0].Groups[0].Name)

	in := models.User{ID: 2, Name: "B", Status: models.StatusInactive}
	out, err := api.UpdateUser(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	assert.NoError(t, api.DeleteUser(ctx, 1))
	assert.NoError(t, api.SetStatus(ctx, 1, models.StatusInactive))
}

func TestMockUserAPI_WaitsForLatency(t *testing.T) {
	api := NewMockUserAPI(nil, MockLatency{Delete: 20 * time.Millisecond})

	start := time.Now()
	require.NoError(t, api.DeleteUser(context.Background(), 1))

	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestMockUserAPI_HonoursCancellation(t *testing.T) {
	api := NewMockUserAPI(nil, DefaultMockLatency)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.ListUsers(ctx)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.True(t, errors.Is(err, context.Canceled))
}
