package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/EO-DataHub/eodhp-user-admin/api/services"
	"github.com/EO-DataHub/eodhp-user-admin/db"
	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededServer(t *testing.T) (*httptest.Server, *db.UserDB) {
	t.Helper()
	userDB := db.NewUserDB(nil)
	userDB.Seed(db.SeedOptions{Users: 12, Groups: 3, Seed: 7, Now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)})

	server := httptest.NewServer(NewRouter(userDB, "/users"))
	t.Cleanup(server.Close)
	return server, userDB
}

func TestHealth(t *testing.T) {
	server, _ := seededServer(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body models.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body.Status)
}

func TestGetUsers(t *testing.T) {
	server, _ := seededServer(t)

	resp, err := http.Get(server.URL + "/users")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body models.UsersResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 12, body.Data.TotalCount)
	assert.Len(t, body.Data.Users, 12)
}

func TestToggleUserStatus(t *testing.T) {
	server, userDB := seededServer(t)
	before, err := userDB.GetUser(4)
	require.NoError(t, err)

	for _, method := range []string{http.MethodPatch, http.MethodPost} {
		req, err := http.NewRequest(method, server.URL+"/users/4", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)

		var body models.UsersResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		require.Len(t, body.Data.Users, 1)
		assert.Equal(t, 4, body.Data.Users[0].ID)
	}

	// Two toggles restore the starting status.
	after, err := userDB.GetUser(4)
	require.NoError(t, err)
	assert.Equal(t, before.Status, after.Status)
}

func TestUpdateUser_Validation(t *testing.T) {
	server, _ := seededServer(t)

	cases := []struct {
		name string
		path string
		body string
		code int
	}{
		{"bad id", "/users/abc", `{}`, http.StatusBadRequest},
		{"bad json", "/users/1", `{`, http.StatusBadRequest},
		{"id mismatch", "/users/1", `{"userId": 2, "Name": "x", "Status": "active"}`, http.StatusBadRequest},
		{"bad status", "/users/1", `{"userId": 1, "Name": "x", "Status": "gone"}`, http.StatusBadRequest},
		{"unknown user", "/users/999", `{"userId": 999, "Name": "x", "Status": "active"}`, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPut, server.URL+tc.path, strings.NewReader(tc.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.code, resp.StatusCode)

			var body models.Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, 0, body.Success)
			assert.NotEmpty(t, body.ErrorDetails)
		})
	}
}

func TestSetUserStatus_RequiresStatus(t *testing.T) {
	server, _ := seededServer(t)

	req, err := http.NewRequest(http.MethodPatch, server.URL+"/users/1/status", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUserAPIClientAgainstRouter(t *testing.T) {
	server, userDB := seededServer(t)
	client := services.NewUserAPIClient(server.URL, "/users", 5*time.Second)
	ctx := context.Background()

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 12)

	target := users[0]
	target.Name = "Renamed User"
	updated, err := client.UpdateUser(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, "Renamed User", updated.Name)
	assert.True(t, target.CreatedAt.Equal(updated.CreatedAt.Time))

	require.NoError(t, client.SetStatus(ctx, target.ID, models.StatusInactive))
	stored, err := userDB.GetUser(target.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, stored.Status)
	assert.Equal(t, "Renamed User", stored.Name)

	require.NoError(t, client.DeleteUser(ctx, target.ID))
	_, err = userDB.GetUser(target.ID)
	assert.ErrorIs(t, err, db.ErrUserNotFound)

	err = client.DeleteUser(ctx, target.ID)
	var httpErr *services.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "user not found", httpErr.Message)
}
