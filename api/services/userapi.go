package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/EO-DataHub/eodhp-user-admin/models"
)

// UserAPI is the boundary through which the admin view talks to the remote
// user-management API.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, id int) error
	SetStatus(ctx context.Context, id int, status models.Status) error
}

// UserAPIClient is a client for interacting with the user API over HTTP.
type UserAPIClient struct {
	BaseURL    string
	UsersPath  string
	HTTPClient *http.Client
}

// NewUserAPIClient creates a new instance of UserAPIClient.
func NewUserAPIClient(baseURL, usersPath string, timeout time.Duration) *UserAPIClient {
	if usersPath == "" {
		usersPath = "/users"
	}
	return &UserAPIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		UsersPath:  "/" + strings.Trim(usersPath, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *UserAPIClient) usersURL() string {
	return c.BaseURL + c.UsersPath
}

func (c *UserAPIClient) userURL(id int) string {
	return fmt.Sprintf("%s/%d", c.usersURL(), id)
}

// ListUsers retrieves the full user collection.
func (c *UserAPIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	respBody, _, err := c.makeRequest(ctx, http.MethodGet, c.usersURL(), nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	env, err := DecodeUsersEnvelope(respBody)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	return env.Users, nil
}

// UpdateUser replaces a user record and returns the stored version.
func (c *UserAPIClient) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	body, err := json.Marshal(user)
	if err != nil {
		return models.User{}, &MutationError{Op: OpUpdate, UserID: user.ID, Err: err}
	}

	respBody, statusCode, err := c.makeRequest(ctx, http.MethodPut, c.userURL(user.ID), body)
	if err != nil {
		return models.User{}, &MutationError{Op: OpUpdate, UserID: user.ID, Err: err}
	}

	// Nothing to decode, the server accepted the record as sent
	if statusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return user, nil
	}

	env, err := DecodeUsersEnvelope(respBody)
	if err != nil {
		return models.User{}, &MutationError{Op: OpUpdate, UserID: user.ID, Err: err}
	}
	for _, u := range env.Users {
		if u.ID == user.ID {
			return u, nil
		}
	}

	return models.User{}, &MutationError{Op: OpUpdate, UserID: user.ID,
		Err: fmt.Errorf("response does not contain user %d", user.ID)}
}

// DeleteUser removes a user.
func (c *UserAPIClient) DeleteUser(ctx context.Context, id int) error {
	if _, _, err := c.makeRequest(ctx, http.MethodDelete, c.userURL(id), nil); err != nil {
		return &MutationError{Op: OpDelete, UserID: id, Err: err}
	}
	return nil
}

// SetStatus sets the status of a user.
func (c *UserAPIClient) SetStatus(ctx context.Context, id int, status models.Status) error {
	body, _ := json.Marshal(models.StatusRequest{Status: status})

	if _, _, err := c.makeRequest(ctx, http.MethodPatch, c.userURL(id)+"/status", body); err != nil {
		return &MutationError{Op: OpSetStatus, UserID: id, Err: err}
	}
	return nil
}

// Helper function for making HTTP requests to the user API.
func (c *UserAPIClient) makeRequest(ctx context.Context, method, url string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return respBody, resp.StatusCode, &HTTPError{Message: errorMessage(resp, respBody), Status: resp.StatusCode}
	}

	return respBody, resp.StatusCode, nil
}

// errorMessage prefers the error details of a models.Response body.
func errorMessage(resp *http.Response, body []byte) string {
	var r models.Response
	if err := json.Unmarshal(body, &r); err == nil && r.ErrorDetails != "" {
		return r.ErrorDetails
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return resp.Status
}
