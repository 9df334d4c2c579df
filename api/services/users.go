package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/EO-DataHub/eodhp-user-admin/db"
	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/rs/zerolog"
)

// GetUsersService lists every user, newest first.
func GetUsersService(userDB *db.UserDB, w http.ResponseWriter, r *http.Request) {
	total, users := userDB.ListUsers()

	zerolog.Ctx(r.Context()).Debug().Int("count", total).Msg("Listing users")

	HandleSuccessResponse(w, http.StatusOK, nil, models.UsersResponse{
		Data: models.UsersList{TotalCount: total, Users: users},
	})
}

// UpdateUserService replaces a user record with the request body.
func UpdateUserService(userDB *db.UserDB, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, err := userIDFromPath(r)
	if err != nil {
		HandleErrResponse(w, http.StatusBadRequest, err)
		return
	}

	// Decode the request body into a User struct
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		logger.Error().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, err)
		return
	}

	if user.ID != id {
		HandleErrResponse(w, http.StatusBadRequest,
			fmt.Errorf("user id %d in body does not match path id %d", user.ID, id))
		return
	}

	updated, err := userDB.UpdateUser(user)
	if err != nil {
		logger.Error().Err(err).Int("user_id", id).Msg("Failed to update user")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	HandleSuccessResponse(w, http.StatusOK, nil, singleUser(updated))
}

// DeleteUserService removes a user.
func DeleteUserService(userDB *db.UserDB, w http.ResponseWriter, r *http.Request) {
	id, err := userIDFromPath(r)
	if err != nil {
		HandleErrResponse(w, http.StatusBadRequest, err)
		return
	}

	if err := userDB.DeleteUser(id); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int("user_id", id).Msg("Failed to delete user")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	// Set the status code to 204 and return without a body
	w.WriteHeader(http.StatusNoContent)
}

// SetUserStatusService sets the status given in the request body.
func SetUserStatusService(userDB *db.UserDB, w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	id, err := userIDFromPath(r)
	if err != nil {
		HandleErrResponse(w, http.StatusBadRequest, err)
		return
	}

	var req models.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error().Err(err).Msg("Invalid request payload")
		HandleErrResponse(w, http.StatusBadRequest, err)
		return
	}
	if req.Status == "" {
		HandleErrResponse(w, http.StatusBadRequest, fmt.Errorf("status is a required field"))
		return
	}

	user, err := userDB.SetStatus(id, req.Status)
	if err != nil {
		logger.Error().Err(err).Int("user_id", id).Msg("Failed to set user status")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	HandleSuccessResponse(w, http.StatusOK, nil, singleUser(user))
}

// ToggleUserStatusService flips a user between active and inactive.
func ToggleUserStatusService(userDB *db.UserDB, w http.ResponseWriter, r *http.Request) {
	id, err := userIDFromPath(r)
	if err != nil {
		HandleErrResponse(w, http.StatusBadRequest, err)
		return
	}

	user, err := userDB.ToggleStatus(id)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int("user_id", id).Msg("Failed to toggle user status")
		HandleErrResponse(w, http.StatusInternalServerError, err)
		return
	}

	HandleSuccessResponse(w, http.StatusOK, nil, singleUser(user))
}

// HealthService reports that the API is up.
func HealthService(w http.ResponseWriter, r *http.Request) {
	HandleSuccessResponse(w, http.StatusOK, nil, models.HealthResponse{Status: "ok"})
}
