package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/EO-DataHub/eodhp-user-admin/db"
	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/gorilla/mux"
)

// Error codes carried in models.Response.ErrorCode.
const (
	ErrCodeNotFound   = "not_found"
	ErrCodeBadRequest = "bad_request"
	ErrCodeInternal   = "internal"
)

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most curent data
	w.Header().Set("Cache-Control", "max-age=0")

	// Conditionally set the Location header if provided
	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// HandleErrResponse writes err as a models.Response. Unknown users are
// reported as 404 whatever statusCode is given.
func HandleErrResponse(w http.ResponseWriter, statusCode int, err error) {
	code := ErrCodeInternal
	switch {
	case errors.Is(err, db.ErrUserNotFound):
		statusCode = http.StatusNotFound
		code = ErrCodeNotFound
	case statusCode == http.StatusBadRequest:
		code = ErrCodeBadRequest
	}

	WriteResponse(w, statusCode, models.Response{
		Success:      0,
		ErrorCode:    code,
		ErrorDetails: err.Error(),
	})
}

func HandleSuccessResponse(w http.ResponseWriter, statusCode int, headers map[string]string, response interface{}) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	WriteResponse(w, statusCode, response)
}

// userIDFromPath parses the {user-id} route variable.
func userIDFromPath(r *http.Request) (int, error) {
	raw := mux.Vars(r)["user-id"]
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.New("user id must be a positive integer")
	}
	return id, nil
}

// singleUser wraps one user in the listing envelope.
func singleUser(u models.User) models.UsersResponse {
	return models.UsersResponse{Data: models.UsersList{TotalCount: 1, Users: []models.User{u}}}
}
