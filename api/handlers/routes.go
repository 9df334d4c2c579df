package handlers

import (
	"net/http"
	"strings"

	"github.com/EO-DataHub/eodhp-user-admin/api/middleware"
	"github.com/EO-DataHub/eodhp-user-admin/db"
	"github.com/gorilla/mux"
)

// NewRouter registers the user API routes under usersPath.
func NewRouter(userDB *db.UserDB, usersPath string) *mux.Router {
	usersPath = "/" + strings.Trim(usersPath, "/")
	if usersPath == "/" {
		usersPath = "/users"
	}

	r := mux.NewRouter()
	r.Use(middleware.WithLogger)

	r.HandleFunc("/", Health()).Methods(http.MethodGet)

	// User routes
	api := r.PathPrefix(usersPath).Subrouter()
	api.HandleFunc("", GetUsers(userDB)).Methods(http.MethodGet)
	api.HandleFunc("/{user-id}", UpdateUser(userDB)).Methods(http.MethodPut)
	api.HandleFunc("/{user-id}", DeleteUser(userDB)).Methods(http.MethodDelete)
	api.HandleFunc("/{user-id}", ToggleUserStatus(userDB)).Methods(http.MethodPatch, http.MethodPost)
	api.HandleFunc("/{user-id}/status", SetUserStatus(userDB)).Methods(http.MethodPatch)

	return r
}
