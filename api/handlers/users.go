package handlers

import (
	"net/http"

	"github.com/EO-DataHub/eodhp-user-admin/api/services"
	"github.com/EO-DataHub/eodhp-user-admin/db"
)

func GetUsers(userDB *db.UserDB) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		services.GetUsersService(userDB, w, r)
	}
}

func UpdateUser(userDB *db.UserDB) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		services.UpdateUserService(userDB, w, r)
	}
}

func DeleteUser(userDB *db.UserDB) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		services.DeleteUserService(userDB, w, r)
	}
}

func SetUserStatus(userDB *db.UserDB) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		services.SetUserStatusService(userDB, w, r)
	}
}

func ToggleUserStatus(userDB *db.UserDB) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		services.ToggleUserStatusService(userDB, w, r)
	}
}

func Health() http.HandlerFunc {
	return services.HealthService
}
