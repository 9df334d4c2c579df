package models

// UsersList is the payload of a user listing.
type UsersList struct {
	TotalCount int    `json:"totalCount"`
	Users      []User `json:"users"`
}

// UsersResponse is the primary listing envelope: {"data": {...}}.
type UsersResponse struct {
	Data UsersList `json:"data"`
}

// HealthResponse is returned by the root endpoint of the user API.
type HealthResponse struct {
	Status string `json:"status"`
}
