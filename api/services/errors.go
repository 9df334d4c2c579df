package services

import "fmt"

// HTTPError is a non-2xx response from the user API.
type HTTPError struct {
	Message string
	Status  int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// FetchError is a failure to list users, either in transport or decoding.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch users: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError is a failure of an update, delete or status call.
type MutationError struct {
	Op     string
	UserID int
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("failed to %s user %d: %v", e.Op, e.UserID, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// Mutation operation names used in MutationError.Op.
const (
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpSetStatus = "set status of"
)
