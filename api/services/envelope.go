package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/EO-DataHub/eodhp-user-admin/models"
)

// EnvelopeKind names the response shape a user listing arrived in.
type EnvelopeKind int

const (
	// EnvelopeData is {"data": {"totalCount": n, "users": [...]}}.
	EnvelopeData EnvelopeKind = iota + 1
	// EnvelopeRecord is {"record": {"data": {"users": [...]}}}.
	EnvelopeRecord
)

func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeData:
		return "data"
	case EnvelopeRecord:
		return "record"
	}
	return "unknown"
}

// UsersEnvelope is a normalized user listing.
type UsersEnvelope struct {
	Kind       EnvelopeKind
	TotalCount int
	Users      []models.User
}

var ErrUnknownEnvelope = errors.New("response is neither a data nor a record envelope")

type listPayload struct {
	TotalCount *int          `json:"totalCount"`
	Users      []models.User `json:"users"`
}

// DecodeUsersEnvelope flattens either supported listing envelope into a
// UsersEnvelope. User ids must be unique. TotalCount falls back to the
// number of users when the envelope does not carry one.
func DecodeUsersEnvelope(body []byte) (UsersEnvelope, error) {
	var raw struct {
		Data   *listPayload `json:"data"`
		Record *struct {
			Data *listPayload `json:"data"`
		} `json:"record"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return UsersEnvelope{}, fmt.Errorf("failed to decode response: %w", err)
	}

	var env UsersEnvelope
	var payload *listPayload
	switch {
	case raw.Data != nil:
		env.Kind, payload = EnvelopeData, raw.Data
	case raw.Record != nil && raw.Record.Data != nil:
		env.Kind, payload = EnvelopeRecord, raw.Record.Data
	default:
		return UsersEnvelope{}, ErrUnknownEnvelope
	}

	env.Users = payload.Users
	if env.Users == nil {
		env.Users = []models.User{}
	}
	seen := make(map[int]struct{}, len(env.Users))
	for _, u := range env.Users {
		if _, dup := seen[u.ID]; dup {
			return UsersEnvelope{}, fmt.Errorf("duplicate userId %d in response", u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	env.TotalCount = len(env.Users)
	if payload.TotalCount != nil {
		env.TotalCount = *payload.TotalCount
	}
	return env, nil
}
