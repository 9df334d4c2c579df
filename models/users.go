package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the account status of a user.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	}
	return "", fmt.Errorf("invalid status %q: must be %q or %q", s, StatusActive, StatusInactive)
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("status must be a string: %w", err)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Role represents a role granted through a group.
type Role struct {
	ID   string `json:"roleId"`
	Name string `json:"roleName"`
}

// UnmarshalJSON accepts both "roleId" and the "role_id" spelling used by
// some backends.
func (r *Role) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID      json.RawMessage `json:"roleId"`
		SnakeID json.RawMessage `json:"role_id"`
		Name    string          `json:"roleName"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id := aux.ID
	if len(id) == 0 {
		id = aux.SnakeID
	}
	r.ID = rawToString(id)
	r.Name = aux.Name
	return nil
}

// Group represents a group membership of a user.
type Group struct {
	ID    string `json:"groupId"`
	Name  string `json:"groupName"`
	Roles []Role `json:"roles"`
}

// User represents a user record as held by the admin view.
type User struct {
	ID        int       `json:"userId"`
	Name      string    `json:"Name"`
	Email     string    `json:"Email"`
	Status    Status    `json:"Status"`
	CreatedAt Timestamp `json:"CreatedAt"`
	Groups    []Group   `json:"groups"`
}

// UnmarshalJSON accepts the user id either as a JSON number or as a numeric
// string.
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		ID json.RawMessage `json:"userId"`
		*alias
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.ID) == 0 {
		return fmt.Errorf("user is missing userId")
	}
	id, err := strconv.Atoi(rawToString(aux.ID))
	if err != nil {
		return fmt.Errorf("invalid userId %s: %w", string(aux.ID), err)
	}
	u.ID = id
	if u.Status == "" {
		return fmt.Errorf("user %d is missing Status", id)
	}
	return nil
}

// PrimaryRole returns the first role of the first group, if any.
func (u User) PrimaryRole() (string, bool) {
	if len(u.Groups) == 0 || len(u.Groups[0].Roles) == 0 {
		return "", false
	}
	name := u.Groups[0].Roles[0].Name
	return name, name != ""
}

// Department returns the name of the first group, if any.
func (u User) Department() (string, bool) {
	if len(u.Groups) == 0 {
		return "", false
	}
	name := u.Groups[0].Name
	return name, name != ""
}

// Clone returns a deep copy of the user.
func (u User) Clone() User {
	if u.Groups == nil {
		return u
	}
	groups := make([]Group, len(u.Groups))
	for i, g := range u.Groups {
		groups[i] = g
		if g.Roles != nil {
			groups[i].Roles = append([]Role(nil), g.Roles...)
		}
	}
	u.Groups = groups
	return u
}

// Timestamp is a creation time that tolerates naive ISO-8601 values.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses RFC 3339 and naive ISO-8601 timestamps; naive values
// are read as UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// StatusRequest is the body of a set-status call.
type StatusRequest struct {
	Status Status `json:"status"`
}
