package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserUnmarshal(t *testing.T) {
	var u User
	err := json.Unmarshal([]byte(`{
		"userId": "12", "Name": "Ann", "Email": "ann@example.com", "Status": "inactive",
		"CreatedAt": "2024-03-02T10:00:00.123456",
		"groups": [{"groupId": "1", "groupName": "Ops", "roles": [{"role_id": 3, "roleName": "admin"}]}]
	}`), &u)
	require.NoError(t, err)

	assert.Equal(t, 12, u.ID)
	assert.Equal(t, StatusInactive, u.Status)
	assert.Equal(t, "3", u.Groups[0].Roles[0].ID)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 123456000, time.UTC), u.CreatedAt.Time)

	role, ok := u.PrimaryRole()
	assert.True(t, ok)
	assert.Equal(t, "admin", role)
	dept, ok := u.Department()
	assert.True(t, ok)
	assert.Equal(t, "Ops", dept)
}

func TestUserUnmarshal_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing id":     `{"Name": "x", "Status": "active"}`,
		"bad id":         `{"userId": "abc", "Status": "active"}`,
		"missing status": `{"userId": 1}`,
		"bad status":     `{"userId": 1, "Status": "banned"}`,
		"bad timestamp":  `{"userId": 1, "Status": "active", "CreatedAt": "yesterday"}`,
	}
	for name, body := range cases {
		var u User
		assert.Error(t, json.Unmarshal([]byte(body), &u), name)
	}
}

func TestDerivedFieldsAbsent(t *testing.T) {
	u := User{ID: 1}
	_, ok := u.PrimaryRole()
	assert.False(t, ok)
	_, ok = u.Department()
	assert.False(t, ok)

	u.Groups = []Group{{Name: ""}}
	_, ok = u.PrimaryRole()
	assert.False(t, ok)
	_, ok = u.Department()
	assert.False(t, ok)
}

func TestUserMarshalRoundTrip(t *testing.T) {
	u := User{
		ID:        5,
		Name:      "Ben",
		Status:    StatusActive,
		CreatedAt: Timestamp{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Groups:    []Group{{ID: "2", Name: "Science", Roles: []Role{{ID: "1", Name: "member"}}}},
	}
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"userId":5`)
	assert.Contains(t, string(data), `"roleId":"1"`)

	var back User
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, u, back)
}

func TestClone(t *testing.T) {
	u := User{ID: 1, Groups: []Group{{Name: "Ops", Roles: []Role{{Name: "admin"}}}}}
	c := u.Clone()
	c.Groups[0].Name = "Changed"
	c.Groups[0].Roles[0].Name = "changed"

	assert.Equal(t, "Ops", u.Groups[0].Name)
	assert.Equal(t, "admin", u.Groups[0].Roles[0].Name)
}

func TestStatus(t *testing.T) {
	s, err := ParseStatus(" Active ")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s)
	assert.Equal(t, StatusInactive, s.Toggle())
	assert.Equal(t, StatusActive, StatusInactive.Toggle())

	_, err = ParseStatus("deleted")
	assert.Error(t, err)
}

func TestTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2024-05-01T12:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 10, ts.Hour())

	data, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(data))

	var empty Timestamp
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	assert.True(t, empty.IsZero())
}
