package events

import (
	"encoding/json"
	"testing"

	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserEvent(t *testing.T) {
	a := NewUserEvent(ActionStatusChanged, 4, models.StatusInactive)
	b := NewUserEvent(ActionDeleted, 4, "")

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 4, a.UserID)
	assert.NotZero(t, a.Timestamp)
}

func TestUserEventRoundTrip(t *testing.T) {
	event := NewUserEvent(ActionStatusChanged, 9, models.StatusActive)
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	decoded, err := DecodeUserEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestDeletedEventOmitsStatus(t *testing.T) {
	payload, err := json.Marshal(NewUserEvent(ActionDeleted, 1, ""))
	require.NoError(t, err)

	assert.NotContains(t, string(payload), `"status"`)
}

func TestDecodeUserEvent_Invalid(t *testing.T) {
	_, err := DecodeUserEvent([]byte("{"))
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	var n Notifier = Discard{}

	assert.NoError(t, n.Notify(NewUserEvent(ActionUpdated, 1, "")))
	n.Close()
}
