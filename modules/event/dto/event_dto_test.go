package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestsAcceptBothAttendeeKeys(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	var create CreateEventRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Standup","date":"2024-01-10","attendeeIds":["`+a.String()+`"]}`), &create))
	assert.Equal(t, "Standup", create.Title)
	assert.Equal(t, "2024-01-10", create.Date)
	assert.Equal(t, []uuid.UUID{a}, create.AttendeeIDs)

	create = CreateEventRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"attendee_ids":["`+a.String()+`"],"attendeeIds":["`+b.String()+`"]}`), &create))
	assert.Equal(t, []uuid.UUID{a}, create.AttendeeIDs)

	var set SetAttendeesRequest
	require.NoError(t, json.Unmarshal([]byte(`{"attendeeIds":["`+a.String()+`","`+b.String()+`"]}`), &set))
	assert.Equal(t, []uuid.UUID{a, b}, set.AttendeeIDs)

	set = SetAttendeesRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"attendee_ids":[]}`), &set))
	assert.NotNil(t, set.AttendeeIDs)
	assert.Empty(t, set.AttendeeIDs)
}

func TestUpdateRequestAttendeePresence(t *testing.T) {
	a := uuid.New()

	var update UpdateEventRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Retro"}`), &update))
	require.NotNil(t, update.Title)
	assert.Equal(t, "Retro", *update.Title)
	assert.Nil(t, update.AttendeeIDs)

	update = UpdateEventRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"attendeeIds":[]}`), &update))
	require.NotNil(t, update.AttendeeIDs)
	assert.Empty(t, *update.AttendeeIDs)

	update = UpdateEventRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"attendeeIds":["`+a.String()+`"]}`), &update))
	require.NotNil(t, update.AttendeeIDs)
	assert.Equal(t, []uuid.UUID{a}, *update.AttendeeIDs)

	assert.Error(t, json.Unmarshal([]byte(`{"attendeeIds":["not-a-uuid"]}`), &update))
}
