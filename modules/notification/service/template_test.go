package service

import (
	"testing"

	"event-manager-api/modules/notification/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateAndTime(t *testing.T) {
	assert.Equal(t, "Wednesday, January 10, 2024", FormatDate("2024-01-10"))
	assert.Equal(t, "9:00 AM", FormatTime("09:00"))
	assert.Equal(t, "2:30 PM", FormatTime("14:30"))
	assert.Equal(t, "12:00 AM", FormatTime("00:00"))

	assert.Equal(t, "soon", FormatDate("soon"))
	assert.Equal(t, "later", FormatTime("later"))
}

func TestRenderInvite(t *testing.T) {
	invite := dto.EventInvite{
		Title:          "Standup",
		Description:    "Daily sync <b>bring notes</b>",
		Date:           "2024-01-10",
		Time:           "09:00",
		Location:       "Room 1",
		OrganizerName:  "Olive",
		OrganizerEmail: "olive@example.com",
	}

	msg, err := RenderInvite(invite, "Uma", "uma@example.com")
	require.NoError(t, err)

	assert.Equal(t, "Event Invitation: Standup", msg.Subject)
	assert.Equal(t, "uma@example.com", msg.To)
	assert.Equal(t, "Uma", msg.ToName)

	for _, body := range []string{msg.HTML, msg.Text} {
		assert.Contains(t, body, "Hi Uma")
		assert.Contains(t, body, "Wednesday, January 10, 2024")
		assert.Contains(t, body, "9:00 AM")
		assert.Contains(t, body, "Room 1")
		assert.Contains(t, body, "olive@example.com")
	}

	assert.Contains(t, msg.HTML, "&lt;b&gt;bring notes&lt;/b&gt;")
	assert.Contains(t, msg.Text, "<b>bring notes</b>")
}

func TestRenderInviteSubjectIsSingleLine(t *testing.T) {
	msg, err := RenderInvite(dto.EventInvite{Title: "Standup\r\nBcc: x@example.com"}, "Uma", "uma@example.com")
	require.NoError(t, err)
	assert.NotContains(t, msg.Subject, "\n")
	assert.NotContains(t, msg.Subject, "\r")
}
