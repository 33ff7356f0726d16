package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("debug", "json", &buf)
	t.Cleanup(func() { Init("info", "json") })

	Info("EventService:CreateEvent:Done", "event_id", "e-1", "attendees", 2)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "EventService:CreateEvent:Done", line["message"])
	assert.Equal(t, "e-1", line["event_id"])
	assert.Equal(t, float64(2), line["attendees"])
	assert.Equal(t, "info", line["level"])
}

func TestLoneErrorArgument(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("debug", "json", &buf)
	t.Cleanup(func() { Init("info", "json") })

	Error("EventRepository:Create", errors.New("boom"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "boom", line["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("warn", "json", &buf)
	t.Cleanup(func() { Init("info", "json") })

	Info("dropped")
	assert.Zero(t, buf.Len())

	Warn("kept")
	assert.NotZero(t, buf.Len())
}
