package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"event-manager-api/core/config"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResendWithServer(t *testing.T, handler http.HandlerFunc) *ResendTransport {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tr := NewResendTransport("test-api-key", "Events <events@example.com>")
	baseURL, err := url.Parse(srv.URL)
	require.NoError(t, err)
	tr.client.BaseURL = baseURL
	return tr
}

func TestResendTransportSend(t *testing.T) {
	var got resend.SendEmailRequest
	tr := newResendWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg-123"})
	})

	id, err := tr.Send(context.Background(), Message{
		To:      "u2@example.com",
		ToName:  "User Two",
		Subject: "Event Invitation: Standup",
		HTML:    "<p>Standup</p>",
		Text:    "Standup",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-123", id)

	assert.Equal(t, "Events <events@example.com>", got.From)
	require.Len(t, got.To, 1)
	assert.Contains(t, got.To[0], "u2@example.com")
	assert.Equal(t, "Event Invitation: Standup", got.Subject)
	assert.Equal(t, "Standup", got.Text)
}

func TestResendTransportSurfacesAPIErrors(t *testing.T) {
	tr := newResendWithServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"statusCode": 500, "message": "down", "name": "internal_server_error"})
	})

	_, err := tr.Send(context.Background(), Message{To: "u2@example.com", Subject: "s", HTML: "h"})
	assert.Error(t, err)
}

func TestRecipientRejectsHeaderInjection(t *testing.T) {
	_, err := NewLogTransport().Send(context.Background(), Message{To: "a@example.com\r\nBcc: b@example.com"})
	assert.Error(t, err)

	_, err = NewLogTransport().Send(context.Background(), Message{To: "not-an-address"})
	assert.Error(t, err)
}

func TestLogTransportReturnsMessageID(t *testing.T) {
	id, err := NewLogTransport().Send(context.Background(), Message{To: "a@example.com", Subject: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestLogTransportHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLogTransport().Send(ctx, Message{To: "a@example.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewTransport(t *testing.T) {
	tr, err := NewTransport(config.MailConfig{Provider: "log"})
	require.NoError(t, err)
	assert.IsType(t, &LogTransport{}, tr)

	tr, err = NewTransport(config.MailConfig{Provider: "resend", ResendAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &ResendTransport{}, tr)

	tr, err = NewTransport(config.MailConfig{Provider: "smtp", SMTPHost: "smtp.example.com", SMTPPort: 587})
	require.NoError(t, err)
	assert.IsType(t, &SMTPTransport{}, tr)

	_, err = NewTransport(config.MailConfig{Provider: "resend"})
	assert.Error(t, err)

	_, err = NewTransport(config.MailConfig{Provider: "pigeon"})
	assert.Error(t, err)
}

func TestBuildMIME(t *testing.T) {
	body, err := buildMIME("events@example.com", "a@example.com", "<id@example.com>", Message{
		Subject: "Event Invitation: Standup",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	require.NoError(t, err)

	s := string(body)
	assert.True(t, strings.HasPrefix(s, "From: events@example.com\r\n"))
	assert.Contains(t, s, "Content-Type: multipart/alternative")
	assert.Contains(t, s, "text/plain; charset=UTF-8")
	assert.Contains(t, s, "text/html; charset=UTF-8")
	assert.Contains(t, s, "<p>hi</p>")
}
