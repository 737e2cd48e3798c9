package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
)

func TestNewContactNotifierDisabled(t *testing.T) {
	n := NewContactNotifier(config.MailConfig{ResendAPIKey: "key"})
	assert.IsType(t, NopNotifier{}, n)
	assert.NoError(t, n.NotifyContact(context.Background(), models.ContactMessage{}))
}

func TestResendNotifierSendsEscapedMessage(t *testing.T) {
	var got ResendEmailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	n := NewContactNotifier(config.MailConfig{
		ResendAPIKey: "re_test",
		FromEmail:    "site@example.com",
		NotifyEmail:  "me@example.com",
	}).(*ResendNotifier)
	n.url = srv.URL

	subject := "Hiring"
	err := n.NotifyContact(context.Background(), models.ContactMessage{
		ID:      uuid.New(),
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: &subject,
		Message: "<b>hello</b>",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"me@example.com"}, got.To)
	assert.Equal(t, "Contact: Hiring", got.Subject)
	assert.Equal(t, "ada@example.com", got.ReplyTo)
	assert.Contains(t, got.Html, "&lt;b&gt;hello&lt;/b&gt;")
}

func TestResendNotifierReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid from address"}`))
	}))
	defer srv.Close()

	n := NewContactNotifier(config.MailConfig{ResendAPIKey: "k", FromEmail: "f@x.io", NotifyEmail: "t@x.io"}).(*ResendNotifier)
	n.url = srv.URL

	err := n.NotifyContact(context.Background(), models.ContactMessage{Name: "Ada"})
	assert.ErrorContains(t, err, "Invalid from address")
}
