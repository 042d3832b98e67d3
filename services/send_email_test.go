package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/teamforge-backend/config"
)

func TestNewNotifierWithoutConfigIsNop(t *testing.T) {
	assert.IsType(t, NopNotifier{}, NewNotifier(config.EmailConfig{}))
	assert.IsType(t, NopNotifier{}, NewNotifier(config.EmailConfig{ResendAPIKey: "re_123"}))
	assert.IsType(t, &ResendNotifier{}, NewNotifier(config.EmailConfig{ResendAPIKey: "re_123", FromEmail: "team@x.com"}))
}

func TestResendNotifierSendsEscapedHTML(t *testing.T) {
	var got ResendEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	n := NewNotifier(config.EmailConfig{ResendAPIKey: "re_123", FromEmail: "team@x.com"}).(*ResendNotifier)
	n.endpoint = srv.URL

	err := n.NotifyApplication(context.Background(), ApplicationNotice{
		To:          "alice@x.com",
		ProjectName: "Robotics Club",
		Applicant:   "bob",
		Skills:      "C, VHDL",
		Information: "<script>hi</script>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_123", auth)
	assert.Equal(t, []string{"alice@x.com"}, got.To)
	assert.Equal(t, "team@x.com", got.From)
	assert.Equal(t, "New application for Robotics Club", got.Subject)
	assert.Contains(t, got.Html, "&lt;script&gt;")
	assert.NotContains(t, got.Html, "<script>")
}

func TestResendNotifierSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	n := NewNotifier(config.EmailConfig{ResendAPIKey: "re_123", FromEmail: "bad"}).(*ResendNotifier)
	n.endpoint = srv.URL

	err := n.SendEmail(context.Background(), "s", "b", []string{"a@x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from address")

	assert.Error(t, n.SendEmail(context.Background(), "s", "b", nil))
}
