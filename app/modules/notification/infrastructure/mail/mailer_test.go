package notificationmail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"

	"github.com/ieee-sb/thesandbox/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	assert.Nil(t, New(config.EmailConfig{}, nil))
	assert.IsType(t, &ResendMailer{}, New(config.EmailConfig{ResendAPIKey: "re_test", SMTPHost: "smtp.example.com"}, nil))

	m := New(config.EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 2525}, nil)
	require.IsType(t, &SMTPMailer{}, m)
	assert.Equal(t, "smtp.example.com:2525", m.(*SMTPMailer).addr)
}

func TestResendMailer_Send(t *testing.T) {
	var got resendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewResendMailer("Sandbox <noreply@thesandbox.id>", "re_test", srv.URL, srv.Client())
	err := m.Send(context.Background(), Message{To: "lead@example.com", Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lead@example.com"}, got.To)
	assert.Equal(t, "Hi", got.Subject)
}

func TestResendMailer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewResendMailer("x@example.com", "k", srv.URL, srv.Client()).Send(context.Background(), Message{To: "a@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
}

func TestSMTPMailer_Send(t *testing.T) {
	var (
		gotTo   []string
		gotMsg  string
		gotAuth smtp.Auth
	)
	m := &SMTPMailer{
		from:     "The Sandbox <noreply@thesandbox.id>",
		addr:     "smtp.example.com:587",
		host:     "smtp.example.com",
		username: "mailer",
		password: "secret",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			assert.Equal(t, "noreply@thesandbox.id", from)
			gotTo, gotMsg, gotAuth = to, string(msg), a
			return nil
		},
	}

	err := m.Send(context.Background(), Message{To: "lead@example.com", Subject: "Line\r\nBcc: evil@example.com", HTML: "<p>ok</p>"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lead@example.com"}, gotTo)
	assert.NotNil(t, gotAuth)
	assert.Contains(t, gotMsg, "Subject: Line Bcc: evil@example.com\r\n")
	assert.NotContains(t, gotMsg, "\r\nBcc:")
}

func TestSMTPMailer_InvalidRecipient(t *testing.T) {
	m := &SMTPMailer{from: "noreply@thesandbox.id", send: func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}}
	assert.Error(t, m.Send(context.Background(), Message{To: "not an address"}))
}
