// Package notificationmail delivers transactional email through Resend or
// plain SMTP.
package notificationmail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/ieee-sb/thesandbox/config"
)

// ResendEndpoint is the Resend send-email API.
const ResendEndpoint = "https://api.resend.com/emails"

// Message is one outbound email with an HTML body.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends a Message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the transport from cfg: Resend when an API key is set, SMTP when
// a host is set. It returns nil when mail is not configured.
func New(cfg config.EmailConfig, client *http.Client) Mailer {
	switch {
	case cfg.ResendAPIKey != "":
		if client == nil {
			client = http.DefaultClient
		}
		return &ResendMailer{from: cfg.From, apiKey: cfg.ResendAPIKey, endpoint: ResendEndpoint, client: client}
	case cfg.SMTPHost != "":
		return &SMTPMailer{
			from:     cfg.From,
			addr:     net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
			host:     cfg.SMTPHost,
			username: cfg.SMTPUsername,
			password: cfg.SMTPPassword,
			send:     smtp.SendMail,
		}
	default:
		return nil
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// ResendMailer posts messages to the Resend HTTP API.
type ResendMailer struct {
	from     string
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewResendMailer creates a ResendMailer against endpoint.
func NewResendMailer(from, apiKey, endpoint string, client *http.Client) *ResendMailer {
	if client == nil {
		client = http.DefaultClient
	}
	return &ResendMailer{from: from, apiKey: apiKey, endpoint: endpoint, client: client}
}

// Send implements Mailer.
func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// SMTPMailer sends through an SMTP relay with optional PLAIN auth.
type SMTPMailer struct {
	from     string
	addr     string
	host     string
	username string
	password string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// Send implements Mailer. net/smtp has no context support, so ctx is only
// checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from, err := mail.ParseAddress(m.from)
	if err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.from, err)
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := m.send(m.addr, auth, from.Address, []string{to.Address}, buildMIME(from, to, msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMIME(from, to *mail.Address, msg Message) []byte {
	var b bytes.Buffer
	b.WriteString("From: " + from.String() + "\r\n")
	b.WriteString("To: " + to.String() + "\r\n")
	b.WriteString("Subject: " + mimeHeader(msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return b.Bytes()
}

// mimeHeader strips CR and LF so a subject cannot inject headers.
func mimeHeader(s string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(s)
}
