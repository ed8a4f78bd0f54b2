package notificationservice

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	notificationmail "github.com/ieee-sb/thesandbox/app/modules/notification/infrastructure/mail"
	"github.com/ieee-sb/thesandbox/pkg/events"
)

var activationTmpl = template.Must(template.New("activation").Parse(`<p>Hi {{.LeaderName}},</p>
<p>Team <strong>{{.TeamName}}</strong> is registered for {{.CompetitionName}} with {{.MemberCount}} member(s).
Our committee will verify the registration shortly.</p>
<p>Activate your account to upload submissions and payment proof:</p>
<p><a href="{{.ActivationURL}}">Activate account</a></p>
<p>The link expires in 24 hours.</p>
<p>The Sandbox committee</p>`))

var reviewTmpl = template.Must(template.New("review").Parse(`<p>Hi {{.TeamName}},</p>
<p>Your {{.Item}} has been <strong>{{.Status}}</strong>.</p>
{{if .Notes}}<p>Reviewer notes: {{.Notes}}</p>
{{end}}<p>See the details on your <a href="{{.DashboardURL}}">dashboard</a>.</p>
<p>The Sandbox committee</p>`))

type activationData struct {
	LeaderName      string
	TeamName        string
	CompetitionName string
	MemberCount     int
	ActivationURL   string
}

type reviewData struct {
	Subject      string
	TeamName     string
	Item         string
	Status       string
	Notes        string
	DashboardURL string
}

func (s *NotificationService) activationEmail(p events.RegistrationCreatedPayload) (notificationmail.Message, error) {
	data := activationData{
		LeaderName:      p.LeaderName,
		TeamName:        p.TeamName,
		CompetitionName: p.CompetitionName,
		MemberCount:     len(p.Members),
		ActivationURL:   s.publicBaseURL + "/activate?token=" + url.QueryEscape(p.ActivationToken),
	}
	subject := fmt.Sprintf("[%s] Activate your account", p.CompetitionCode)

	var body bytes.Buffer
	if err := activationTmpl.Execute(&body, data); err != nil {
		return notificationmail.Message{}, fmt.Errorf("render activation email: %w", err)
	}
	return notificationmail.Message{To: p.LeaderEmail, Subject: subject, HTML: body.String()}, nil
}

func reviewEmail(to string, data reviewData) (notificationmail.Message, error) {
	var body bytes.Buffer
	if err := reviewTmpl.Execute(&body, data); err != nil {
		return notificationmail.Message{}, fmt.Errorf("render review email: %w", err)
	}
	return notificationmail.Message{To: to, Subject: data.Subject, HTML: body.String()}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formatRupiah renders an amount in whole rupiah with dot separators.
func formatRupiah(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "Rp" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}
