package notificationservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ieee-sb/thesandbox/pkg/events"
)

// RegistrationCreated mirrors the registration into the spreadsheet and
// alerts the staff chat. Leaders whose account was created by this
// registration also get the activation email.
func (s *NotificationService) RegistrationCreated(ctx context.Context, p events.RegistrationCreatedPayload) error {
	return s.deliver(ctx, "RegistrationCreated", p.RegistrationID.String(), events.RegistrationCreatedV1,
		func(ctx context.Context, d *delivery) {
			d.try("sheets", s.channels.Sheets != nil, func() error {
				return s.channels.Sheets.AppendRow(ctx, RegistrationSheet, registrationRow(p))
			})
			d.try("mail", s.channels.Mail != nil && p.NewUser && p.ActivationToken != "" && p.LeaderEmail != "", func() error {
				msg, err := s.activationEmail(p)
				if err != nil {
					return err
				}
				return s.channels.Mail.Send(ctx, msg)
			})
			d.try("chat", s.channels.Chat != nil, func() error {
				return s.channels.Chat.Notify(ctx, fmt.Sprintf(
					"New %s registration\nTeam: %s (%s)\nLeader: %s <%s>\nMembers: %d",
					p.CompetitionCode, p.TeamName, p.Institution, p.LeaderName, p.LeaderEmail, len(p.Members),
				))
			})
		})
}

// RegistrationReviewed tells the leader whether the team was verified.
func (s *NotificationService) RegistrationReviewed(ctx context.Context, p events.RegistrationReviewedPayload) error {
	return s.deliver(ctx, "RegistrationReviewed", p.RegistrationID.String(), events.RegistrationReviewedV1,
		func(ctx context.Context, d *delivery) {
			d.try("mail", s.channels.Mail != nil && p.LeaderEmail != "", func() error {
				msg, err := reviewEmail(p.LeaderEmail, reviewData{
					Subject:      fmt.Sprintf("[%s] Registration %s", p.CompetitionCode, p.Status),
					TeamName:     p.TeamName,
					Item:         "registration",
					Status:       p.Status,
					Notes:        p.Notes,
					DashboardURL: s.publicBaseURL + "/dashboard",
				})
				if err != nil {
					return err
				}
				return s.channels.Mail.Send(ctx, msg)
			})
		})
}

// SubmissionReviewed tells the leader the outcome of a phase review.
func (s *NotificationService) SubmissionReviewed(ctx context.Context, p events.SubmissionReviewedPayload) error {
	return s.deliver(ctx, "SubmissionReviewed", p.SubmissionID.String(), events.SubmissionReviewedV1,
		func(ctx context.Context, d *delivery) {
			d.try("mail", s.channels.Mail != nil && p.LeaderEmail != "", func() error {
				msg, err := reviewEmail(p.LeaderEmail, reviewData{
					Subject:      fmt.Sprintf("[%s] %s submission %s", p.CompetitionCode, titleCase(p.Phase), p.Status),
					TeamName:     p.TeamName,
					Item:         p.Phase + " submission",
					Status:       p.Status,
					Notes:        p.Notes,
					DashboardURL: s.publicBaseURL + "/dashboard",
				})
				if err != nil {
					return err
				}
				return s.channels.Mail.Send(ctx, msg)
			})
		})
}

// PaymentSubmitted alerts the staff chat that a proof awaits verification.
func (s *NotificationService) PaymentSubmitted(ctx context.Context, p events.PaymentSubmittedPayload) error {
	return s.deliver(ctx, "PaymentSubmitted", p.PaymentID.String(), events.PaymentSubmittedV1,
		func(ctx context.Context, d *delivery) {
			d.try("chat", s.channels.Chat != nil, func() error {
				return s.channels.Chat.Notify(ctx, fmt.Sprintf(
					"Payment proof uploaded\nCompetition: %s\nTeam: %s\nAmount: %s\nProof: %s",
					p.CompetitionCode, p.TeamName, formatRupiah(p.Amount), p.ProofURL,
				))
			})
		})
}

// PaymentReviewed tells the leader whether the payment was verified.
func (s *NotificationService) PaymentReviewed(ctx context.Context, p events.PaymentReviewedPayload) error {
	return s.deliver(ctx, "PaymentReviewed", p.PaymentID.String(), events.PaymentReviewedV1,
		func(ctx context.Context, d *delivery) {
			d.try("mail", s.channels.Mail != nil && p.LeaderEmail != "", func() error {
				msg, err := reviewEmail(p.LeaderEmail, reviewData{
					Subject:      "Payment " + p.Status,
					TeamName:     p.TeamName,
					Item:         "payment proof",
					Status:       p.Status,
					Notes:        p.Notes,
					DashboardURL: s.publicBaseURL + "/dashboard",
				})
				if err != nil {
					return err
				}
				return s.channels.Mail.Send(ctx, msg)
			})
		})
}

func registrationRow(p events.RegistrationCreatedPayload) []any {
	names := make([]string, 0, len(p.Members))
	emails := make([]string, 0, len(p.Members))
	phones := make([]string, 0, len(p.Members))
	for _, m := range p.Members {
		names = append(names, m.FullName)
		emails = append(emails, m.Email)
		phones = append(phones, m.PhoneNumber)
	}
	return []any{
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.RegistrationID.String(),
		p.CompetitionCode,
		p.TeamName,
		p.Institution,
		p.LeaderName,
		p.LeaderEmail,
		len(p.Members),
		strings.Join(names, "; "),
		strings.Join(emails, "; "),
		strings.Join(phones, "; "),
	}
}
