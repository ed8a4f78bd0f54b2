package notificationservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
)

// DigestHorizon is how far ahead the deadline digest looks.
const DigestHorizon = 48 * time.Hour

// PurgeExpiredTokens deletes activation tokens past their expiry.
func (s *NotificationService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "PurgeExpiredTokens", "",
		func(ctx context.Context) (results.OperationResult[int64, error], error) {
			n, err := s.users.DeleteExpiredActivateTokens(ctx, nil, s.clock.Now())
			if err != nil {
				return results.OperationResult[int64, error]{}, fmt.Errorf("delete expired tokens: %w", err)
			}
			return operation.Succeed(n)
		}))
}

// SendDeadlineDigest posts the deadlines of active competitions closing
// within DigestHorizon to the staff chat. It returns the number of deadlines
// listed; nothing is sent when there are none.
func (s *NotificationService) SendDeadlineDigest(ctx context.Context) (int, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "SendDeadlineDigest", "",
		func(ctx context.Context) (results.OperationResult[int, error], error) {
			comps, err := s.competitions.List(ctx, nil, true)
			if err != nil {
				return results.OperationResult[int, error]{}, fmt.Errorf("list competitions: %w", err)
			}

			now := s.clock.Now()
			var (
				lines []string
				count int
			)
			for _, c := range comps {
				for _, dl := range competitiondomain.DeadlinesWithin(c.ToDomain().Dates, now, DigestHorizon) {
					lines = append(lines, fmt.Sprintf("• %s %s closes %s (in %s)",
						c.Code, dl.Label, dl.At.UTC().Format("Mon 02 Jan 15:04 MST"), dl.At.Sub(now).Round(time.Hour)))
					count++
				}
			}
			if count == 0 {
				return operation.Succeed(0)
			}
			if s.channels.Chat == nil {
				s.logger.InfoContext(ctx, "Deadline digest skipped, chat disabled")
				return operation.Succeed(count)
			}

			text := "Upcoming deadlines\n" + strings.Join(lines, "\n")
			if err := s.channels.Chat.Notify(ctx, text); err != nil {
				return operation.Fail[int](apperrors.Dependency("deadline digest not delivered", err))
			}
			return operation.Succeed(count)
		}))
}
