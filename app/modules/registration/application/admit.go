package registrationservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	userdomain "github.com/ieee-sb/thesandbox/app/modules/user/domain"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/dberrors"
	"github.com/ieee-sb/thesandbox/pkg/events"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"github.com/uptrace/bun"
)

// admission carries the committed result and the event describing it.
type admission struct {
	result *AdmissionResult
	event  events.RegistrationCreatedPayload
}

// AdmitTeam registers a team. Preconditions are checked in a fixed order and
// the first failure is returned. All rows are written in one transaction.
// Notifications are dispatched only after commit.
func (s *RegistrationService) AdmitTeam(ctx context.Context, req registrationdomain.AdmissionRequest) (*AdmissionResult, error) {
	req.Normalize()

	admitTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*admission, error], error) {
		return s.admitTeamLogic(ctx, db, req)
	}

	return operation.Unwrap(operation.Run(s.runner, ctx, "AdmitTeam", req.TeamName, func(ctx context.Context) (results.OperationResult[*AdmissionResult, error], error) {
		result, err := operation.InTx(s.runner, ctx, admitTx)
		if err != nil {
			// A concurrent request won the race between pre-check and commit.
			if conflict := conflictFromUnique(err); conflict != nil {
				return operation.Fail[*AdmissionResult](conflict)
			}
			return results.OperationResult[*AdmissionResult, error]{}, err
		}
		if result.IsFailure() {
			return results.FailureResult[*AdmissionResult, error](*result.Failure), nil
		}

		admitted := *result.Success
		s.dispatcher.Dispatch(ctx, events.RegistrationCreatedV1, admitted.event)
		return operation.Succeed(admitted.result)
	}))
}

func (s *RegistrationService) admitTeamLogic(ctx context.Context, db bun.IDB, req registrationdomain.AdmissionRequest) (results.OperationResult[*admission, error], error) {
	if problems := req.Validate(); len(problems) > 0 {
		return operation.Fail[*admission](apperrors.WithMetadata(
			apperrors.KindValidation, apperrors.CodeInvalidInput, "invalid registration",
			map[string]any{"problems": problems},
		))
	}
	if dups := req.DuplicateEmails(); len(dups) > 0 {
		return operation.Fail[*admission](apperrors.WithMetadata(
			apperrors.KindValidation, apperrors.CodeDuplicateEmail, "each team member needs a distinct email",
			map[string]any{"emails": dups},
		))
	}

	// 1. Competition exists, is active and accepting registrations.
	comp, err := s.competitions.GetByCode(ctx, db, req.CompetitionCode)
	if err != nil {
		if errors.Is(err, competitiondb.ErrNotFound) {
			return operation.Fail[*admission](apperrors.New(apperrors.KindNotFound, apperrors.CodeCompetitionNotFound,
				fmt.Sprintf("competition %q not found", req.CompetitionCode)))
		}
		return results.OperationResult[*admission, error]{}, fmt.Errorf("failed to get competition: %w", err)
	}
	if !comp.IsActive {
		return operation.Fail[*admission](apperrors.New(apperrors.KindState, apperrors.CodeCompetitionInactive,
			fmt.Sprintf("%s is not accepting registrations", comp.Name)))
	}
	domainComp := comp.ToDomain()
	if !competitiondomain.IsRegistrationOpen(domainComp.Dates, s.clock.Now()) {
		return operation.Fail[*admission](apperrors.WithMetadata(
			apperrors.KindState, apperrors.CodeRegistrationClosed, fmt.Sprintf("registration for %s is closed", comp.Name),
			map[string]any{
				"registrationOpen":     domainComp.Dates.RegistrationOpen,
				"registrationDeadline": domainComp.Dates.RegistrationDeadline,
			},
		))
	}

	// 2. Team size.
	if size := req.TeamSize(); !domainComp.TeamSizeAllowed(size) {
		return operation.Fail[*admission](apperrors.WithMetadata(
			apperrors.KindValidation, apperrors.CodeTeamSize,
			fmt.Sprintf("team must have between %d and %d members", comp.MinTeamSize, comp.MaxTeamSize),
			map[string]any{"current": size, "min": comp.MinTeamSize, "max": comp.MaxTeamSize},
		))
	}

	// 3. Team name.
	taken, err := s.repo.TeamNameExists(ctx, db, req.TeamName)
	if err != nil {
		return results.OperationResult[*admission, error]{}, err
	}
	if taken {
		return operation.Fail[*admission](teamNameTaken(req.TeamName))
	}

	// 4. Leader account.
	user, isNew, err := s.resolveLeader(ctx, db, req.Leader)
	if err != nil {
		return operation.Fail[*admission](err)
	}

	// 5. No submitted email is already on a team.
	conflicts, err := s.repo.FindMemberConflicts(ctx, db, req.Emails())
	if err != nil {
		return results.OperationResult[*admission, error]{}, err
	}
	if len(conflicts) > 0 {
		details := make([]map[string]string, 0, len(conflicts))
		for _, c := range conflicts {
			details = append(details, map[string]string{"email": c.Email, "competition": c.CompetitionCode})
		}
		return operation.Fail[*admission](apperrors.WithMetadata(
			apperrors.KindConflict, apperrors.CodeMemberRegistered, "some members are already registered in a team",
			map[string]any{"conflicts": details},
		))
	}

	admitted, err := s.writeAdmission(ctx, db, req, comp, user, isNew)
	if err != nil {
		if conflict := conflictFromUnique(err); conflict != nil {
			return operation.Fail[*admission](conflict)
		}
		return results.OperationResult[*admission, error]{}, err
	}
	return operation.Succeed(admitted)
}

// resolveLeader returns the existing account of the leader, or a new
// unsaved one. Rejections are returned as *apperrors.Error.
func (s *RegistrationService) resolveLeader(ctx context.Context, db bun.IDB, leader registrationdomain.Leader) (*userdb.User, bool, error) {
	existing, err := s.users.GetUserByEmail(ctx, db, leader.Email)
	if err != nil && !errors.Is(err, userdb.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}

	if existing != nil {
		reg, err := s.repo.GetByUserID(ctx, db, existing.ID)
		switch {
		case err == nil:
			comp, err := s.competitionFor(ctx, db, reg)
			if err != nil {
				return nil, false, err
			}
			name := "another competition"
			code := ""
			if comp != nil {
				name, code = comp.Name, comp.Code
			}
			return nil, false, apperrors.WithMetadata(
				apperrors.KindConflict, apperrors.CodeLeaderRegistered,
				fmt.Sprintf("this account is already registered for %s", name),
				map[string]any{"competition": code},
			)
		case !errors.Is(err, registrationdb.ErrNotFound):
			return nil, false, fmt.Errorf("failed to get registration: %w", err)
		}

		if !existing.HasPassword() {
			return nil, false, apperrors.New(apperrors.KindUnauthorized, apperrors.CodeUseSocialLogin,
				"this email signs in with Google; sign in with Google and register from your dashboard")
		}
		if err := userdomain.ComparePassword(*existing.PasswordHash, leader.Password); err != nil {
			if errors.Is(err, userdomain.ErrPasswordMismatch) {
				return nil, false, apperrors.New(apperrors.KindUnauthorized, apperrors.CodeInvalidCredentials,
					"password does not match the existing account for this email")
			}
			return nil, false, err
		}
		return existing, false, nil
	}

	if len(leader.Password) < userdomain.MinPasswordLength {
		return nil, false, apperrors.WithMetadata(
			apperrors.KindValidation, apperrors.CodeInvalidInput, "invalid registration",
			map[string]any{"problems": []string{fmt.Sprintf("leader.password must be at least %d characters", userdomain.MinPasswordLength)}},
		)
	}

	username := leader.Username
	if username != "" {
		taken, err := s.users.UsernameExists(ctx, db, username)
		if err != nil {
			return nil, false, err
		}
		if taken {
			return nil, false, apperrors.WithMetadata(
				apperrors.KindConflict, apperrors.CodeUsernameTaken, fmt.Sprintf("username %q is taken", username),
				map[string]any{"username": username},
			)
		}
	} else {
		username, err = s.availableUsername(ctx, db, userdomain.UsernameFromEmail(leader.Email))
		if err != nil {
			return nil, false, err
		}
	}

	hash, err := userdomain.HashPassword(leader.Password)
	if err != nil {
		return nil, false, err
	}
	return &userdb.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        leader.Email,
		PasswordHash: &hash,
		Active:       false,
	}, true, nil
}

func (s *RegistrationService) availableUsername(ctx context.Context, db bun.IDB, base string) (string, error) {
	candidate := base
	for i := 0; i < 5; i++ {
		taken, err := s.users.UsernameExists(ctx, db, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%s", base, uuid.NewString()[:6])
	}
	return "", fmt.Errorf("could not find a free username for %q", base)
}

// writeAdmission performs the transactional step. Rows are created in the
// order user, token, registration, team, members.
func (s *RegistrationService) writeAdmission(
	ctx context.Context,
	db bun.IDB,
	req registrationdomain.AdmissionRequest,
	comp *competitiondb.Competition,
	user *userdb.User,
	isNew bool,
) (*admission, error) {
	now := s.clock.Now()

	var activation string
	if isNew {
		if err := s.users.CreateUser(ctx, db, user); err != nil {
			return nil, err
		}
		activation = userdomain.NewActivationToken()
		if err := s.users.CreateActivateToken(ctx, db, &userdb.ActivateToken{
			Token:     activation,
			UserID:    user.ID,
			ExpiresAt: now.Add(userdomain.ActivationTTL),
		}); err != nil {
			return nil, err
		}
	}

	reg := &registrationdb.Registration{
		ID:                 uuid.New(),
		UserID:             user.ID,
		CompetitionID:      comp.ID,
		VerificationStatus: string(registrationdomain.VerificationPending),
		CurrentPhase:       string(competitiondomain.PhaseRegistration),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.CreateRegistration(ctx, db, reg); err != nil {
		return nil, err
	}

	team := &registrationdb.Team{
		ID:             uuid.New(),
		RegistrationID: reg.ID,
		TeamName:       req.TeamName,
		Institution:    req.Institution,
		CreatedAt:      now,
	}
	if err := s.repo.CreateTeam(ctx, db, team); err != nil {
		return nil, err
	}

	members := make([]*registrationdb.TeamMember, 0, req.TeamSize())
	payload := make([]events.MemberPayload, 0, req.TeamSize())
	members = append(members, &registrationdb.TeamMember{
		TeamID:      team.ID,
		FullName:    req.Leader.FullName,
		Email:       req.Leader.Email,
		PhoneNumber: req.Leader.PhoneNumber,
		Role:        registrationdomain.MemberRoleLeader,
		Position:    0,
	})
	payload = append(payload, events.MemberPayload{
		FullName:    req.Leader.FullName,
		Email:       req.Leader.Email,
		PhoneNumber: req.Leader.PhoneNumber,
		IsLeader:    true,
	})
	for i, m := range req.Members {
		members = append(members, &registrationdb.TeamMember{
			TeamID:      team.ID,
			FullName:    m.FullName,
			Email:       m.Email,
			PhoneNumber: m.PhoneNumber,
			Role:        registrationdomain.MemberRoleMember,
			Position:    i + 1,
		})
		payload = append(payload, events.MemberPayload{
			FullName:    m.FullName,
			Email:       m.Email,
			PhoneNumber: m.PhoneNumber,
		})
	}
	if err := s.repo.CreateMembers(ctx, db, members); err != nil {
		return nil, err
	}

	return &admission{
		result: &AdmissionResult{
			RegistrationID:  reg.ID,
			TeamName:        team.TeamName,
			CompetitionCode: comp.Code,
			CompetitionName: comp.Name,
			MemberCount:     len(members),
			Status:          reg.VerificationStatus,
			CurrentPhase:    reg.CurrentPhase,
			NewUser:         isNew,
		},
		event: events.RegistrationCreatedPayload{
			RegistrationID:  reg.ID,
			CompetitionCode: comp.Code,
			CompetitionName: comp.Name,
			TeamName:        team.TeamName,
			Institution:     team.Institution,
			LeaderName:      req.Leader.FullName,
			LeaderEmail:     req.Leader.Email,
			Members:         payload,
			NewUser:         isNew,
			ActivationToken: activation,
			CreatedAt:       now,
		},
	}, nil
}

// conflictFromUnique maps a unique violation on a registration table to a
// Conflict error. It returns nil for any other error.
func conflictFromUnique(err error) error {
	constraint, ok := dberrors.UniqueViolation(err)
	if !ok {
		return nil
	}
	switch constraint {
	case registrationdb.ConstraintTeamName:
		return teamNameTaken("")
	case registrationdb.ConstraintMemberEmail:
		return apperrors.New(apperrors.KindConflict, apperrors.CodeMemberRegistered, "some members are already registered in a team")
	case registrationdb.ConstraintRegistration, userdb.ConstraintEmail:
		return apperrors.New(apperrors.KindConflict, apperrors.CodeLeaderRegistered, "this account is already registered for a competition")
	case userdb.ConstraintUsername:
		return apperrors.New(apperrors.KindConflict, apperrors.CodeUsernameTaken, "username is taken")
	default:
		return apperrors.WithMetadata(apperrors.KindConflict, apperrors.CodeDuplicateRecord, "registration conflicts with an existing record",
			map[string]any{"constraint": constraint})
	}
}

func teamNameTaken(name string) error {
	msg := "team name is already taken"
	if name != "" {
		msg = fmt.Sprintf("team name %q is already taken", name)
	}
	return apperrors.New(apperrors.KindConflict, apperrors.CodeTeamNameTaken, msg)
}
