package registrationservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	userdomain "github.com/ieee-sb/thesandbox/app/modules/user/domain"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/eventbus"
	"github.com/ieee-sb/thesandbox/pkg/events"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

var testNow = time.Date(2026, 11, 20, 10, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	msgs   []*message.Message
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range msgs {
		p.topics = append(p.topics, topic)
		p.msgs = append(p.msgs, m)
	}
	return nil
}

type fakePayments struct {
	verified map[uuid.UUID]bool
}

func (f *fakePayments) PaymentVerified(ctx context.Context, db bun.IDB, registrationID uuid.UUID) (bool, error) {
	return f.verified[registrationID], nil
}

type uniqueViolation map[byte]string

func (e uniqueViolation) Error() string       { return "duplicate key value violates unique constraint" }
func (e uniqueViolation) Field(k byte) string { return e[k] }

type fixture struct {
	svc          *RegistrationService
	repo         *registrationdb.FakeRepository
	users        *userdb.FakeRepository
	competitions map[string]*competitiondb.Competition
	payments     *fakePayments
	publisher    *recordingPublisher
}

func newCompetition(code string, minSize, maxSize int, fee int64) *competitiondb.Competition {
	return &competitiondb.Competition{
		ID:                   uuid.New(),
		Code:                 code,
		Name:                 code + " Competition",
		MinTeamSize:          minSize,
		MaxTeamSize:          maxSize,
		RegistrationFee:      fee,
		IsActive:             true,
		RegistrationOpen:     testNow.Add(-10 * 24 * time.Hour),
		RegistrationDeadline: testNow.Add(10 * 24 * time.Hour),
		PreliminaryStart:     testNow.Add(5 * 24 * time.Hour),
		PreliminaryDeadline:  testNow.Add(30 * 24 * time.Hour),
		SemifinalStart:       testNow.Add(40 * 24 * time.Hour),
		SemifinalDeadline:    testNow.Add(50 * 24 * time.Hour),
	}
}

func newFixture(comps ...*competitiondb.Competition) *fixture {
	f := &fixture{
		repo:         registrationdb.NewFakeRepository(),
		users:        userdb.NewFakeRepository(),
		competitions: map[string]*competitiondb.Competition{},
		payments:     &fakePayments{verified: map[uuid.UUID]bool{}},
		publisher:    &recordingPublisher{},
	}
	for _, c := range comps {
		f.competitions[c.Code] = c
		f.repo.CompetitionCodes[c.ID] = c.Code
	}

	compRepo := competitiondb.NewFakeRepository()
	compRepo.GetByCodeFunc = func(ctx context.Context, db bun.IDB, code string) (*competitiondb.Competition, error) {
		if c, ok := f.competitions[code]; ok {
			return c, nil
		}
		return nil, competitiondb.ErrNotFound
	}
	compRepo.GetByIDFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Competition, error) {
		for _, c := range f.competitions {
			if c.ID == id {
				return c, nil
			}
		}
		return nil, competitiondb.ErrNotFound
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewRegistrationService(
		f.repo,
		f.users,
		compRepo,
		f.payments,
		eventbus.NewSyncDispatcher(f.publisher, logger),
		clock.Fixed(testNow),
		logger,
		observability.NoopMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
	return f
}

func fakeMember(faker *gofakeit.Faker) registrationdomain.Member {
	return registrationdomain.Member{
		FullName:    faker.Name(),
		Email:       faker.Email(),
		PhoneNumber: faker.Numerify("08##########"),
	}
}

func newRequest(faker *gofakeit.Faker, code string, extraMembers int) registrationdomain.AdmissionRequest {
	req := registrationdomain.AdmissionRequest{
		CompetitionCode: code,
		TeamName:        fmt.Sprintf("%s %d", faker.Company(), faker.Number(1, 1_000_000)),
		Institution:     faker.Company(),
		Leader: registrationdomain.Leader{
			FullName:    faker.Name(),
			Email:       faker.Email(),
			PhoneNumber: faker.Numerify("08##########"),
			Password:    "correct-horse",
		},
	}
	for i := 0; i < extraMembers; i++ {
		req.Members = append(req.Members, fakeMember(faker))
	}
	return req
}

func TestAdmitTeam_HappyPath(t *testing.T) {
	faker := gofakeit.New(7)
	f := newFixture(newCompetition("PTC", 1, 5, 0))
	req := newRequest(faker, "ptc", 0)

	res, err := f.svc.AdmitTeam(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, res.MemberCount)
	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, "registration", res.CurrentPhase)
	assert.Equal(t, "PTC", res.CompetitionCode)
	assert.True(t, res.NewUser)

	require.Len(t, f.users.Users, 1)
	for _, u := range f.users.Users {
		assert.False(t, u.Active)
		assert.True(t, u.HasPassword())
	}
	require.Len(t, f.users.Tokens, 1)
	for _, tok := range f.users.Tokens {
		assert.Equal(t, testNow.Add(userdomain.ActivationTTL), tok.ExpiresAt)
	}

	require.Equal(t, []string{events.RegistrationCreatedV1}, f.publisher.topics)
	payload, err := eventbus.Decode[events.RegistrationCreatedPayload](f.publisher.msgs[0])
	require.NoError(t, err)
	assert.Equal(t, res.RegistrationID, payload.RegistrationID)
	assert.NotEmpty(t, payload.ActivationToken)
}

func TestAdmitTeam_TeamSizeBoundary(t *testing.T) {
	tests := []struct {
		name    string
		extra   int
		wantErr bool
	}{
		{name: "leader only is below minimum", extra: 0, wantErr: true},
		{name: "exactly minimum", extra: 1},
		{name: "exactly maximum", extra: 4},
		{name: "above maximum", extra: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faker := gofakeit.New(11)
			f := newFixture(newCompetition("TPC", 2, 5, 0))

			res, err := f.svc.AdmitTeam(context.Background(), newRequest(faker, "TPC", tt.extra))
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.extra+1, res.MemberCount)
				return
			}

			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			assert.Equal(t, apperrors.CodeTeamSize, apperrors.GetCode(err))
			assert.Equal(t, map[string]any{"current": tt.extra + 1, "min": 2, "max": 5}, apperrors.GetMetadata(err))
			assert.Empty(t, f.repo.Teams)
		})
	}
}

func TestAdmitTeam_OneRegistrationPerUser(t *testing.T) {
	faker := gofakeit.New(21)
	a := newCompetition("PTC", 1, 3, 0)
	b := newCompetition("BCC", 1, 3, 0)
	f := newFixture(a, b)

	first := newRequest(faker, "PTC", 0)
	_, err := f.svc.AdmitTeam(context.Background(), first)
	require.NoError(t, err)

	for _, code := range []string{"PTC", "BCC"} {
		t.Run(code, func(t *testing.T) {
			second := newRequest(faker, code, 0)
			second.Leader.Email = first.Leader.Email
			second.Leader.Password = first.Leader.Password

			_, err := f.svc.AdmitTeam(context.Background(), second)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
			assert.Equal(t, apperrors.CodeLeaderRegistered, apperrors.GetCode(err))
			assert.Contains(t, err.Error(), a.Name)
			assert.Equal(t, "PTC", apperrors.GetMetadata(err)["competition"])
		})
	}
	assert.Len(t, f.repo.Registrations, 1)
}

func TestAdmitTeam_DuplicateTeamName(t *testing.T) {
	faker := gofakeit.New(31)
	f := newFixture(newCompetition("BCC", 1, 3, 0))

	first := newRequest(faker, "BCC", 1)
	_, err := f.svc.AdmitTeam(context.Background(), first)
	require.NoError(t, err)

	second := newRequest(faker, "BCC", 1)
	second.TeamName = "  " + first.TeamName + " "
	_, err = f.svc.AdmitTeam(context.Background(), second)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, apperrors.CodeTeamNameTaken, apperrors.GetCode(err))

	assert.Len(t, f.repo.Teams, 1)
	assert.Len(t, f.repo.Members, 2)
	assert.Len(t, f.users.Users, 1)
}

func TestAdmitTeam_Preconditions(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *fixture, req *registrationdomain.AdmissionRequest)
		wantKind apperrors.Kind
		wantCode apperrors.Code
	}{
		{
			name:     "unknown competition",
			setup:    func(f *fixture, req *registrationdomain.AdmissionRequest) { req.CompetitionCode = "XYZ" },
			wantKind: apperrors.KindNotFound,
			wantCode: apperrors.CodeCompetitionNotFound,
		},
		{
			name:     "inactive competition",
			setup:    func(f *fixture, req *registrationdomain.AdmissionRequest) { f.competitions["PTC"].IsActive = false },
			wantKind: apperrors.KindState,
			wantCode: apperrors.CodeCompetitionInactive,
		},
		{
			name: "registration window closed",
			setup: func(f *fixture, req *registrationdomain.AdmissionRequest) {
				f.competitions["PTC"].RegistrationDeadline = testNow.Add(-time.Millisecond)
			},
			wantKind: apperrors.KindState,
			wantCode: apperrors.CodeRegistrationClosed,
		},
		{
			name: "invalid email",
			setup: func(f *fixture, req *registrationdomain.AdmissionRequest) {
				req.Members[0].Email = "not-an-email"
			},
			wantKind: apperrors.KindValidation,
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name: "duplicate email inside request",
			setup: func(f *fixture, req *registrationdomain.AdmissionRequest) {
				req.Members[0].Email = req.Leader.Email
			},
			wantKind: apperrors.KindValidation,
			wantCode: apperrors.CodeDuplicateEmail,
		},
		{
			name:     "short password for new account",
			setup:    func(f *fixture, req *registrationdomain.AdmissionRequest) { req.Leader.Password = "short" },
			wantKind: apperrors.KindValidation,
			wantCode: apperrors.CodeInvalidInput,
		},
		{
			name: "requested username taken",
			setup: func(f *fixture, req *registrationdomain.AdmissionRequest) {
				id := uuid.New()
				f.users.Users[id] = &userdb.User{ID: id, Username: "ada", Email: "someone@example.com"}
				req.Leader.Username = "ADA"
			},
			wantKind: apperrors.KindConflict,
			wantCode: apperrors.CodeUsernameTaken,
		},
		{
			name: "returning user signed up with google",
			setup: func(f *fixture, req *registrationdomain.AdmissionRequest) {
				id := uuid.New()
				f.users.Users[id] = &userdb.User{ID: id, Username: "g", Email: req.Leader.Email, Active: true}
			},
			wantKind: apperrors.KindUnauthorized,
			wantCode: apperrors.CodeUseSocialLogin,
		},
		{
			name: "returning user wrong password",
			setup: func(f *fixture, req *registrationdomain.AdmissionRequest) {
				hash, _ := userdomain.HashPassword("a-different-password")
				id := uuid.New()
				f.users.Users[id] = &userdb.User{ID: id, Username: "r", Email: req.Leader.Email, PasswordHash: &hash, Active: true}
			},
			wantKind: apperrors.KindUnauthorized,
			wantCode: apperrors.CodeInvalidCredentials,
		},
		{
			name: "member already on another team",
			setup: func(f *fixture, req *registrationdomain.AdmissionRequest) {
				regID, teamID := uuid.New(), uuid.New()
				f.repo.Registrations[regID] = &registrationdb.Registration{ID: regID, UserID: uuid.New(), CompetitionID: f.competitions["PTC"].ID}
				f.repo.Teams[teamID] = &registrationdb.Team{ID: teamID, RegistrationID: regID, TeamName: "Other"}
				f.repo.Members = append(f.repo.Members, &registrationdb.TeamMember{TeamID: teamID, Email: req.Members[0].Email})
			},
			wantKind: apperrors.KindConflict,
			wantCode: apperrors.CodeMemberRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faker := gofakeit.New(41)
			f := newFixture(newCompetition("PTC", 1, 3, 0))
			req := newRequest(faker, "PTC", 1)
			tt.setup(f, &req)

			_, err := f.svc.AdmitTeam(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			assert.Equal(t, tt.wantCode, apperrors.GetCode(err))
			assert.Empty(t, f.publisher.topics)
		})
	}
}

func TestAdmitTeam_ReturningUser(t *testing.T) {
	faker := gofakeit.New(51)
	f := newFixture(newCompetition("PTC", 1, 3, 0))
	req := newRequest(faker, "PTC", 2)
	req.Normalize()

	hash, err := userdomain.HashPassword(req.Leader.Password)
	require.NoError(t, err)
	existing := &userdb.User{ID: uuid.New(), Username: "back", Email: req.Leader.Email, PasswordHash: &hash, Active: true}
	f.users.Users[existing.ID] = existing

	res, err := f.svc.AdmitTeam(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.NewUser)
	assert.Len(t, f.users.Users, 1)
	assert.Empty(t, f.users.Tokens)

	reg, err := f.repo.GetByID(context.Background(), nil, res.RegistrationID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, reg.UserID)

	var gotEmails []string
	for _, m := range reg.Team.Members {
		gotEmails = append(gotEmails, m.Email)
	}
	if diff := cmp.Diff(req.Emails(), gotEmails); diff != "" {
		t.Errorf("member order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, registrationdomain.MemberRoleLeader, reg.Team.Members[0].Role)
}

func TestAdmitTeam_UniqueViolationAtCommit(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		wantCode   apperrors.Code
	}{
		{name: "team name", constraint: registrationdb.ConstraintTeamName, wantCode: apperrors.CodeTeamNameTaken},
		{name: "member email", constraint: registrationdb.ConstraintMemberEmail, wantCode: apperrors.CodeMemberRegistered},
		{name: "leader email", constraint: userdb.ConstraintEmail, wantCode: apperrors.CodeLeaderRegistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faker := gofakeit.New(61)
			f := newFixture(newCompetition("PTC", 1, 3, 0))
			f.repo.CreateMembersFunc = func(ctx context.Context, db bun.IDB, members []*registrationdb.TeamMember) error {
				return fmt.Errorf("failed to create team members: %w", uniqueViolation{'C': "23505", 'n': tt.constraint})
			}

			_, err := f.svc.AdmitTeam(context.Background(), newRequest(faker, "PTC", 1))
			require.Error(t, err)
			assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
			assert.Equal(t, tt.wantCode, apperrors.GetCode(err))
			assert.Empty(t, f.publisher.topics)
		})
	}

	t.Run("other storage errors stay internal", func(t *testing.T) {
		faker := gofakeit.New(62)
		f := newFixture(newCompetition("PTC", 1, 3, 0))
		f.repo.CreateRegistrationFunc = func(ctx context.Context, db bun.IDB, reg *registrationdb.Registration) error {
			return errors.New("connection reset")
		}

		_, err := f.svc.AdmitTeam(context.Background(), newRequest(faker, "PTC", 0))
		require.Error(t, err)
		assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	})
}

func seedRegistration(f *fixture, comp *competitiondb.Competition, status string) *registrationdb.Registration {
	regID, teamID := uuid.New(), uuid.New()
	reg := &registrationdb.Registration{
		ID:                 regID,
		UserID:             uuid.New(),
		CompetitionID:      comp.ID,
		VerificationStatus: status,
		CurrentPhase:       "registration",
		CreatedAt:          testNow,
	}
	f.repo.Registrations[regID] = reg
	f.repo.Teams[teamID] = &registrationdb.Team{ID: teamID, RegistrationID: regID, TeamName: "Circuit Breakers"}
	f.repo.Members = append(f.repo.Members, &registrationdb.TeamMember{TeamID: teamID, Email: "lead@example.com", Role: registrationdomain.MemberRoleLeader})
	return reg
}

func TestReviewRegistration(t *testing.T) {
	admin := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectStaff, Role: authdomain.RoleAdmin}
	reviewer := &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectStaff, Role: authdomain.RoleReviewer}

	t.Run("approve moves the team to preliminary", func(t *testing.T) {
		comp := newCompetition("PTC", 1, 3, 150000)
		f := newFixture(comp)
		reg := seedRegistration(f, comp, "pending")
		f.payments.verified[reg.ID] = true

		view, err := f.svc.ReviewRegistration(context.Background(), admin, reg.ID, ReviewInput{Decision: registrationdomain.DecisionApprove, Notes: " ok "})
		require.NoError(t, err)
		assert.Equal(t, "approved", view.VerificationStatus)
		assert.Equal(t, "preliminary", view.CurrentPhase)
		assert.Equal(t, "ok", view.ReviewNotes)

		stored := f.repo.Registrations[reg.ID]
		require.NotNil(t, stored.ReviewedBy)
		assert.Equal(t, admin.Subject, *stored.ReviewedBy)
		assert.Equal(t, []string{events.RegistrationReviewedV1}, f.publisher.topics)
	})

	t.Run("approve requires a verified payment when a fee is due", func(t *testing.T) {
		comp := newCompetition("PTC", 1, 3, 150000)
		f := newFixture(comp)
		reg := seedRegistration(f, comp, "pending")

		_, err := f.svc.ReviewRegistration(context.Background(), admin, reg.ID, ReviewInput{Decision: registrationdomain.DecisionApprove})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindState, apperrors.KindOf(err))
		assert.Equal(t, apperrors.CodePaymentRequired, apperrors.GetCode(err))
		assert.Equal(t, "pending", f.repo.Registrations[reg.ID].VerificationStatus)
	})

	t.Run("reject keeps the phase", func(t *testing.T) {
		comp := newCompetition("TPC", 1, 3, 0)
		f := newFixture(comp)
		reg := seedRegistration(f, comp, "pending")

		view, err := f.svc.ReviewRegistration(context.Background(), admin, reg.ID, ReviewInput{Decision: registrationdomain.DecisionReject})
		require.NoError(t, err)
		assert.Equal(t, "rejected", view.VerificationStatus)
		assert.Equal(t, "registration", view.CurrentPhase)
	})

	t.Run("already reviewed", func(t *testing.T) {
		comp := newCompetition("TPC", 1, 3, 0)
		f := newFixture(comp)
		reg := seedRegistration(f, comp, "approved")

		_, err := f.svc.ReviewRegistration(context.Background(), admin, reg.ID, ReviewInput{Decision: registrationdomain.DecisionReject})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindState, apperrors.KindOf(err))
		assert.Equal(t, apperrors.CodeAlreadyReviewed, apperrors.GetCode(err))
	})

	t.Run("reviewer role cannot review registrations", func(t *testing.T) {
		comp := newCompetition("TPC", 1, 3, 0)
		f := newFixture(comp)
		reg := seedRegistration(f, comp, "pending")

		_, err := f.svc.ReviewRegistration(context.Background(), reviewer, reg.ID, ReviewInput{Decision: registrationdomain.DecisionApprove})
		assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	})

	t.Run("unknown registration", func(t *testing.T) {
		f := newFixture(newCompetition("TPC", 1, 3, 0))
		_, err := f.svc.ReviewRegistration(context.Background(), admin, uuid.New(), ReviewInput{Decision: registrationdomain.DecisionApprove})
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestLookupByEmail(t *testing.T) {
	comp := newCompetition("BCC", 1, 3, 0)
	f := newFixture(comp)
	seedRegistration(f, comp, "pending")

	res, err := f.svc.LookupByEmail(context.Background(), " LEAD@example.com ")
	require.NoError(t, err)
	assert.True(t, res.Registered)
	require.NotNil(t, res.Registration)
	assert.Equal(t, "BCC", res.Registration.CompetitionCode)
	assert.Equal(t, "Circuit Breakers", res.Registration.TeamName)

	res, err = f.svc.LookupByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, res.Registered)
	assert.Nil(t, res.Registration)

	_, err = f.svc.LookupByEmail(context.Background(), "nope")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestGetForUser(t *testing.T) {
	comp := newCompetition("PTC", 1, 3, 0)
	f := newFixture(comp)
	reg := seedRegistration(f, comp, "pending")

	view, err := f.svc.GetForUser(context.Background(), reg.UserID)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, view.ID)
	assert.Equal(t, "lead@example.com", view.LeaderEmail())

	_, err = f.svc.GetForUser(context.Background(), uuid.New())
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListRegistrations(t *testing.T) {
	ptc := newCompetition("PTC", 1, 3, 0)
	tpc := newCompetition("TPC", 1, 3, 0)
	f := newFixture(ptc, tpc)
	seedRegistration(f, ptc, "pending")
	seedRegistration(f, tpc, "approved")

	all, err := f.svc.ListRegistrations(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyTPC, err := f.svc.ListRegistrations(context.Background(), ListFilter{CompetitionCode: "tpc"})
	require.NoError(t, err)
	require.Len(t, onlyTPC, 1)
	assert.Equal(t, "TPC", onlyTPC[0].CompetitionCode)

	_, err = f.svc.ListRegistrations(context.Background(), ListFilter{VerificationStatus: "bogus"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
