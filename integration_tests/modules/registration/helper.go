//go:build integration

package registrationintegrationtests

import (
	"testing"
	"time"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	competitiondb "github.com/ieee-sb/thesandbox/app/modules/competition/infrastructure/repositories"
	paymentdb "github.com/ieee-sb/thesandbox/app/modules/payment/infrastructure/repositories"
	registrationservice "github.com/ieee-sb/thesandbox/app/modules/registration/application"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/ieee-sb/thesandbox/pkg/observability"
	"github.com/stretchr/testify/require"
)

// registrationOpen falls inside the seeded registration windows.
var registrationOpen = time.Date(2026, 11, 20, 10, 0, 0, 0, time.UTC)

// TestDeps holds dependencies needed by individual tests.
type TestDeps struct {
	Service       registrationservice.Service
	Registrations registrationdb.Repository
	Users         userdb.Repository
	Payments      paymentdb.Repository
}

// SetupTestRegistrationService resets the database and builds the service
// over real repositories.
func SetupTestRegistrationService(t *testing.T) TestDeps {
	t.Helper()
	require.NoError(t, testEnv.Reset())

	db := testEnv.DB
	deps := TestDeps{
		Registrations: registrationdb.NewRepository(db),
		Users:         userdb.NewRepository(db),
		Payments:      paymentdb.NewRepository(db),
	}
	obs := observability.NewNoop()
	deps.Service = registrationservice.NewRegistrationService(
		deps.Registrations,
		deps.Users,
		competitiondb.NewRepository(db),
		deps.Payments,
		nil,
		clock.Fixed(registrationOpen),
		obs.Logger,
		obs.Metrics,
		obs.Tracer,
		db,
	)
	return deps
}

// createReviewer inserts an admin account and returns its claims.
func createReviewer(t *testing.T, deps TestDeps) *authdomain.Claims {
	t.Helper()
	staff := &userdb.Staff{
		ID:           uuid.New(),
		Email:        "committee@thesandbox.id",
		FullName:     "Committee Admin",
		PasswordHash: "unused",
		Role:         string(authdomain.RoleAdmin),
		Active:       true,
	}
	require.NoError(t, deps.Users.CreateStaff(testEnv.Ctx, testEnv.DB, staff))
	return &authdomain.Claims{Subject: staff.ID, Kind: authdomain.SubjectStaff, Email: staff.Email, Role: authdomain.RoleAdmin}
}
