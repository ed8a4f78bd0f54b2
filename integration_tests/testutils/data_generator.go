package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
)

// TestDataGenerator builds realistic registration payloads.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a generator with a fixed seed so failures
// reproduce.
func NewTestDataGenerator(seed uint64) *TestDataGenerator {
	return &TestDataGenerator{faker: gofakeit.New(seed)}
}

// Member generates one team member.
func (g *TestDataGenerator) Member() registrationdomain.Member {
	return registrationdomain.Member{
		FullName:    g.faker.Name(),
		Email:       g.faker.Email(),
		PhoneNumber: g.faker.Numerify("08##########"),
	}
}

// AdmissionRequest generates a team of teamSize people, leader included,
// with a password for a new leader account.
func (g *TestDataGenerator) AdmissionRequest(code string, teamSize int) registrationdomain.AdmissionRequest {
	req := registrationdomain.AdmissionRequest{
		CompetitionCode: code,
		TeamName:        fmt.Sprintf("%s %d", g.faker.Company(), g.faker.Number(1, 1_000_000)),
		Institution:     g.faker.Company(),
		Leader: registrationdomain.Leader{
			FullName:    g.faker.Name(),
			Email:       g.faker.Email(),
			PhoneNumber: g.faker.Numerify("08##########"),
			Password:    g.faker.Password(true, true, true, false, false, 14),
		},
	}
	for i := 1; i < teamSize; i++ {
		req.Members = append(req.Members, g.Member())
	}
	return req
}
