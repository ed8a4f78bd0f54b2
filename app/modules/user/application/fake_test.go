package userservice

import (
	"context"
	"time"

	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	useroauth "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/oauth"
)

// ------------------------
// Fake token provider
// ------------------------

type FakeTokens struct {
	issued []*authdomain.Claims
}

func (f *FakeTokens) GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error) {
	f.issued = append(f.issued, claims)
	return "token-" + claims.Subject.String(), nil
}

func (f *FakeTokens) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	return nil, nil
}

// ------------------------
// Fake OAuth provider
// ------------------------

type FakeGoogle struct {
	Profile     *useroauth.Profile
	ExchangeErr error
}

func (f *FakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.example/auth?state=" + state
}

func (f *FakeGoogle) Exchange(ctx context.Context, code string) (*useroauth.Profile, error) {
	if f.ExchangeErr != nil {
		return nil, f.ExchangeErr
	}
	return f.Profile, nil
}
