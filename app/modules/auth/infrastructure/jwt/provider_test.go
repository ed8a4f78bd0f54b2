package authjwt

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
)

func TestProvider_GenerateAndValidateToken(t *testing.T) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "test-secret-at-least-32-chars-long!!"
	}
	p := NewProvider(secret, "thesandbox")

	claims := &authdomain.Claims{
		Subject: uuid.New(),
		Kind:    authdomain.SubjectStaff,
		Email:   "committee@thesandbox.id",
		Role:    authdomain.RoleAdmin,
	}

	tests := []struct {
		name        string
		setupClaims *authdomain.Claims
		ttl         time.Duration
		provider    Provider
		expectedErr error
		verify      func(t *testing.T, validated *authdomain.Claims)
	}{
		{
			name:        "success",
			setupClaims: claims,
			ttl:         1 * time.Hour,
			provider:    p,
			verify: func(t *testing.T, validated *authdomain.Claims) {
				if validated.Subject != claims.Subject {
					t.Errorf("expected subject %v, got %v", claims.Subject, validated.Subject)
				}
				if validated.Role != claims.Role {
					t.Errorf("expected role %s, got %s", claims.Role, validated.Role)
				}
				if validated.Kind != authdomain.SubjectStaff {
					t.Errorf("expected staff kind, got %s", validated.Kind)
				}
			},
		},
		{
			name:        "expired token",
			setupClaims: claims,
			ttl:         -1 * time.Hour,
			provider:    p,
			expectedErr: ErrExpiredToken,
		},
		{
			name:        "invalid signature",
			setupClaims: claims,
			ttl:         1 * time.Hour,
			provider:    NewProvider("wrong-secret-wrong-secret-wrong-secret", "thesandbox"),
			expectedErr: ErrInvalidSignature,
		},
		{
			name:        "wrong issuer",
			setupClaims: claims,
			ttl:         1 * time.Hour,
			provider:    NewProvider(secret, "someone-else"),
			expectedErr: ErrInvalidToken,
		},
		{
			name:        "unknown role",
			setupClaims: &authdomain.Claims{Subject: uuid.New(), Kind: authdomain.SubjectUser, Role: "root"},
			ttl:         1 * time.Hour,
			provider:    p,
			expectedErr: ErrInvalidToken,
		},
		{
			name:        "malformed token",
			setupClaims: nil,
			expectedErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := "not.a.jwt"
			if tt.setupClaims != nil {
				var err error
				token, err = p.GenerateToken(tt.setupClaims, tt.ttl)
				if err != nil {
					t.Fatalf("failed to generate token: %v", err)
				}
			}

			validateTarget := p
			if tt.provider != nil {
				validateTarget = tt.provider
			}

			validatedClaims, err := validateTarget.ValidateToken(token)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.verify != nil {
				tt.verify(t, validatedClaims)
			}
		})
	}
}
