package userservice

import (
	"fmt"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
)

func (s *UserService) issueSession(subject uuid.UUID, kind authdomain.SubjectKind, email, name string, role authdomain.Role) (*Session, error) {
	now := s.clock.Now()
	claims := &authdomain.Claims{
		Subject:   subject,
		Kind:      kind,
		Email:     email,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	token, err := s.tokens.GenerateToken(claims, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		Subject:   subject,
		Kind:      kind,
		Email:     email,
		Name:      name,
		Role:      role,
	}, nil
}
