package userservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	userdomain "github.com/ieee-sb/thesandbox/app/modules/user/domain"
	useroauth "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/oauth"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"github.com/uptrace/bun"
)

var errInvalidCredentials = apperrors.New(apperrors.KindUnauthorized, apperrors.CodeInvalidCredentials, "invalid email or password")

// Activate consumes an activation token and enables the account.
func (s *UserService) Activate(ctx context.Context, token string) (*ActivationResult, error) {
	activateTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*ActivationResult, error], error) {
		return s.activateLogic(ctx, db, strings.TrimSpace(token))
	}

	return operation.Unwrap(operation.Run(s.runner, ctx, "Activate", "token", func(ctx context.Context) (results.OperationResult[*ActivationResult, error], error) {
		return operation.InTx(s.runner, ctx, activateTx)
	}))
}

func (s *UserService) activateLogic(ctx context.Context, db bun.IDB, token string) (results.OperationResult[*ActivationResult, error], error) {
	if token == "" {
		return operation.Fail[*ActivationResult](apperrors.Validation("activation token is required"))
	}

	t, err := s.repo.GetActivateToken(ctx, db, token)
	if err != nil {
		if errors.Is(err, userdb.ErrNotFound) {
			return operation.Fail[*ActivationResult](apperrors.NotFound("activation link is invalid or was already used"))
		}
		return results.OperationResult[*ActivationResult, error]{}, fmt.Errorf("failed to get activation token: %w", err)
	}

	now := s.clock.Now()
	if now.After(t.ExpiresAt) {
		return operation.Fail[*ActivationResult](apperrors.New(apperrors.KindState, apperrors.CodeTokenExpired, "activation link has expired"))
	}

	user, err := s.repo.GetUserByID(ctx, db, t.UserID)
	if err != nil {
		return results.OperationResult[*ActivationResult, error]{}, fmt.Errorf("failed to get user for token: %w", err)
	}

	user.Active = true
	user.EmailVerifiedAt = &now
	if err := s.repo.UpdateUser(ctx, db, user, "active", "email_verified_at"); err != nil {
		return results.OperationResult[*ActivationResult, error]{}, fmt.Errorf("failed to activate user: %w", err)
	}
	if err := s.repo.DeleteActivateToken(ctx, db, token); err != nil {
		return results.OperationResult[*ActivationResult, error]{}, fmt.Errorf("failed to consume activation token: %w", err)
	}

	return operation.Succeed(&ActivationResult{UserID: user.ID, Username: user.Username, Email: user.Email})
}

// Login signs a participant in with email and password.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "Login", email, func(ctx context.Context) (results.OperationResult[*Session, error], error) {
		user, err := s.repo.GetUserByEmail(ctx, nil, email)
		if err != nil {
			if errors.Is(err, userdb.ErrNotFound) {
				return operation.Fail[*Session](errInvalidCredentials)
			}
			return results.OperationResult[*Session, error]{}, fmt.Errorf("failed to get user: %w", err)
		}

		if !user.HasPassword() {
			return operation.Fail[*Session](apperrors.New(apperrors.KindUnauthorized, apperrors.CodeUseSocialLogin, "this account signs in with Google"))
		}
		if err := userdomain.ComparePassword(*user.PasswordHash, password); err != nil {
			if errors.Is(err, userdomain.ErrPasswordMismatch) {
				return operation.Fail[*Session](errInvalidCredentials)
			}
			return results.OperationResult[*Session, error]{}, err
		}
		if !user.Active {
			return operation.Fail[*Session](apperrors.New(apperrors.KindUnauthorized, apperrors.CodeAccountInactive, "activate your account from the email we sent before signing in"))
		}

		session, err := s.issueSession(user.ID, authdomain.SubjectUser, user.Email, user.Username, authdomain.RoleParticipant)
		if err != nil {
			return results.OperationResult[*Session, error]{}, err
		}
		return operation.Succeed(session)
	}))
}

// GoogleAuthURL returns the Google consent URL for state.
func (s *UserService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", errGoogleDisabled
	}
	return s.google.AuthCodeURL(state), nil
}

var errGoogleDisabled = apperrors.NotFound("google sign-in is not enabled")

// LoginWithGoogle completes the OAuth flow. Unknown accounts are created
// active and without a password; existing accounts are linked and
// activated.
func (s *UserService) LoginWithGoogle(ctx context.Context, code string) (*Session, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "LoginWithGoogle", "google", func(ctx context.Context) (results.OperationResult[*Session, error], error) {
		if s.google == nil {
			return operation.Fail[*Session](errGoogleDisabled)
		}

		profile, err := s.google.Exchange(ctx, code)
		if err != nil {
			return operation.Fail[*Session](apperrors.Dependency("google sign-in failed", err))
		}
		if !profile.EmailVerified {
			return operation.Fail[*Session](apperrors.New(apperrors.KindUnauthorized, apperrors.CodeInvalidCredentials, "google account email is not verified"))
		}

		googleTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*userdb.User, error], error) {
			user, err := s.upsertGoogleUser(ctx, db, profile)
			if err != nil {
				return results.OperationResult[*userdb.User, error]{}, err
			}
			return operation.Succeed(user)
		}

		user, err := operation.Unwrap(operation.InTx(s.runner, ctx, googleTx))
		if err != nil {
			return results.OperationResult[*Session, error]{}, err
		}

		session, err := s.issueSession(user.ID, authdomain.SubjectUser, user.Email, user.Username, authdomain.RoleParticipant)
		if err != nil {
			return results.OperationResult[*Session, error]{}, err
		}
		return operation.Succeed(session)
	}))
}

func (s *UserService) upsertGoogleUser(ctx context.Context, db bun.IDB, profile *useroauth.Profile) (*userdb.User, error) {
	now := s.clock.Now()

	user, err := s.repo.GetUserByGoogleSubject(ctx, db, profile.Subject)
	if err == nil {
		if !user.Active {
			user.Active = true
			user.EmailVerifiedAt = &now
			if err := s.repo.UpdateUser(ctx, db, user, "active", "email_verified_at"); err != nil {
				return nil, err
			}
		}
		return user, nil
	}
	if !errors.Is(err, userdb.ErrNotFound) {
		return nil, err
	}

	subject := profile.Subject
	user, err = s.repo.GetUserByEmail(ctx, db, profile.Email)
	switch {
	case err == nil:
		user.GoogleSubject = &subject
		user.Active = true
		if user.EmailVerifiedAt == nil {
			user.EmailVerifiedAt = &now
		}
		if err := s.repo.UpdateUser(ctx, db, user, "google_subject", "active", "email_verified_at"); err != nil {
			return nil, err
		}
		return user, nil
	case !errors.Is(err, userdb.ErrNotFound):
		return nil, err
	}

	username, err := s.availableUsername(ctx, db, userdomain.UsernameFromEmail(profile.Email))
	if err != nil {
		return nil, err
	}

	user = &userdb.User{
		ID:              uuid.New(),
		Username:        username,
		Email:           strings.ToLower(profile.Email),
		GoogleSubject:   &subject,
		Active:          true,
		EmailVerifiedAt: &now,
	}
	if err := s.repo.CreateUser(ctx, db, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Created account from Google sign-in",
		"user_id", user.ID,
		"username", username,
	)
	return user, nil
}

func (s *UserService) availableUsername(ctx context.Context, db bun.IDB, base string) (string, error) {
	candidate := base
	for i := 0; i < 5; i++ {
		taken, err := s.repo.UsernameExists(ctx, db, candidate)
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

// PurgeExpiredTokens removes activation tokens past their expiry.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "PurgeExpiredTokens", "activate_tokens", func(ctx context.Context) (results.OperationResult[int64, error], error) {
		n, err := s.repo.DeleteExpiredActivateTokens(ctx, nil, s.clock.Now())
		if err != nil {
			return results.OperationResult[int64, error]{}, err
		}
		return operation.Succeed(n)
	}))
}
