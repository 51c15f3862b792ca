// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/angelamos/trailhead/internal/core"
)

const resetTokenTTL = 10 * time.Minute

// Credentials is the authentication view of a user account. Only the
// auth service ever sees the password hash.
type Credentials struct {
	ID                string
	Name              string
	Email             string
	Photo             string
	Role              string
	PasswordHash      string
	PasswordChangedAt *time.Time
}

// UserStore is the persistence surface the auth flow needs. Lookups
// only return active accounts; SetPassword stamps password_changed_at
// and clears any pending reset digest in the same statement.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*Credentials, error)
	CredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	CredentialsByID(ctx context.Context, id string) (*Credentials, error)
	SetPassword(ctx context.Context, userID, passwordHash string) error
	SetPasswordHash(ctx context.Context, userID, passwordHash string) error
	StoreResetDigest(ctx context.Context, userID, digest string, expiresAt time.Time) error
	CredentialsByResetDigest(ctx context.Context, digest string) (*Credentials, error)
	ClearResetDigest(ctx context.Context, userID string) error
}

type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

type Service struct {
	store   UserStore
	jwt     *JWTManager
	mailer  Mailer
	baseURL string
	logger  *slog.Logger
}

func NewService(
	store UserStore,
	jwtManager *JWTManager,
	mailer Mailer,
	baseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:   store,
		jwt:     jwtManager,
		mailer:  mailer,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	creds, err := s.store.CreateUser(ctx, req.Name, core.NormalizeEmail(req.Email), passwordHash)
	if err != nil {
		return nil, err
	}

	return s.issueSession(creds)
}

// Login verifies against a dummy hash when the email is unknown so the
// response timing does not reveal which accounts exist. Both failure
// paths share one message.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	creds, err := s.store.CredentialsByEmail(ctx, core.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, core.UnauthorizedError("incorrect email or password")
		}
		return nil, err
	}

	match, newHash, err := core.VerifyPasswordTimingSafe(req.Password, &creds.PasswordHash)
	if err != nil || !match {
		return nil, core.UnauthorizedError("incorrect email or password")
	}

	// The hash parameters changed since this password was stored. Same
	// credential, so existing tokens stay valid.
	if newHash != "" {
		if err := s.store.SetPasswordHash(ctx, creds.ID, newHash); err != nil {
			s.logger.Warn("persist rehashed password failed", "user_id", creds.ID, "error", err)
		}
	}

	return s.issueSession(creds)
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	creds, err := s.store.CredentialsByEmail(ctx, core.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NewAppError(
				core.ErrNotFound,
				"there is no user with that email address",
				http.StatusNotFound,
				"user_not_found",
			)
		}
		return err
	}

	token, err := core.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(resetTokenTTL)
	if err := s.store.StoreResetDigest(ctx, creds.ID, core.HashToken(token), expiresAt); err != nil {
		return fmt.Errorf("store reset digest: %w", err)
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", s.baseURL, token)

	if err := s.mailer.SendPasswordReset(ctx, creds.Email, creds.Name, resetURL); err != nil {
		// The stored digest is useless if the email never went out.
		if clearErr := s.store.ClearResetDigest(ctx, creds.ID); clearErr != nil {
			s.logger.Error("failed to clear reset digest after send failure",
				"user_id", creds.ID,
				"error", clearErr,
			)
		}
		s.logger.Error("password reset email failed", "error", err)
		return core.NewAppError(
			err,
			"there was an error sending the email, try again later",
			http.StatusInternalServerError,
			"email_send_failed",
		)
	}

	return nil
}

func (s *Service) ResetPassword(
	ctx context.Context,
	token string,
	req ResetPasswordRequest,
) (*AuthResult, error) {
	creds, err := s.store.CredentialsByResetDigest(ctx, core.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NewAppError(
				core.ErrInvalidInput,
				"token is invalid or has expired",
				http.StatusBadRequest,
				"reset_token_invalid",
			)
		}
		return nil, err
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.SetPassword(ctx, creds.ID, passwordHash); err != nil {
		return nil, err
	}

	return s.issueSession(creds)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID string,
	req UpdatePasswordRequest,
) (*AuthResult, error) {
	creds, err := s.store.CredentialsByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	match, err := core.VerifyPassword(req.PasswordCurrent, creds.PasswordHash)
	if err != nil || !match {
		return nil, core.UnauthorizedError("your current password is wrong")
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.SetPassword(ctx, creds.ID, passwordHash); err != nil {
		return nil, err
	}

	return s.issueSession(creds)
}

func (s *Service) issueSession(creds *Credentials) (*AuthResult, error) {
	token, err := s.jwt.CreateAccessToken(creds.ID, creds.Role)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResult{
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwt.TokenExpire()),
		User: SessionUser{
			ID:    creds.ID,
			Name:  creds.Name,
			Email: creds.Email,
			Photo: creds.Photo,
			Role:  creds.Role,
		},
	}, nil
}
