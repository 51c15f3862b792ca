// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"time"

	"github.com/angelamos/trailhead/internal/auth"
	"github.com/angelamos/trailhead/internal/core"
	"github.com/angelamos/trailhead/internal/middleware"
	"github.com/angelamos/trailhead/internal/query"
)

// Service owns user lifecycle and doubles as the credential store for
// the auth flow and the account resolver for the auth middleware.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateMeRequest,
) (*User, error) {
	if req.Email != nil {
		normalized := core.NormalizeEmail(*req.Email)
		req.Email = &normalized
	}
	return s.repo.UpdateProfile(ctx, userID, req.Name, req.Email, req.Photo)
}

func (s *Service) DeleteMe(ctx context.Context, userID string) error {
	return s.repo.SoftDelete(ctx, userID)
}

func (s *Service) List(ctx context.Context, opts query.Options) ([]User, error) {
	return s.repo.List(ctx, opts)
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) AdminUpdate(
	ctx context.Context,
	id string,
	req AdminUpdateUserRequest,
) (*User, error) {
	if req.Email != nil {
		normalized := core.NormalizeEmail(*req.Email)
		req.Email = &normalized
	}
	return s.repo.AdminUpdate(ctx, id, req)
}

func (s *Service) AdminDelete(ctx context.Context, id string) error {
	return s.repo.HardDelete(ctx, id)
}

// ResolveAccount implements middleware.AccountResolver. Missing and
// deactivated accounts both surface as not-found so stale tokens die.
func (s *Service) ResolveAccount(
	ctx context.Context,
	id string,
) (*middleware.Account, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &middleware.Account{
		ID:                u.ID.String(),
		Role:              u.Role,
		PasswordChangedAt: u.PasswordChangedAt,
	}, nil
}

// auth.UserStore implementation.

func (s *Service) CreateUser(
	ctx context.Context,
	name, email, passwordHash string,
) (*auth.Credentials, error) {
	u, err := s.repo.Create(ctx, name, email, passwordHash)
	if err != nil {
		return nil, err
	}
	return toCredentials(u), nil
}

func (s *Service) CredentialsByEmail(
	ctx context.Context,
	email string,
) (*auth.Credentials, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toCredentials(u), nil
}

func (s *Service) CredentialsByID(
	ctx context.Context,
	id string,
) (*auth.Credentials, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCredentials(u), nil
}

func (s *Service) SetPassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.SetPassword(ctx, userID, passwordHash)
}

func (s *Service) SetPasswordHash(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.SetPasswordHash(ctx, userID, passwordHash)
}

func (s *Service) StoreResetDigest(
	ctx context.Context,
	userID, digest string,
	expiresAt time.Time,
) error {
	return s.repo.StoreResetDigest(ctx, userID, digest, expiresAt)
}

func (s *Service) CredentialsByResetDigest(
	ctx context.Context,
	digest string,
) (*auth.Credentials, error) {
	u, err := s.repo.GetByResetDigest(ctx, digest)
	if err != nil {
		return nil, err
	}
	return toCredentials(u), nil
}

func (s *Service) ClearResetDigest(ctx context.Context, userID string) error {
	return s.repo.ClearResetDigest(ctx, userID)
}

func toCredentials(u *User) *auth.Credentials {
	return &auth.Credentials{
		ID:                u.ID.String(),
		Name:              u.Name,
		Email:             u.Email,
		Photo:             u.Photo,
		Role:              u.Role,
		PasswordHash:      u.PasswordHash,
		PasswordChangedAt: u.PasswordChangedAt,
	}
}
