// Package services contains server-side business logic. AccountService
// registers accounts, serves profiles and manages role claims.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
	"github.com/dmitrijs2005/pulsecity/internal/server/repositories/repomanager"
)

// IdentityProvider creates identities, manages their custom claims and
// signs callers in.
type IdentityProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*models.Identity, error)
	CreateUser(ctx context.Context, email, password string) (*models.Identity, error)
	SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error
	SignIn(ctx context.Context, email, password string) (string, time.Duration, error)
}

// registrationClaimRole is the role claim every new identity receives. The
// mirrored profile is stored with registrationProfileRole; the two differ.
const (
	registrationClaimRole   = models.RoleAdmin
	registrationProfileRole = models.RoleUser
)

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	identities  IdentityProvider
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, idp IdentityProvider) *AccountService {
	return &AccountService{db: db, repomanager: m, identities: idp}
}

// Register creates the identity, sets its role claim and mirrors the profile
// without the password. It returns the profile's update time.
// An email already in use yields common.ErrAccountAlreadyExists.
func (s *AccountService) Register(ctx context.Context, account models.Account) (time.Time, error) {
	if common.IsBlank(account.Email) || account.Password == "" {
		return time.Time{}, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	_, err := s.identities.GetUserByEmail(ctx, account.Email)
	switch {
	case err == nil:
		return time.Time{}, common.ErrAccountAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return time.Time{}, fmt.Errorf("error looking up identity: %w", err)
	}

	identity, err := s.identities.CreateUser(ctx, account.Email, account.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return time.Time{}, common.ErrAccountAlreadyExists
		}
		return time.Time{}, fmt.Errorf("error creating identity: %w", err)
	}

	claims := map[string]any{common.RoleClaim: string(registrationClaimRole)}
	if err := s.identities.SetCustomClaims(ctx, identity.UID, claims); err != nil {
		return time.Time{}, fmt.Errorf("error setting role claim: %w", err)
	}

	profile := account.Sanitized()
	profile.Email = identity.Email
	profile.Role = registrationProfileRole

	updatedAt, err := s.repomanager.Profiles(s.db).Set(ctx, identity.UID, profile)
	if err != nil {
		return time.Time{}, fmt.Errorf("error writing profile: %w", err)
	}

	return updatedAt, nil
}

// Profile returns the stored profile of uid. A missing profile yields
// common.ErrProfileMissing.
func (s *AccountService) Profile(ctx context.Context, uid string) (*models.Account, error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, uid)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrProfileMissing
		}
		return nil, fmt.Errorf("error reading profile: %w", err)
	}

	account := p.Account.Sanitized()
	return &account, nil
}

// SignIn validates credentials and returns an ID token with its lifetime.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (string, time.Duration, error) {
	if common.IsBlank(email) || password == "" {
		return "", 0, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}
	return s.identities.SignIn(ctx, email, password)
}

// SetRole updates the role claim of the identity with this email and the
// role of its profile. Other custom claims are kept.
func (s *AccountService) SetRole(ctx context.Context, email string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}

	identity, err := s.identities.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error looking up identity: %w", err)
	}

	claims := make(map[string]any, len(identity.CustomClaims)+1)
	for k, v := range identity.CustomClaims {
		claims[k] = v
	}
	claims[common.RoleClaim] = string(role)

	if err := s.identities.SetCustomClaims(ctx, identity.UID, claims); err != nil {
		return fmt.Errorf("error setting role claim: %w", err)
	}

	if err := s.repomanager.Profiles(s.db).SetRole(ctx, identity.UID, role); err != nil {
		return fmt.Errorf("error updating profile role: %w", err)
	}

	return nil
}

// CreateAdmin registers an account and promotes it to ADMIN in both the
// claims and the profile.
func (s *AccountService) CreateAdmin(ctx context.Context, account models.Account) error {
	if _, err := s.Register(ctx, account); err != nil {
		return err
	}
	return s.SetRole(ctx, account.Email, models.RoleAdmin)
}
