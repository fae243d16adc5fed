// Package identity is the local identity provider: it owns identity records,
// their custom claims and the ID tokens issued for them.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"github.com/dmitrijs2005/pulsecity/internal/cryptox"
	"github.com/dmitrijs2005/pulsecity/internal/server/auth"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
	"github.com/dmitrijs2005/pulsecity/internal/server/repositories/identities"
	"github.com/google/uuid"
)

var (
	newUID       = uuid.NewString
	hashPassword = cryptox.HashPassword
)

type Provider struct {
	repo   identities.Repository
	signer *auth.TokenSigner
}

func NewProvider(repo identities.Repository, signer *auth.TokenSigner) *Provider {
	return &Provider{repo: repo, signer: signer}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUserByEmail returns common.ErrorNotFound when no identity exists.
func (p *Provider) GetUserByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return p.repo.GetByEmail(ctx, normalizeEmail(email))
}

// CreateUser creates an identity with a fresh uid. An email that is already
// taken yields common.ErrorAlreadyExists.
func (p *Provider) CreateUser(ctx context.Context, email, password string) (*models.Identity, error) {
	identity := &models.Identity{
		UID:          newUID(),
		Email:        normalizeEmail(email),
		PasswordHash: hashPassword(password),
		CustomClaims: map[string]any{},
	}

	return p.repo.Create(ctx, identity)
}

// SetCustomClaims replaces the custom claims of an identity. They are embedded
// in tokens issued afterwards.
func (p *Provider) SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error {
	return p.repo.SetCustomClaims(ctx, uid, claims)
}

func (p *Provider) VerifyIDToken(token string) (*auth.IDTokenClaims, error) {
	return p.signer.Verify(token)
}

// SignIn checks the password and issues an ID token. Unknown emails and wrong
// passwords both yield common.ErrorUnauthorized.
func (p *Provider) SignIn(ctx context.Context, email, password string) (string, time.Duration, error) {
	identity, err := p.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", 0, common.ErrorUnauthorized
		}
		return "", 0, err
	}

	ok, err := cryptox.VerifyPassword(identity.PasswordHash, password)
	if err != nil {
		return "", 0, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", 0, common.ErrorUnauthorized
	}

	token, err := p.signer.Issue(identity)
	if err != nil {
		return "", 0, fmt.Errorf("issue token: %w", err)
	}

	return token, p.signer.Validity(), nil
}
