package identities

import (
	"context"

	"github.com/dmitrijs2005/pulsecity/internal/server/models"
)

// Repository stores identity-provider records.
type Repository interface {
	Create(ctx context.Context, identity *models.Identity) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	GetByUID(ctx context.Context, uid string) (*models.Identity, error)
	SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error
}
