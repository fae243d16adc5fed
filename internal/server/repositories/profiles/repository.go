package profiles

import (
	"context"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/server/models"
)

// Repository stores the profile mirror of each account, keyed by uid.
type Repository interface {
	Set(ctx context.Context, uid string, account models.Account) (time.Time, error)
	Get(ctx context.Context, uid string) (*models.Profile, error)
	SetRole(ctx context.Context, uid string, role models.Role) error
}
