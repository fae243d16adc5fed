package posts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/server/models"
)

// Repository stores user posts. A post is staged as pending, then either
// finalized or marked failed; stale unpublished posts are reclaimed.
type Repository interface {
	CreateStaging(ctx context.Context, post *models.Post) error
	Finalize(ctx context.Context, post *models.Post) error
	MarkFailed(ctx context.Context, id string) error
	LockStale(ctx context.Context, createdBefore time.Time, limit int) ([]*models.Post, error)
	Delete(ctx context.Context, id string) error
}
