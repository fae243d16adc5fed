// Package posts persists user-submitted posts in PostgreSQL.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"github.com/dmitrijs2005/pulsecity/internal/dbx"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateStaging inserts a pending row holding the coordinates and the planned
// object keys. created_at is assigned by the database.
func (r *PostgresRepository) CreateStaging(ctx context.Context, post *models.Post) error {
	query :=
		`INSERT INTO posts (id, author_uid, status, image_key, video_key, audio_key, latitude, longitude)
		 VALUES ($1, $2, 'pending', $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.AuthorUID, post.ImageKey, post.VideoKey, post.AudioKey, post.Latitude, post.Longitude,
	).Scan(&post.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	post.Status = models.PostPending
	return nil
}

// Finalize publishes a pending post with its media URLs, description and
// transcript. A post that is not pending yields common.ErrorNotFound.
func (r *PostgresRepository) Finalize(ctx context.Context, post *models.Post) error {
	query :=
		`UPDATE posts SET image_url = $2, video_url = $3, audio_url = $4, description = $5, audio_text = $6,
		     status = 'published', published_at = now()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING published_at
		 `

	var publishedAt time.Time
	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.ImageURL, post.VideoURL, post.AudioURL, post.Description, post.AudioText,
	).Scan(&publishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	post.Status = models.PostPublished
	post.PublishedAt = &publishedAt
	return nil
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id string) error {
	query :=
		`UPDATE posts SET status = 'failed'
		 WHERE id = $1 AND status = 'pending'
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// LockStale selects up to limit unpublished posts created before
// createdBefore and locks them for the current transaction. Rows locked by
// another sweeper are skipped.
func (r *PostgresRepository) LockStale(ctx context.Context, createdBefore time.Time, limit int) ([]*models.Post, error) {
	query :=
		`SELECT id, status, image_key, video_key, audio_key, created_at FROM posts
		 WHERE status <> 'published' AND created_at < $1
		 ORDER BY created_at
		 LIMIT $2
		 FOR UPDATE SKIP LOCKED
		 `

	rows, err := r.db.QueryContext(ctx, query, createdBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		p := &models.Post{}
		var status string
		if err := rows.Scan(&p.ID, &status, &p.ImageKey, &p.VideoKey, &p.AudioKey, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		p.Status = models.PostStatus(status)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM posts
		 WHERE id = $1 AND status <> 'published'
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
