package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"math"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"github.com/dmitrijs2005/pulsecity/internal/logging"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
	"github.com/dmitrijs2005/pulsecity/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pulsecity/internal/server/storage"
	"github.com/google/uuid"
)

var (
	newPostID = uuid.NewString
	objectKey = storage.ObjectKey
)

// ObjectStore keeps media objects and resolves their public URLs.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Attachment is one uploaded media file.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (a *Attachment) present() bool {
	return a != nil && a.Size > 0 && a.Body != nil
}

// PostInput is a submission as received from the author.
type PostInput struct {
	AuthorUID   string
	Description string
	Latitude    float64
	Longitude   float64
	Image       *Attachment
	Video       *Attachment
	Audio       *Attachment
}

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	transcriber Transcriber
	log         logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, t Transcriber, log logging.Logger) *PostService {
	return &PostService{db: db, repomanager: m, store: store, transcriber: t, log: log}
}

func validCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Create stages the post, uploads its media, transcribes the audio and
// publishes the post. If anything fails after staging, the post is marked
// failed and left for the sweeper.
func (s *PostService) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	if !validCoordinates(in.Latitude, in.Longitude) {
		return nil, fmt.Errorf("%w: coordinates out of range", common.ErrValidation)
	}

	post := &models.Post{
		ID:        newPostID(),
		AuthorUID: in.AuthorUID,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}
	if in.Image.present() {
		post.ImageKey = ptr(objectKey(in.Image.Filename))
	}
	if in.Video.present() {
		post.VideoKey = ptr(objectKey(in.Video.Filename))
	}
	if in.Audio.present() {
		post.AudioKey = ptr(objectKey(in.Audio.Filename))
	}

	repo := s.repomanager.Posts(s.db)
	if err := repo.CreateStaging(ctx, post); err != nil {
		return nil, fmt.Errorf("error staging post: %w", err)
	}

	if err := s.publish(ctx, post, in); err != nil {
		// the request context may already be done
		if mErr := repo.MarkFailed(context.WithoutCancel(ctx), post.ID); mErr != nil {
			s.log.Warn(ctx, "mark post failed", "post_id", post.ID, "error", mErr)
		}
		return nil, err
	}

	return post, nil
}

func (s *PostService) publish(ctx context.Context, post *models.Post, in PostInput) error {
	if post.ImageKey != nil {
		u, err := s.store.Put(ctx, *post.ImageKey, in.Image.Body, in.Image.Size, in.Image.ContentType)
		if err != nil {
			return fmt.Errorf("error uploading image: %w", err)
		}
		post.ImageURL = &u
	}

	if post.VideoKey != nil {
		u, err := s.store.Put(ctx, *post.VideoKey, in.Video.Body, in.Video.Size, in.Video.ContentType)
		if err != nil {
			return fmt.Errorf("error uploading video: %w", err)
		}
		post.VideoURL = &u
	}

	if post.AudioKey != nil {
		audio, err := io.ReadAll(in.Audio.Body)
		if err != nil {
			return fmt.Errorf("error reading audio: %w", err)
		}

		u, err := s.store.Put(ctx, *post.AudioKey, bytes.NewReader(audio), int64(len(audio)), in.Audio.ContentType)
		if err != nil {
			return fmt.Errorf("error uploading audio: %w", err)
		}
		post.AudioURL = &u

		text, err := s.transcriber.Transcribe(ctx, audio)
		if err != nil {
			return fmt.Errorf("error transcribing audio: %w", err)
		}
		post.AudioText = &text
	}

	if !common.IsBlank(in.Description) {
		post.Description = ptr(in.Description)
	}

	if err := s.repomanager.Posts(s.db).Finalize(ctx, post); err != nil {
		return fmt.Errorf("error finalizing post: %w", err)
	}

	return nil
}

func ptr[T any](v T) *T { return &v }
