package models

import "time"

// PostStatus tracks a post through staging and finalization.
type PostStatus string

const (
	PostPending   PostStatus = "pending"
	PostPublished PostStatus = "published"
	PostFailed    PostStatus = "failed"
)

// MediaKind names an attachment slot of a post.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// Post is one user-submitted report. Optional fields are nil when absent.
type Post struct {
	ID        string
	AuthorUID string
	Status    PostStatus

	// Object keys planned at staging time. They let the sweeper delete
	// uploads of posts that never got finalized.
	ImageKey *string
	VideoKey *string
	AudioKey *string

	ImageURL    *string
	VideoURL    *string
	AudioURL    *string
	Description *string
	AudioText   *string

	Latitude  float64
	Longitude float64

	CreatedAt   time.Time
	PublishedAt *time.Time
}

// Keys returns the planned object keys that are set.
func (p *Post) Keys() []string {
	var keys []string
	for _, k := range []*string{p.ImageKey, p.VideoKey, p.AudioKey} {
		if k != nil && *k != "" {
			keys = append(keys, *k)
		}
	}
	return keys
}
