package news

import (
	"context"

	"github.com/dmitrijs2005/pulsecity/internal/logging"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
)

// Fusion queries its sources in order and concatenates what they return.
type Fusion struct {
	sources []Fetcher
	log     logging.Logger
}

func NewFusion(log logging.Logger, sources ...Fetcher) *Fusion {
	return &Fusion{sources: sources, log: log}
}

// FetchFused never fails: a source that errors contributes no items.
// Items are not de-duplicated or reordered, and their location is left empty.
func (f *Fusion) FetchFused(ctx context.Context, location string) []models.NewsItem {
	fused := make([]models.NewsItem, 0)

	for _, src := range f.sources {
		items, err := src.Fetch(ctx, location)
		if err != nil {
			f.log.Warn(ctx, "news source failed", "source", src.Name(), "error", err)
			continue
		}
		for _, it := range items {
			it.Location = ""
			fused = append(fused, it)
		}
	}

	return fused
}
