package news

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/pulsecity/internal/server/models"
)

// GNews searches top headlines on gnews.io using the location as query.
type GNews struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewGNews(client *http.Client, baseURL, apiKey string) *GNews {
	return &GNews{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (g *GNews) Name() string { return "gnews" }

type gnewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Image       string `json:"image"`
		VideoURL    string `json:"video_url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (g *GNews) Fetch(ctx context.Context, location string) ([]models.NewsItem, error) {
	q := url.Values{}
	if location != "" {
		q.Set("q", location)
	}
	q.Set("lang", feedLanguage)
	q.Set("country", feedCountry)
	q.Set("apikey", g.apiKey)

	var body gnewsResponse
	if err := getJSON(ctx, g.client, g.baseURL+"?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	if body.Articles == nil {
		return nil, errors.New("missing articles")
	}

	items := make([]models.NewsItem, 0, len(body.Articles))
	for _, a := range body.Articles {
		items = append(items, models.NewsItem{
			Title:       a.Title,
			Description: a.Description,
			ImageURL:    a.Image,
			VideoURL:    a.VideoURL,
			PubDate:     a.PublishedAt,
		})
	}
	return items, nil
}
