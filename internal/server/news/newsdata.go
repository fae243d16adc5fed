package news

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/pulsecity/internal/server/models"
)

// NewsData reads the latest headlines from NewsData.io. The location hint
// is not used by this source.
type NewsData struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewNewsData(client *http.Client, baseURL, apiKey string) *NewsData {
	return &NewsData{client: client, baseURL: baseURL, apiKey: apiKey}
}

func (n *NewsData) Name() string { return "newsdata" }

type newsDataResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
		VideoURL    string `json:"video_url"`
		PubDate     string `json:"pubDate"`
	} `json:"results"`
}

func (n *NewsData) Fetch(ctx context.Context, _ string) ([]models.NewsItem, error) {
	q := url.Values{}
	q.Set("language", feedLanguage)
	q.Set("country", feedCountry)
	q.Set("apikey", n.apiKey)

	var body newsDataResponse
	if err := getJSON(ctx, n.client, n.baseURL+"?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	if body.Results == nil {
		return nil, errors.New("missing results")
	}

	items := make([]models.NewsItem, 0, len(body.Results))
	for _, r := range body.Results {
		items = append(items, models.NewsItem{
			Title:       r.Title,
			Description: r.Description,
			ImageURL:    r.ImageURL,
			VideoURL:    r.VideoURL,
			PubDate:     r.PubDate,
		})
	}
	return items, nil
}
