// Package news pulls headlines from third-party news APIs and fuses them
// into one feed.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/pulsecity/internal/server/models"
)

// Fetcher is one news source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, location string) ([]models.NewsItem, error)
}

const (
	feedLanguage = "en"
	feedCountry  = "in"
)

// getJSON issues a GET and decodes a 2xx JSON body into v. Transport errors
// drop the request URL since it carries the API key.
func getJSON(ctx context.Context, client *http.Client, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			return fmt.Errorf("%s %s: %w", ue.Op, req.URL.Host, ue.Err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
