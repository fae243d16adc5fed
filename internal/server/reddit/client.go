package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/pulsecity/internal/common"
)

type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	tokens     tokenSource
	httpClient *http.Client
	baseURL    string
	subreddit  string
	limit      int
	userAgent  string
}

func NewClient(tokens tokenSource, httpClient *http.Client, baseURL, subreddit string, limit int, userAgent string) *Client {
	return &Client{
		tokens:     tokens,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		subreddit:  subreddit,
		limit:      limit,
		userAgent:  userAgent,
	}
}

func (c *Client) listingURL() string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.limit))
	return fmt.Sprintf("%s/r/%s/new?%s", c.baseURL, url.PathEscape(c.subreddit), q.Encode())
}

// FetchNewPosts returns the raw listing JSON of the configured subreddit.
// Token failures yield common.ErrUpstreamAuth; listing failures yield
// common.ErrUpstreamDependency.
func (c *Client) FetchNewPosts(ctx context.Context) (json.RawMessage, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listingURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamDependency, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: reddit listing: %v", common.ErrUpstreamDependency, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reddit listing: %v", common.ErrUpstreamDependency, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: reddit listing: status %d", common.ErrUpstreamDependency, resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: reddit listing: malformed body", common.ErrUpstreamDependency)
	}

	return json.RawMessage(body), nil
}
